package domain

type RoleType string

const (
	RoleAdmin RoleType = "ADMIN"
	RoleUser  RoleType = "USER"
)

type EntityKind string

const (
	EntityUser    EntityKind = "user"
	EntityProduct EntityKind = "product"
	EntityCart    EntityKind = "cart"
	EntityOrder   EntityKind = "order"
)
