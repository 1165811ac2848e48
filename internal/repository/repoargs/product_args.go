package repoargs

import "github.com/shopspring/decimal"

type CreateProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
}

type UpdateProduct struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
}
