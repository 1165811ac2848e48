package domain

import (
	"github.com/shopspring/decimal"

	"time"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	Email     string
	Password  string
	Role      RoleType
	Address   string
	Balance   decimal.Decimal
}

type Product struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
}

type Cart struct {
	ID     int64
	UserID int64
}

type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int32
}

type Order struct {
	ID         int64
	CreatedAt  time.Time
	UserID     int64
	TotalPrice decimal.Decimal
}

// OrderItem хранит price_at_purchase - снимок цены товара на момент создания заказа.
// Последующие изменения цены товара не затрагивают уже созданные заказы.
type OrderItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	Quantity        int32
	PriceAtPurchase decimal.Decimal
}

// OrderSummary результат успешного чекаута.
type OrderSummary struct {
	OrderID    int64
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}
