package repoargs

import "github.com/shopspring/decimal"

type OrderItemCreate struct {
	OrderID         int64
	ProductID       int64
	Quantity        int32
	PriceAtPurchase decimal.Decimal
}

type OrderItemBatchQueryRow func(i int, err error)
