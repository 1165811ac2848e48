package repoargs

type CreateCartItem struct {
	CartID    int64
	ProductID int64
	Quantity  int32
}

type UpdateCartItem struct {
	ID       int64
	Quantity int32
}
