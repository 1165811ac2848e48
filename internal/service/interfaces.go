package service

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, args repoargs.UpdateUser) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	DebitBalance(ctx context.Context, userID int64, amount decimal.Decimal) error
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, args repoargs.CreateProduct) (*domain.Product, error)
	FindProductByID(ctx context.Context, productID int64) (*domain.Product, error)
	FindProductsByIDs(ctx context.Context, productIDs []int64) ([]domain.Product, error)
	GetAll(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, args repoargs.UpdateProduct) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
	DecrementStock(ctx context.Context, productID int64, qty int32) error
}

type CartRepository interface {
	CreateCart(ctx context.Context, userID int64) (*domain.Cart, error)
	FindCartByID(ctx context.Context, cartID int64) (*domain.Cart, error)
	FindCartByUserID(ctx context.Context, userID int64) (*domain.Cart, error)
	DeleteCart(ctx context.Context, cartID int64) error
	GetItems(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	FindItemByID(ctx context.Context, cartItemID int64) (*domain.CartItem, error)
	AddItem(ctx context.Context, args repoargs.CreateCartItem) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, args repoargs.UpdateCartItem) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, cartItemID int64) error
	DeleteItemsByCartID(ctx context.Context, cartID int64) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, userID int64, totalPrice decimal.Decimal) (*domain.Order, error)
	BatchCreateItems(ctx context.Context, items []repoargs.OrderItemCreate, fn repoargs.OrderItemBatchQueryRow)
	FindOrderByID(ctx context.Context, orderID int64) (*domain.Order, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetItemsByOrderID(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
}
