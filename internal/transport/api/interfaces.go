package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, args service.UpdateUserArgs) (*domain.User, error)
	Delete(ctx context.Context, userID int64) error
}

type ProductServicer interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, productID int64) (*domain.Product, error)
	Create(ctx context.Context, args repoargs.CreateProduct) (*domain.Product, error)
	Update(ctx context.Context, args repoargs.UpdateProduct) (*domain.Product, error)
	Delete(ctx context.Context, productID int64) error
}

type CartServicer interface {
	GetCartForUser(ctx context.Context, userID int64) (*domain.Cart, error)
	Provision(ctx context.Context, userID int64) (*domain.Cart, error)
	GetCart(ctx context.Context, requester service.Requester, cartID int64) (*domain.Cart, error)
	Items(ctx context.Context, requester service.Requester, cartID int64) ([]domain.CartItem, error)
	AddItem(
		ctx context.Context,
		requester service.Requester,
		args service.AddCartItemArgs,
	) (*domain.CartItem, error)
	UpdateItem(
		ctx context.Context,
		requester service.Requester,
		cartItemID int64,
		quantity int32,
	) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, requester service.Requester, cartItemID int64) error
	Total(ctx context.Context, requester service.Requester, cartID int64) (decimal.Decimal, error)
}

type OrderServicer interface {
	Checkout(ctx context.Context, buyerID, cartID int64) (*domain.OrderSummary, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	Items(ctx context.Context, requester service.Requester, orderID int64) ([]domain.OrderItem, error)
}

type InvoiceServicer interface {
	GeneratePDF(ctx context.Context, requester service.Requester, orderID int64) ([]byte, error)
}
