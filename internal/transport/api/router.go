package api

import (
	"sync"
	"time"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup    = "/api"
	RegisterRoute = "/users/register"
	LoginRoute    = "/users/login"
	UsersRoute    = "/users"
	ProductsRoute = "/products"
	CartsRoute    = "/carts"
	OrdersRoute   = "/orders"
	InvoicesRoute = "/invoices"
)

type RouterArgs struct {
	Logger         *logrus.Logger
	UserService    UserServicer
	ProductService ProductServicer
	CartService    CartServicer
	OrderService   OrderServicer
	InvoiceService InvoiceServicer
	JWTSecretKey   []byte
	RateLimitRPS   float64
	RateLimitBurst int
}

var validatorsOnce sync.Once

func New(args RouterArgs) *gin.Engine {
	validatorsOnce.Do(func() {
		if err := registerValidators(); err != nil {
			panic(err)
		}
	})

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())
	if args.RateLimitRPS > 0 {
		r.Use(middlewares.RateLimit(args.RateLimitRPS, args.RateLimitBurst))
	}

	authHandler := NewAuthHandler(args.UserService)
	usersHandler := NewUsersHandler(args.UserService)
	productsHandler := NewProductsHandler(args.ProductService)
	cartsHandler := NewCartsHandler(args.CartService, args.OrderService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	invoicesHandler := NewInvoicesHandler(args.InvoiceService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.

	api.GET(ProductsRoute, productsHandler.Index)
	api.GET(ProductsRoute+"/:productId", productsHandler.Show)

	api.GET(CartsRoute+"/my", cartsHandler.My)
	api.GET(CartsRoute+"/:cartId", cartsHandler.Show)
	api.GET(CartsRoute+"/:cartId/items", cartsHandler.Items)
	api.POST(CartsRoute+"/:cartId/items", cartsHandler.AddItem)
	api.PUT(CartsRoute+"/:cartId/items/:itemId", cartsHandler.UpdateItem)
	api.DELETE(CartsRoute+"/:cartId/items/:itemId", cartsHandler.DeleteItem)
	api.GET(CartsRoute+"/:cartId/total", cartsHandler.Total)
	api.POST(CartsRoute+"/:cartId/checkout", cartsHandler.Checkout)

	api.GET(OrdersRoute+"/my", ordersHandler.My)
	api.GET(OrdersRoute+"/:orderId/items", ordersHandler.Items)

	api.GET(InvoicesRoute+"/:orderId/pdf", invoicesHandler.PDF)

	admin := api.Group("", middlewares.RequireRole(domain.RoleAdmin))
	admin.GET(UsersRoute, usersHandler.Index)
	admin.GET(UsersRoute+"/:username", usersHandler.Show)
	admin.PUT(UsersRoute, usersHandler.Update)
	admin.DELETE(UsersRoute+"/:userId", usersHandler.Delete)

	admin.POST(ProductsRoute, productsHandler.Create)
	admin.PUT(ProductsRoute, productsHandler.Update)
	admin.DELETE(ProductsRoute+"/:productId", productsHandler.Delete)

	admin.GET(OrdersRoute, ordersHandler.Index)

	return r
}
