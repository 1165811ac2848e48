package service

import (
	"fmt"

	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	UserService    *UserService
	ProductService *ProductService
	CartService    *CartService
	OrderService   *OrderService
	InvoiceService *InvoiceService
}

func Factory(unitOfWork uow.UOW, jwtSecret []byte, hasher PasswordHasher, l *logrus.Logger) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, jwtSecret, hasher)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	productService, productServiceErr := NewProductService(unitOfWork)
	if productServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", productServiceErr.Error())
	}

	cartService, cartServiceErr := NewCartService(unitOfWork)
	if cartServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", cartServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork, l)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	invoiceService, invoiceServiceErr := NewInvoiceService(unitOfWork)
	if invoiceServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", invoiceServiceErr.Error())
	}

	return &AppServices{
		UserService:    userService,
		ProductService: productService,
		CartService:    cartService,
		OrderService:   orderService,
		InvoiceService: invoiceService,
	}, nil
}
