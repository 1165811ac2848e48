package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductsHandler struct {
	productService ProductServicer
}

func NewProductsHandler(productService ProductServicer) *ProductsHandler {
	return &ProductsHandler{
		productService: productService,
	}
}

type ProductResponse struct {
	ID          int64   `json:"ID"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int32   `json:"stock"`
}

func newProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.InexactFloat64(),
		Stock:       product.Stock,
	}
}

// Index GET RouteGroup + ProductsRoute.
func (h *ProductsHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	products, err := h.productService.GetAll(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]ProductResponse, len(products))
	for i := range products {
		response[i] = newProductResponse(&products[i])
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + ProductsRoute + /:productId.
func (h *ProductsHandler) Show(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.productService.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(product))
}

type ProductCreateParams struct {
	Name        string          `binding:"required,min=1,max=255"  json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `binding:"required"                json:"price"`
	Stock       int32           `binding:"gte=0"                   json:"stock"`
}

// Create POST RouteGroup + ProductsRoute. Только для админа.
func (h *ProductsHandler) Create(c *gin.Context) {
	var params ProductCreateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if params.Price.IsNegative() {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.productService.Create(ctx, repoargs.CreateProduct{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Stock:       params.Stock,
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusCreated, newProductResponse(product))
}

type ProductUpdateParams struct {
	ID          int64           `binding:"required,gt=0"           json:"ID"`
	Name        string          `binding:"required,min=1,max=255"  json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `binding:"required"                json:"price"`
	Stock       int32           `binding:"gte=0"                   json:"stock"`
}

// Update PUT RouteGroup + ProductsRoute. Только для админа.
func (h *ProductsHandler) Update(c *gin.Context) {
	var params ProductUpdateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if params.Price.IsNegative() {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.productService.Update(ctx, repoargs.UpdateProduct{
		ID:          params.ID,
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Stock:       params.Stock,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(product))
}

// Delete DELETE RouteGroup + ProductsRoute + /:productId. Только для админа.
func (h *ProductsHandler) Delete(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.productService.Delete(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}
