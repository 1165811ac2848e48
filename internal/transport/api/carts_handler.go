package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/service"
	"github.com/gin-gonic/gin"
)

type CartsHandler struct {
	cartService  CartServicer
	orderService OrderServicer
}

func NewCartsHandler(cartService CartServicer, orderService OrderServicer) *CartsHandler {
	return &CartsHandler{
		cartService:  cartService,
		orderService: orderService,
	}
}

type CartResponse struct {
	ID     int64 `json:"ID"`
	UserID int64 `json:"userID"`
}

type CartItemResponse struct {
	ID        int64 `json:"ID"`
	CartID    int64 `json:"cartID"`
	ProductID int64 `json:"productID"`
	Quantity  int32 `json:"quantity"`
}

func newCartItemResponse(item *domain.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        item.ID,
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
}

// My GET RouteGroup + CartsRoute + /my. Корзина текущего юзера; если корзины нет
// (был чекаут), заводится новая.
func (h *CartsHandler) My(c *gin.Context) {
	requester := getRequesterFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	cart, err := h.cartService.GetCartForUser(ctx, requester.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			cart, err = h.cartService.Provision(ctx, requester.UserID)
		}
		if err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
			return
		}
	}
	c.JSON(http.StatusOK, CartResponse{ID: cart.ID, UserID: cart.UserID})
}

// Show GET RouteGroup + CartsRoute + /:cartId.
func (h *CartsHandler) Show(c *gin.Context) {
	cartID, ok := pathID(c, "cartId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	cart, err := h.cartService.GetCart(ctx, getRequesterFromContext(c), cartID)
	if err != nil {
		h.abortWithCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, CartResponse{ID: cart.ID, UserID: cart.UserID})
}

// Items GET RouteGroup + CartsRoute + /:cartId/items.
func (h *CartsHandler) Items(c *gin.Context) {
	cartID, ok := pathID(c, "cartId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	items, err := h.cartService.Items(ctx, getRequesterFromContext(c), cartID)
	if err != nil {
		h.abortWithCartError(c, err)
		return
	}

	response := make([]CartItemResponse, len(items))
	for i := range items {
		response[i] = newCartItemResponse(&items[i])
	}
	c.JSON(http.StatusOK, response)
}

type AddCartItemParams struct {
	ProductID int64 `binding:"required,gt=0" json:"productID"`
	Quantity  int32 `binding:"required,gt=0" json:"quantity"`
}

// AddItem POST RouteGroup + CartsRoute + /:cartId/items.
func (h *CartsHandler) AddItem(c *gin.Context) {
	cartID, ok := pathID(c, "cartId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	var params AddCartItemParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	item, err := h.cartService.AddItem(ctx, getRequesterFromContext(c), service.AddCartItemArgs{
		CartID:    cartID,
		ProductID: params.ProductID,
		Quantity:  params.Quantity,
	})
	if err != nil {
		h.abortWithCartError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCartItemResponse(item))
}

type UpdateCartItemParams struct {
	Quantity int32 `binding:"required,gt=0" json:"quantity"`
}

// UpdateItem PUT RouteGroup + CartsRoute + /:cartId/items/:itemId.
func (h *CartsHandler) UpdateItem(c *gin.Context) {
	itemID, ok := pathID(c, "itemId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	var params UpdateCartItemParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	item, err := h.cartService.UpdateItem(ctx, getRequesterFromContext(c), itemID, params.Quantity)
	if err != nil {
		h.abortWithCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartItemResponse(item))
}

// DeleteItem DELETE RouteGroup + CartsRoute + /:cartId/items/:itemId.
func (h *CartsHandler) DeleteItem(c *gin.Context) {
	itemID, ok := pathID(c, "itemId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.cartService.DeleteItem(ctx, getRequesterFromContext(c), itemID); err != nil {
		h.abortWithCartError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

type CartTotalResponse struct {
	Total float64 `json:"total"`
}

// Total GET RouteGroup + CartsRoute + /:cartId/total. Сумма считается на лету по текущим ценам.
func (h *CartsHandler) Total(c *gin.Context) {
	cartID, ok := pathID(c, "cartId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	total, err := h.cartService.Total(ctx, getRequesterFromContext(c), cartID)
	if err != nil {
		h.abortWithCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, CartTotalResponse{Total: total.InexactFloat64()})
}

type OrderSummaryResponse struct {
	OrderID    int64     `json:"orderID"`
	TotalPrice float64   `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Checkout POST RouteGroup + CartsRoute + /:cartId/checkout. Превращает корзину в заказ.
// Покупателем всегда выступает владелец корзины; право вызова - владелец либо админ.
func (h *CartsHandler) Checkout(c *gin.Context) {
	cartID, ok := pathID(c, "cartId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	requester := getRequesterFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	buyerID := requester.UserID
	if requester.IsAdmin() {
		// Админ может выкупить чужую корзину от имени ее владельца.
		cart, cartErr := h.cartService.GetCart(ctx, requester, cartID)
		if cartErr != nil {
			h.abortWithCartError(c, cartErr)
			return
		}
		buyerID = cart.UserID
	}

	summary, err := h.orderService.Checkout(ctx, buyerID, cartID)
	if err != nil {
		var stockErr *domain.StockInsufficientError
		switch {
		case errors.Is(err, domain.ErrCartEmpty):
			_ = c.AbortWithError(http.StatusConflict, errors.New("cart is empty")).
				SetType(gin.ErrorTypePublic)
		case errors.As(err, &stockErr):
			_ = c.AbortWithError(http.StatusConflict, stockErr).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrNotEnoughBalance):
			_ = c.AbortWithError(http.StatusPaymentRequired, errors.New("not enough balance")).
				SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrOwnerConflict):
			c.AbortWithStatus(http.StatusForbidden)
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusCreated, OrderSummaryResponse{
		OrderID:    summary.OrderID,
		TotalPrice: summary.TotalPrice.InexactFloat64(),
		CreatedAt:  summary.CreatedAt,
	})
}

// abortWithCartError общее отображение ошибок корзинных операций на http статусы.
func (h *CartsHandler) abortWithCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOwnerConflict):
		c.AbortWithStatus(http.StatusForbidden)
	case errors.Is(err, domain.ErrNotEnoughStock):
		_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrDuplicateKey):
		_ = c.AbortWithError(http.StatusConflict, errors.New("product already in cart")).
			SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrRecordNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
