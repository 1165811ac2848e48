package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	orderService OrderServicer
}

func NewOrdersHandler(orderService OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderService: orderService,
	}
}

type OrderResponse struct {
	ID         int64     `json:"ID"`
	UserID     int64     `json:"userID"`
	TotalPrice float64   `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

type OrderItemResponse struct {
	ID              int64   `json:"ID"`
	OrderID         int64   `json:"orderID"`
	ProductID       int64   `json:"productID"`
	Quantity        int32   `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
}

func newOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:         order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice.InexactFloat64(),
		CreatedAt:  order.CreatedAt,
	}
}

// Index GET RouteGroup + OrdersRoute. Только для админа.
func (h *OrdersHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := h.orderService.GetAll(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = newOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, response)
}

// My GET RouteGroup + OrdersRoute + /my. Заказы текущего юзера.
func (h *OrdersHandler) My(c *gin.Context) {
	requester := getRequesterFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := h.orderService.GetByUserID(ctx, requester.UserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(orders) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	response := make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = newOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, response)
}

// Items GET RouteGroup + OrdersRoute + /:orderId/items. Доступ - владелец заказа либо админ.
func (h *OrdersHandler) Items(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	items, err := h.orderService.Items(ctx, getRequesterFromContext(c), orderID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOwnerConflict):
			c.AbortWithStatus(http.StatusForbidden)
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	response := make([]OrderItemResponse, len(items))
	for i, item := range items {
		response[i] = OrderItemResponse{
			ID:              item.ID,
			OrderID:         item.OrderID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase.InexactFloat64(),
		}
	}
	c.JSON(http.StatusOK, response)
}
