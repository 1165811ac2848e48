package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/gin-gonic/gin"
)

type InvoicesHandler struct {
	invoiceService InvoiceServicer
}

func NewInvoicesHandler(invoiceService InvoiceServicer) *InvoicesHandler {
	return &InvoicesHandler{
		invoiceService: invoiceService,
	}
}

// PDF GET RouteGroup + InvoicesRoute + /:orderId/pdf. Отдает счет по заказу в виде pdf.
// Доступ - владелец заказа либо админ.
func (h *InvoicesHandler) PDF(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	pdf, err := h.invoiceService.GeneratePDF(ctx, getRequesterFromContext(c), orderID)
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

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.pdf", orderID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
