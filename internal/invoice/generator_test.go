package invoice

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPDF(t *testing.T) {
	inv := &Invoice{
		Number:       "INV_7",
		Date:         "2025-03-14",
		BuyerName:    "buyer",
		BuyerAddress: "Main st. 1",
		Lines: []Line{
			{
				ProductName:     "widget",
				Quantity:        2,
				PriceAtPurchase: decimal.RequireFromString("50.00"),
				LineTotal:       decimal.RequireFromString("100.00"),
			},
		},
		TotalPrice: decimal.RequireFromString("100.00"),
	}

	pdf, err := RenderPDF(inv)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.NotEmpty(t, pdf)
}
