package invoice

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Invoice данные счета, готовые к рендерингу. Цены в позициях - снимки на момент покупки.
type Invoice struct {
	Number       string
	Date         string
	BuyerName    string
	BuyerAddress string
	Lines        []Line
	TotalPrice   decimal.Decimal
}

type Line struct {
	ProductName     string
	Quantity        int32
	PriceAtPurchase decimal.Decimal
	LineTotal       decimal.Decimal
}

const (
	colProduct = 80.0
	colQty     = 25.0
	colPrice   = 40.0
	colTotal   = 45.0
	rowHeight  = 8.0
)

// RenderPDF рендерит счет в pdf документ и возвращает его байты.
func RenderPDF(inv *Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Invoice "+inv.Number)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Date: "+inv.Date)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Buyer: "+inv.BuyerName)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Address: "+inv.BuyerAddress)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colProduct, rowHeight, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, rowHeight, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colPrice, rowHeight, "Unit price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, rowHeight, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range inv.Lines {
		pdf.CellFormat(colProduct, rowHeight, line.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, rowHeight, decimal.NewFromInt32(line.Quantity).String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colPrice, rowHeight, line.PriceAtPurchase.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, rowHeight, line.LineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colProduct+colQty+colPrice, rowHeight, "Total due", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, rowHeight, inv.TotalPrice.StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "rendering invoice pdf")
	}
	return buf.Bytes(), nil
}
