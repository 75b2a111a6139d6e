package challan

import (
	"github.com/shopspring/decimal"

	"github.com/chamunda-enterprise/challan/internal/challan/export"
)

// ToInvoiceData maps a challan to the renderer payload.
func ToInvoiceData(c *Challan) *export.InvoiceData {
	if c == nil {
		return nil
	}
	lines := make([]export.Line, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, export.Line{
			Description: item.Description,
			SizeHeight:  item.SizeHeight,
			SizeWidth:   item.SizeWidth,
			Nos:         item.Nos,
			Quantity:    decimal.NewFromFloat(item.Quantity),
			Rate:        decimal.NewFromFloat(item.Rate),
			Per:         item.Per,
		})
	}
	return &export.InvoiceData{
		InvoiceNumber: c.InvoiceNumber,
		Date:          c.Date,
		Buyer:         c.Buyer,
		BuyerGSTIN:    c.BuyerGSTIN,
		Note1:         c.Note1,
		Note2:         c.Note2,
		Note3:         c.Note3,
		Note4:         c.Note4,
		Lines:         lines,
	}
}
