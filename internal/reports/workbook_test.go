package reports

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/chamunda-enterprise/challan/internal/challan"
)

func completedInvoice(number, date, buyer string, items ...challan.Item) challan.Challan {
	return challan.Challan{
		InvoiceNumber: number,
		Date:          date,
		Buyer:         buyer,
		BuyerGSTIN:    "24ABCDE1234F1Z5",
		Items:         items,
		Status:        challan.StatusCompleted,
	}
}

func TestBuildMonthlyWorkbook(t *testing.T) {
	invoices := []challan.Challan{
		completedInvoice("000001", "2025-01-03", "Test Co",
			challan.Item{Description: "Widget", Quantity: 2, Rate: 50},
			challan.Item{Description: "Carton", Quantity: 3, Rate: 10.5},
		),
		completedInvoice("000002", "2025-01-20", "Acme"),
	}

	wb, err := BuildMonthlyWorkbook(invoices, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, "january2025.xlsx", wb.Filename)
	assert.Equal(t, 2, wb.InvoicesCount)

	f, err := excelize.OpenReader(bytes.NewReader(wb.Buffer))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Invoice Number", "Date", "Buyer", "Buyer GSTIN", "Total Amount"}, rows[0])
	assert.Equal(t, []string{"000001", "2025-01-03", "Test Co", "24ABCDE1234F1Z5", "131.50"}, rows[1])
	assert.Equal(t, "0.00", rows[2][4])

	width, err := f.GetColWidth(SheetName, "C")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)
}

func TestBuildMonthlyWorkbookRejectsBadMonth(t *testing.T) {
	_, err := BuildMonthlyWorkbook(nil, 2025, 13)
	require.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = BuildMonthlyWorkbook(nil, 2025, 0)
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestMonthlyFilename(t *testing.T) {
	assert.Equal(t, "december2024.xlsx", MonthlyFilename(2024, 12))
	assert.Equal(t, "may2025.xlsx", MonthlyFilename(2025, 5))
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(2024, 2)
	assert.Equal(t, "2024-02-01", from)
	assert.Equal(t, "2024-02-29", to)

	from, to = MonthRange(2025, 12)
	assert.Equal(t, "2025-12-01", from)
	assert.Equal(t, "2025-12-31", to)
}
