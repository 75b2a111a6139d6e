package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/chamunda-enterprise/challan/internal/challan"
)

// SheetName is the single worksheet of a monthly workbook.
const SheetName = "Monthly Invoices"

var (
	workbookHeaders = []interface{}{"Invoice Number", "Date", "Buyer", "Buyer GSTIN", "Total Amount"}
	workbookWidths  = []float64{15, 12, 30, 20, 15}
)

// Workbook is a generated monthly spreadsheet.
type Workbook struct {
	Buffer        []byte
	Filename      string
	InvoicesCount int
}

// MonthlyFilename returns "<lowercase month name><year>.xlsx".
func MonthlyFilename(year, month int) string {
	return fmt.Sprintf("%s%d.xlsx", strings.ToLower(time.Month(month).String()), year)
}

// BuildMonthlyWorkbook writes one row per invoice under a fixed header row.
func BuildMonthlyWorkbook(invoices []challan.Challan, year, month int) (*Workbook, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidPeriod
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &workbookHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, inv := range invoices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			inv.InvoiceNumber,
			inv.Date,
			inv.Buyer,
			inv.BuyerGSTIN,
			inv.Total().StringFixed(2),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for i, width := range workbookWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &Workbook{
		Buffer:        buf.Bytes(),
		Filename:      MonthlyFilename(year, month),
		InvoicesCount: len(invoices),
	}, nil
}
