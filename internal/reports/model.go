// Package reports builds, stores and serves the monthly invoice workbooks.
package reports

import (
	"time"

	"github.com/chamunda-enterprise/challan/internal/platform/httpx"
)

// MonthlyReport is a stored workbook snapshot for one calendar month.
type MonthlyReport struct {
	ID            int64
	Year          int
	Month         int
	Filename      string
	Data          []byte
	Size          int
	InvoicesCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReportFile is the listing view of a stored report.
type ReportFile struct {
	Filename      string    `json:"filename"`
	Size          int       `json:"size"`
	CreatedAt     time.Time `json:"createdAt"`
	ModifiedAt    time.Time `json:"modifiedAt"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	InvoicesCount int       `json:"invoicesCount"`
}

// Domain errors for monthly reports.
var (
	ErrNoInvoices       = httpx.NotFound("No invoices found for the specified month")
	ErrInvalidPeriod    = httpx.Invalid("Invalid year or month")
	ErrFilenameRequired = httpx.Invalid("Filename is required")
	ErrInvalidFilename  = httpx.Invalid("Invalid filename format. Expected .xlsx file.")
	ErrFileNotFound     = httpx.NotFound("File not found")
)

// SpreadsheetContentType is the MIME type of .xlsx downloads.
const SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
