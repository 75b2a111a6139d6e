package challan

import (
	"errors"

	"github.com/chamunda-enterprise/challan/internal/platform/httpx"
)

// Domain errors for challans.
var (
	// ErrNotFound indicates the requested challan was not found.
	ErrNotFound = httpx.NotFound("Challan not found")

	// Validation errors.
	ErrMissingFields   = httpx.Invalid("Missing required fields: date, buyer, and items are required")
	ErrInvalidStatus   = httpx.Invalid("status must be draft or completed")
	ErrNotCompleted    = httpx.Invalid("Can only download PDF for completed invoices")
	ErrCannotRevert    = httpx.Invalid("Completed invoices cannot be reverted to draft")
	ErrDuplicateNumber = errors.New("invoice number already exists")
)
