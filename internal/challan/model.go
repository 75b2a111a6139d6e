// Package challan manages delivery-challan invoices: drafts, finalization with a
// sequential invoice number, persistence, and PDF delivery.
package challan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle of a challan.
type Status string

const (
	StatusDraft     Status = "draft"     // Temporary DRAFT-<ms> number, freely editable
	StatusCompleted Status = "completed" // Sequential invoice number assigned
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Completed challans never return to draft.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.IsValid() {
		return false
	}
	return !(s == StatusCompleted && next == StatusDraft)
}

// DefaultUnit is the unit used when an item does not name one.
const DefaultUnit = "PCS"

// Challan is an invoice / delivery-note record.
type Challan struct {
	ID            uuid.UUID `json:"_id"`
	InvoiceNumber string    `json:"invoiceNumber"`
	Date          string    `json:"date"`
	Buyer         string    `json:"buyer"`
	BuyerGSTIN    string    `json:"buyerGstin"`
	Note1         string    `json:"note1"`
	Note2         string    `json:"note2"`
	Note3         string    `json:"note3"`
	Note4         string    `json:"note4"`
	Items         []Item    `json:"items" validate:"dive"`
	Status        Status    `json:"status" validate:"oneof=draft completed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Item is one line of a challan.
type Item struct {
	Description string  `json:"description" validate:"required"`
	SizeHeight  string  `json:"sizeHeight"`
	SizeWidth   string  `json:"sizeWidth"`
	Nos         string  `json:"nos"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Rate        float64 `json:"rate" validate:"gte=0"`
	Per         string  `json:"per"`
}

// Amount returns quantity × rate.
func (i Item) Amount() decimal.Decimal {
	return decimal.NewFromFloat(i.Quantity).Mul(decimal.NewFromFloat(i.Rate))
}

// Total sums the amounts of all items.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount())
	}
	return total
}

// Total returns the net amount of the challan.
func (c *Challan) Total() decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return Total(c.Items)
}

// IsDraft reports whether the challan still carries a temporary number.
func (c *Challan) IsDraft() bool {
	return c != nil && c.Status == StatusDraft
}
