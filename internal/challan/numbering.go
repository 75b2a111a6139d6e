package challan

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const invoiceNumberWidth = 6

// NumberSource returns the invoice number of the completed challan that sorts highest,
// or "" when none exists.
type NumberSource interface {
	LastCompletedInvoiceNumber(ctx context.Context) (string, error)
}

// FallbackCounter records allocations that fell back to the clock.
type FallbackCounter interface {
	InvoiceNumberFallback()
}

// Allocator hands out sequential 6-digit invoice numbers.
// Concurrent callers can receive the same number; the unique index rejects the loser.
type Allocator struct {
	source  NumberSource
	logger  *slog.Logger
	metrics FallbackCounter
	now     func() time.Time
}

// NewAllocator builds an allocator backed by source.
func NewAllocator(source NumberSource, logger *slog.Logger, metrics FallbackCounter) *Allocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Allocator{source: source, logger: logger, metrics: metrics, now: time.Now}
}

// Next returns the number following the highest completed invoice number.
func (a *Allocator) Next(ctx context.Context) string {
	last, err := a.source.LastCompletedInvoiceNumber(ctx)
	if err != nil {
		a.logger.Error("invoice number lookup failed, using timestamp fallback", "error", err)
		if a.metrics != nil {
			a.metrics.InvoiceNumberFallback()
		}
		return timestampNumber(a.now())
	}
	if last == "" {
		return formatInvoiceNumber(1)
	}
	return formatInvoiceNumber(parseInvoiceNumber(last) + 1)
}

// DraftNumber returns the temporary number for a draft created at now.
func DraftNumber(now time.Time) string {
	return fmt.Sprintf("DRAFT-%d", now.UnixMilli())
}

func parseInvoiceNumber(s string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func formatInvoiceNumber(n int64) string {
	return fmt.Sprintf("%0*d", invoiceNumberWidth, n)
}

func timestampNumber(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > invoiceNumberWidth {
		ms = ms[len(ms)-invoiceNumberWidth:]
	}
	return strings.Repeat("0", invoiceNumberWidth-len(ms)) + ms
}
