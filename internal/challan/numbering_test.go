package challan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	last string
	err  error
}

func (s stubSource) LastCompletedInvoiceNumber(context.Context) (string, error) {
	return s.last, s.err
}

func TestAllocatorNext(t *testing.T) {
	cases := []struct {
		name string
		last string
		want string
	}{
		{"no completed invoices", "", "000001"},
		{"plain number", "000042", "000043"},
		{"prefixed number", "INV-000009", "000010"},
		{"no digits", "ABC", "000001"},
		{"grows past six digits", "999999", "1000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAllocator(stubSource{last: tc.last}, nil, nil)
			assert.Equal(t, tc.want, a.Next(context.Background()))
		})
	}
}

func TestAllocatorFallsBackToTimestamp(t *testing.T) {
	metrics := newMockMetrics()
	a := NewAllocator(stubSource{err: errors.New("connection refused")}, nil, metrics)
	a.now = func() time.Time { return time.UnixMilli(1736936400123) }

	assert.Equal(t, "400123", a.Next(context.Background()))
	assert.Equal(t, 1, metrics.fallbacks)
}

func TestTimestampNumberPadsShortValues(t *testing.T) {
	assert.Equal(t, "000042", timestampNumber(time.UnixMilli(42)))
}

func TestDraftNumber(t *testing.T) {
	assert.Equal(t, "DRAFT-1736936400123", DraftNumber(time.UnixMilli(1736936400123)))
}
