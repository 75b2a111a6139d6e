package challan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chamunda-enterprise/challan/internal/challan/export"
)

// mockRepository is an in-memory Repository.
type mockRepository struct {
	mu       sync.Mutex
	challans map[uuid.UUID]*Challan
	clock    time.Time

	lastNumberErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		challans: make(map[uuid.UUID]*Challan),
		clock:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func clone(c *Challan) *Challan {
	cp := *c
	cp.Items = append([]Item(nil), c.Items...)
	return &cp
}

func (m *mockRepository) Get(_ context.Context, id uuid.UUID) (*Challan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.challans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(c), nil
}

func (m *mockRepository) GetByInvoiceNumber(_ context.Context, invoiceNumber string) (*Challan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.challans {
		if c.InvoiceNumber == invoiceNumber {
			return clone(c), nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepository) filtered(status Status) []Challan {
	out := []Challan{}
	for _, c := range m.challans {
		if status == "" || c.Status == status {
			out = append(out, *clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockRepository) List(_ context.Context, req ListRequest) ([]Challan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.filtered(req.Status)
	if req.Offset >= len(all) {
		return []Challan{}, nil
	}
	end := req.Offset + req.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[req.Offset:end], nil
}

func (m *mockRepository) Count(_ context.Context, status Status) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filtered(status)), nil
}

func (m *mockRepository) LastCompletedInvoiceNumber(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastNumberErr != nil {
		return "", m.lastNumberErr
	}
	last := ""
	for _, c := range m.challans {
		if c.Status == StatusCompleted && c.InvoiceNumber > last {
			last = c.InvoiceNumber
		}
	}
	return last, nil
}

func (m *mockRepository) CompletedBetween(_ context.Context, from, to string) ([]Challan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Challan{}
	for _, c := range m.challans {
		if c.Status == StatusCompleted && c.Date >= from && c.Date <= to {
			out = append(out, *clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].InvoiceNumber < out[j].InvoiceNumber
	})
	return out, nil
}

func (m *mockRepository) uniqueNumber(c *Challan) error {
	for id, other := range m.challans {
		if id != c.ID && other.InvoiceNumber == c.InvoiceNumber {
			return fmt.Errorf("%w: %s", ErrDuplicateNumber, c.InvoiceNumber)
		}
	}
	return nil
}

func (m *mockRepository) Create(_ context.Context, c *Challan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	if err := m.uniqueNumber(c); err != nil {
		return err
	}
	now := m.tick()
	c.CreatedAt, c.UpdatedAt = now, now
	m.challans[c.ID] = clone(c)
	return nil
}

func (m *mockRepository) Update(_ context.Context, c *Challan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.challans[c.ID]; !ok {
		return ErrNotFound
	}
	if err := m.uniqueNumber(c); err != nil {
		return err
	}
	c.UpdatedAt = m.tick()
	m.challans[c.ID] = clone(c)
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.challans[id]; !ok {
		return ErrNotFound
	}
	delete(m.challans, id)
	return nil
}

// mockRenderer writes a small placeholder file per render.
type mockRenderer struct {
	dir      string
	rendered []*export.InvoiceData
	err      error
}

func (r *mockRenderer) Render(_ context.Context, data *export.InvoiceData) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.rendered = append(r.rendered, data)
	path := filepath.Join(r.dir, fmt.Sprintf("%s-%d.pdf", data.InvoiceNumber, len(r.rendered)))
	if err := os.WriteFile(path, []byte("%PDF-1.3 test"), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// mockMetrics counts workflow events.
type mockMetrics struct {
	finalized map[string]int
	fallbacks int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{finalized: map[string]int{}}
}

func (m *mockMetrics) InvoiceFinalized(via string) { m.finalized[via]++ }
func (m *mockMetrics) InvoiceNumberFallback()      { m.fallbacks++ }
