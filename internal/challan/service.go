package challan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chamunda-enterprise/challan/internal/challan/export"
	"github.com/chamunda-enterprise/challan/internal/shared"
)

// Renderer writes an invoice PDF and returns its path. The caller removes the file.
type Renderer interface {
	Render(ctx context.Context, data *export.InvoiceData) (string, error)
}

// Metrics receives workflow events.
type Metrics interface {
	FallbackCounter
	InvoiceFinalized(via string)
}

// Service provides business logic for challans.
type Service struct {
	repo      Repository
	allocator *Allocator
	renderer  Renderer
	metrics   Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new service.
func NewService(repo Repository, renderer Renderer, logger *slog.Logger, metrics Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	var fallback FallbackCounter
	if metrics != nil {
		fallback = metrics
	}
	return &Service{
		repo:      repo,
		allocator: NewAllocator(repo, logger, fallback),
		renderer:  renderer,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new challan, allocating an invoice number when it is created completed.
func (s *Service) Create(ctx context.Context, req ChallanRequest) (*Challan, error) {
	if err := ValidateFinal(req.Date, req.Buyer, req.Items); err != nil {
		return nil, err
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	items, err := normalizeAndValidate(req.Items)
	if err != nil {
		return nil, err
	}

	c := &Challan{
		Date:       req.Date,
		Buyer:      req.Buyer,
		BuyerGSTIN: req.BuyerGSTIN,
		Note1:      req.Note1,
		Note2:      req.Note2,
		Note3:      req.Note3,
		Note4:      req.Note4,
		Items:      items,
		Status:     status,
	}
	if status == StatusCompleted {
		c.InvoiceNumber = s.allocator.Next(ctx)
	} else {
		c.InvoiceNumber = DraftNumber(s.now())
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create challan: %w", err)
	}
	if status == StatusCompleted {
		s.finalized("create")
	}
	return c, nil
}

// List returns one page of challans, newest first, with pagination metadata.
func (s *Service) List(ctx context.Context, status string, page, limit int) ([]Challan, shared.Pagination, error) {
	p := shared.NewPagination(page, limit, 0)
	req := ListRequest{Status: Status(status), Limit: p.Limit, Offset: p.Offset()}

	var (
		challans []Challan
		total    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		challans, err = s.repo.List(gctx, req)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, req.Status)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list challans: %w", err)
	}
	return challans, shared.NewPagination(p.Page, p.Limit, total), nil
}

// Get loads a challan by its id. Malformed ids are reported as not found.
func (s *Service) Get(ctx context.Context, rawID string) (*Challan, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Update applies a partial update. Moving a draft to completed allocates its number;
// a completed challan keeps its number and cannot return to draft.
func (s *Service) Update(ctx context.Context, rawID string, req UpdateRequest) (*Challan, error) {
	c, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}

	finalize := false
	if req.Status != nil && *req.Status != "" {
		next := *req.Status
		if !next.IsValid() {
			return nil, ErrInvalidStatus
		}
		if !c.Status.CanTransitionTo(next) {
			return nil, ErrCannotRevert
		}
		finalize = c.Status == StatusDraft && next == StatusCompleted
		c.Status = next
	}

	if req.Date != nil && *req.Date != "" {
		c.Date = *req.Date
	}
	if req.Buyer != nil && *req.Buyer != "" {
		c.Buyer = *req.Buyer
	}
	if req.BuyerGSTIN != nil {
		c.BuyerGSTIN = *req.BuyerGSTIN
	}
	if req.Note1 != nil {
		c.Note1 = *req.Note1
	}
	if req.Note2 != nil {
		c.Note2 = *req.Note2
	}
	if req.Note3 != nil {
		c.Note3 = *req.Note3
	}
	if req.Note4 != nil {
		c.Note4 = *req.Note4
	}
	if req.Items != nil {
		items, err := normalizeAndValidate(*req.Items)
		if err != nil {
			return nil, err
		}
		c.Items = items
	}

	if finalize {
		c.InvoiceNumber = s.allocator.Next(ctx)
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update challan: %w", err)
	}
	if finalize {
		s.finalized("update")
	}
	return c, nil
}

// SaveDraft creates a draft when req has no id, otherwise overwrites the draft it names.
// The boolean result reports whether a new record was created.
func (s *Service) SaveDraft(ctx context.Context, req ChallanRequest) (*Challan, bool, error) {
	items, err := normalizeAndValidate(req.Items)
	if err != nil {
		return nil, false, err
	}
	date := req.Date
	if date == "" {
		date = indianDate(s.now())
	}

	if req.ID == "" {
		c := &Challan{
			InvoiceNumber: DraftNumber(s.now()),
			Status:        StatusDraft,
		}
		applyRequest(c, req, date, items)
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, false, fmt.Errorf("create draft: %w", err)
		}
		return c, true, nil
	}

	c, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, false, err
	}
	if c.Status == StatusCompleted {
		return nil, false, ErrCannotRevert
	}
	applyRequest(c, req, date, items)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, false, fmt.Errorf("update draft: %w", err)
	}
	return c, false, nil
}

// SaveAndRender finalizes req (creating or completing a challan) and renders its PDF.
func (s *Service) SaveAndRender(ctx context.Context, req ChallanRequest) (*Challan, string, error) {
	if err := ValidateFinal(req.Date, req.Buyer, req.Items); err != nil {
		return nil, "", err
	}
	items, err := normalizeAndValidate(req.Items)
	if err != nil {
		return nil, "", err
	}

	var c *Challan
	if req.ID != "" {
		c, err = s.Get(ctx, req.ID)
		if err != nil {
			return nil, "", err
		}
		finalize := c.Status == StatusDraft
		if finalize {
			c.InvoiceNumber = s.allocator.Next(ctx)
		}
		applyRequest(c, req, req.Date, items)
		c.Status = StatusCompleted
		if err := s.repo.Update(ctx, c); err != nil {
			return nil, "", fmt.Errorf("complete challan: %w", err)
		}
		if finalize {
			s.finalized("save_download")
		}
	} else {
		c = &Challan{
			InvoiceNumber: s.allocator.Next(ctx),
			Status:        StatusCompleted,
		}
		applyRequest(c, req, req.Date, items)
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, "", fmt.Errorf("create challan: %w", err)
		}
		s.finalized("save_download")
	}

	path, err := s.render(ctx, c)
	if err != nil {
		return nil, "", err
	}
	return c, path, nil
}

// RenderPDF renders the PDF of a completed challan.
func (s *Service) RenderPDF(ctx context.Context, rawID string) (*Challan, string, error) {
	c, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, "", err
	}
	return s.renderCompleted(ctx, c)
}

// RenderPDFByNumber renders the PDF of the completed challan with invoiceNumber.
func (s *Service) RenderPDFByNumber(ctx context.Context, invoiceNumber string) (*Challan, string, error) {
	c, err := s.repo.GetByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, "", err
	}
	return s.renderCompleted(ctx, c)
}

// Delete removes a challan.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) renderCompleted(ctx context.Context, c *Challan) (*Challan, string, error) {
	if c.Status != StatusCompleted {
		return nil, "", ErrNotCompleted
	}
	path, err := s.render(ctx, c)
	if err != nil {
		return nil, "", err
	}
	return c, path, nil
}

func (s *Service) render(ctx context.Context, c *Challan) (string, error) {
	if s.renderer == nil {
		return "", fmt.Errorf("render pdf: no renderer configured")
	}
	path, err := s.renderer.Render(ctx, ToInvoiceData(c))
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}
	return path, nil
}

func (s *Service) finalized(via string) {
	if s.metrics != nil {
		s.metrics.InvoiceFinalized(via)
	}
}

func applyRequest(c *Challan, req ChallanRequest, date string, items []Item) {
	c.Date = date
	c.Buyer = req.Buyer
	c.BuyerGSTIN = req.BuyerGSTIN
	c.Note1 = req.Note1
	c.Note2 = req.Note2
	c.Note3 = req.Note3
	c.Note4 = req.Note4
	c.Items = items
}

func normalizeAndValidate(raw []RawItem) ([]Item, error) {
	items, err := NormalizeItems(raw)
	if err != nil {
		return nil, err
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

// indianDate formats t the way en-IN locales print short dates (d/m/yyyy).
func indianDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}
