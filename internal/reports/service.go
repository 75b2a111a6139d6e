package reports

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/chamunda-enterprise/challan/internal/challan"
)

// Generation origins recorded in metrics.
const (
	OriginHTTP      = "http"
	OriginScheduler = "scheduler"
)

// InvoiceSource lists completed challans dated within [from, to].
type InvoiceSource interface {
	CompletedBetween(ctx context.Context, from, to string) ([]challan.Challan, error)
}

// Metrics receives report generation events.
type Metrics interface {
	ReportGenerated(origin string)
}

// Service coordinates report generation, storage and the listing cache.
type Service struct {
	repo     Repository
	invoices InvoiceSource
	cache    *Cache
	metrics  Metrics
	logger   *slog.Logger
	builds   singleflight.Group
}

// NewService wires the report dependencies. cache and metrics may be nil.
func NewService(repo Repository, invoices InvoiceSource, cache *Cache, logger *slog.Logger, metrics Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, invoices: invoices, cache: cache, metrics: metrics, logger: logger}
}

// MonthRange returns the first and last day of the month as YYYY-MM-DD strings.
func MonthRange(year, month int) (string, string) {
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return fmt.Sprintf("%04d-%02d-01", year, month), fmt.Sprintf("%04d-%02d-%02d", year, month, last)
}

// Generate builds the workbook for the month, stores it and returns it.
// Concurrent calls for the same month share one build.
func (s *Service) Generate(ctx context.Context, year, month int, origin string) (*Workbook, error) {
	if year <= 0 || month < 1 || month > 12 {
		return nil, ErrInvalidPeriod
	}

	key := fmt.Sprintf("%04d-%02d", year, month)
	buildCtx := context.WithoutCancel(ctx)
	resultChan := s.builds.DoChan(key, func() (interface{}, error) {
		return s.generate(buildCtx, year, month, origin)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Workbook), nil
	}
}

func (s *Service) generate(ctx context.Context, year, month int, origin string) (*Workbook, error) {
	from, to := MonthRange(year, month)
	invoices, err := s.invoices.CompletedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	if len(invoices) == 0 {
		return nil, ErrNoInvoices
	}

	wb, err := BuildMonthlyWorkbook(invoices, year, month)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Year:          year,
		Month:         month,
		Filename:      wb.Filename,
		Data:          wb.Buffer,
		Size:          len(wb.Buffer),
		InvoicesCount: wb.InvoicesCount,
	}
	if err := s.repo.Upsert(ctx, report); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("report cache bump failed", "error", err)
	}
	if s.metrics != nil {
		s.metrics.ReportGenerated(origin)
	}
	s.logger.Info("monthly report generated", "filename", wb.Filename, "invoices", wb.InvoicesCount, "origin", origin)
	return wb, nil
}

// List returns stored report metadata, newest month first. Cache failures fall
// back to the repository.
func (s *Service) List(ctx context.Context) ([]ReportFile, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "list")
	if err != nil {
		s.logger.Warn("report cache unavailable", "error", err)
		return s.repo.List(ctx)
	}

	var (
		files     []ReportFile
		loaderErr error
	)
	err = s.cache.FetchJSON(ctx, key, &files, func(ctx context.Context) (any, error) {
		list, err := s.repo.List(ctx)
		loaderErr = err
		return list, err
	})
	if loaderErr != nil {
		return nil, loaderErr
	}
	if err != nil {
		s.logger.Warn("report cache unavailable", "error", err)
		return s.repo.List(ctx)
	}
	if files == nil {
		files = []ReportFile{}
	}
	return files, nil
}

// Download returns the stored report named filename. The name is URL-decoded
// once more; a failed decode keeps it as given.
func (s *Service) Download(ctx context.Context, filename string) (*MonthlyReport, error) {
	if filename == "" {
		return nil, ErrFilenameRequired
	}
	if decoded, err := url.PathUnescape(filename); err == nil {
		filename = decoded
	} else {
		s.logger.Warn("filename decoding failed, using original", "filename", filename)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		return nil, ErrInvalidFilename
	}
	return s.repo.GetByFilename(ctx, filename)
}
