package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/chamunda-enterprise/challan/internal/jobs"
	"github.com/chamunda-enterprise/challan/internal/reports"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportGenerator builds and stores a monthly workbook.
type ReportGenerator interface {
	Generate(ctx context.Context, year, month int, origin string) (*reports.Workbook, error)
}

// MonthlyReportJob regenerates the stored workbook for a month.
type MonthlyReportJob struct {
	Reports ReportGenerator
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Timeout time.Duration
	clock   func() time.Time
}

// NewMonthlyReportJob wires dependencies for the report handler.
func NewMonthlyReportJob(generator ReportGenerator, logger *slog.Logger, metrics *jobmetrics.Metrics) *MonthlyReportJob {
	return &MonthlyReportJob{
		Reports: generator,
		Logger:  logger,
		Metrics: metrics,
		Timeout: 2 * time.Minute,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskMonthlyReport tasks.
func (j *MonthlyReportJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("monthly report: handler not configured")
	}
	var payload MonthlyReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("monthly report: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	year, month := j.period(payload)

	tracker := j.metrics().Track(TaskMonthlyReport)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("year", year), slog.Int("month", month))
	logger.Info("starting monthly report")

	runCtx := ctx
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	wb, err := j.Reports.Generate(runCtx, year, month, reports.OriginScheduler)
	switch {
	case errors.Is(err, reports.ErrNoInvoices):
		j.metrics().Skipped(TaskMonthlyReport, "no_invoices")
		logger.Info("no completed invoices for month")
		return resultErr
	case errors.Is(err, reports.ErrInvalidPeriod):
		resultErr = fmt.Errorf("monthly report: %v: %w", err, asynq.SkipRetry)
		logger.Error("invalid report period", slog.Any("error", err))
		return resultErr
	case err != nil:
		resultErr = err
		logger.Error("generate monthly report", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed monthly report", slog.String("filename", wb.Filename), slog.Int("invoices", wb.InvoicesCount))
	return resultErr
}

// period resolves a zero payload to the month before now.
func (j *MonthlyReportJob) period(p MonthlyReportPayload) (int, int) {
	if p.Year > 0 && p.Month > 0 {
		return p.Year, p.Month
	}
	now := j.now()
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	year, month := prev.Year(), int(prev.Month())
	if p.Year > 0 {
		year = p.Year
	}
	if p.Month > 0 {
		month = p.Month
	}
	return year, month
}

func (j *MonthlyReportJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskMonthlyReport))
	}
	return slog.Default().With(slog.String("job", TaskMonthlyReport))
}

func (j *MonthlyReportJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *MonthlyReportJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
