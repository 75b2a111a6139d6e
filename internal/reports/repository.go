package reports

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists generated workbooks.
type Repository interface {
	Upsert(ctx context.Context, report *MonthlyReport) error
	List(ctx context.Context) ([]ReportFile, error)
	GetByFilename(ctx context.Context, filename string) (*MonthlyReport, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Upsert stores report, replacing any earlier snapshot of the same month.
func (r *repository) Upsert(ctx context.Context, report *MonthlyReport) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO monthly_reports (year, month, filename, data, size, invoices_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (year, month) DO UPDATE
		SET filename = EXCLUDED.filename,
		    data = EXCLUDED.data,
		    size = EXCLUDED.size,
		    invoices_count = EXCLUDED.invoices_count,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		report.Year, report.Month, report.Filename, report.Data, report.Size, report.InvoicesCount,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

// List returns report metadata, newest month first.
func (r *repository) List(ctx context.Context) ([]ReportFile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT filename, size, created_at, updated_at, year, month, invoices_count
		FROM monthly_reports
		ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []ReportFile{}
	for rows.Next() {
		var f ReportFile
		if err := rows.Scan(&f.Filename, &f.Size, &f.CreatedAt, &f.ModifiedAt, &f.Year, &f.Month, &f.InvoicesCount); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// GetByFilename loads a stored report including its workbook bytes.
func (r *repository) GetByFilename(ctx context.Context, filename string) (*MonthlyReport, error) {
	var m MonthlyReport
	err := r.pool.QueryRow(ctx, `
		SELECT id, year, month, filename, data, size, invoices_count, created_at, updated_at
		FROM monthly_reports
		WHERE filename = $1`, filename,
	).Scan(&m.ID, &m.Year, &m.Month, &m.Filename, &m.Data, &m.Size, &m.InvoicesCount, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &m, nil
}
