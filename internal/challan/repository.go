package challan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chamunda-enterprise/challan/internal/platform/db"
)

// Repository defines the interface for challan persistence.
type Repository interface {
	// Read operations
	Get(ctx context.Context, id uuid.UUID) (*Challan, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Challan, error)
	List(ctx context.Context, req ListRequest) ([]Challan, error)
	Count(ctx context.Context, status Status) (int, error)
	LastCompletedInvoiceNumber(ctx context.Context) (string, error)
	CompletedBetween(ctx context.Context, from, to string) ([]Challan, error)

	// Write operations
	Create(ctx context.Context, c *Challan) error
	Update(ctx context.Context, c *Challan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// repository implements Repository using pgxpool.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const selectColumns = `
	SELECT id, invoice_number, date, buyer, buyer_gstin, note1, note2, note3, note4,
	       items, status, created_at, updated_at
	FROM challans`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallan(row rowScanner) (*Challan, error) {
	var (
		c     Challan
		items []byte
	)
	if err := row.Scan(
		&c.ID, &c.InvoiceNumber, &c.Date, &c.Buyer, &c.BuyerGSTIN,
		&c.Note1, &c.Note2, &c.Note3, &c.Note4,
		&items, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Items = []Item{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &c.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}
	return &c, nil
}

func collectChallans(rows pgx.Rows) ([]Challan, error) {
	defer rows.Close()
	out := []Challan{}
	for rows.Next() {
		c, err := scanChallan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func encodeItems(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}

// Get retrieves a challan by ID.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Challan, error) {
	c, err := scanChallan(r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByInvoiceNumber retrieves a challan by its invoice number.
func (r *repository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Challan, error) {
	c, err := scanChallan(r.pool.QueryRow(ctx, selectColumns+` WHERE invoice_number = $1`, invoiceNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns one page of challans, newest first.
func (r *repository) List(ctx context.Context, req ListRequest) ([]Challan, error) {
	query := selectColumns + `
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, string(req.Status), req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	return collectChallans(rows)
}

// Count returns the number of challans matching status ("" for all).
func (r *repository) Count(ctx context.Context, status Status) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM challans WHERE ($1 = '' OR status = $1)`, string(status),
	).Scan(&total)
	return total, err
}

// LastCompletedInvoiceNumber returns the completed invoice number that sorts highest.
func (r *repository) LastCompletedInvoiceNumber(ctx context.Context) (string, error) {
	var number string
	err := r.pool.QueryRow(ctx, `
		SELECT invoice_number FROM challans
		WHERE status = 'completed'
		ORDER BY invoice_number DESC
		LIMIT 1`,
	).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return number, err
}

// CompletedBetween returns completed challans whose date string lies in [from, to].
func (r *repository) CompletedBetween(ctx context.Context, from, to string) ([]Challan, error) {
	query := selectColumns + `
		WHERE status = 'completed' AND date >= $1 AND date <= $2
		ORDER BY date ASC, invoice_number ASC`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return collectChallans(rows)
}

// Create inserts a challan. ID and timestamps are filled in by the database.
func (r *repository) Create(ctx context.Context, c *Challan) error {
	items, err := encodeItems(c.Items)
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO challans (invoice_number, date, buyer, buyer_gstin, note1, note2, note3, note4, items, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		c.InvoiceNumber, c.Date, c.Buyer, c.BuyerGSTIN,
		c.Note1, c.Note2, c.Note3, c.Note4, items, string(c.Status),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translateWriteError(err, c.InvoiceNumber)
}

// Update persists every mutable field and bumps updated_at.
func (r *repository) Update(ctx context.Context, c *Challan) error {
	items, err := encodeItems(c.Items)
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx, `
		UPDATE challans
		SET invoice_number = $2, date = $3, buyer = $4, buyer_gstin = $5,
		    note1 = $6, note2 = $7, note3 = $8, note4 = $9,
		    items = $10, status = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.InvoiceNumber, c.Date, c.Buyer, c.BuyerGSTIN,
		c.Note1, c.Note2, c.Note3, c.Note4, items, string(c.Status),
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return translateWriteError(err, c.InvoiceNumber)
}

// Delete removes a challan.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM challans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translateWriteError(err error, invoiceNumber string) error {
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateNumber, invoiceNumber)
	}
	return err
}
