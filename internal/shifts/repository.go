package shifts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Repository persists shifts.
type Repository interface {
	Open(ctx context.Context, shift Shift) (Shift, error)
	Current(ctx context.Context, cashierID int64) (Shift, error)
	Close(ctx context.Context, id int64, endCash, totalSales float64) (Shift, error)
	List(ctx context.Context, cashierID int64, limit int) ([]Shift, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const shiftColumns = `id, cashier_id, cashier_name, start_cash, end_cash, total_sales, opened_at, closed_at`

func scanShift(row pgx.Row) (Shift, error) {
	var s Shift
	err := row.Scan(&s.ID, &s.CashierID, &s.CashierName, &s.StartCash, &s.EndCash,
		&s.TotalSales, &s.OpenedAt, &s.ClosedAt)
	return s, err
}

// Open inserts a running shift. The uq_shifts_open index enforces one open
// shift per cashier.
func (r *repository) Open(ctx context.Context, shift Shift) (Shift, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO shifts (cashier_id, cashier_name, start_cash)
		 VALUES ($1, $2, $3)
		 RETURNING id, opened_at`,
		shift.CashierID, shift.CashierName, shift.StartCash,
	).Scan(&shift.ID, &shift.OpenedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_shifts_open" {
			return Shift{}, ErrShiftAlreadyOpen
		}
		return Shift{}, err
	}
	return shift, nil
}

func (r *repository) Current(ctx context.Context, cashierID int64) (Shift, error) {
	s, err := scanShift(r.db.QueryRow(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE cashier_id = $1 AND closed_at IS NULL`, cashierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shift{}, fmt.Errorf("open shift for cashier %d: %w", cashierID, httpx.ErrNotFound)
		}
		return Shift{}, err
	}
	return s, nil
}

func (r *repository) Close(ctx context.Context, id int64, endCash, totalSales float64) (Shift, error) {
	s, err := scanShift(r.db.QueryRow(ctx,
		`UPDATE shifts
		 SET end_cash = $1, total_sales = $2, closed_at = now()
		 WHERE id = $3 AND closed_at IS NULL
		 RETURNING `+shiftColumns,
		endCash, totalSales, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shift{}, ErrNoOpenShift
		}
		return Shift{}, err
	}
	return s, nil
}

func (r *repository) List(ctx context.Context, cashierID int64, limit int) ([]Shift, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE cashier_id = $1 ORDER BY opened_at DESC LIMIT $2`,
		cashierID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}
