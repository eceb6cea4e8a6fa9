package expenses

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists expense entries.
type Repository interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	List(ctx context.Context, limit int) ([]Expense, error)
	Total(ctx context.Context) (float64, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const expenseColumns = `id, title, amount, category, recorded_by, recorded_by_name, created_at`

func (r *repository) Create(ctx context.Context, e Expense) (Expense, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO expenses (title, amount, category, recorded_by, recorded_by_name)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.Title, e.Amount, e.Category, e.RecordedBy, e.RecordedByName,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]Expense, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &e.RecordedBy, &e.RecordedByName, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *repository) Total(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM expenses`).Scan(&sum)
	return sum, err
}
