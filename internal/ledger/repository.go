package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Repository reads committed sales. Writes happen exclusively through the
// checkout commit transaction; see InsertSaleTx.
type Repository interface {
	Get(ctx context.Context, id int64) (Sale, error)
	List(ctx context.Context, filter ListFilter) ([]Sale, int, error)
	Total(ctx context.Context, filter ListFilter) (float64, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const saleColumns = `id, ref, customer_name, cashier_id, cashier_name, payment_method, total, created_at`

func (r *repository) Get(ctx context.Context, id int64) (Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s Sale
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Ref, &s.CustomerName, &s.CashierID, &s.CashierName,
		&s.PaymentMethod, &s.Total, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, fmt.Errorf("sale %d: %w", id, httpx.ErrNotFound)
		}
		return Sale{}, err
	}

	lines, err := r.loadLines(ctx, []int64{s.ID})
	if err != nil {
		return Sale{}, err
	}
	s.Lines = lines[s.ID]
	return s, nil
}

// filterClause renders the shared WHERE clause for ListFilter queries.
func filterClause(filter ListFilter) (string, []interface{}, int) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filter.CashierID != 0 {
		argCount++
		where += ` AND cashier_id = $` + strconv.Itoa(argCount)
		args = append(args, filter.CashierID)
	}
	if !filter.From.IsZero() {
		argCount++
		where += ` AND created_at >= $` + strconv.Itoa(argCount)
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		argCount++
		where += ` AND created_at < $` + strconv.Itoa(argCount)
		args = append(args, filter.To)
	}
	return where, args, argCount
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Sale, int, error) {
	where, args, argCount := filterClause(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + saleColumns + ` FROM sales` + where + ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filter.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		if filter.Offset < 0 {
			filter.Offset = 0
		}
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []Sale
	var ids []int64
	for rows.Next() {
		var s Sale
		err := rows.Scan(&s.ID, &s.Ref, &s.CustomerName, &s.CashierID, &s.CashierName,
			&s.PaymentMethod, &s.Total, &s.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		sales = append(sales, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range sales {
		sales[i].Lines = lines[sales[i].ID]
	}
	return sales, total, nil
}

// Total sums sale totals matching the filter. Limit and Offset are ignored.
func (r *repository) Total(ctx context.Context, filter ListFilter) (float64, error) {
	where, args, _ := filterClause(filter)
	var sum float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0) FROM sales`+where, args...).Scan(&sum)
	return sum, err
}

func (r *repository) loadLines(ctx context.Context, saleIDs []int64) (map[int64][]Line, error) {
	result := make(map[int64][]Line)
	if len(saleIDs) == 0 {
		return result, nil
	}

	query := `SELECT id, sale_id, product_id, name, price, quantity, line_total
		FROM sale_lines WHERE sale_id = ANY($1) ORDER BY sale_id, id`
	rows, err := r.db.Query(ctx, query, saleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Name, &l.Price, &l.Quantity, &l.LineTotal); err != nil {
			return nil, err
		}
		result[l.SaleID] = append(result[l.SaleID], l)
	}
	return result, rows.Err()
}

// InsertSaleTx appends a sale and its lines inside the caller's transaction.
// The checkout commit is the only caller; keeping the insert here keeps the
// ledger's SQL in one place.
func InsertSaleTx(ctx context.Context, tx pgx.Tx, sale Sale) (Sale, error) {
	err := tx.QueryRow(ctx,
		`INSERT INTO sales (ref, customer_name, cashier_id, cashier_name, payment_method, total)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		sale.Ref, sale.CustomerName, sale.CashierID, sale.CashierName, sale.PaymentMethod, sale.Total,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return Sale{}, fmt.Errorf("ledger: insert sale: %w", err)
	}

	for i := range sale.Lines {
		line := &sale.Lines[i]
		line.SaleID = sale.ID
		err := tx.QueryRow(ctx,
			`INSERT INTO sale_lines (sale_id, product_id, name, price, quantity, line_total)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			line.SaleID, line.ProductID, line.Name, line.Price, line.Quantity, line.LineTotal,
		).Scan(&line.ID)
		if err != nil {
			return Sale{}, fmt.Errorf("ledger: insert sale line: %w", err)
		}
	}
	return sale, nil
}
