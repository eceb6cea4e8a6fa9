package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the aggregate queries behind each report.
type Repository interface {
	SalesSummary(ctx context.Context, rng Range) (Summary, error)
	TopProducts(ctx context.Context, rng Range, limit int) ([]TopProduct, error)
	RevenueByDay(ctx context.Context, rng Range) ([]DailyRevenue, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) SalesSummary(ctx context.Context, rng Range) (Summary, error) {
	s := Summary{From: rng.From, To: rng.To}
	err := r.db.QueryRow(ctx,
		`SELECT count(*), COALESCE(sum(total), 0)
		 FROM sales
		 WHERE created_at >= $1 AND created_at < $2`,
		rng.From, rng.end(),
	).Scan(&s.SaleCount, &s.Revenue)
	if err != nil {
		return Summary{}, err
	}
	if s.SaleCount > 0 {
		s.AvgSale = s.Revenue / float64(s.SaleCount)
	}
	return s, nil
}

func (r *repository) TopProducts(ctx context.Context, rng Range, limit int) ([]TopProduct, error) {
	rows, err := r.db.Query(ctx,
		`SELECT l.product_id, l.name, sum(l.quantity), sum(l.line_total)
		 FROM sale_lines l
		 JOIN sales s ON s.id = l.sale_id
		 WHERE s.created_at >= $1 AND s.created_at < $2
		 GROUP BY l.product_id, l.name
		 ORDER BY sum(l.quantity) DESC, l.name ASC
		 LIMIT $3`,
		rng.From, rng.end(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *repository) RevenueByDay(ctx context.Context, rng Range) ([]DailyRevenue, error) {
	rows, err := r.db.Query(ctx,
		`SELECT date_trunc('day', created_at) AS day, count(*), COALESCE(sum(total), 0)
		 FROM sales
		 WHERE created_at >= $1 AND created_at < $2
		 GROUP BY day
		 ORDER BY day ASC`,
		rng.From, rng.end(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []DailyRevenue
	for rows.Next() {
		var d DailyRevenue
		if err := rows.Scan(&d.Day, &d.SaleCount, &d.Revenue); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
