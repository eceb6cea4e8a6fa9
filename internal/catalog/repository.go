package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Repository persists the product catalog.
type Repository interface {
	List(ctx context.Context, search string) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	GetByBarcode(ctx context.Context, barcode string) (Product, error)
	SearchByName(ctx context.Context, name string) ([]Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) (Product, error)
	AdjustQuantity(ctx context.Context, id int64, delta int) (Product, error)
	Delete(ctx context.Context, id int64) error
	ListLowStock(ctx context.Context) ([]Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, category, barcode, supplier, description, price, quantity, min_stock, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.Supplier, &p.Description,
		&p.Price, &p.Quantity, &p.MinStock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, search string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name ILIKE $1 OR category ILIKE $1 OR barcode ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) GetByBarcode(ctx context.Context, barcode string) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1 AND barcode <> ''`
	p, err := scanProduct(r.db.QueryRow(ctx, query, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("barcode %s: %w", barcode, httpx.ErrNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) SearchByName(ctx context.Context, name string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name ILIKE $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, "%"+name+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	query := `INSERT INTO products (name, category, barcode, supplier, description, price, quantity, min_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		product.Name, product.Category, product.Barcode, product.Supplier, product.Description,
		product.Price, product.Quantity, product.MinStock,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if violatesConstraint(err, "uq_products_barcode") {
			return Product{}, fmt.Errorf("barcode %s already registered: %w", product.Barcode, httpx.ErrDuplicate)
		}
		return Product{}, err
	}
	return product, nil
}

// violatesConstraint reports whether err is a Postgres violation of the named
// constraint or unique index.
func violatesConstraint(err error, name string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.ConstraintName == name
}

func (r *repository) Update(ctx context.Context, id int64, product Product) (Product, error) {
	query := `UPDATE products
		SET name = $1, category = $2, barcode = $3, supplier = $4, description = $5,
			price = $6, min_stock = $7, updated_at = now()
		WHERE id = $8
		RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRow(ctx, query,
		product.Name, product.Category, product.Barcode, product.Supplier, product.Description,
		product.Price, product.MinStock, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

// AdjustQuantity applies quantity = max(0, quantity + delta) and touches
// updated_at.
func (r *repository) AdjustQuantity(ctx context.Context, id int64, delta int) (Product, error) {
	query := `UPDATE products
		SET quantity = GREATEST(0, quantity + $1), updated_at = now()
		WHERE id = $2
		RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRow(ctx, query, delta, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) ListLowStock(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE quantity <= min_stock ORDER BY quantity ASC, name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
