package checkout

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pos/meridian-pos/internal/ledger"
	"github.com/meridian-pos/meridian-pos/internal/platform/db"
)

// Committer applies a checkout as one atomic unit: the sale append and every
// stock decrement land together or not at all.
type Committer interface {
	Commit(ctx context.Context, sale ledger.Sale) (ledger.Sale, error)
}

type pgCommitter struct {
	pool *pgxpool.Pool
}

// NewCommitter constructs the PostgreSQL Committer.
func NewCommitter(pool *pgxpool.Pool) Committer {
	return &pgCommitter{pool: pool}
}

// Commit inserts the sale and decrements stock inside one transaction. The
// decrement carries its own availability guard; a line that would oversell
// rolls the whole sale back with ErrInsufficientStock.
func (c *pgCommitter) Commit(ctx context.Context, sale ledger.Sale) (ledger.Sale, error) {
	var committed ledger.Sale
	err := db.WithTx(ctx, c.pool, func(tx pgx.Tx) error {
		inserted, err := ledger.InsertSaleTx(ctx, tx, sale)
		if err != nil {
			return err
		}

		for _, line := range inserted.Lines {
			tag, err := tx.Exec(ctx,
				`UPDATE products
				 SET quantity = quantity - $1, updated_at = now()
				 WHERE id = $2 AND quantity >= $1`,
				line.Quantity, line.ProductID,
			)
			if err != nil {
				return fmt.Errorf("checkout: decrement product %d: %w", line.ProductID, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("product %q (id %d): %w", line.Name, line.ProductID, ErrInsufficientStock)
			}
		}

		committed = inserted
		return nil
	})
	if err != nil {
		return ledger.Sale{}, err
	}
	return committed, nil
}

