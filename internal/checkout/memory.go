package checkout

import (
	"context"
	"fmt"

	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/ledger"
)

// MemoryCommitter reproduces the commit semantics over the in-memory
// repositories: every line is checked for availability before anything is
// written, so a failing line leaves both stores untouched.
type MemoryCommitter struct {
	products *catalog.MemoryRepository
	sales    *ledger.MemoryRepository
}

// NewMemoryCommitter constructs a MemoryCommitter.
func NewMemoryCommitter(products *catalog.MemoryRepository, sales *ledger.MemoryRepository) *MemoryCommitter {
	return &MemoryCommitter{products: products, sales: sales}
}

func (c *MemoryCommitter) Commit(ctx context.Context, sale ledger.Sale) (ledger.Sale, error) {
	for _, line := range sale.Lines {
		p, err := c.products.Get(ctx, line.ProductID)
		if err != nil {
			return ledger.Sale{}, fmt.Errorf("product %q (id %d): %w", line.Name, line.ProductID, ErrInsufficientStock)
		}
		if p.Quantity < line.Quantity {
			return ledger.Sale{}, fmt.Errorf("product %q (id %d): %w", line.Name, line.ProductID, ErrInsufficientStock)
		}
	}

	committed, err := c.sales.Append(ctx, sale)
	if err != nil {
		return ledger.Sale{}, err
	}
	for _, line := range committed.Lines {
		if _, err := c.products.AdjustQuantity(ctx, line.ProductID, -line.Quantity); err != nil {
			return ledger.Sale{}, err
		}
	}
	return committed, nil
}
