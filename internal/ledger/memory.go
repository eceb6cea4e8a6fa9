package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// MemoryRepository keeps the ledger in process memory; used by tests and the
// demo deployment.
type MemoryRepository struct {
	mu     sync.Mutex
	sales  []Sale
	nextID int64
	now    func() time.Time
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, now: time.Now}
}

// WithNow overrides the repository clock for tests.
func (m *MemoryRepository) WithNow(fn func() time.Time) {
	if fn != nil {
		m.now = fn
	}
}

// Append records a sale. Exposed for the in-memory checkout committer.
func (m *MemoryRepository) Append(ctx context.Context, sale Sale) (Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sale.ID = m.nextID
	sale.CreatedAt = m.now()
	m.nextID++
	for i := range sale.Lines {
		sale.Lines[i].SaleID = sale.ID
		sale.Lines[i].ID = int64(i + 1)
	}
	m.sales = append(m.sales, sale)
	return sale, nil
}

func (m *MemoryRepository) Get(ctx context.Context, id int64) (Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return Sale{}, fmt.Errorf("sale %d: %w", id, httpx.ErrNotFound)
}

func (m *MemoryRepository) List(ctx context.Context, filter ListFilter) ([]Sale, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []Sale
	for _, s := range m.sales {
		if filter.CashierID != 0 && s.CashierID != filter.CashierID {
			continue
		}
		if !filter.From.IsZero() && s.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !s.CreatedAt.Before(filter.To) {
			continue
		}
		matched = append(matched, s)
	}

	// Newest first, mirroring the SQL ordering.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}

	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

// Total sums sale totals matching the filter. Limit and Offset are ignored.
func (m *MemoryRepository) Total(ctx context.Context, filter ListFilter) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sum float64
	for _, s := range m.sales {
		if filter.CashierID != 0 && s.CashierID != filter.CashierID {
			continue
		}
		if !filter.From.IsZero() && s.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !s.CreatedAt.Before(filter.To) {
			continue
		}
		sum += s.Total
	}
	return sum, nil
}
