package expenses

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps expenses in process memory; used by tests and the
// demo deployment.
type MemoryRepository struct {
	mu       sync.Mutex
	expenses []Expense
	nextID   int64
	now      func() time.Time
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

func (m *MemoryRepository) Create(ctx context.Context, e Expense) (Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = m.nextID
	e.CreatedAt = m.now()
	m.nextID++
	m.expenses = append(m.expenses, e)
	return e, nil
}

func (m *MemoryRepository) List(ctx context.Context, limit int) ([]Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []Expense
	// Newest first, mirroring the SQL ordering.
	for i := len(m.expenses) - 1; i >= 0; i-- {
		matched = append(matched, m.expenses[i])
		if limit > 0 && len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (m *MemoryRepository) Total(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sum float64
	for _, e := range m.expenses {
		sum += e.Amount
	}
	return sum, nil
}
