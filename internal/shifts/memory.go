package shifts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// MemoryRepository keeps shifts in process memory; used by tests and the
// demo deployment.
type MemoryRepository struct {
	mu     sync.Mutex
	shifts []Shift
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

func (m *MemoryRepository) Open(ctx context.Context, shift Shift) (Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.shifts {
		if s.CashierID == shift.CashierID && s.Open() {
			return Shift{}, ErrShiftAlreadyOpen
		}
	}

	shift.ID = m.nextID
	shift.OpenedAt = m.now()
	m.nextID++
	m.shifts = append(m.shifts, shift)
	return shift, nil
}

func (m *MemoryRepository) Current(ctx context.Context, cashierID int64) (Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.shifts {
		if s.CashierID == cashierID && s.Open() {
			return s, nil
		}
	}
	return Shift{}, fmt.Errorf("open shift for cashier %d: %w", cashierID, httpx.ErrNotFound)
}

func (m *MemoryRepository) Close(ctx context.Context, id int64, endCash, totalSales float64) (Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.shifts {
		if m.shifts[i].ID == id && m.shifts[i].Open() {
			closedAt := m.now()
			m.shifts[i].EndCash = &endCash
			m.shifts[i].TotalSales = totalSales
			m.shifts[i].ClosedAt = &closedAt
			return m.shifts[i], nil
		}
	}
	return Shift{}, ErrNoOpenShift
}

func (m *MemoryRepository) List(ctx context.Context, cashierID int64, limit int) ([]Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []Shift
	// Newest first, mirroring the SQL ordering.
	for i := len(m.shifts) - 1; i >= 0; i-- {
		if m.shifts[i].CashierID != cashierID {
			continue
		}
		matched = append(matched, m.shifts[i])
		if limit > 0 && len(matched) == limit {
			break
		}
	}
	return matched, nil
}
