// Package shifts tracks cashier drawer sessions: the float counted in at
// open, the cash counted out at close, and the sales taken in between.
package shifts

import (
	"fmt"
	"time"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Shift is one cashier's session at the till.
type Shift struct {
	ID          int64      `json:"id"`
	CashierID   int64      `json:"cashier_id"`
	CashierName string     `json:"cashier_name"`
	StartCash   float64    `json:"start_cash"`
	EndCash     *float64   `json:"end_cash,omitempty"`
	TotalSales  float64    `json:"total_sales"`
	OpenedAt    time.Time  `json:"opened_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// Open reports whether the shift is still running.
func (s Shift) Open() bool { return s.ClosedAt == nil }

var (
	// ErrShiftAlreadyOpen rejects opening a second shift before closing the
	// running one.
	ErrShiftAlreadyOpen = fmt.Errorf("a shift is already open: %w", httpx.ErrConflict)
	// ErrNoOpenShift rejects closing when nothing is open.
	ErrNoOpenShift = fmt.Errorf("no open shift: %w", httpx.ErrConflict)
)

// OpenForm carries the counted drawer float for a new shift.
type OpenForm struct {
	StartCash float64 `json:"start_cash" validate:"gte=0"`
}

// CloseForm carries the counted drawer cash at close.
type CloseForm struct {
	EndCash float64 `json:"end_cash" validate:"gte=0"`
}
