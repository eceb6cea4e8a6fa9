package shifts

import (
	"context"
	"errors"
	"fmt"

	"github.com/meridian-pos/meridian-pos/internal/ledger"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
)

// SaleSource provides sale totals; the ledger repository satisfies it.
type SaleSource interface {
	Total(ctx context.Context, filter ledger.ListFilter) (float64, error)
}

// Service implements the shift lifecycle.
type Service struct {
	repo  Repository
	sales SaleSource
}

// NewService constructs a Service.
func NewService(repo Repository, sales SaleSource) *Service {
	return &Service{repo: repo, sales: sales}
}

// Open starts a shift for the cashier with the counted drawer float.
func (s *Service) Open(ctx context.Context, cashierID int64, cashierName string, form OpenForm) (Shift, error) {
	if form.StartCash < 0 {
		return Shift{}, fmt.Errorf("start cash must not be negative: %w", httpx.ErrValidation)
	}
	return s.repo.Open(ctx, Shift{
		CashierID:   cashierID,
		CashierName: cashierName,
		StartCash:   form.StartCash,
	})
}

// Current returns the cashier's running shift.
func (s *Service) Current(ctx context.Context, cashierID int64) (Shift, error) {
	return s.repo.Current(ctx, cashierID)
}

// Close ends the cashier's running shift, recording the counted drawer cash
// and the sales taken since the shift opened.
func (s *Service) Close(ctx context.Context, cashierID int64, form CloseForm) (Shift, error) {
	if form.EndCash < 0 {
		return Shift{}, fmt.Errorf("end cash must not be negative: %w", httpx.ErrValidation)
	}

	current, err := s.repo.Current(ctx, cashierID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Shift{}, ErrNoOpenShift
		}
		return Shift{}, err
	}

	total, err := s.sales.Total(ctx, ledger.ListFilter{CashierID: cashierID, From: current.OpenedAt})
	if err != nil {
		return Shift{}, err
	}
	return s.repo.Close(ctx, current.ID, form.EndCash, total)
}

// List returns the cashier's most recent shifts, newest first.
func (s *Service) List(ctx context.Context, cashierID int64, limit int) ([]Shift, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.List(ctx, cashierID, limit)
}
