package expenses

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-pos/meridian-pos/internal/ledger"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// SaleSource provides sale totals; the ledger repository satisfies it.
type SaleSource interface {
	Total(ctx context.Context, filter ledger.ListFilter) (float64, error)
}

// Service implements expense bookkeeping.
type Service struct {
	repo  Repository
	sales SaleSource
}

// NewService constructs a Service.
func NewService(repo Repository, sales SaleSource) *Service {
	return &Service{repo: repo, sales: sales}
}

// Create records an expense attributed to the signed-in user.
func (s *Service) Create(ctx context.Context, recordedBy int64, recordedByName string, form ExpenseForm) (Expense, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return Expense{}, fmt.Errorf("title is required: %w", httpx.ErrValidation)
	}
	if form.Amount <= 0 {
		return Expense{}, fmt.Errorf("amount must be positive: %w", httpx.ErrValidation)
	}
	category := form.Category
	if category == "" {
		category = CategoryGeneral
	}
	if !ValidCategory(category) {
		return Expense{}, fmt.Errorf("unknown category %q: %w", category, httpx.ErrValidation)
	}

	return s.repo.Create(ctx, Expense{
		Title:          title,
		Amount:         form.Amount,
		Category:       category,
		RecordedBy:     recordedBy,
		RecordedByName: recordedByName,
	})
}

// List returns the most recent expenses, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Expense, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.List(ctx, limit)
}

// Summarize folds all-time sales against all-time expenses.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	sales, err := s.sales.Total(ctx, ledger.ListFilter{})
	if err != nil {
		return Summary{}, err
	}
	expenses, err := s.repo.Total(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalSales:    sales,
		TotalExpenses: expenses,
		NetProfit:     sales - expenses,
	}, nil
}
