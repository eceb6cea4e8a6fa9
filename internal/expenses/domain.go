// Package expenses records store outgoings and folds them with the sales
// ledger into a running profit figure.
package expenses

import "time"

// Bookkeeping buckets for the finance screen.
const (
	CategoryGeneral   = "general"
	CategoryRent      = "rent"
	CategorySalary    = "salary"
	CategoryUtilities = "utilities"
	CategoryOther     = "other"
)

// ValidCategory reports whether c is a known bookkeeping bucket.
func ValidCategory(c string) bool {
	switch c {
	case CategoryGeneral, CategoryRent, CategorySalary, CategoryUtilities, CategoryOther:
		return true
	}
	return false
}

// Expense is one recorded outgoing.
type Expense struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Amount         float64   `json:"amount"`
	Category       string    `json:"category"`
	RecordedBy     int64     `json:"recorded_by"`
	RecordedByName string    `json:"recorded_by_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// ExpenseForm carries a new expense entry. An empty category falls back to
// general.
type ExpenseForm struct {
	Title    string  `json:"title" validate:"required,max=120"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Category string  `json:"category"`
}

// Summary is the sales-versus-expenses headline.
type Summary struct {
	TotalSales    float64 `json:"total_sales"`
	TotalExpenses float64 `json:"total_expenses"`
	NetProfit     float64 `json:"net_profit"`
}
