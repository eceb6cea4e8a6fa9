// Package ledger records committed sales. Sales are append-only: once a
// checkout commits, the record is never edited or deleted.
package ledger

import "time"

// DefaultCustomerName labels sales without a selected customer.
const DefaultCustomerName = "Walk-in"

// Line is a snapshot of a cart line at commit time. Name and price are
// captured by value so the record survives later catalog edits or deletions.
type Line struct {
	ID        int64   `json:"id"`
	SaleID    int64   `json:"sale_id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// Sale is one committed checkout.
type Sale struct {
	ID            int64     `json:"id"`
	Ref           string    `json:"ref"`
	CustomerName  string    `json:"customer_name"`
	CashierID     int64     `json:"cashier_id"`
	CashierName   string    `json:"cashier_name"`
	PaymentMethod string    `json:"payment_method"`
	Total         float64   `json:"total"`
	Lines         []Line    `json:"lines"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListFilter narrows ledger queries.
type ListFilter struct {
	CashierID int64
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}
