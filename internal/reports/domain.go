// Package reports aggregates the sale ledger into dashboard figures.
package reports

import "time"

// Summary is the headline sales card for a date range.
type Summary struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	SaleCount int64     `json:"sale_count"`
	Revenue   float64   `json:"revenue"`
	AvgSale   float64   `json:"avg_sale"`
}

// TopProduct ranks a product by units sold within a range.
type TopProduct struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// DailyRevenue is one bar of the revenue-by-day chart.
type DailyRevenue struct {
	Day       time.Time `json:"day"`
	SaleCount int64     `json:"sale_count"`
	Revenue   float64   `json:"revenue"`
}

// Range bounds a report query. To is inclusive at day granularity.
type Range struct {
	From time.Time
	To   time.Time
}

// DefaultRange covers the last seven days ending today.
func DefaultRange(now time.Time) Range {
	day := now.UTC().Truncate(24 * time.Hour)
	return Range{From: day.AddDate(0, 0, -6), To: day}
}

func (r Range) end() time.Time { return r.To.AddDate(0, 0, 1) }
