// Package jobs holds the background task definitions and the Asynq worker.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan flags products at or under their reorder threshold.
	TaskLowStockScan = "stock:lowscan"
	// TaskSalesRollup folds a day of sales into the sales_daily table.
	TaskSalesRollup = "sales:rollup"
)

// LowStockScanPayload bounds how many products a scan reports.
type LowStockScanPayload struct {
	Limit int `json:"limit"`
}

// SalesRollupPayload names the day to roll up, YYYY-MM-DD. Empty rolls up
// yesterday.
type SalesRollupPayload struct {
	Day string `json:"day"`
}

// NewLowStockScanTask constructs a low stock scan task.
func NewLowStockScanTask(limit int) (*asynq.Task, error) {
	data, err := json.Marshal(LowStockScanPayload{Limit: limit})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

// NewSalesRollupTask constructs a sales rollup task for a given day.
func NewSalesRollupTask(day string) (*asynq.Task, error) {
	data, err := json.Marshal(SalesRollupPayload{Day: day})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSalesRollup, data), nil
}
