package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-pos/meridian-pos/internal/catalog"
)

// LowStockScanJob walks the catalog and reports products at or under their
// reorder threshold.
type LowStockScanJob struct {
	products catalog.Repository
	logger   *slog.Logger
}

// NewLowStockScanJob constructs the job.
func NewLowStockScanJob(products catalog.Repository, logger *slog.Logger) *LowStockScanJob {
	return &LowStockScanJob{products: products, logger: logger}
}

// Handle processes TaskLowStockScan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	list, err := j.products.ListLowStock(ctx)
	if err != nil {
		return err
	}

	reported := 0
	for _, p := range list {
		if payload.Limit > 0 && reported >= payload.Limit {
			break
		}
		j.logger.Warn("low stock",
			slog.Int64("product", p.ID),
			slog.String("name", p.Name),
			slog.Int("quantity", p.Quantity),
			slog.Int("min_stock", p.MinStock),
		)
		reported++
	}
	j.logger.Info("low stock scan complete", slog.Int("flagged", len(list)))
	return nil
}
