package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SalesRollupJob folds one day of the ledger into the sales_daily table so
// historical reports stay cheap as the sales table grows.
type SalesRollupJob struct {
	db     *pgxpool.Pool
	logger *slog.Logger
	now    func() time.Time
}

// NewSalesRollupJob constructs the job.
func NewSalesRollupJob(db *pgxpool.Pool, logger *slog.Logger) *SalesRollupJob {
	return &SalesRollupJob{db: db, logger: logger, now: time.Now}
}

// Handle processes TaskSalesRollup tasks.
func (j *SalesRollupJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SalesRollupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	day := j.now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	if payload.Day != "" {
		parsed, err := time.Parse("2006-01-02", payload.Day)
		if err != nil {
			return asynq.SkipRetry
		}
		day = parsed
	}

	tag, err := j.db.Exec(ctx,
		`INSERT INTO sales_daily (day, sale_count, revenue)
		 SELECT $1::date, count(*), COALESCE(sum(total), 0)
		 FROM sales
		 WHERE created_at >= $1 AND created_at < $1::date + 1
		 ON CONFLICT (day) DO UPDATE
		 SET sale_count = EXCLUDED.sale_count, revenue = EXCLUDED.revenue`,
		day,
	)
	if err != nil {
		return err
	}

	j.logger.Info("sales rollup complete",
		slog.String("day", day.Format("2006-01-02")),
		slog.Int64("rows", tag.RowsAffected()),
	)
	return nil
}
