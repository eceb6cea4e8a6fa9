package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 50
	maxRangeDays    = 366
)

// Service coordinates report queries with the cache layer. Concurrent
// requests for the same uncached report collapse into a single query.
type Service struct {
	repo     Repository
	cache    *Cache
	products *catalog.Service
	group    singleflight.Group
}

// NewService wires a Repository with a Cache helper and the catalog.
func NewService(repo Repository, cache *Cache, products *catalog.Service) *Service {
	return &Service{repo: repo, cache: cache, products: products}
}

func validateRange(rng Range) error {
	if rng.To.Before(rng.From) {
		return fmt.Errorf("range end before start: %w", httpx.ErrValidation)
	}
	if rng.end().Sub(rng.From) > maxRangeDays*24*time.Hour {
		return fmt.Errorf("range exceeds %d days: %w", maxRangeDays, httpx.ErrValidation)
	}
	return nil
}

// fetch collapses concurrent requests for the same key into one cache fill,
// then hands every caller its own decoded copy.
func (s *Service) fetch(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	raw, err, _ := s.group.Do(key, func() (interface{}, error) {
		var payload json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &payload, loader); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.(json.RawMessage), dest)
}

func rangeToken(rng Range) string {
	return rng.From.Format("2006-01-02") + ":" + rng.To.Format("2006-01-02")
}

// SalesSummary returns the headline figures for a range.
func (s *Service) SalesSummary(ctx context.Context, rng Range) (Summary, error) {
	if err := validateRange(rng); err != nil {
		return Summary{}, err
	}
	var out Summary
	key := cacheKey("summary", rangeToken(rng))
	err := s.fetch(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.SalesSummary(ctx, rng)
	})
	return out, err
}

// TopProducts ranks products by units sold within a range.
func (s *Service) TopProducts(ctx context.Context, rng Range, limit int) ([]TopProduct, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	var out []TopProduct
	key := cacheKey("top", rangeToken(rng), fmt.Sprintf("%d", limit))
	err := s.fetch(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.TopProducts(ctx, rng, limit)
	})
	return out, err
}

// RevenueByDay returns the per-day revenue series for a range.
func (s *Service) RevenueByDay(ctx context.Context, rng Range) ([]DailyRevenue, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	var out []DailyRevenue
	key := cacheKey("daily", rangeToken(rng))
	err := s.fetch(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.RevenueByDay(ctx, rng)
	})
	return out, err
}

// LowStock lists products at or under their reorder threshold. Live data,
// never cached, since it drives restocking decisions.
func (s *Service) LowStock(ctx context.Context) ([]catalog.Product, error) {
	return s.products.ListLowStock(ctx)
}

// InvalidateCache drops every cached report so the next query hits the
// repository. Exposed to admins for use after out-of-band data fixes.
func (s *Service) InvalidateCache(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}
