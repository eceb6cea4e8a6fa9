package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

type mockRepository struct {
	summaryCalls int
	topCalls     int
	dailyCalls   int
	summary      Summary
	top          []TopProduct
	daily        []DailyRevenue
}

func (m *mockRepository) SalesSummary(_ context.Context, rng Range) (Summary, error) {
	m.summaryCalls++
	s := m.summary
	s.From, s.To = rng.From, rng.To
	return s, nil
}

func (m *mockRepository) TopProducts(_ context.Context, _ Range, limit int) ([]TopProduct, error) {
	m.topCalls++
	if limit < len(m.top) {
		return m.top[:limit], nil
	}
	return m.top, nil
}

func (m *mockRepository) RevenueByDay(_ context.Context, _ Range) ([]DailyRevenue, error) {
	m.dailyCalls++
	return m.daily, nil
}

func testRange() Range {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return Range{From: day.AddDate(0, 0, -6), To: day}
}

func newFixture(t *testing.T) (*Service, *mockRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := &mockRepository{
		summary: Summary{SaleCount: 4, Revenue: 120, AvgSale: 30},
		top: []TopProduct{
			{ProductID: 1, Name: "Cola", Quantity: 12, Revenue: 18},
			{ProductID: 2, Name: "Chips", Quantity: 7, Revenue: 14},
		},
		daily: []DailyRevenue{
			{Day: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), SaleCount: 2, Revenue: 60},
		},
	}
	products := catalog.NewService(catalog.NewMemoryRepository())
	svc := NewService(repo, NewCache(client, 5*time.Minute), products)
	return svc, repo, mr
}

func TestSummaryServedFromCache(t *testing.T) {
	svc, repo, _ := newFixture(t)
	ctx := context.Background()

	first, err := svc.SalesSummary(ctx, testRange())
	require.NoError(t, err)
	assert.Equal(t, int64(4), first.SaleCount)

	second, err := svc.SalesSummary(ctx, testRange())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.summaryCalls)
}

func TestSummaryCacheExpires(t *testing.T) {
	svc, repo, mr := newFixture(t)
	ctx := context.Background()

	_, err := svc.SalesSummary(ctx, testRange())
	require.NoError(t, err)

	mr.FastForward(6 * time.Minute)

	_, err = svc.SalesSummary(ctx, testRange())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.summaryCalls)
}

func TestDistinctRangesCachedSeparately(t *testing.T) {
	svc, repo, _ := newFixture(t)
	ctx := context.Background()

	rng := testRange()
	_, err := svc.SalesSummary(ctx, rng)
	require.NoError(t, err)

	other := Range{From: rng.From.AddDate(0, 0, -7), To: rng.To.AddDate(0, 0, -7)}
	_, err = svc.SalesSummary(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.summaryCalls)
}

func TestTopProductsLimitDefaults(t *testing.T) {
	svc, repo, _ := newFixture(t)
	ctx := context.Background()

	list, err := svc.TopProducts(ctx, testRange(), 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "Cola", list[0].Name)
	assert.Equal(t, 1, repo.topCalls)

	// Different limit is a different cache entry.
	list, err = svc.TopProducts(ctx, testRange(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, repo.topCalls)
}

func TestRangeValidation(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	rng := testRange()
	rng.To = rng.From.AddDate(0, 0, -1)
	_, err := svc.SalesSummary(ctx, rng)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	rng = testRange()
	rng.From = rng.To.AddDate(-2, 0, 0)
	_, err = svc.TopProducts(ctx, rng, 5)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestInvalidateCacheForcesRequery(t *testing.T) {
	svc, repo, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.SalesSummary(ctx, testRange())
	require.NoError(t, err)
	_, err = svc.RevenueByDay(ctx, testRange())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.summaryCalls)
	assert.Equal(t, 1, repo.dailyCalls)

	require.NoError(t, svc.InvalidateCache(ctx))

	_, err = svc.SalesSummary(ctx, testRange())
	require.NoError(t, err)
	_, err = svc.RevenueByDay(ctx, testRange())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.summaryCalls)
	assert.Equal(t, 2, repo.dailyCalls)
}

func TestRevenueByDayCached(t *testing.T) {
	svc, repo, _ := newFixture(t)
	ctx := context.Background()

	first, err := svc.RevenueByDay(ctx, testRange())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, float64(60), first[0].Revenue)

	_, err = svc.RevenueByDay(ctx, testRange())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.dailyCalls)
}
