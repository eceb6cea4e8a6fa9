package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

func seedSales(t *testing.T) *MemoryRepository {
	t.Helper()

	repo := NewMemoryRepository()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	repo.WithNow(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	})

	ctx := context.Background()
	for i, cashier := range []int64{1, 2, 1, 1, 2} {
		_, err := repo.Append(ctx, Sale{
			Ref:           "ref-" + string(rune('a'+i)),
			CustomerName:  DefaultCustomerName,
			CashierID:     cashier,
			CashierName:   "Cashier",
			PaymentMethod: "cash",
			Total:         float64(10 * (i + 1)),
		})
		require.NoError(t, err)
	}
	return repo
}

func TestListNewestFirst(t *testing.T) {
	repo := seedSales(t)

	list, total, err := repo.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, list, 5)
	assert.Equal(t, int64(5), list[0].ID)
	assert.Equal(t, int64(1), list[4].ID)
}

func TestListFiltersByCashier(t *testing.T) {
	repo := seedSales(t)

	list, total, err := repo.List(context.Background(), ListFilter{CashierID: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	for _, s := range list {
		assert.Equal(t, int64(1), s.CashierID)
	}
}

func TestListPagination(t *testing.T) {
	repo := seedSales(t)

	page, total, err := repo.List(context.Background(), ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].ID)
	assert.Equal(t, int64(2), page[1].ID)

	empty, total, err := repo.List(context.Background(), ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, empty)
}

func TestListDateRange(t *testing.T) {
	repo := seedSales(t)

	from := time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)
	list, total, err := repo.List(context.Background(), ListFilter{From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].ID)
	assert.Equal(t, int64(2), list[1].ID)
}

func TestTotalSumsMatchingSales(t *testing.T) {
	repo := seedSales(t)
	ctx := context.Background()

	all, err := repo.Total(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, float64(10+20+30+40+50), all)

	cashier, err := repo.Total(ctx, ListFilter{CashierID: 2})
	require.NoError(t, err)
	assert.Equal(t, float64(20+50), cashier)

	from := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	recent, err := repo.Total(ctx, ListFilter{From: from})
	require.NoError(t, err)
	assert.Equal(t, float64(30+40+50), recent)
}

func TestGetUnknownSale(t *testing.T) {
	repo := seedSales(t)

	_, err := repo.Get(context.Background(), 99)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
