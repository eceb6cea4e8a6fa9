package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

func newTestService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	return NewService(repo), repo
}

func seedProduct(t *testing.T, svc *Service, input CreateProductInput) Product {
	t.Helper()
	p, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	return p
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{Name: "   ", Price: 1})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, CreateProductInput{Name: "Cola", Price: -1})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, CreateProductInput{Name: "Cola", Price: 1.5, Quantity: -2})
	require.ErrorIs(t, err, httpx.ErrValidation)

	// The store must be left untouched by rejected drafts.
	products, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	svc, _ := newTestService(t)

	p := seedProduct(t, svc, CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 50, MinStock: 5, Barcode: "869000"})
	assert.Equal(t, int64(1), p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	q := seedProduct(t, svc, CreateProductInput{Name: "Chips", Price: 2})
	assert.Equal(t, int64(2), q.ID)
}

func TestCreateDuplicateBarcode(t *testing.T) {
	svc, _ := newTestService(t)

	seedProduct(t, svc, CreateProductInput{Name: "Cola", Price: 1.5, Barcode: "869000"})
	_, err := svc.Create(context.Background(), CreateProductInput{Name: "Cola Zero", Price: 1.5, Barcode: "869000"})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestListFiltersCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedProduct(t, svc, CreateProductInput{Name: "Cola", Category: "Drinks", Price: 1.5})
	seedProduct(t, svc, CreateProductInput{Name: "Chips", Category: "Snacks", Price: 2, Barcode: "500123"})
	seedProduct(t, svc, CreateProductInput{Name: "Water", Category: "Drinks", Price: 0.5})

	byName, err := svc.List(ctx, "cOLa")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Cola", byName[0].Name)

	byCategory, err := svc.List(ctx, "drink")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byBarcode, err := svc.List(ctx, "500123")
	require.NoError(t, err)
	require.Len(t, byBarcode, 1)
	assert.Equal(t, "Chips", byBarcode[0].Name)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAdjustQuantityClampsAtZero(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.WithNow(func() time.Time { return clock })

	p := seedProduct(t, svc, CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 5})

	clock = clock.Add(time.Hour)
	p, err := svc.AdjustQuantity(ctx, p.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, clock, p.UpdatedAt)

	p, err = svc.AdjustQuantity(ctx, p.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity, "negative results clamp to zero")

	p, err = svc.AdjustQuantity(ctx, p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Quantity)
}

func TestAdjustQuantityUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.AdjustQuantity(context.Background(), 99, 1)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestLookupPriorityOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cola := seedProduct(t, svc, CreateProductInput{Name: "Cola", Price: 1.5, Barcode: "869000"})
	// Product whose barcode collides with another product's ID.
	trap := seedProduct(t, svc, CreateProductInput{Name: "Gum", Price: 0.3, Barcode: "1"})

	// Exact ID wins over the barcode "1".
	got, err := svc.Lookup(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, cola.ID, got.ID)

	// Exact barcode wins over name matching.
	got, err = svc.Lookup(ctx, "869000")
	require.NoError(t, err)
	assert.Equal(t, cola.ID, got.ID)

	// Name substring, case-insensitive, is the last resort.
	got, err = svc.Lookup(ctx, "gu")
	require.NoError(t, err)
	assert.Equal(t, trap.ID, got.ID)

	_, err = svc.Lookup(ctx, "no-such-thing")
	require.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.Lookup(ctx, "  ")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteIsUnconditional(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, svc, CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 10})
	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err := svc.Get(ctx, p.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	err = svc.Delete(ctx, p.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListLowStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedProduct(t, svc, CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 50, MinStock: 5})
	seedProduct(t, svc, CreateProductInput{Name: "Chips", Price: 2, Quantity: 3, MinStock: 5})
	seedProduct(t, svc, CreateProductInput{Name: "Water", Price: 0.5, Quantity: 5, MinStock: 5})

	low, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Chips", low[0].Name)
	assert.Equal(t, "Water", low[1].Name)
}

func TestProductJSONRoundTrip(t *testing.T) {
	original := Product{
		ID:        7,
		Name:      "Cola",
		Category:  "Drinks",
		Barcode:   "869000",
		Supplier:  "Acme",
		Price:     1.5,
		Quantity:  48,
		MinStock:  5,
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Product
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}
