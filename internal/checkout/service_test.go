package checkout

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/cart"
	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/ledger"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

type fixture struct {
	service  *Service
	products *catalog.Service
	sales    *ledger.MemoryRepository
	carts    *cart.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	productRepo := catalog.NewMemoryRepository()
	saleRepo := ledger.NewMemoryRepository()
	carts := cart.NewMemoryStore()
	products := catalog.NewService(productRepo)

	svc := NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		carts,
		products,
		NewMemoryCommitter(productRepo, saleRepo),
	)
	return &fixture{service: svc, products: products, sales: saleRepo, carts: carts}
}

func (f *fixture) seed(t *testing.T, input catalog.CreateProductInput) catalog.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), input)
	require.NoError(t, err)
	return p
}

const session = "sess-1"

var cashier = Cashier{ID: 42, Name: "Aysel"}

func TestCheckoutExampleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cola := f.seed(t, catalog.CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 50})

	// Add the same product twice: one line, quantity 2, total 3.00.
	_, err := f.service.AddItem(ctx, session, "1")
	require.NoError(t, err)
	c, err := f.service.AddItem(ctx, session, "1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.InDelta(t, 3.0, c.Total(), 1e-9)

	sale, err := f.service.Checkout(ctx, session, cashier, ConfirmInput{PaymentMethod: PaymentCash})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, sale.Total, 1e-9)
	require.Len(t, sale.Lines, 1)
	assert.Equal(t, "Cola", sale.Lines[0].Name)
	assert.InDelta(t, 1.5, sale.Lines[0].Price, 1e-9)
	assert.Equal(t, 2, sale.Lines[0].Quantity)
	assert.Equal(t, "cash", sale.PaymentMethod)
	assert.Equal(t, ledger.DefaultCustomerName, sale.CustomerName)
	assert.Equal(t, cashier.ID, sale.CashierID)
	assert.NotEmpty(t, sale.Ref)

	// Stock decremented by exactly the committed quantity.
	p, err := f.products.Get(ctx, cola.ID)
	require.NoError(t, err)
	assert.Equal(t, 48, p.Quantity)

	// Exactly one sale appended.
	sales, total, err := f.sales.List(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, sales, 1)

	// Cart empty immediately afterward.
	c, err = f.service.GetCart(ctx, session)
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestCheckoutEmptyCartChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, catalog.CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 50})

	_, err := f.service.Checkout(ctx, session, cashier, ConfirmInput{PaymentMethod: PaymentCash})
	require.ErrorIs(t, err, ErrEmptyCart)

	products, err := f.products.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 50, products[0].Quantity)

	_, total, err := f.sales.List(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCheckoutInvalidPaymentPreservesCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, catalog.CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 50})
	_, err := f.service.AddItem(ctx, session, "Cola")
	require.NoError(t, err)

	_, err = f.service.Checkout(ctx, session, cashier, ConfirmInput{PaymentMethod: "bitcoin"})
	require.ErrorIs(t, err, ErrInvalidPayment)

	c, err := f.service.GetCart(ctx, session)
	require.NoError(t, err)
	assert.Len(t, c.Lines, 1)
}

func TestCheckoutInsufficientStockAbortsAtomically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cola := f.seed(t, catalog.CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 10})
	scarce := f.seed(t, catalog.CreateProductInput{Name: "Chips", Price: 2, Quantity: 1})

	_, err := f.service.AddItem(ctx, session, "Cola")
	require.NoError(t, err)
	_, err = f.service.SetQuantity(ctx, session, cola.ID, 3)
	require.NoError(t, err)
	_, err = f.service.AddItem(ctx, session, "Chips")
	require.NoError(t, err)
	// Over-adding beyond available stock is permitted in the cart.
	_, err = f.service.SetQuantity(ctx, session, scarce.ID, 5)
	require.NoError(t, err)

	_, err = f.service.Checkout(ctx, session, cashier, ConfirmInput{PaymentMethod: PaymentCard})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.ErrorIs(t, err, httpx.ErrConflict)

	// Neither product moved: the well-stocked line must not have been
	// decremented before the failing one rolled things back.
	p, err := f.products.Get(ctx, cola.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity)
	p, err = f.products.Get(ctx, scarce.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Quantity)

	// No sale recorded, cart preserved for the cashier to fix.
	_, total, err := f.sales.List(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	c, err := f.service.GetCart(ctx, session)
	require.NoError(t, err)
	assert.Len(t, c.Lines, 2)
}

func TestCheckoutDeletedProductAborts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doomed := f.seed(t, catalog.CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 5})
	_, err := f.service.AddItem(ctx, session, "Cola")
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(ctx, doomed.ID))

	_, err = f.service.Checkout(ctx, session, cashier, ConfirmInput{PaymentMethod: PaymentCash})
	require.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCheckoutSnapshotSurvivesCatalogEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cola := f.seed(t, catalog.CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 50})
	_, err := f.service.AddItem(ctx, session, "Cola")
	require.NoError(t, err)

	sale, err := f.service.Checkout(ctx, session, cashier, ConfirmInput{
		CustomerName:  "Rustam",
		PaymentMethod: PaymentTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, "Rustam", sale.CustomerName)

	// Repricing and deleting the product leaves the recorded sale intact.
	_, err = f.products.Update(ctx, cola.ID, catalog.UpdateProductInput{Name: "Cola XL", Price: 9})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, cola.ID))

	recorded, err := f.sales.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cola", recorded.Lines[0].Name)
	assert.InDelta(t, 1.5, recorded.Lines[0].Price, 1e-9)
}

func TestSaleJSONRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Fixed wall-clock time so the marshalled timestamp compares equal.
	f.sales.WithNow(func() time.Time { return time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC) })

	f.seed(t, catalog.CreateProductInput{Name: "Cola", Price: 1.5, Quantity: 50})
	_, err := f.service.AddItem(ctx, session, "Cola")
	require.NoError(t, err)

	sale, err := f.service.Checkout(ctx, session, cashier, ConfirmInput{PaymentMethod: PaymentCash})
	require.NoError(t, err)

	data, err := json.Marshal(sale)
	require.NoError(t, err)

	var decoded ledger.Sale
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sale, decoded)
}
