package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/meridian-pos/meridian-pos/internal/cart"
	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/ledger"
)

// Cashier identifies the user committing the sale.
type Cashier struct {
	ID   int64
	Name string
}

// Service runs the register: it mutates the session cart and commits
// checkouts.
type Service struct {
	logger   *slog.Logger
	carts    cart.Store
	products *catalog.Service
	commit   Committer
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, carts cart.Store, products *catalog.Service, committer Committer) *Service {
	return &Service{
		logger:   logger,
		carts:    carts,
		products: products,
		commit:   committer,
	}
}

// GetCart returns the session's cart.
func (s *Service) GetCart(ctx context.Context, sessionID string) (cart.Cart, error) {
	return s.carts.Get(ctx, sessionID)
}

// AddItem resolves the token against the catalog (ID, barcode or name) and
// adds one unit to the session cart.
func (s *Service) AddItem(ctx context.Context, sessionID, token string) (cart.Cart, error) {
	product, err := s.products.Lookup(ctx, token)
	if err != nil {
		return cart.Cart{}, err
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return cart.Cart{}, err
	}
	c.AddItem(product)
	if err := s.carts.Save(ctx, sessionID, c); err != nil {
		return cart.Cart{}, err
	}
	return c, nil
}

// SetQuantity sets a cart line to an absolute quantity; zero removes it.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (cart.Cart, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return cart.Cart{}, err
	}
	c.SetQuantity(productID, quantity)
	if err := s.carts.Save(ctx, sessionID, c); err != nil {
		return cart.Cart{}, err
	}
	return c, nil
}

// RemoveItem drops a cart line.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int64) (cart.Cart, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return cart.Cart{}, err
	}
	c.RemoveItem(productID)
	if err := s.carts.Save(ctx, sessionID, c); err != nil {
		return cart.Cart{}, err
	}
	return c, nil
}

// ClearCart empties the session cart.
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	return s.carts.Clear(ctx, sessionID)
}

// Checkout commits the session cart as a sale. On success the cart is
// cleared and the committed sale is returned; on any error the cart, the
// catalog and the ledger are all left untouched.
func (s *Service) Checkout(ctx context.Context, sessionID string, cashier Cashier, input ConfirmInput) (ledger.Sale, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return ledger.Sale{}, err
	}

	engine := NewEngine(&c)
	if err := engine.Begin(); err != nil {
		return ledger.Sale{}, err
	}
	if !input.PaymentMethod.Valid() {
		_ = engine.Cancel()
		return ledger.Sale{}, fmt.Errorf("%q: %w", input.PaymentMethod, ErrInvalidPayment)
	}

	sale := buildSale(c, cashier, input)
	committed, err := s.commit.Commit(ctx, sale)
	if err != nil {
		_ = engine.Cancel()
		return ledger.Sale{}, err
	}

	if err := engine.Confirm(); err != nil {
		return ledger.Sale{}, err
	}
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The sale is committed; a stale cart is recoverable, losing the
		// sale is not.
		s.logger.Error("clear cart after commit", slog.Any("error", err), slog.String("session", sessionID))
	}

	s.logger.Info("sale committed",
		slog.String("ref", committed.Ref),
		slog.Int64("cashier", cashier.ID),
		slog.Float64("total", committed.Total),
	)
	return committed, nil
}

// buildSale snapshots the cart into an immutable sale record. Line names and
// prices are copied by value; the total is the cart total at commit time.
func buildSale(c cart.Cart, cashier Cashier, input ConfirmInput) ledger.Sale {
	customer := strings.TrimSpace(input.CustomerName)
	if customer == "" {
		customer = ledger.DefaultCustomerName
	}

	sale := ledger.Sale{
		Ref:           uuid.NewString(),
		CustomerName:  customer,
		CashierID:     cashier.ID,
		CashierName:   cashier.Name,
		PaymentMethod: string(input.PaymentMethod),
		Total:         c.Total(),
	}
	for _, line := range c.Lines {
		sale.Lines = append(sale.Lines, ledger.Line{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			LineTotal: line.Price * float64(line.Quantity),
		})
	}
	return sale
}
