package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Service wraps catalog business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the catalog, optionally filtered by a case-insensitive
// substring match against name, category or barcode.
func (s *Service) List(ctx context.Context, search string) ([]Product, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("invalid product id: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create validates the draft and appends it to the catalog.
func (s *Service) Create(ctx context.Context, input CreateProductInput) (Product, error) {
	if err := validateDraft(input.Name, input.Price, input.Quantity, input.MinStock); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, Product{
		Name:        strings.TrimSpace(input.Name),
		Category:    strings.TrimSpace(input.Category),
		Barcode:     strings.TrimSpace(input.Barcode),
		Supplier:    strings.TrimSpace(input.Supplier),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Quantity:    input.Quantity,
		MinStock:    input.MinStock,
	})
}

// Update replaces the editable attributes of a product. Quantity is not
// editable here; stock moves through AdjustQuantity or checkout.
func (s *Service) Update(ctx context.Context, id int64, input UpdateProductInput) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("invalid product id: %w", httpx.ErrValidation)
	}
	if err := validateDraft(input.Name, input.Price, 0, input.MinStock); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, Product{
		Name:        strings.TrimSpace(input.Name),
		Category:    strings.TrimSpace(input.Category),
		Barcode:     strings.TrimSpace(input.Barcode),
		Supplier:    strings.TrimSpace(input.Supplier),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		MinStock:    input.MinStock,
	})
}

// AdjustQuantity applies a relative stock movement, clamping at zero.
func (s *Service) AdjustQuantity(ctx context.Context, id int64, delta int) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("invalid product id: %w", httpx.ErrValidation)
	}
	if delta == 0 {
		return s.repo.Get(ctx, id)
	}
	return s.repo.AdjustQuantity(ctx, id, delta)
}

// Delete removes a product unconditionally. Historical sale lines carry
// name/price snapshots, so they survive the deletion.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid product id: %w", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// ListLowStock returns products at or under their minimum-stock threshold.
func (s *Service) ListLowStock(ctx context.Context) ([]Product, error) {
	return s.repo.ListLowStock(ctx)
}

// Lookup resolves a scanned or typed token to a product. Strategies are
// tried in priority order: exact ID, exact barcode, name substring.
func (s *Service) Lookup(ctx context.Context, token string) (Product, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Product{}, fmt.Errorf("empty lookup token: %w", httpx.ErrValidation)
	}

	for _, strategy := range []func(context.Context, string) (Product, bool, error){
		s.lookupByID,
		s.lookupByBarcode,
		s.lookupByName,
	} {
		p, ok, err := strategy(ctx, token)
		if err != nil {
			return Product{}, err
		}
		if ok {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("no product matches %q: %w", token, httpx.ErrNotFound)
}

func (s *Service) lookupByID(ctx context.Context, token string) (Product, bool, error) {
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 {
		return Product{}, false, nil
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Product{}, false, nil
		}
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *Service) lookupByBarcode(ctx context.Context, token string) (Product, bool, error) {
	p, err := s.repo.GetByBarcode(ctx, token)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Product{}, false, nil
		}
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *Service) lookupByName(ctx context.Context, token string) (Product, bool, error) {
	matches, err := s.repo.SearchByName(ctx, token)
	if err != nil {
		return Product{}, false, err
	}
	if len(matches) == 0 {
		return Product{}, false, nil
	}
	return matches[0], true, nil
}

func validateDraft(name string, price float64, quantity, minStock int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("product name is required: %w", httpx.ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("product price must be >= 0: %w", httpx.ErrValidation)
	}
	if quantity < 0 {
		return fmt.Errorf("product quantity must be >= 0: %w", httpx.ErrValidation)
	}
	if minStock < 0 {
		return fmt.Errorf("minimum stock must be >= 0: %w", httpx.ErrValidation)
	}
	return nil
}
