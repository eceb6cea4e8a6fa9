package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Service wraps customer directory rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, search string) ([]Customer, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, fmt.Errorf("invalid customer id: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form CustomerForm) (Customer, error) {
	if strings.TrimSpace(form.Name) == "" {
		return Customer{}, fmt.Errorf("customer name is required: %w", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, Customer{
		Name:  strings.TrimSpace(form.Name),
		Phone: strings.TrimSpace(form.Phone),
		Email: strings.TrimSpace(form.Email),
		Notes: strings.TrimSpace(form.Notes),
	})
}

func (s *Service) Update(ctx context.Context, id int64, form CustomerForm) (Customer, error) {
	if id <= 0 {
		return Customer{}, fmt.Errorf("invalid customer id: %w", httpx.ErrValidation)
	}
	if strings.TrimSpace(form.Name) == "" {
		return Customer{}, fmt.Errorf("customer name is required: %w", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, Customer{
		Name:  strings.TrimSpace(form.Name),
		Phone: strings.TrimSpace(form.Phone),
		Email: strings.TrimSpace(form.Email),
		Notes: strings.TrimSpace(form.Notes),
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid customer id: %w", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
