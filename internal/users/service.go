package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Service wraps account management. Accounts are deactivated rather than
// deleted so the sale ledger keeps a valid cashier reference.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, fmt.Errorf("invalid user id: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form CreateUserForm) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.Create(ctx, User{
		Email:        strings.ToLower(strings.TrimSpace(form.Email)),
		Name:         strings.TrimSpace(form.Name),
		Role:         form.Role,
		PasswordHash: string(hash),
		IsActive:     true,
	})
}

func (s *Service) Update(ctx context.Context, id int64, form UpdateUserForm) (User, error) {
	if id <= 0 {
		return User{}, fmt.Errorf("invalid user id: %w", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, User{
		Name:     strings.TrimSpace(form.Name),
		Role:     form.Role,
		IsActive: form.IsActive,
	})
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid user id: %w", httpx.ErrValidation)
	}
	return s.repo.Deactivate(ctx, id)
}
