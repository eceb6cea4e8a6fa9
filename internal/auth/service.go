// Package auth signs cashiers in and out.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-pos/meridian-pos/internal/shared"
	"github.com/meridian-pos/meridian-pos/internal/users"
)

// UserSource resolves accounts for credential checks.
type UserSource interface {
	FindByEmail(ctx context.Context, email string) (users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	source UserSource
}

// NewService constructs a Service.
func NewService(source UserSource) *Service {
	return &Service{source: source}
}

// Authenticate validates email/password credentials. Every failure path
// returns the same error so callers cannot probe for registered emails.
func (s *Service) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	user, err := s.source.FindByEmail(ctx, email)
	if err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	return user, nil
}
