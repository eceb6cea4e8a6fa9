package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-pos/meridian-pos/internal/shared"
	"github.com/meridian-pos/meridian-pos/internal/users"
)

type fakeUserSource struct {
	users map[string]users.User
}

func (f *fakeUserSource) FindByEmail(_ context.Context, email string) (users.User, error) {
	u, ok := f.users[email]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return u, nil
}

func newFakeSource(t *testing.T) *fakeUserSource {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	return &fakeUserSource{users: map[string]users.User{
		"aysel@meridian.local": {
			ID:           42,
			Email:        "aysel@meridian.local",
			Name:         "Aysel",
			Role:         users.RoleCashier,
			PasswordHash: string(hash),
			IsActive:     true,
		},
		"former@meridian.local": {
			ID:           7,
			Email:        "former@meridian.local",
			Name:         "Former Employee",
			Role:         users.RoleCashier,
			PasswordHash: string(hash),
			IsActive:     false,
		},
	}}
}

func TestAuthenticateSuccess(t *testing.T) {
	svc := NewService(newFakeSource(t))

	u, err := svc.Authenticate(context.Background(), "aysel@meridian.local", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.Equal(t, "Aysel", u.Name)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(newFakeSource(t))

	_, err := svc.Authenticate(context.Background(), "aysel@meridian.local", "nope")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewService(newFakeSource(t))

	_, err := svc.Authenticate(context.Background(), "ghost@meridian.local", "s3cret-pass")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateDeactivatedAccount(t *testing.T) {
	svc := NewService(newFakeSource(t))

	_, err := svc.Authenticate(context.Background(), "former@meridian.local", "s3cret-pass")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
