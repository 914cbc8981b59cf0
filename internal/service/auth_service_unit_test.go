//go:build unit

package service

import (
	"context"
	"errors"
	"ir-portal/internal/data"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService() (*AuthService, *mockAdminRepository) {
	repo := &mockAdminRepository{byEmail: map[string]*data.AdminUser{}}
	s := NewAuthService(repo)
	s.cost = bcrypt.MinCost
	return s, repo
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	s, repo := newTestAuthService()
	ctx := context.Background()

	created, err := s.EnsureAdmin(ctx, " Admin@Example.com ", "s3cret", "Admin")
	require.NoError(t, err)
	assert.True(t, created)
	u := repo.byEmail["admin@example.com"]
	require.NotNil(t, u)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")))

	created, err = s.EnsureAdmin(ctx, "admin@example.com", "other", "Admin")
	require.NoError(t, err)
	assert.False(t, created, "existing accounts are left alone")

	created, err = s.EnsureAdmin(ctx, "", "", "")
	require.NoError(t, err)
	assert.False(t, created, "nothing to seed without credentials")
}

func TestAuthService_Authenticate(t *testing.T) {
	s, repo := newTestAuthService()
	ctx := context.Background()
	_, err := s.EnsureAdmin(ctx, "admin@example.com", "s3cret", "Admin")
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, "ADMIN@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)

	_, err = s.Authenticate(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "", "s3cret")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	repo.err = errors.New("db down")
	_, err = s.Authenticate(ctx, "admin@example.com", "s3cret")
	assert.EqualError(t, err, "db down")
}

func TestAuthService_ByEmail(t *testing.T) {
	s, _ := newTestAuthService()
	_, err := s.ByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
