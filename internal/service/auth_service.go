package service

import (
	"context"
	"errors"
	"ir-portal/internal/auth"
	"ir-portal/internal/data"
	"strings"
	"time"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
// The two cases are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AdminRepository stores admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, u *data.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*data.AdminUser, error)
	GetByID(ctx context.Context, id string) (*data.AdminUser, error)
}

// AuthService checks admin credentials.
type AuthService struct {
	repo  AdminRepository
	now   func() time.Time
	newID func() string
	cost  int
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo AdminRepository) *AuthService {
	b := newBase(nil)
	return &AuthService{repo: repo, now: b.now, newID: b.newID, cost: auth.SeedCost}
}

// Authenticate returns the admin whose email and password match.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*data.AdminUser, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalid("email", "email and password are required")
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, data.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ByEmail returns the admin registered under email, for single sign-on logins.
func (s *AuthService) ByEmail(ctx context.Context, email string) (*data.AdminUser, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// Get returns the admin with the given id.
func (s *AuthService) Get(ctx context.Context, id string) (*data.AdminUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// EnsureAdmin creates the account for email unless it already exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, nil
	}
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, data.ErrNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(password, s.cost)
	if err != nil {
		return false, err
	}
	now := s.now()
	u := &data.AdminUser{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
