package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const adminColumns = `id, email, password_hash, name, created_at, updated_at`

// AdminRepository stores admin accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, u *AdminUser) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	query := `INSERT INTO admin_users (` + adminColumns + `) VALUES (:id, :email, :password_hash, :name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

// GetByEmail looks an admin up by email, ignoring case.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	var u AdminUser
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE email = ?`
	if err := getOne(ctx, r.db, &u, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	return &u, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (*AdminUser, error) {
	var u AdminUser
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE id = ?`
	if err := getOne(ctx, r.db, &u, query, id); err != nil {
		return nil, fmt.Errorf("failed to get admin user %s: %w", id, err)
	}
	return &u, nil
}
