package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const resourceColumns = `id, name, type, description, related_theory, external_url, published, created_at, updated_at`

// ResourceFilter narrows a resource listing.
type ResourceFilter struct {
	ListOptions
	Type          string
	RelatedTheory string
}

// ResourceRepository persists external resources.
type ResourceRepository struct {
	db *sqlx.DB
}

// NewResourceRepository creates a new ResourceRepository.
func NewResourceRepository(db *sqlx.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(ctx context.Context, res *Resource) error {
	query := `INSERT INTO resources (` + resourceColumns + `)
		VALUES (:id, :name, :type, :description, :related_theory, :external_url, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, res); err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*Resource, error) {
	var res Resource
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = ?`
	if err := getOne(ctx, r.db, &res, query, id); err != nil {
		return nil, fmt.Errorf("failed to get resource %s: %w", id, err)
	}
	return &res, nil
}

func (r *ResourceRepository) Update(ctx context.Context, res *Resource) error {
	query := `UPDATE resources SET name = :name, type = :type, description = :description,
		related_theory = :related_theory, external_url = :external_url,
		published = :published, updated_at = :updated_at WHERE id = :id`
	if err := execAffecting(ctx, r.db, query, res); err != nil {
		return fmt.Errorf("failed to update resource %s: %w", res.ID, err)
	}
	return nil
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "resources", id)
}

func (r *ResourceRepository) List(ctx context.Context, f ResourceFilter) ([]*Resource, int, error) {
	var c conditions
	c.published(f.Published)
	c.anyContains([]string{"name", "description"}, f.Search)
	c.equals("type", f.Type)
	c.contains("related_theory", f.RelatedTheory)
	return selectPage[Resource](ctx, r.db, "resources", resourceColumns, "created_at DESC", &c, f.Offset, f.Limit)
}
