package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const conceptColumns = `id, name, short_definition, detailed_explanation, related_theory, published, created_at, updated_at`

// ConceptRepository persists glossary concepts.
type ConceptRepository struct {
	db *sqlx.DB
}

// NewConceptRepository creates a new ConceptRepository.
func NewConceptRepository(db *sqlx.DB) *ConceptRepository {
	return &ConceptRepository{db: db}
}

func (r *ConceptRepository) Create(ctx context.Context, c *Concept) error {
	query := `INSERT INTO concepts (` + conceptColumns + `)
		VALUES (:id, :name, :short_definition, :detailed_explanation, :related_theory, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to create concept: %w", err)
	}
	return nil
}

func (r *ConceptRepository) GetByID(ctx context.Context, id string) (*Concept, error) {
	var c Concept
	query := `SELECT ` + conceptColumns + ` FROM concepts WHERE id = ?`
	if err := getOne(ctx, r.db, &c, query, id); err != nil {
		return nil, fmt.Errorf("failed to get concept %s: %w", id, err)
	}
	return &c, nil
}

func (r *ConceptRepository) Update(ctx context.Context, c *Concept) error {
	query := `UPDATE concepts SET name = :name, short_definition = :short_definition,
		detailed_explanation = :detailed_explanation, related_theory = :related_theory,
		published = :published, updated_at = :updated_at WHERE id = :id`
	if err := execAffecting(ctx, r.db, query, c); err != nil {
		return fmt.Errorf("failed to update concept %s: %w", c.ID, err)
	}
	return nil
}

func (r *ConceptRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "concepts", id)
}

// List returns one page of concepts. Offset with Limit 1 doubles as random access.
func (r *ConceptRepository) List(ctx context.Context, o ListOptions) ([]*Concept, int, error) {
	var c conditions
	c.published(o.Published)
	c.anyContains([]string{"name", "short_definition"}, o.Search)
	return selectPage[Concept](ctx, r.db, "concepts", conceptColumns, "created_at DESC", &c, o.Offset, o.Limit)
}
