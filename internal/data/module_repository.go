package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const moduleColumns = `id, title, slug, short_description, learning_objectives, key_concepts, content, recommended_readings, quiz_questions, order_index, published, created_at, updated_at`

// ModuleRepository persists learning modules.
type ModuleRepository struct {
	db *sqlx.DB
}

// NewModuleRepository creates a new ModuleRepository.
func NewModuleRepository(db *sqlx.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

func (r *ModuleRepository) Create(ctx context.Context, m *LearningModule) error {
	query := `INSERT INTO learning_modules (` + moduleColumns + `)
		VALUES (:id, :title, :slug, :short_description, :learning_objectives, :key_concepts, :content,
		:recommended_readings, :quiz_questions, :order_index, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to create learning module: %w", err)
	}
	return nil
}

func (r *ModuleRepository) GetByID(ctx context.Context, id string) (*LearningModule, error) {
	var m LearningModule
	query := `SELECT ` + moduleColumns + ` FROM learning_modules WHERE id = ?`
	if err := getOne(ctx, r.db, &m, query, id); err != nil {
		return nil, fmt.Errorf("failed to get learning module %s: %w", id, err)
	}
	return &m, nil
}

func (r *ModuleRepository) GetBySlug(ctx context.Context, slug string) (*LearningModule, error) {
	var m LearningModule
	query := `SELECT ` + moduleColumns + ` FROM learning_modules WHERE slug = ?`
	if err := getOne(ctx, r.db, &m, query, slug); err != nil {
		return nil, fmt.Errorf("failed to get learning module by slug %q: %w", slug, err)
	}
	return &m, nil
}

// SlugTaken reports whether another module (not exceptID) already uses slug.
func (r *ModuleRepository) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM learning_modules WHERE slug = ? AND id <> ?`
	if err := r.db.GetContext(ctx, &n, query, slug, exceptID); err != nil {
		return false, fmt.Errorf("failed to check module slug: %w", err)
	}
	return n > 0, nil
}

func (r *ModuleRepository) Update(ctx context.Context, m *LearningModule) error {
	query := `UPDATE learning_modules SET title = :title, slug = :slug, short_description = :short_description,
		learning_objectives = :learning_objectives, key_concepts = :key_concepts, content = :content,
		recommended_readings = :recommended_readings, quiz_questions = :quiz_questions, order_index = :order_index,
		published = :published, updated_at = :updated_at WHERE id = :id`
	if err := execAffecting(ctx, r.db, query, m); err != nil {
		return fmt.Errorf("failed to update learning module %s: %w", m.ID, err)
	}
	return nil
}

func (r *ModuleRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "learning_modules", id)
}

// List returns modules in course order.
func (r *ModuleRepository) List(ctx context.Context, o ListOptions) ([]*LearningModule, int, error) {
	var c conditions
	c.published(o.Published)
	c.anyContains([]string{"title", "short_description"}, o.Search)
	return selectPage[LearningModule](ctx, r.db, "learning_modules", moduleColumns, "order_index ASC, created_at ASC", &c, o.Offset, o.Limit)
}

// Search matches published modules on title and description.
func (r *ModuleRepository) Search(ctx context.Context, term string, limit int) ([]*LearningModule, error) {
	items, _, err := r.List(ctx, ListOptions{Published: OnlyPublished(), Search: term, Limit: limit})
	return items, err
}
