package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const analysisColumns = `id, title, short_summary, content, author, reading_time_minutes, categories, tags, published_at, published, created_at, updated_at`

// AnalysisFilter narrows an analysis listing.
type AnalysisFilter struct {
	ListOptions
	Category string
}

// AnalysisRepository persists analyses with sqlx.
type AnalysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new AnalysisRepository.
func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Create(ctx context.Context, a *Analysis) error {
	query := `INSERT INTO analyses (` + analysisColumns + `)
		VALUES (:id, :title, :short_summary, :content, :author, :reading_time_minutes, :categories, :tags, :published_at, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*Analysis, error) {
	var a Analysis
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = ?`
	if err := getOne(ctx, r.db, &a, query, id); err != nil {
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}
	return &a, nil
}

// GetByIDs loads the analyses with the given ids, keyed by id. Unknown ids are skipped.
func (r *AnalysisRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*Analysis, error) {
	out := make(map[string]*Analysis, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT `+analysisColumns+` FROM analyses WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build analyses lookup: %w", err)
	}
	var items []*Analysis
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load analyses: %w", err)
	}
	for _, a := range items {
		out[a.ID] = a
	}
	return out, nil
}

func (r *AnalysisRepository) Update(ctx context.Context, a *Analysis) error {
	query := `UPDATE analyses SET title = :title, short_summary = :short_summary, content = :content, author = :author,
		reading_time_minutes = :reading_time_minutes, categories = :categories, tags = :tags,
		published_at = :published_at, published = :published, updated_at = :updated_at WHERE id = :id`
	if err := execAffecting(ctx, r.db, query, a); err != nil {
		return fmt.Errorf("failed to update analysis %s: %w", a.ID, err)
	}
	return nil
}

func (r *AnalysisRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "analyses", id)
}

// List returns one page of analyses, newest publication first.
func (r *AnalysisRepository) List(ctx context.Context, f AnalysisFilter) ([]*Analysis, int, error) {
	var c conditions
	f.apply(&c, []string{"title", "short_summary", "author"})
	c.contains("categories", f.Category)
	return selectPage[Analysis](ctx, r.db, "analyses", analysisColumns, f.orderBy("published_at DESC"), &c, f.Offset, f.Limit)
}

// Search matches published analyses on title, summary and author.
func (r *AnalysisRepository) Search(ctx context.Context, term string, limit int) ([]*Analysis, error) {
	var c conditions
	c.published(OnlyPublished())
	c.anyContains([]string{"title", "short_summary", "author"}, term)
	items, _, err := selectPage[Analysis](ctx, r.db, "analyses", analysisColumns, "published_at DESC", &c, 0, limit)
	return items, err
}
