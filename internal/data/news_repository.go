package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const newsColumns = `id, title, description, region, category, tags, published_at, related_analysis_id, source_url, published, created_at, updated_at`

// NewsFilter narrows a news listing.
type NewsFilter struct {
	ListOptions
	Region   string
	Category string
}

// NewsRepository persists news items and resolves their related analysis.
type NewsRepository struct {
	db       *sqlx.DB
	analyses *AnalysisRepository
}

// NewNewsRepository creates a new NewsRepository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db, analyses: NewAnalysisRepository(db)}
}

func (r *NewsRepository) Create(ctx context.Context, n *NewsItem) error {
	query := `INSERT INTO news_items (` + newsColumns + `)
		VALUES (:id, :title, :description, :region, :category, :tags, :published_at, :related_analysis_id, :source_url, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("failed to create news item: %w", err)
	}
	return nil
}

func (r *NewsRepository) GetByID(ctx context.Context, id string) (*NewsItem, error) {
	var n NewsItem
	query := `SELECT ` + newsColumns + ` FROM news_items WHERE id = ?`
	if err := getOne(ctx, r.db, &n, query, id); err != nil {
		return nil, fmt.Errorf("failed to get news item %s: %w", id, err)
	}
	if err := r.attachAnalyses(ctx, []*NewsItem{&n}); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NewsRepository) Update(ctx context.Context, n *NewsItem) error {
	query := `UPDATE news_items SET title = :title, description = :description, region = :region, category = :category,
		tags = :tags, published_at = :published_at, related_analysis_id = :related_analysis_id, source_url = :source_url,
		published = :published, updated_at = :updated_at WHERE id = :id`
	if err := execAffecting(ctx, r.db, query, n); err != nil {
		return fmt.Errorf("failed to update news item %s: %w", n.ID, err)
	}
	return nil
}

func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "news_items", id)
}

// List returns one page of news, newest first, each with its related analysis attached.
func (r *NewsRepository) List(ctx context.Context, f NewsFilter) ([]*NewsItem, int, error) {
	var c conditions
	f.apply(&c, []string{"title", "description", "tags"})
	c.equals("region", f.Region)
	c.equals("category", f.Category)
	items, total, err := selectPage[NewsItem](ctx, r.db, "news_items", newsColumns, f.orderBy("published_at DESC"), &c, f.Offset, f.Limit)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachAnalyses(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Search matches published news on title and description.
func (r *NewsRepository) Search(ctx context.Context, term string, limit int) ([]*NewsItem, error) {
	var c conditions
	c.published(OnlyPublished())
	c.anyContains([]string{"title", "description"}, term)
	items, _, err := selectPage[NewsItem](ctx, r.db, "news_items", newsColumns, "published_at DESC", &c, 0, limit)
	return items, err
}

// CountByRegion counts published news per region.
func (r *NewsRepository) CountByRegion(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Region string `db:"region"`
		Total  int    `db:"total"`
	}
	query := `SELECT region, COUNT(*) AS total FROM news_items WHERE published = ? GROUP BY region`
	if err := r.db.SelectContext(ctx, &rows, query, true); err != nil {
		return nil, fmt.Errorf("failed to count news by region: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Region] = row.Total
	}
	return counts, nil
}

func (r *NewsRepository) attachAnalyses(ctx context.Context, items []*NewsItem) error {
	var ids []string
	for _, n := range items {
		if n.RelatedAnalysisID != nil {
			ids = append(ids, *n.RelatedAnalysisID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	related, err := r.analyses.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, n := range items {
		if n.RelatedAnalysisID != nil {
			n.RelatedAnalysis = related[*n.RelatedAnalysisID]
		}
	}
	return nil
}
