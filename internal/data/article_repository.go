package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const articleColumns = `id, title, authors, journal_or_book, year, summary, tags, external_url, image_url, published, created_at, updated_at`

// ArticleFilter narrows an article listing.
type ArticleFilter struct {
	ListOptions
	Year *int
}

// ArticleRepository persists articles with sqlx.
type ArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(ctx context.Context, a *Article) error {
	query := `INSERT INTO articles (` + articleColumns + `)
		VALUES (:id, :title, :authors, :journal_or_book, :year, :summary, :tags, :external_url, :image_url, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*Article, error) {
	var a Article
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = ?`
	if err := getOne(ctx, r.db, &a, query, id); err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	return &a, nil
}

func (r *ArticleRepository) Update(ctx context.Context, a *Article) error {
	query := `UPDATE articles SET title = :title, authors = :authors, journal_or_book = :journal_or_book, year = :year,
		summary = :summary, tags = :tags, external_url = :external_url, image_url = :image_url,
		published = :published, updated_at = :updated_at WHERE id = :id`
	if err := execAffecting(ctx, r.db, query, a); err != nil {
		return fmt.Errorf("failed to update article %s: %w", a.ID, err)
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "articles", id)
}

// List returns one page of articles plus the total number of matching rows.
func (r *ArticleRepository) List(ctx context.Context, f ArticleFilter) ([]*Article, int, error) {
	var c conditions
	f.apply(&c, []string{"title", "authors", "tags"})
	if f.Year != nil {
		c.add("year = ?", *f.Year)
	}
	return selectPage[Article](ctx, r.db, "articles", articleColumns, f.orderBy("created_at DESC"), &c, f.Offset, f.Limit)
}

// Search matches published articles on title, authors and summary.
func (r *ArticleRepository) Search(ctx context.Context, term string, limit int) ([]*Article, error) {
	var c conditions
	c.published(OnlyPublished())
	c.anyContains([]string{"title", "authors", "summary"}, term)
	items, _, err := selectPage[Article](ctx, r.db, "articles", articleColumns, "created_at DESC", &c, 0, limit)
	return items, err
}
