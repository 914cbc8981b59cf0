package service

import (
	"context"
	"ir-portal/internal/data"
	"strings"
	"time"
)

// ArticleRepository defines the interface for database operations on articles.
type ArticleRepository interface {
	Create(ctx context.Context, a *data.Article) error
	GetByID(ctx context.Context, id string) (*data.Article, error)
	Update(ctx context.Context, a *data.Article) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f data.ArticleFilter) ([]*data.Article, int, error)
	Search(ctx context.Context, term string, limit int) ([]*data.Article, error)
}

// ArticleInput is the writable shape of an article.
type ArticleInput struct {
	Title         string  `json:"title" validate:"notblank"`
	Authors       string  `json:"authors" validate:"notblank"`
	JournalOrBook *string `json:"journalOrBook"`
	Year          *int    `json:"year" validate:"omitempty,gte=0"`
	Summary       string  `json:"summary" validate:"notblank"`
	Tags          string  `json:"tags"`
	ExternalURL   *string `json:"externalUrl"`
	ImageURL      *string `json:"imageUrl"`
	Published     bool    `json:"published"`
}

// ArticleQuery filters an article listing.
type ArticleQuery struct {
	ListQuery
	Year *int
}

// ArticleService provides business logic for articles.
type ArticleService struct {
	base
	repo ArticleRepository
}

// NewArticleService creates a new ArticleService.
func NewArticleService(repo ArticleRepository, inv Invalidator) *ArticleService {
	return &ArticleService{base: newBase(inv), repo: repo}
}

func (s *ArticleService) List(ctx context.Context, q ArticleQuery) (*Page[data.Article], error) {
	items, total, err := s.repo.List(ctx, data.ArticleFilter{ListOptions: q.options(), Year: q.Year})
	if err != nil {
		return nil, err
	}
	for _, a := range items {
		decorateArticle(a)
	}
	return newPage(items, total, q.Pagination), nil
}

// Get returns an article, hiding unpublished ones from anonymous callers.
func (s *ArticleService) Get(ctx context.Context, id string, admin bool) (*data.Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !a.Published && !admin {
		return nil, ErrNotFound
	}
	decorateArticle(a)
	return a, nil
}

func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (*data.Article, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	now := s.now()
	a := &data.Article{ID: s.newID(), CreatedAt: now}
	applyArticle(a, in, now)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	decorateArticle(a)
	return a, nil
}

// Update overwrites every writable field of an existing article.
func (s *ArticleService) Update(ctx context.Context, id string, in ArticleInput) (*data.Article, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	applyArticle(a, in, s.now())
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, translate(err)
	}
	s.inv.Invalidate(ctx)
	decorateArticle(a)
	return a, nil
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.inv.Invalidate(ctx)
	return nil
}

func applyArticle(a *data.Article, in ArticleInput, now time.Time) {
	a.Title = strings.TrimSpace(in.Title)
	a.Authors = strings.TrimSpace(in.Authors)
	a.JournalOrBook = nullable(in.JournalOrBook)
	a.Year = in.Year
	a.Summary = in.Summary
	a.Tags = strings.TrimSpace(in.Tags)
	a.ExternalURL = nullable(in.ExternalURL)
	a.ImageURL = nullable(in.ImageURL)
	a.Published = in.Published
	a.UpdatedAt = now
}

func decorateArticle(a *data.Article) {
	a.TagList = ParseList(a.Tags)
}
