package service

import (
	"context"
	"errors"
	"ir-portal/internal/data"
	"strings"
	"time"
)

// NewsRepository defines the interface for database operations on news items.
type NewsRepository interface {
	Create(ctx context.Context, n *data.NewsItem) error
	GetByID(ctx context.Context, id string) (*data.NewsItem, error)
	Update(ctx context.Context, n *data.NewsItem) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f data.NewsFilter) ([]*data.NewsItem, int, error)
	Search(ctx context.Context, term string, limit int) ([]*data.NewsItem, error)
	CountByRegion(ctx context.Context) (map[string]int, error)
}

// AnalysisLookup resolves the analysis a news item points at.
type AnalysisLookup interface {
	GetByID(ctx context.Context, id string) (*data.Analysis, error)
}

// NewsInput is the writable shape of a news item.
type NewsInput struct {
	Title             string     `json:"title" validate:"notblank"`
	Description       string     `json:"description" validate:"notblank"`
	Region            string     `json:"region" validate:"notblank"`
	Category          string     `json:"category" validate:"notblank"`
	Tags              string     `json:"tags"`
	PublishedAt       *time.Time `json:"publishedAt"`
	RelatedAnalysisID *string    `json:"relatedAnalysisId"`
	SourceURL         *string    `json:"sourceUrl"`
	Published         bool       `json:"published"`
}

// NewsQuery filters a news listing.
type NewsQuery struct {
	ListQuery
	Region   string
	Category string
}

// NewsService provides business logic for news items.
type NewsService struct {
	base
	repo     NewsRepository
	analyses AnalysisLookup
}

// NewNewsService creates a new NewsService.
func NewNewsService(repo NewsRepository, analyses AnalysisLookup, inv Invalidator) *NewsService {
	return &NewsService{base: newBase(inv), repo: repo, analyses: analyses}
}

func (s *NewsService) List(ctx context.Context, q NewsQuery) (*Page[data.NewsItem], error) {
	f := data.NewsFilter{
		ListOptions: q.options(),
		Region:      strings.TrimSpace(q.Region),
		Category:    strings.TrimSpace(q.Category),
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for _, n := range items {
		decorateNews(n, q.Admin)
	}
	return newPage(items, total, q.Pagination), nil
}

func (s *NewsService) Get(ctx context.Context, id string, admin bool) (*data.NewsItem, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !n.Published && !admin {
		return nil, ErrNotFound
	}
	decorateNews(n, admin)
	return n, nil
}

func (s *NewsService) Create(ctx context.Context, in NewsInput) (*data.NewsItem, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	related, err := s.related(ctx, in.RelatedAnalysisID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	n := &data.NewsItem{ID: s.newID(), CreatedAt: now}
	applyNews(n, in, now)
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	n.RelatedAnalysis = related
	s.inv.Invalidate(ctx)
	decorateNews(n, true)
	return n, nil
}

func (s *NewsService) Update(ctx context.Context, id string, in NewsInput) (*data.NewsItem, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	related, err := s.related(ctx, in.RelatedAnalysisID)
	if err != nil {
		return nil, err
	}
	applyNews(n, in, s.now())
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, translate(err)
	}
	n.RelatedAnalysis = related
	s.inv.Invalidate(ctx)
	decorateNews(n, true)
	return n, nil
}

func (s *NewsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.inv.Invalidate(ctx)
	return nil
}

// related checks that a referenced analysis exists.
func (s *NewsService) related(ctx context.Context, id *string) (*data.Analysis, error) {
	id = nullable(id)
	if id == nil {
		return nil, nil
	}
	a, err := s.analyses.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, invalid("relatedAnalysisId", "relatedAnalysisId does not reference an existing analysis")
		}
		return nil, err
	}
	return a, nil
}

func applyNews(n *data.NewsItem, in NewsInput, now time.Time) {
	n.Title = strings.TrimSpace(in.Title)
	n.Description = in.Description
	n.Region = strings.TrimSpace(in.Region)
	n.Category = strings.TrimSpace(in.Category)
	n.Tags = strings.TrimSpace(in.Tags)
	n.PublishedAt = orNow(in.PublishedAt, now)
	n.RelatedAnalysisID = nullable(in.RelatedAnalysisID)
	n.SourceURL = nullable(in.SourceURL)
	n.Published = in.Published
	n.UpdatedAt = now
}

// decorateNews fills derived fields and drops a related analysis anonymous readers may not see.
func decorateNews(n *data.NewsItem, admin bool) {
	n.TagList = ParseList(n.Tags)
	if n.RelatedAnalysis != nil {
		if !admin && !n.RelatedAnalysis.Published {
			n.RelatedAnalysis = nil
			return
		}
		decorateAnalysis(n.RelatedAnalysis)
	}
}
