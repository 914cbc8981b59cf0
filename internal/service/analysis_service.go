package service

import (
	"context"
	"ir-portal/internal/data"
	"strings"
	"time"
)

// AnalysisRepository defines the interface for database operations on analyses.
type AnalysisRepository interface {
	Create(ctx context.Context, a *data.Analysis) error
	GetByID(ctx context.Context, id string) (*data.Analysis, error)
	Update(ctx context.Context, a *data.Analysis) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f data.AnalysisFilter) ([]*data.Analysis, int, error)
	Search(ctx context.Context, term string, limit int) ([]*data.Analysis, error)
}

// AnalysisInput is the writable shape of an analysis.
type AnalysisInput struct {
	Title              string     `json:"title" validate:"notblank"`
	ShortSummary       string     `json:"shortSummary" validate:"notblank"`
	Content            string     `json:"content" validate:"notblank"`
	Author             string     `json:"author" validate:"notblank"`
	ReadingTimeMinutes int        `json:"readingTimeMinutes" validate:"gte=0"`
	Categories         string     `json:"categories"`
	Tags               string     `json:"tags"`
	PublishedAt        *time.Time `json:"publishedAt"`
	Published          bool       `json:"published"`
}

// AnalysisQuery filters an analysis listing.
type AnalysisQuery struct {
	ListQuery
	Category string
}

// AnalysisService provides business logic for analyses.
type AnalysisService struct {
	base
	repo     AnalysisRepository
	renderer *Renderer
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(repo AnalysisRepository, renderer *Renderer, inv Invalidator) *AnalysisService {
	return &AnalysisService{base: newBase(inv), repo: repo, renderer: renderer}
}

func (s *AnalysisService) List(ctx context.Context, q AnalysisQuery) (*Page[data.Analysis], error) {
	items, total, err := s.repo.List(ctx, data.AnalysisFilter{ListOptions: q.options(), Category: strings.TrimSpace(q.Category)})
	if err != nil {
		return nil, err
	}
	for _, a := range items {
		decorateAnalysis(a)
	}
	return newPage(items, total, q.Pagination), nil
}

// Get returns an analysis with its markdown rendered to HTML.
func (s *AnalysisService) Get(ctx context.Context, id string, admin bool) (*data.Analysis, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !a.Published && !admin {
		return nil, ErrNotFound
	}
	if err := s.render(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnalysisService) Create(ctx context.Context, in AnalysisInput) (*data.Analysis, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	now := s.now()
	a := &data.Analysis{ID: s.newID(), CreatedAt: now}
	applyAnalysis(a, in, now)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	if err := s.render(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnalysisService) Update(ctx context.Context, id string, in AnalysisInput) (*data.Analysis, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	applyAnalysis(a, in, s.now())
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, translate(err)
	}
	s.inv.Invalidate(ctx)
	if err := s.render(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnalysisService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.inv.Invalidate(ctx)
	return nil
}

func (s *AnalysisService) render(a *data.Analysis) error {
	decorateAnalysis(a)
	if s.renderer == nil {
		return nil
	}
	html, err := s.renderer.Render(a.Content)
	if err != nil {
		return err
	}
	a.ContentHTML = html
	return nil
}

func applyAnalysis(a *data.Analysis, in AnalysisInput, now time.Time) {
	a.Title = strings.TrimSpace(in.Title)
	a.ShortSummary = in.ShortSummary
	a.Content = in.Content
	a.Author = strings.TrimSpace(in.Author)
	a.ReadingTimeMinutes = in.ReadingTimeMinutes
	a.Categories = strings.TrimSpace(in.Categories)
	a.Tags = strings.TrimSpace(in.Tags)
	a.PublishedAt = orNow(in.PublishedAt, now)
	a.Published = in.Published
	a.UpdatedAt = now
}

func decorateAnalysis(a *data.Analysis) {
	a.TagList = ParseList(a.Tags)
	a.CategoryList = ParseList(a.Categories)
}
