package service

import (
	"context"
	"ir-portal/internal/data"
	"strings"
	"time"
)

// PodcastRepository defines the interface for database operations on podcasts.
type PodcastRepository interface {
	Create(ctx context.Context, p *data.Podcast) error
	GetByID(ctx context.Context, id string) (*data.Podcast, error)
	Update(ctx context.Context, p *data.Podcast) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f data.PodcastFilter) ([]*data.Podcast, int, error)
	Search(ctx context.Context, term string, limit int) ([]*data.Podcast, error)
}

// PodcastInput is the writable shape of a podcast.
type PodcastInput struct {
	Title           string     `json:"title" validate:"notblank"`
	Description     string     `json:"description" validate:"notblank"`
	DurationMinutes int        `json:"durationMinutes" validate:"gte=0"`
	Topic           string     `json:"topic" validate:"notblank"`
	Tags            string     `json:"tags"`
	VideoURL        string     `json:"videoUrl" validate:"notblank"`
	ThumbnailURL    *string    `json:"thumbnailUrl"`
	PublishedAt     *time.Time `json:"publishedAt"`
	Featured        bool       `json:"featured"`
	Published       bool       `json:"published"`
}

// PodcastQuery filters a podcast listing.
type PodcastQuery struct {
	ListQuery
	Topic        string
	FeaturedOnly bool
}

// PodcastService provides business logic for podcasts.
type PodcastService struct {
	base
	repo PodcastRepository
}

// NewPodcastService creates a new PodcastService.
func NewPodcastService(repo PodcastRepository, inv Invalidator) *PodcastService {
	return &PodcastService{base: newBase(inv), repo: repo}
}

func (s *PodcastService) List(ctx context.Context, q PodcastQuery) (*Page[data.Podcast], error) {
	f := data.PodcastFilter{ListOptions: q.options(), Topic: strings.TrimSpace(q.Topic), FeaturedOnly: q.FeaturedOnly}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for _, p := range items {
		decoratePodcast(p)
	}
	return newPage(items, total, q.Pagination), nil
}

func (s *PodcastService) Get(ctx context.Context, id string, admin bool) (*data.Podcast, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !p.Published && !admin {
		return nil, ErrNotFound
	}
	decoratePodcast(p)
	return p, nil
}

func (s *PodcastService) Create(ctx context.Context, in PodcastInput) (*data.Podcast, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	now := s.now()
	p := &data.Podcast{ID: s.newID(), CreatedAt: now}
	applyPodcast(p, in, now)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	decoratePodcast(p)
	return p, nil
}

func (s *PodcastService) Update(ctx context.Context, id string, in PodcastInput) (*data.Podcast, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	applyPodcast(p, in, s.now())
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, translate(err)
	}
	s.inv.Invalidate(ctx)
	decoratePodcast(p)
	return p, nil
}

func (s *PodcastService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.inv.Invalidate(ctx)
	return nil
}

func applyPodcast(p *data.Podcast, in PodcastInput, now time.Time) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.DurationMinutes = in.DurationMinutes
	p.Topic = strings.TrimSpace(in.Topic)
	p.Tags = strings.TrimSpace(in.Tags)
	p.VideoURL = strings.TrimSpace(in.VideoURL)
	p.ThumbnailURL = nullable(in.ThumbnailURL)
	p.PublishedAt = orNow(in.PublishedAt, now)
	p.Featured = in.Featured
	p.Published = in.Published
	p.UpdatedAt = now
}

func decoratePodcast(p *data.Podcast) {
	p.TagList = ParseList(p.Tags)
}
