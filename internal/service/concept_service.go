package service

import (
	"context"
	"ir-portal/internal/data"
	"math/rand/v2"
	"strings"
	"time"
)

// ConceptRepository defines the interface for database operations on concepts.
type ConceptRepository interface {
	Create(ctx context.Context, c *data.Concept) error
	GetByID(ctx context.Context, id string) (*data.Concept, error)
	Update(ctx context.Context, c *data.Concept) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, o data.ListOptions) ([]*data.Concept, int, error)
}

// ConceptInput is the writable shape of a concept.
type ConceptInput struct {
	Name                string  `json:"name" validate:"notblank"`
	ShortDefinition     string  `json:"shortDefinition" validate:"notblank"`
	DetailedExplanation *string `json:"detailedExplanation"`
	RelatedTheory       *string `json:"relatedTheory"`
	Published           bool    `json:"published"`
}

// ConceptService provides business logic for concepts.
type ConceptService struct {
	base
	repo ConceptRepository
	pick func(n int) int
}

// NewConceptService creates a new ConceptService.
func NewConceptService(repo ConceptRepository, inv Invalidator) *ConceptService {
	return &ConceptService{base: newBase(inv), repo: repo, pick: rand.IntN}
}

func (s *ConceptService) List(ctx context.Context, q ListQuery) (*Page[data.Concept], error) {
	items, total, err := s.repo.List(ctx, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(items, total, q.Pagination), nil
}

// Random returns one visible concept chosen uniformly, or nil when there are none.
func (s *ConceptService) Random(ctx context.Context, q ListQuery) (*data.Concept, error) {
	opts := q.options()
	opts.Offset, opts.Limit = 0, 1
	_, total, err := s.repo.List(ctx, opts)
	if err != nil || total == 0 {
		return nil, err
	}
	opts.Offset = s.pick(total)
	items, _, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func (s *ConceptService) Get(ctx context.Context, id string, admin bool) (*data.Concept, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !c.Published && !admin {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *ConceptService) Create(ctx context.Context, in ConceptInput) (*data.Concept, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	now := s.now()
	c := &data.Concept{ID: s.newID(), CreatedAt: now}
	applyConcept(c, in, now)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	return c, nil
}

func (s *ConceptService) Update(ctx context.Context, id string, in ConceptInput) (*data.Concept, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	applyConcept(c, in, s.now())
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, translate(err)
	}
	s.inv.Invalidate(ctx)
	return c, nil
}

func (s *ConceptService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.inv.Invalidate(ctx)
	return nil
}

func applyConcept(c *data.Concept, in ConceptInput, now time.Time) {
	c.Name = strings.TrimSpace(in.Name)
	c.ShortDefinition = in.ShortDefinition
	c.DetailedExplanation = nullable(in.DetailedExplanation)
	c.RelatedTheory = nullable(in.RelatedTheory)
	c.Published = in.Published
	c.UpdatedAt = now
}
