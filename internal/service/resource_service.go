package service

import (
	"context"
	"ir-portal/internal/data"
	"strings"
	"time"
)

// ResourceRepository defines the interface for database operations on resources.
type ResourceRepository interface {
	Create(ctx context.Context, r *data.Resource) error
	GetByID(ctx context.Context, id string) (*data.Resource, error)
	Update(ctx context.Context, r *data.Resource) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f data.ResourceFilter) ([]*data.Resource, int, error)
}

// ResourceInput is the writable shape of a resource.
type ResourceInput struct {
	Name          string  `json:"name" validate:"notblank"`
	Type          string  `json:"type" validate:"notblank"`
	Description   string  `json:"description" validate:"notblank"`
	RelatedTheory *string `json:"relatedTheory"`
	ExternalURL   *string `json:"externalUrl"`
	Published     bool    `json:"published"`
}

// ResourceQuery filters a resource listing.
type ResourceQuery struct {
	ListQuery
	Type          string
	RelatedTheory string
}

// ResourceService provides business logic for resources.
type ResourceService struct {
	base
	repo ResourceRepository
}

// NewResourceService creates a new ResourceService.
func NewResourceService(repo ResourceRepository, inv Invalidator) *ResourceService {
	return &ResourceService{base: newBase(inv), repo: repo}
}

func (s *ResourceService) List(ctx context.Context, q ResourceQuery) (*Page[data.Resource], error) {
	f := data.ResourceFilter{
		ListOptions:   q.options(),
		Type:          strings.TrimSpace(q.Type),
		RelatedTheory: strings.TrimSpace(q.RelatedTheory),
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, q.Pagination), nil
}

func (s *ResourceService) Get(ctx context.Context, id string, admin bool) (*data.Resource, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !r.Published && !admin {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *ResourceService) Create(ctx context.Context, in ResourceInput) (*data.Resource, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	now := s.now()
	r := &data.Resource{ID: s.newID(), CreatedAt: now}
	applyResource(r, in, now)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	return r, nil
}

func (s *ResourceService) Update(ctx context.Context, id string, in ResourceInput) (*data.Resource, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	applyResource(r, in, s.now())
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, translate(err)
	}
	s.inv.Invalidate(ctx)
	return r, nil
}

func (s *ResourceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.inv.Invalidate(ctx)
	return nil
}

func applyResource(r *data.Resource, in ResourceInput, now time.Time) {
	r.Name = strings.TrimSpace(in.Name)
	r.Type = strings.TrimSpace(in.Type)
	r.Description = in.Description
	r.RelatedTheory = nullable(in.RelatedTheory)
	r.ExternalURL = nullable(in.ExternalURL)
	r.Published = in.Published
	r.UpdatedAt = now
}
