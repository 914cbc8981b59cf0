//go:build unit

package service

import (
	"context"
	"errors"
	"ir-portal/internal/data"
	"strings"
	"sync"
	"time"
)

// mockArticleRepository keeps articles in a map.
type mockArticleRepository struct {
	items      map[string]*data.Article
	lastFilter data.ArticleFilter
	err        error
	searchFn   func(term string, limit int) ([]*data.Article, error)
}

var _ ArticleRepository = (*mockArticleRepository)(nil)

func newMockArticleRepository(items ...*data.Article) *mockArticleRepository {
	m := &mockArticleRepository{items: map[string]*data.Article{}}
	for _, a := range items {
		m.items[a.ID] = a
	}
	return m
}

func (m *mockArticleRepository) Create(ctx context.Context, a *data.Article) error {
	if m.err != nil {
		return m.err
	}
	m.items[a.ID] = a
	return nil
}

func (m *mockArticleRepository) GetByID(ctx context.Context, id string) (*data.Article, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.items[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockArticleRepository) Update(ctx context.Context, a *data.Article) error {
	if _, ok := m.items[a.ID]; !ok {
		return data.ErrNotFound
	}
	m.items[a.ID] = a
	return nil
}

func (m *mockArticleRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockArticleRepository) List(ctx context.Context, f data.ArticleFilter) ([]*data.Article, int, error) {
	m.lastFilter = f
	if m.err != nil {
		return nil, 0, m.err
	}
	out := []*data.Article{}
	for _, a := range m.items {
		if f.Published != nil && a.Published != *f.Published {
			continue
		}
		if f.Tag != "" && !strings.Contains(strings.ToLower(a.Tags), strings.ToLower(f.Tag)) {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (m *mockArticleRepository) Search(ctx context.Context, term string, limit int) ([]*data.Article, error) {
	if m.searchFn != nil {
		return m.searchFn(term, limit)
	}
	return []*data.Article{}, nil
}

// mockAnalysisRepository answers lookups from a map; listings and searches are canned.
type mockAnalysisRepository struct {
	items      map[string]*data.Analysis
	lastFilter data.AnalysisFilter
	searchFn   func(term string, limit int) ([]*data.Analysis, error)
}

var _ AnalysisRepository = (*mockAnalysisRepository)(nil)

func (m *mockAnalysisRepository) Create(ctx context.Context, a *data.Analysis) error {
	m.items[a.ID] = a
	return nil
}

func (m *mockAnalysisRepository) GetByID(ctx context.Context, id string) (*data.Analysis, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAnalysisRepository) Update(ctx context.Context, a *data.Analysis) error {
	if _, ok := m.items[a.ID]; !ok {
		return data.ErrNotFound
	}
	m.items[a.ID] = a
	return nil
}

func (m *mockAnalysisRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockAnalysisRepository) List(ctx context.Context, f data.AnalysisFilter) ([]*data.Analysis, int, error) {
	m.lastFilter = f
	out := []*data.Analysis{}
	for _, a := range m.items {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (m *mockAnalysisRepository) Search(ctx context.Context, term string, limit int) ([]*data.Analysis, error) {
	if m.searchFn != nil {
		return m.searchFn(term, limit)
	}
	return []*data.Analysis{}, nil
}

// mockNewsRepository returns whatever it was given.
type mockNewsRepository struct {
	item    *data.NewsItem
	created *data.NewsItem
	counts  map[string]int
}

var _ NewsRepository = (*mockNewsRepository)(nil)

func (m *mockNewsRepository) Create(ctx context.Context, n *data.NewsItem) error {
	m.created = n
	return nil
}

func (m *mockNewsRepository) GetByID(ctx context.Context, id string) (*data.NewsItem, error) {
	if m.item == nil || m.item.ID != id {
		return nil, data.ErrNotFound
	}
	cp := *m.item
	if m.item.RelatedAnalysis != nil {
		ra := *m.item.RelatedAnalysis
		cp.RelatedAnalysis = &ra
	}
	return &cp, nil
}

func (m *mockNewsRepository) Update(ctx context.Context, n *data.NewsItem) error { return nil }

func (m *mockNewsRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockNewsRepository) List(ctx context.Context, f data.NewsFilter) ([]*data.NewsItem, int, error) {
	if m.item == nil {
		return []*data.NewsItem{}, 0, nil
	}
	n, _ := m.GetByID(ctx, m.item.ID)
	return []*data.NewsItem{n}, 1, nil
}

func (m *mockNewsRepository) Search(ctx context.Context, term string, limit int) ([]*data.NewsItem, error) {
	return []*data.NewsItem{}, nil
}

func (m *mockNewsRepository) CountByRegion(ctx context.Context) (map[string]int, error) {
	return m.counts, nil
}

// mockPodcastRepository fails on demand.
type mockPodcastRepository struct {
	err        error
	lastFilter data.PodcastFilter
}

var _ PodcastSearcher = (*mockPodcastRepository)(nil)

func (m *mockPodcastRepository) Search(ctx context.Context, term string, limit int) ([]*data.Podcast, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*data.Podcast{{ID: "p1", Title: "Podcast on " + term, Tags: "a, b"}}, nil
}

func (m *mockPodcastRepository) List(ctx context.Context, f data.PodcastFilter) ([]*data.Podcast, int, error) {
	m.lastFilter = f
	if m.err != nil {
		return nil, 0, m.err
	}
	return []*data.Podcast{}, 0, nil
}

// mockPodcastStore keeps podcasts in a map and filters listings the way the database does.
type mockPodcastStore struct {
	items      map[string]*data.Podcast
	lastFilter data.PodcastFilter
}

var _ PodcastRepository = (*mockPodcastStore)(nil)

func newMockPodcastStore(items ...*data.Podcast) *mockPodcastStore {
	m := &mockPodcastStore{items: map[string]*data.Podcast{}}
	for _, p := range items {
		m.items[p.ID] = p
	}
	return m
}

func (m *mockPodcastStore) Create(ctx context.Context, p *data.Podcast) error {
	m.items[p.ID] = p
	return nil
}

func (m *mockPodcastStore) GetByID(ctx context.Context, id string) (*data.Podcast, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPodcastStore) Update(ctx context.Context, p *data.Podcast) error {
	if _, ok := m.items[p.ID]; !ok {
		return data.ErrNotFound
	}
	m.items[p.ID] = p
	return nil
}

func (m *mockPodcastStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockPodcastStore) List(ctx context.Context, f data.PodcastFilter) ([]*data.Podcast, int, error) {
	m.lastFilter = f
	out := []*data.Podcast{}
	for _, p := range m.items {
		if f.Published != nil && p.Published != *f.Published {
			continue
		}
		if f.Topic != "" && p.Topic != f.Topic {
			continue
		}
		if f.FeaturedOnly && !p.Featured {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockPodcastStore) Search(ctx context.Context, term string, limit int) ([]*data.Podcast, error) {
	return []*data.Podcast{}, nil
}

// mockResourceRepository keeps resources in a map.
type mockResourceRepository struct {
	items      map[string]*data.Resource
	lastFilter data.ResourceFilter
}

var _ ResourceRepository = (*mockResourceRepository)(nil)

func newMockResourceRepository(items ...*data.Resource) *mockResourceRepository {
	m := &mockResourceRepository{items: map[string]*data.Resource{}}
	for _, r := range items {
		m.items[r.ID] = r
	}
	return m
}

func (m *mockResourceRepository) Create(ctx context.Context, r *data.Resource) error {
	m.items[r.ID] = r
	return nil
}

func (m *mockResourceRepository) GetByID(ctx context.Context, id string) (*data.Resource, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockResourceRepository) Update(ctx context.Context, r *data.Resource) error {
	if _, ok := m.items[r.ID]; !ok {
		return data.ErrNotFound
	}
	m.items[r.ID] = r
	return nil
}

func (m *mockResourceRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockResourceRepository) List(ctx context.Context, f data.ResourceFilter) ([]*data.Resource, int, error) {
	m.lastFilter = f
	out := []*data.Resource{}
	for _, r := range m.items {
		if f.Published != nil && r.Published != *f.Published {
			continue
		}
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

type mockModuleSearcher struct{}

func (mockModuleSearcher) Search(ctx context.Context, term string, limit int) ([]*data.LearningModule, error) {
	return []*data.LearningModule{}, nil
}

// mockModuleRepository records the module passed to Create and answers slug checks.
type mockModuleRepository struct {
	mockModuleSearcher
	bySlug  map[string]*data.LearningModule
	taken   bool
	created *data.LearningModule
}

var _ ModuleRepository = (*mockModuleRepository)(nil)

func (m *mockModuleRepository) Create(ctx context.Context, lm *data.LearningModule) error {
	m.created = lm
	return nil
}

func (m *mockModuleRepository) GetByID(ctx context.Context, id string) (*data.LearningModule, error) {
	for _, lm := range m.bySlug {
		if lm.ID == id {
			return lm, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockModuleRepository) GetBySlug(ctx context.Context, slug string) (*data.LearningModule, error) {
	if lm, ok := m.bySlug[slug]; ok {
		return lm, nil
	}
	return nil, data.ErrNotFound
}

func (m *mockModuleRepository) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	return m.taken, nil
}

func (m *mockModuleRepository) Update(ctx context.Context, lm *data.LearningModule) error { return nil }

func (m *mockModuleRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockModuleRepository) List(ctx context.Context, o data.ListOptions) ([]*data.LearningModule, int, error) {
	return []*data.LearningModule{}, 0, nil
}

// mockConceptRepository serves a fixed slice, honoring offset and limit.
type mockConceptRepository struct {
	items []*data.Concept
	calls []data.ListOptions
}

var _ ConceptRepository = (*mockConceptRepository)(nil)

func (m *mockConceptRepository) Create(ctx context.Context, c *data.Concept) error { return nil }

func (m *mockConceptRepository) GetByID(ctx context.Context, id string) (*data.Concept, error) {
	return nil, data.ErrNotFound
}

func (m *mockConceptRepository) Update(ctx context.Context, c *data.Concept) error { return nil }

func (m *mockConceptRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockConceptRepository) List(ctx context.Context, o data.ListOptions) ([]*data.Concept, int, error) {
	m.calls = append(m.calls, o)
	if o.Offset >= len(m.items) {
		return []*data.Concept{}, len(m.items), nil
	}
	end := len(m.items)
	if o.Limit > 0 && o.Offset+o.Limit < end {
		end = o.Offset + o.Limit
	}
	return m.items[o.Offset:end], len(m.items), nil
}

// mockCache is an in-memory Cache.
type mockCache struct {
	mu    sync.Mutex
	items map[string][]byte
	sets  int
}

var _ Cache = (*mockCache)(nil)

func newMockCache() *mockCache {
	return &mockCache{items: map[string][]byte{}}
}

func (c *mockCache) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[key], nil
}

func (c *mockCache) Set(key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.sets++
	return nil
}

func (c *mockCache) DeletePrefix(prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

// countingInvalidator counts notifications.
type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

// mockAdminRepository keeps admins by lowercased email.
type mockAdminRepository struct {
	byEmail map[string]*data.AdminUser
	err     error
}

var _ AdminRepository = (*mockAdminRepository)(nil)

func (m *mockAdminRepository) Create(ctx context.Context, u *data.AdminUser) error {
	u.Email = strings.ToLower(u.Email)
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockAdminRepository) GetByEmail(ctx context.Context, email string) (*data.AdminUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, data.ErrNotFound
	}
	return u, nil
}

func (m *mockAdminRepository) GetByID(ctx context.Context, id string) (*data.AdminUser, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, data.ErrNotFound
}

// mockStatsRepository returns the same counts for every table.
type mockStatsRepository struct {
	counts data.TableCounts
	since  time.Time
	tables []string
}

var _ StatsRepository = (*mockStatsRepository)(nil)

func (m *mockStatsRepository) Counts(ctx context.Context, table string, since time.Time) (data.TableCounts, error) {
	m.since = since
	m.tables = append(m.tables, table)
	return m.counts, nil
}

func (m *mockStatsRepository) Ping(ctx context.Context) error {
	return errors.New("unreachable")
}

func ptr[T any](v T) *T { return &v }
