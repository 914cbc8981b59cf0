package service

import (
	"context"
	"encoding/json"
	"fmt"
	"ir-portal/internal/data"
	"ir-portal/internal/logger"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
)

// Search limits.
const (
	MinSearchLength    = 2
	DefaultSearchLimit = 5
	MaxSearchLimit     = 50
)

const (
	searchKeyPrefix = "search:"
	tagKeyPrefix    = "tags:"
)

// Cache is the key/value store search and tag results are kept in.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	DeletePrefix(prefix string) error
}

// Searchers are the per-resource queries the fan-outs use.
type (
	ArticleSearcher interface {
		Search(ctx context.Context, term string, limit int) ([]*data.Article, error)
		List(ctx context.Context, f data.ArticleFilter) ([]*data.Article, int, error)
	}
	AnalysisSearcher interface {
		Search(ctx context.Context, term string, limit int) ([]*data.Analysis, error)
		List(ctx context.Context, f data.AnalysisFilter) ([]*data.Analysis, int, error)
	}
	PodcastSearcher interface {
		Search(ctx context.Context, term string, limit int) ([]*data.Podcast, error)
		List(ctx context.Context, f data.PodcastFilter) ([]*data.Podcast, int, error)
	}
	NewsSearcher interface {
		Search(ctx context.Context, term string, limit int) ([]*data.NewsItem, error)
		List(ctx context.Context, f data.NewsFilter) ([]*data.NewsItem, int, error)
	}
	ModuleSearcher interface {
		Search(ctx context.Context, term string, limit int) ([]*data.LearningModule, error)
	}
)

// SearchResults groups matches per resource. A category whose query failed stays nil
// and is left out of the JSON encoding.
type SearchResults struct {
	Articles []*data.Article        `json:"articles"`
	Analyses []*data.Analysis       `json:"analyses"`
	Podcasts []*data.Podcast        `json:"podcasts"`
	News     []*data.NewsItem       `json:"news"`
	Modules  []*data.LearningModule `json:"modules"`
}

func (r SearchResults) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, 5)
	putIfSet(out, "articles", r.Articles)
	putIfSet(out, "analyses", r.Analyses)
	putIfSet(out, "podcasts", r.Podcasts)
	putIfSet(out, "news", r.News)
	putIfSet(out, "modules", r.Modules)
	return json.Marshal(out)
}

// emptyResults is what a too-short query returns: every category present and empty.
func emptyResults() *SearchResults {
	return &SearchResults{
		Articles: []*data.Article{},
		Analyses: []*data.Analysis{},
		Podcasts: []*data.Podcast{},
		News:     []*data.NewsItem{},
		Modules:  []*data.LearningModule{},
	}
}

// TagResults groups published content carrying a tag. Failed categories are nil, as in SearchResults.
type TagResults struct {
	Tag      string           `json:"tag"`
	Articles []*data.Article  `json:"articles"`
	Analyses []*data.Analysis `json:"analyses"`
	Podcasts []*data.Podcast  `json:"podcasts"`
	News     []*data.NewsItem `json:"news"`
}

func (r TagResults) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"tag": r.Tag}
	putIfSet(out, "articles", r.Articles)
	putIfSet(out, "analyses", r.Analyses)
	putIfSet(out, "podcasts", r.Podcasts)
	putIfSet(out, "news", r.News)
	return json.Marshal(out)
}

// putIfSet stores a result slice unless it is nil.
func putIfSet[T any](out map[string]interface{}, key string, items []*T) {
	if items != nil {
		out[key] = items
	}
}

// SearchService fans a query out across resources. It is also the Invalidator
// content services notify, since it owns the cached results.
type SearchService struct {
	articles ArticleSearcher
	analyses AnalysisSearcher
	podcasts PodcastSearcher
	news     NewsSearcher
	modules  ModuleSearcher
	cache    Cache
	ttl      time.Duration
	log      logger.Logger

	// gen advances on every invalidation. A fan-out only caches its result when
	// gen is unchanged since it started; mu keeps that check and the write atomic
	// with respect to Invalidate.
	mu  sync.RWMutex
	gen atomic.Uint64
}

// NewSearchService creates a new SearchService. cache may be nil to disable caching.
func NewSearchService(articles ArticleSearcher, analyses AnalysisSearcher, podcasts PodcastSearcher, news NewsSearcher,
	modules ModuleSearcher, cache Cache, ttl time.Duration, log logger.Logger) *SearchService {
	return &SearchService{
		articles: articles,
		analyses: analyses,
		podcasts: podcasts,
		news:     news,
		modules:  modules,
		cache:    cache,
		ttl:      ttl,
		log:      log,
	}
}

// Search returns published matches for q in every category, at most limit each.
func (s *SearchService) Search(ctx context.Context, q string, limit int) (*SearchResults, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < MinSearchLength {
		return emptyResults(), nil
	}
	if limit < 1 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	key := fmt.Sprintf("%s%d:%s", searchKeyPrefix, limit, strings.ToLower(q))
	var res SearchResults
	if s.cached(key, &res) {
		return &res, nil
	}

	gen := s.gen.Load()
	var (
		wg     conc.WaitGroup
		failed atomic.Bool
	)
	// Each category writes its own field; a failure only drops that category.
	run := func(name string, fn func() error) {
		wg.Go(func() {
			if err := fn(); err != nil {
				failed.Store(true)
				s.log.With(map[string]interface{}{"category": name, "query": q}).Error(err, "search category failed")
			}
		})
	}
	run("articles", func() error {
		items, err := s.articles.Search(ctx, q, limit)
		if err == nil {
			for _, a := range items {
				decorateArticle(a)
			}
			res.Articles = items
		}
		return err
	})
	run("analyses", func() error {
		items, err := s.analyses.Search(ctx, q, limit)
		if err == nil {
			for _, a := range items {
				decorateAnalysis(a)
			}
			res.Analyses = items
		}
		return err
	})
	run("podcasts", func() error {
		items, err := s.podcasts.Search(ctx, q, limit)
		if err == nil {
			for _, p := range items {
				decoratePodcast(p)
			}
			res.Podcasts = items
		}
		return err
	})
	run("news", func() error {
		items, err := s.news.Search(ctx, q, limit)
		if err == nil {
			for _, n := range items {
				decorateNews(n, false)
			}
			res.News = items
		}
		return err
	})
	run("modules", func() error {
		items, err := s.modules.Search(ctx, q, limit)
		if err == nil {
			res.Modules = items
		}
		return err
	})
	wg.Wait()

	if !failed.Load() {
		s.store(key, &res, gen)
	}
	return &res, nil
}

// ByTag returns published articles, analyses, podcasts and news whose tags contain tag.
func (s *SearchService) ByTag(ctx context.Context, tag string) (*TagResults, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, invalid("tag", "tag is required")
	}

	key := tagKeyPrefix + strings.ToLower(tag)
	res := TagResults{Tag: tag}
	if s.cached(key, &res) {
		return &res, nil
	}

	opts := data.ListOptions{Published: data.OnlyPublished(), Tag: tag}
	gen := s.gen.Load()
	var (
		wg     conc.WaitGroup
		failed atomic.Bool
	)
	run := func(name string, fn func() error) {
		wg.Go(func() {
			if err := fn(); err != nil {
				failed.Store(true)
				s.log.With(map[string]interface{}{"category": name, "tag": tag}).Error(err, "tag lookup failed")
			}
		})
	}
	run("articles", func() error {
		items, _, err := s.articles.List(ctx, data.ArticleFilter{ListOptions: opts})
		if err == nil {
			for _, a := range items {
				decorateArticle(a)
			}
			res.Articles = items
		}
		return err
	})
	run("analyses", func() error {
		items, _, err := s.analyses.List(ctx, data.AnalysisFilter{ListOptions: opts})
		if err == nil {
			for _, a := range items {
				decorateAnalysis(a)
			}
			res.Analyses = items
		}
		return err
	})
	run("podcasts", func() error {
		items, _, err := s.podcasts.List(ctx, data.PodcastFilter{ListOptions: opts})
		if err == nil {
			for _, p := range items {
				decoratePodcast(p)
			}
			res.Podcasts = items
		}
		return err
	})
	run("news", func() error {
		items, _, err := s.news.List(ctx, data.NewsFilter{ListOptions: opts})
		if err == nil {
			for _, n := range items {
				decorateNews(n, false)
			}
			res.News = items
		}
		return err
	})
	wg.Wait()

	if !failed.Load() {
		s.store(key, &res, gen)
	}
	return &res, nil
}

// Invalidate drops every cached search and tag result.
func (s *SearchService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen.Add(1)
	if s.cache == nil {
		return
	}
	for _, prefix := range []string{searchKeyPrefix, tagKeyPrefix} {
		if err := s.cache.DeletePrefix(prefix); err != nil {
			s.log.Error(err, "failed to invalidate cached results")
		}
	}
}

func (s *SearchService) cached(key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(key)
	if err != nil {
		s.log.Warn(fmt.Sprintf("cache read failed for %s: %v", key, err))
		return false
	}
	if raw == nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// store caches v unless an invalidation happened after gen was read.
func (s *SearchService) store(key string, v interface{}, gen uint64) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.gen.Load() != gen {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, raw, s.ttl); err != nil {
		s.log.Warn(fmt.Sprintf("cache write failed for %s: %v", key, err))
	}
}
