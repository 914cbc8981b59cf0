package service

import (
	"context"
	"ir-portal/internal/data"
	"time"
)

// StatsRepository is the counting side of the database.
type StatsRepository interface {
	Counts(ctx context.Context, table string, since time.Time) (data.TableCounts, error)
	Ping(ctx context.Context) error
}

// Stats is the admin dashboard summary.
type Stats struct {
	Counts map[string]data.TableCounts `json:"counts"`
	Today  struct {
		Created int `json:"created"`
		Updated int `json:"updated"`
	} `json:"today"`
	Recent struct {
		Articles []*data.Article  `json:"articles"`
		Analyses []*data.Analysis `json:"analyses"`
		Podcasts []*data.Podcast  `json:"podcasts"`
	} `json:"recent"`
}

// resourceNames maps tables onto the names used in URLs and JSON.
var resourceNames = map[string]string{
	data.TableArticles:  "articles",
	data.TableAnalyses:  "analyses",
	data.TableNews:      "news",
	data.TablePodcasts:  "podcasts",
	data.TableConcepts:  "concepts",
	data.TableResources: "resources",
	data.TableModules:   "modules",
}

const recentLimit = 3

// StatsService assembles the dashboard numbers.
type StatsService struct {
	stats    StatsRepository
	articles ArticleSearcher
	analyses AnalysisSearcher
	podcasts PodcastSearcher
	now      func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(stats StatsRepository, articles ArticleSearcher, analyses AnalysisSearcher, podcasts PodcastSearcher) *StatsService {
	return &StatsService{
		stats:    stats,
		articles: articles,
		analyses: analyses,
		podcasts: podcasts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Stats counts every content table and lists the latest articles, analyses and podcasts,
// published or not. "Today" starts at UTC midnight and sums articles, news, analyses and
// podcasts; an update only counts when the row was created before today.
func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	midnight := s.now().Truncate(24 * time.Hour)

	out := &Stats{Counts: make(map[string]data.TableCounts, len(data.ContentTables))}
	for _, table := range data.ContentTables {
		tc, err := s.stats.Counts(ctx, table, midnight)
		if err != nil {
			return nil, err
		}
		out.Counts[resourceNames[table]] = tc
		if isActivityTable(table) {
			out.Today.Created += tc.CreatedSince
			out.Today.Updated += tc.UpdatedSince
		}
	}

	recent := data.ListOptions{Limit: recentLimit, NewestFirst: true}
	var err error
	if out.Recent.Articles, _, err = s.articles.List(ctx, data.ArticleFilter{ListOptions: recent}); err != nil {
		return nil, err
	}
	if out.Recent.Analyses, _, err = s.analyses.List(ctx, data.AnalysisFilter{ListOptions: recent}); err != nil {
		return nil, err
	}
	if out.Recent.Podcasts, _, err = s.podcasts.List(ctx, data.PodcastFilter{ListOptions: recent}); err != nil {
		return nil, err
	}
	return out, nil
}

func isActivityTable(table string) bool {
	for _, t := range data.ActivityTables {
		if t == table {
			return true
		}
	}
	return false
}

// Healthy pings the database.
func (s *StatsService) Healthy(ctx context.Context) error {
	return s.stats.Ping(ctx)
}
