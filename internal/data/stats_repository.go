package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Content tables, in the order the dashboard shows them.
const (
	TableArticles  = "articles"
	TableAnalyses  = "analyses"
	TableNews      = "news_items"
	TablePodcasts  = "podcasts"
	TableConcepts  = "concepts"
	TableResources = "resources"
	TableModules   = "learning_modules"
)

// ContentTables lists every content table.
var ContentTables = []string{TableArticles, TableAnalyses, TableNews, TablePodcasts, TableConcepts, TableResources, TableModules}

// ActivityTables are the tables whose daily activity the dashboard sums up.
var ActivityTables = []string{TableArticles, TableNews, TableAnalyses, TablePodcasts}

// TableCounts is the activity summary of one table.
type TableCounts struct {
	Total        int `db:"total" json:"total"`
	CreatedSince int `db:"created_since" json:"createdToday"`
	UpdatedSince int `db:"updated_since" json:"updatedToday"`
}

// StatsRepository computes dashboard counters over the content tables.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Counts returns the total rows of table, how many were created at or after since, and how many
// older rows were updated at or after since.
func (r *StatsRepository) Counts(ctx context.Context, table string, since time.Time) (TableCounts, error) {
	if !knownTable(table) {
		return TableCounts{}, fmt.Errorf("unknown content table %q", table)
	}
	var tc TableCounts
	query := `SELECT COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS created_since,
		COALESCE(SUM(CASE WHEN updated_at >= ? AND created_at < ? THEN 1 ELSE 0 END), 0) AS updated_since
		FROM ` + table
	if err := r.db.GetContext(ctx, &tc, query, since, since, since); err != nil {
		return TableCounts{}, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return tc, nil
}

// Ping checks the database connection.
func (r *StatsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func knownTable(table string) bool {
	for _, t := range ContentTables {
		if t == table {
			return true
		}
	}
	return false
}
