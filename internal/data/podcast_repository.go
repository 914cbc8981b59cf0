package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const podcastColumns = `id, title, description, duration_minutes, topic, tags, video_url, thumbnail_url, published_at, featured, published, created_at, updated_at`

// PodcastFilter narrows a podcast listing.
type PodcastFilter struct {
	ListOptions
	Topic        string
	FeaturedOnly bool
}

// PodcastRepository persists podcasts with sqlx.
type PodcastRepository struct {
	db *sqlx.DB
}

// NewPodcastRepository creates a new PodcastRepository.
func NewPodcastRepository(db *sqlx.DB) *PodcastRepository {
	return &PodcastRepository{db: db}
}

func (r *PodcastRepository) Create(ctx context.Context, p *Podcast) error {
	query := `INSERT INTO podcasts (` + podcastColumns + `)
		VALUES (:id, :title, :description, :duration_minutes, :topic, :tags, :video_url, :thumbnail_url, :published_at, :featured, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to create podcast: %w", err)
	}
	return nil
}

func (r *PodcastRepository) GetByID(ctx context.Context, id string) (*Podcast, error) {
	var p Podcast
	query := `SELECT ` + podcastColumns + ` FROM podcasts WHERE id = ?`
	if err := getOne(ctx, r.db, &p, query, id); err != nil {
		return nil, fmt.Errorf("failed to get podcast %s: %w", id, err)
	}
	return &p, nil
}

func (r *PodcastRepository) Update(ctx context.Context, p *Podcast) error {
	query := `UPDATE podcasts SET title = :title, description = :description, duration_minutes = :duration_minutes,
		topic = :topic, tags = :tags, video_url = :video_url, thumbnail_url = :thumbnail_url, published_at = :published_at,
		featured = :featured, published = :published, updated_at = :updated_at WHERE id = :id`
	if err := execAffecting(ctx, r.db, query, p); err != nil {
		return fmt.Errorf("failed to update podcast %s: %w", p.ID, err)
	}
	return nil
}

func (r *PodcastRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "podcasts", id)
}

func (r *PodcastRepository) List(ctx context.Context, f PodcastFilter) ([]*Podcast, int, error) {
	var c conditions
	f.apply(&c, []string{"title", "description", "tags"})
	c.equals("topic", f.Topic)
	if f.FeaturedOnly {
		c.add("featured = ?", true)
	}
	return selectPage[Podcast](ctx, r.db, "podcasts", podcastColumns, f.orderBy("published_at DESC"), &c, f.Offset, f.Limit)
}

// Search matches published podcasts on title and description.
func (r *PodcastRepository) Search(ctx context.Context, term string, limit int) ([]*Podcast, error) {
	var c conditions
	c.published(OnlyPublished())
	c.anyContains([]string{"title", "description"}, term)
	items, _, err := selectPage[Podcast](ctx, r.db, "podcasts", podcastColumns, "published_at DESC", &c, 0, limit)
	return items, err
}
