package data

import (
	"html/template"
	"time"
)

// Article is a bibliographic entry pointing at a journal article or book.
type Article struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Authors       string    `db:"authors" json:"authors"`
	JournalOrBook *string   `db:"journal_or_book" json:"journalOrBook"`
	Year          *int      `db:"year" json:"year"`
	Summary       string    `db:"summary" json:"summary"`
	Tags          string    `db:"tags" json:"tags"`
	TagList       []string  `db:"-" json:"tagList"`
	ExternalURL   *string   `db:"external_url" json:"externalUrl"`
	ImageURL      *string   `db:"image_url" json:"imageUrl"`
	Published     bool      `db:"published" json:"published"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Analysis is a long-form piece written in markdown.
type Analysis struct {
	ID                 string        `db:"id" json:"id"`
	Title              string        `db:"title" json:"title"`
	ShortSummary       string        `db:"short_summary" json:"shortSummary"`
	Content            string        `db:"content" json:"content"`
	ContentHTML        template.HTML `db:"-" json:"contentHtml,omitempty"`
	Author             string        `db:"author" json:"author"`
	ReadingTimeMinutes int           `db:"reading_time_minutes" json:"readingTimeMinutes"`
	Categories         string        `db:"categories" json:"categories"`
	CategoryList       []string      `db:"-" json:"categoryList"`
	Tags               string        `db:"tags" json:"tags"`
	TagList            []string      `db:"-" json:"tagList"`
	PublishedAt        time.Time     `db:"published_at" json:"publishedAt"`
	Published          bool          `db:"published" json:"published"`
	CreatedAt          time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updatedAt"`
}

// NewsItem is a short news entry, optionally linked to an analysis.
type NewsItem struct {
	ID                string    `db:"id" json:"id"`
	Title             string    `db:"title" json:"title"`
	Description       string    `db:"description" json:"description"`
	Region            string    `db:"region" json:"region"`
	Category          string    `db:"category" json:"category"`
	Tags              string    `db:"tags" json:"tags"`
	TagList           []string  `db:"-" json:"tagList"`
	PublishedAt       time.Time `db:"published_at" json:"publishedAt"`
	RelatedAnalysisID *string   `db:"related_analysis_id" json:"relatedAnalysisId"`
	RelatedAnalysis   *Analysis `db:"-" json:"relatedAnalysis"`
	SourceURL         *string   `db:"source_url" json:"sourceUrl"`
	Published         bool      `db:"published" json:"published"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// Podcast is a video/audio episode.
type Podcast struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	DurationMinutes int       `db:"duration_minutes" json:"durationMinutes"`
	Topic           string    `db:"topic" json:"topic"`
	Tags            string    `db:"tags" json:"tags"`
	TagList         []string  `db:"-" json:"tagList"`
	VideoURL        string    `db:"video_url" json:"videoUrl"`
	ThumbnailURL    *string   `db:"thumbnail_url" json:"thumbnailUrl"`
	PublishedAt     time.Time `db:"published_at" json:"publishedAt"`
	Featured        bool      `db:"featured" json:"featured"`
	Published       bool      `db:"published" json:"published"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Concept is a glossary entry.
type Concept struct {
	ID                  string    `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	ShortDefinition     string    `db:"short_definition" json:"shortDefinition"`
	DetailedExplanation *string   `db:"detailed_explanation" json:"detailedExplanation"`
	RelatedTheory       *string   `db:"related_theory" json:"relatedTheory"`
	Published           bool      `db:"published" json:"published"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

// Resource is an external book, tool, think tank or similar.
type Resource struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Type          string    `db:"type" json:"type"`
	Description   string    `db:"description" json:"description"`
	RelatedTheory *string   `db:"related_theory" json:"relatedTheory"`
	ExternalURL   *string   `db:"external_url" json:"externalUrl"`
	Published     bool      `db:"published" json:"published"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// LearningModule is an ordered course unit. The list-like fields hold JSON arrays.
type LearningModule struct {
	ID                  string        `db:"id" json:"id"`
	Title               string        `db:"title" json:"title"`
	Slug                string        `db:"slug" json:"slug"`
	ShortDescription    string        `db:"short_description" json:"shortDescription"`
	LearningObjectives  string        `db:"learning_objectives" json:"learningObjectives"`
	KeyConcepts         string        `db:"key_concepts" json:"keyConcepts"`
	Content             string        `db:"content" json:"content"`
	ContentHTML         template.HTML `db:"-" json:"contentHtml,omitempty"`
	RecommendedReadings string        `db:"recommended_readings" json:"recommendedReadings"`
	QuizQuestions       string        `db:"quiz_questions" json:"quizQuestions"`
	OrderIndex          int           `db:"order_index" json:"orderIndex"`
	Published           bool          `db:"published" json:"published"`
	CreatedAt           time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updatedAt"`
}

// AdminUser is an account allowed into the admin surface.
type AdminUser struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
