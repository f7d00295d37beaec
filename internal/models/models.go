package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType distinguishes editorial articles from news posts.
type ContentType string

const (
	ContentTypeArticle ContentType = "article"
	ContentTypeNews    ContentType = "news"
)

type ContentItem struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	Type            ContentType `json:"type"`
	Body            string      `json:"body"`
	MetaDescription string      `json:"meta_description,omitempty"`
	Images          []ImageRef  `json:"images,omitempty"`
	Keywords        []string    `json:"keywords,omitempty"`
	QualityScore    *float64    `json:"quality_score,omitempty"`
	Issues          []string    `json:"issues,omitempty"`
	Featured        bool        `json:"featured"`
	Published       bool        `json:"published"`
	PublishedAt     *time.Time  `json:"published_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type ImageRef struct {
	ID        uuid.UUID `json:"id"`
	ContentID uuid.UUID `json:"content_id"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Listing struct {
	ID           uuid.UUID  `json:"id"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	PropertyType string     `json:"property_type"`
	Neighborhood string     `json:"neighborhood"`
	Featured     bool       `json:"featured"`
	Published    bool       `json:"published"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Neighborhood struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PropertyType struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// QualityBucket is derived per stats request and never persisted.
// Counts always satisfy Total == HighQuality + MediumQuality + LowQuality.
type QualityBucket struct {
	Total         int     `json:"total"`
	HighQuality   int     `json:"highQuality"`
	MediumQuality int     `json:"mediumQuality"`
	LowQuality    int     `json:"lowQuality"`
	AverageScore  float64 `json:"averageScore"`
	NeedsReview   int     `json:"needsReview"`
}

// ScoreJob tracks the periodic batch-scoring runs.
type ScoreJob struct {
	ID        uuid.UUID  `json:"id"`
	Status    string     `json:"status"`
	Interval  string     `json:"interval"`
	BatchSize int        `json:"batchSize"`
	Processed int        `json:"processed"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	NextRun   *time.Time `json:"nextRun,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
