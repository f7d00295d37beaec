package models

import (
	"time"

	"github.com/google/uuid"
)

// NewContentItem creates a content item with generated UUID and timestamps
func NewContentItem(contentType ContentType) *ContentItem {
	now := time.Now()
	return &ContentItem{
		ID:        uuid.New(),
		Type:      contentType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewListing creates a listing with generated UUID and timestamps
func NewListing() *Listing {
	now := time.Now()
	return &Listing{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewNeighborhood creates a neighborhood with generated UUID and timestamps
func NewNeighborhood() *Neighborhood {
	now := time.Now()
	return &Neighborhood{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LastModified returns the most recent of updated/published/created time,
// falling back to now when none are set.
func (c *ContentItem) LastModified() time.Time {
	return latest(c.UpdatedAt, c.PublishedAt, c.CreatedAt)
}

// LastModified returns the most recent of updated/published/created time,
// falling back to now when none are set.
func (l *Listing) LastModified() time.Time {
	return latest(l.UpdatedAt, l.PublishedAt, l.CreatedAt)
}

func latest(updated time.Time, published *time.Time, created time.Time) time.Time {
	best := updated
	if published != nil && published.After(best) {
		best = *published
	}
	if created.After(best) {
		best = created
	}
	if best.IsZero() {
		return time.Now()
	}
	return best
}
