package models

import (
	"testing"
	"time"
)

func TestLastModified_PrefersLatestTimestamp(t *testing.T) {
	created := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	published := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	item := &ContentItem{
		CreatedAt:   created,
		UpdatedAt:   updated,
		PublishedAt: &published,
	}

	if got := item.LastModified(); !got.Equal(published) {
		t.Fatalf("expected published time %v, got %v", published, got)
	}
}

func TestLastModified_NoPublishedAt(t *testing.T) {
	created := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	listing := &Listing{CreatedAt: created, UpdatedAt: updated}

	if got := listing.LastModified(); !got.Equal(updated) {
		t.Fatalf("expected updated time %v, got %v", updated, got)
	}
}

func TestLastModified_ZeroTimesFallBackToNow(t *testing.T) {
	item := &ContentItem{}

	before := time.Now()
	got := item.LastModified()

	if got.Before(before.Add(-time.Minute)) {
		t.Fatalf("expected a recent fallback time, got %v", got)
	}
}

func TestNewContentItem(t *testing.T) {
	item := NewContentItem(ContentTypeNews)

	if item.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("expected a generated ID")
	}
	if item.Type != ContentTypeNews {
		t.Fatalf("expected type news, got %s", item.Type)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}
