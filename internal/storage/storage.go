package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/propertyscope/content-engine/internal/models"
)

// ContentFilter narrows ListContentItems. Nil fields are ignored.
type ContentFilter struct {
	Type      *models.ContentType
	Published *bool
	MaxScore  *float64
	Limit     int
	Offset    int
}

type Store interface {
	Initialize() error
	Close() error

	// Content operations
	CreateContentItem(ctx context.Context, item *models.ContentItem) error
	GetContentItem(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
	GetContentItemBySlug(ctx context.Context, slug string) (*models.ContentItem, error)
	ListContentItems(ctx context.Context, filter ContentFilter) ([]*models.ContentItem, error)
	ListUnscoredContentItems(ctx context.Context, limit int) ([]*models.ContentItem, error)
	SearchContentItems(ctx context.Context, query string, limit, offset int) ([]*models.ContentItem, error)
	UpdateQualityScore(ctx context.Context, id uuid.UUID, score float64, issues []string) error

	// Listing operations
	CreateListing(ctx context.Context, listing *models.Listing) error
	ListPublishedListings(ctx context.Context) ([]*models.Listing, error)
	ListListingsByTypeAndArea(ctx context.Context, propertyType, area string) ([]*models.Listing, error)

	// Neighborhood operations
	CreateNeighborhood(ctx context.Context, neighborhood *models.Neighborhood) error
	ListNeighborhoods(ctx context.Context) ([]*models.Neighborhood, error)

	// Property type operations
	ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error)

	// Image operations
	CreateImageRef(ctx context.Context, image *models.ImageRef) error
	ListImagesForContent(ctx context.Context, contentID uuid.UUID) ([]models.ImageRef, error)

	// Score job bookkeeping
	GetScoreJob(ctx context.Context) (*models.ScoreJob, error)
	SaveScoreJob(ctx context.Context, job *models.ScoreJob) error
}
