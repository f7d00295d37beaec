package quality

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyscope/content-engine/internal/models"
	"github.com/propertyscope/content-engine/internal/storage"
)

// fakeStore implements storage.Store with canned data for processor tests.
type fakeStore struct {
	items        []*models.ContentItem
	unscored     []*models.ContentItem
	listErr      error
	updateErr    error
	updatedIDs   []uuid.UUID
	savedJobs    []*models.ScoreJob
	imagesByItem map[uuid.UUID][]models.ImageRef
}

func (f *fakeStore) Initialize() error { return nil }
func (f *fakeStore) Close() error      { return nil }

func (f *fakeStore) CreateContentItem(ctx context.Context, item *models.ContentItem) error {
	return nil
}

func (f *fakeStore) GetContentItem(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	return nil, nil
}

func (f *fakeStore) GetContentItemBySlug(ctx context.Context, slug string) (*models.ContentItem, error) {
	return nil, nil
}

func (f *fakeStore) ListContentItems(ctx context.Context, filter storage.ContentFilter) ([]*models.ContentItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if filter.MaxScore != nil {
		var low []*models.ContentItem
		for _, item := range f.items {
			if item.QualityScore == nil || *item.QualityScore < *filter.MaxScore {
				low = append(low, item)
			}
		}
		return low, nil
	}
	return f.items, nil
}

func (f *fakeStore) ListUnscoredContentItems(ctx context.Context, limit int) ([]*models.ContentItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.unscored) {
		return f.unscored[:limit], nil
	}
	return f.unscored, nil
}

func (f *fakeStore) SearchContentItems(ctx context.Context, query string, limit, offset int) ([]*models.ContentItem, error) {
	return nil, nil
}

func (f *fakeStore) UpdateQualityScore(ctx context.Context, id uuid.UUID, score float64, issues []string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedIDs = append(f.updatedIDs, id)
	return nil
}

func (f *fakeStore) CreateListing(ctx context.Context, listing *models.Listing) error { return nil }

func (f *fakeStore) ListPublishedListings(ctx context.Context) ([]*models.Listing, error) {
	return nil, nil
}

func (f *fakeStore) ListListingsByTypeAndArea(ctx context.Context, propertyType, area string) ([]*models.Listing, error) {
	return nil, nil
}

func (f *fakeStore) CreateNeighborhood(ctx context.Context, n *models.Neighborhood) error { return nil }

func (f *fakeStore) ListNeighborhoods(ctx context.Context) ([]*models.Neighborhood, error) {
	return nil, nil
}

func (f *fakeStore) ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	return nil, nil
}

func (f *fakeStore) CreateImageRef(ctx context.Context, image *models.ImageRef) error { return nil }

func (f *fakeStore) ListImagesForContent(ctx context.Context, contentID uuid.UUID) ([]models.ImageRef, error) {
	return f.imagesByItem[contentID], nil
}

func (f *fakeStore) GetScoreJob(ctx context.Context) (*models.ScoreJob, error) { return nil, nil }

func (f *fakeStore) SaveScoreJob(ctx context.Context, job *models.ScoreJob) error {
	f.savedJobs = append(f.savedJobs, job)
	return nil
}

func unscoredItem(title string) *models.ContentItem {
	item := models.NewContentItem(models.ContentTypeArticle)
	item.Title = title
	item.Body = "<p>A short draft body.</p>"
	return item
}

func TestProcessBatch_ScoresAndPersists(t *testing.T) {
	store := &fakeStore{
		unscored: []*models.ContentItem{unscoredItem("First draft"), unscoredItem("Second draft")},
	}
	p := NewProcessor(store, 10, nil)

	processed, updated, err := p.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.Equal(t, 2, updated)
	assert.Len(t, store.updatedIDs, 2)
}

func TestProcessBatch_PersistFailureSkipsItem(t *testing.T) {
	store := &fakeStore{
		unscored:  []*models.ContentItem{unscoredItem("Draft")},
		updateErr: errors.New("write failed"),
	}
	p := NewProcessor(store, 10, nil)

	processed, updated, err := p.ProcessBatch(context.Background())

	require.NoError(t, err, "a per-item write failure must not abort the batch")
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, updated)
}

func TestProcessBatch_ListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}
	p := NewProcessor(store, 10, nil)

	_, _, err := p.ProcessBatch(context.Background())

	assert.Error(t, err)
}

func TestStats_AggregatesAndListsLowQuality(t *testing.T) {
	store := &fakeStore{
		items: []*models.ContentItem{scored(90), scored(55), scored(20)},
	}
	p := NewProcessor(store, 10, nil)

	bucket, low, err := p.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, bucket.Total)
	assert.Equal(t, 1, bucket.HighQuality)
	assert.Equal(t, 1, bucket.MediumQuality)
	assert.Equal(t, 1, bucket.LowQuality)
	assert.Len(t, low, 1)
}

func TestRunJob_RecordsBookkeeping(t *testing.T) {
	// RunJob writes its per-run log file relative to the working directory.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	store := &fakeStore{
		unscored: []*models.ContentItem{unscoredItem("Draft")},
	}
	p := NewProcessor(store, 10, nil)

	p.RunJob(context.Background(), 0)

	require.NotEmpty(t, store.savedJobs)
	final := store.savedJobs[len(store.savedJobs)-1]
	assert.Equal(t, "Completed", final.Status)
	assert.Equal(t, 1, final.Processed)
	assert.NotNil(t, final.LastRun)
}
