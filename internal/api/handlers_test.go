package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyscope/content-engine/internal/models"
	"github.com/propertyscope/content-engine/internal/quality"
	"github.com/propertyscope/content-engine/internal/sitemap"
	"github.com/propertyscope/content-engine/internal/storage"
)

// errStore fails every operation, standing in for a dead database.
type errStore struct{}

var errDown = errors.New("database unavailable")

func (errStore) Initialize() error { return errDown }
func (errStore) Close() error      { return nil }
func (errStore) CreateContentItem(ctx context.Context, item *models.ContentItem) error {
	return errDown
}
func (errStore) GetContentItem(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	return nil, errDown
}
func (errStore) GetContentItemBySlug(ctx context.Context, slug string) (*models.ContentItem, error) {
	return nil, errDown
}
func (errStore) ListContentItems(ctx context.Context, filter storage.ContentFilter) ([]*models.ContentItem, error) {
	return nil, errDown
}
func (errStore) ListUnscoredContentItems(ctx context.Context, limit int) ([]*models.ContentItem, error) {
	return nil, errDown
}
func (errStore) SearchContentItems(ctx context.Context, query string, limit, offset int) ([]*models.ContentItem, error) {
	return nil, errDown
}
func (errStore) UpdateQualityScore(ctx context.Context, id uuid.UUID, score float64, issues []string) error {
	return errDown
}
func (errStore) CreateListing(ctx context.Context, listing *models.Listing) error { return errDown }
func (errStore) ListPublishedListings(ctx context.Context) ([]*models.Listing, error) {
	return nil, errDown
}
func (errStore) ListListingsByTypeAndArea(ctx context.Context, propertyType, area string) ([]*models.Listing, error) {
	return nil, errDown
}
func (errStore) CreateNeighborhood(ctx context.Context, neighborhood *models.Neighborhood) error {
	return errDown
}
func (errStore) ListNeighborhoods(ctx context.Context) ([]*models.Neighborhood, error) {
	return nil, errDown
}
func (errStore) ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	return nil, errDown
}
func (errStore) CreateImageRef(ctx context.Context, image *models.ImageRef) error { return errDown }
func (errStore) ListImagesForContent(ctx context.Context, contentID uuid.UUID) ([]models.ImageRef, error) {
	return nil, errDown
}
func (errStore) GetScoreJob(ctx context.Context) (*models.ScoreJob, error) { return nil, errDown }
func (errStore) SaveScoreJob(ctx context.Context, job *models.ScoreJob) error {
	return errDown
}

// okStore serves canned content over an errStore base.
type okStore struct {
	errStore
	items    []*models.ContentItem
	listings []*models.Listing
	unscored []*models.ContentItem
	updated  int
}

func (s *okStore) GetContentItemBySlug(ctx context.Context, slug string) (*models.ContentItem, error) {
	for _, item := range s.items {
		if item.Slug == slug {
			return item, nil
		}
	}
	return nil, nil
}

func (s *okStore) ListListingsByTypeAndArea(ctx context.Context, propertyType, area string) ([]*models.Listing, error) {
	var matches []*models.Listing
	for _, l := range s.listings {
		if propertyType != "" && l.PropertyType != propertyType {
			continue
		}
		if area != "" && l.Neighborhood != area {
			continue
		}
		matches = append(matches, l)
	}
	return matches, nil
}

func (s *okStore) ListContentItems(ctx context.Context, filter storage.ContentFilter) ([]*models.ContentItem, error) {
	if filter.MaxScore != nil {
		var low []*models.ContentItem
		for _, item := range s.items {
			if item.QualityScore == nil || *item.QualityScore < *filter.MaxScore {
				low = append(low, item)
			}
		}
		return low, nil
	}
	return s.items, nil
}

func (s *okStore) ListUnscoredContentItems(ctx context.Context, limit int) ([]*models.ContentItem, error) {
	return s.unscored, nil
}

func (s *okStore) UpdateQualityScore(ctx context.Context, id uuid.UUID, score float64, issues []string) error {
	s.updated++
	return nil
}

func (s *okStore) ListImagesForContent(ctx context.Context, contentID uuid.UUID) ([]models.ImageRef, error) {
	return nil, nil
}

func (s *okStore) GetScoreJob(ctx context.Context) (*models.ScoreJob, error) { return nil, nil }
func (s *okStore) SaveScoreJob(ctx context.Context, job *models.ScoreJob) error {
	return nil
}

func testSiteConfig() sitemap.Config {
	return sitemap.Config{
		BaseURL:       "https://example.com",
		Locales:       []string{"en", "ar"},
		DefaultLocale: "en",
	}
}

func newTestRouter(store storage.Store, processor *quality.Processor, builder *sitemap.Builder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(store, processor, builder, testSiteConfig(), nil, nil)
	return NewServer(0, handler).Router()
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func scoredItem(score float64) *models.ContentItem {
	item := models.NewContentItem(models.ContentTypeArticle)
	item.QualityScore = &score
	return item
}

func TestGetQualityStats_StoreFailureServesZeroedStats(t *testing.T) {
	store := errStore{}
	processor := quality.NewProcessor(store, 50, nil)
	router := newTestRouter(store, processor, nil)

	w := doRequest(router, http.MethodGet, "/api/content-quality/stats")

	require.Equal(t, http.StatusOK, w.Code)

	var resp QualityStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 0, resp.Stats.Total)
	assert.Equal(t, 0.0, resp.Stats.AverageScore)
	assert.NotNil(t, resp.LowQuality)
	assert.Empty(t, resp.LowQuality)
}

func TestGetQualityStats_NoProcessor(t *testing.T) {
	router := newTestRouter(nil, nil, nil)

	w := doRequest(router, http.MethodGet, "/api/content-quality/stats")

	require.Equal(t, http.StatusOK, w.Code)

	var resp QualityStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Stats.Total)
}

func TestGetQualityStats_Aggregates(t *testing.T) {
	store := &okStore{
		items: []*models.ContentItem{
			scoredItem(85),
			scoredItem(60),
			scoredItem(30),
			models.NewContentItem(models.ContentTypeNews), // unscored
		},
	}
	processor := quality.NewProcessor(store, 50, nil)
	router := newTestRouter(store, processor, nil)

	w := doRequest(router, http.MethodGet, "/api/content-quality/stats")

	require.Equal(t, http.StatusOK, w.Code)

	var resp QualityStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 4, resp.Stats.Total)
	assert.Equal(t, 1, resp.Stats.HighQuality)
	assert.Equal(t, 1, resp.Stats.MediumQuality)
	assert.Equal(t, 2, resp.Stats.LowQuality)
	assert.Equal(t, 2, resp.Stats.NeedsReview)
	assert.InDelta(t, (85.0+60.0+30.0)/3, resp.Stats.AverageScore, 0.001)
	assert.Len(t, resp.LowQuality, 2)
}

func TestBatchProcess(t *testing.T) {
	empty := models.NewContentItem(models.ContentTypeArticle)
	store := &okStore{unscored: []*models.ContentItem{empty}}
	processor := quality.NewProcessor(store, 50, nil)
	router := newTestRouter(store, processor, nil)

	w := doRequest(router, http.MethodPost, "/api/content-quality/batch-process")

	require.Equal(t, http.StatusOK, w.Code)

	var resp BatchProcessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Processed)
	assert.Equal(t, 1, resp.Updated)
	assert.Equal(t, 1, store.updated)
}

func TestBatchProcess_StoreFailure(t *testing.T) {
	store := errStore{}
	processor := quality.NewProcessor(store, 50, nil)
	router := newTestRouter(store, processor, nil)

	w := doRequest(router, http.MethodPost, "/api/content-quality/batch-process")

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestSitemap_FallbackWithoutBuilder(t *testing.T) {
	router := newTestRouter(nil, nil, nil)

	w := doRequest(router, http.MethodGet, "/sitemap.xml")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")

	body := w.Body.String()
	assert.Contains(t, body, "<urlset")
	assert.Contains(t, body, "http://www.sitemaps.org/schemas/sitemap/0.9")
	assert.Contains(t, body, "<loc>https://example.com/</loc>")
	assert.Contains(t, body, "<priority>1.00</priority>")
}

func TestSitemap_BuilderStaticRoutes(t *testing.T) {
	builder := sitemap.NewBuilder(testSiteConfig(), nil, nil)
	router := newTestRouter(nil, nil, builder)

	w := doRequest(router, http.MethodGet, "/sitemap.xml")

	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "<loc>https://example.com/properties</loc>")
	assert.Contains(t, body, "<loc>https://example.com/ar/blog</loc>")

	// Descending priority means the homepage is the first url element.
	first := strings.Index(body, "<loc>https://example.com/</loc>")
	props := strings.Index(body, "<loc>https://example.com/properties</loc>")
	require.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, props)
}

func TestGetContent_InvalidID(t *testing.T) {
	router := newTestRouter(errStore{}, nil, nil)

	w := doRequest(router, http.MethodGet, "/api/content/not-a-uuid")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListContent_StorageUnavailable(t *testing.T) {
	router := newTestRouter(nil, nil, nil)

	w := doRequest(router, http.MethodGet, "/api/content")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Storage unavailable", resp.Error)
}

func TestSearchContent_MissingQuery(t *testing.T) {
	router := newTestRouter(errStore{}, nil, nil)

	w := doRequest(router, http.MethodGet, "/api/content/search")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetContentBySlug(t *testing.T) {
	item := models.NewContentItem(models.ContentTypeArticle)
	item.Slug = "living-in-dubai-marina"
	store := &okStore{items: []*models.ContentItem{item}}
	router := newTestRouter(store, nil, nil)

	w := doRequest(router, http.MethodGet, "/api/content/slug/living-in-dubai-marina")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/content/slug/no-such-guide")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListListings_FilteredByTypeAndArea(t *testing.T) {
	villa := &models.Listing{Slug: "villa-1", PropertyType: "villa", Neighborhood: "palm-jumeirah"}
	apt := &models.Listing{Slug: "apt-1", PropertyType: "apartment", Neighborhood: "dubai-marina"}
	store := &okStore{listings: []*models.Listing{villa, apt}}
	router := newTestRouter(store, nil, nil)

	w := doRequest(router, http.MethodGet, "/api/listings?type=villa")
	require.Equal(t, http.StatusOK, w.Code)

	var got []*models.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "villa-1", got[0].Slug)

	w = doRequest(router, http.MethodGet, "/api/listings?area=dubai-marina")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "apt-1", got[0].Slug)
}

func TestListListings_StoreFailure(t *testing.T) {
	router := newTestRouter(errStore{}, nil, nil)

	w := doRequest(router, http.MethodGet, "/api/listings")

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(nil, nil, nil)

	w := doRequest(router, http.MethodGet, "/api/health")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
