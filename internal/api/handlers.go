package api

import (
	"encoding/json"
	"encoding/xml"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propertyscope/content-engine/internal/cache"
	"github.com/propertyscope/content-engine/internal/models"
	"github.com/propertyscope/content-engine/internal/quality"
	"github.com/propertyscope/content-engine/internal/sitemap"
	"github.com/propertyscope/content-engine/internal/storage"
)

const (
	sitemapCacheKey = "sitemap:xml"
	statsCacheKey   = "stats:json"
)

type Handler struct {
	store     storage.Store
	processor *quality.Processor
	builder   *sitemap.Builder
	siteCfg   sitemap.Config
	cache     *cache.Cache
	logger    *log.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PaginationResponse struct {
	Data  interface{} `json:"data"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// QualityStatsResponse is the dashboard contract: always a full stats
// structure, zeroed on failure, never a bodyless error.
type QualityStatsResponse struct {
	Stats      models.QualityBucket  `json:"stats"`
	LowQuality []*models.ContentItem `json:"lowQuality"`
}

type BatchProcessResponse struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
}

func NewHandler(store storage.Store, processor *quality.Processor, builder *sitemap.Builder, siteCfg sitemap.Config, respCache *cache.Cache, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		store:     store,
		processor: processor,
		builder:   builder,
		siteCfg:   siteCfg,
		cache:     respCache,
		logger:    logger,
	}
}

// GetQualityStats serves the content-quality dashboard. Internal failures
// degrade to a zeroed stats structure with an empty review list so the admin
// UI always has something to render.
func (h *Handler) GetQualityStats(c *gin.Context) {
	if h.processor == nil {
		c.JSON(http.StatusOK, QualityStatsResponse{LowQuality: []*models.ContentItem{}})
		return
	}

	ctx := c.Request.Context()
	if body, ok := h.cache.Get(ctx, statsCacheKey); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(body))
		return
	}

	bucket, lowQuality, err := h.processor.Stats(ctx)
	if err != nil {
		h.logger.Printf("api: quality stats failed, serving zeroed stats: %v", err)
		c.JSON(http.StatusOK, QualityStatsResponse{LowQuality: []*models.ContentItem{}})
		return
	}

	if lowQuality == nil {
		lowQuality = []*models.ContentItem{}
	}
	resp := QualityStatsResponse{Stats: bucket, LowQuality: lowQuality}

	// Only successful reads are cached; degraded responses should clear as
	// soon as storage recovers.
	if payload, err := json.Marshal(resp); err == nil {
		h.cache.Set(ctx, statsCacheKey, string(payload))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) BatchProcess(c *gin.Context) {
	if h.processor == nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Scoring is not available"})
		return
	}

	processed, updated, err := h.processor.ProcessBatch(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process content batch"})
		return
	}

	c.JSON(http.StatusOK, BatchProcessResponse{Processed: processed, Updated: updated})
}

// Sitemap renders the XML sitemap. It always answers with a valid urlset:
// with no working store it falls back to the minimal static sitemap.
func (h *Handler) Sitemap(c *gin.Context) {
	ctx := c.Request.Context()

	if body, ok := h.cache.Get(ctx, sitemapCacheKey); ok {
		c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(body))
		return
	}

	var entries []sitemap.Entry
	if h.builder != nil {
		entries = h.builder.Build(ctx)
	} else {
		entries = sitemap.Fallback(h.siteCfg)
	}

	doc := sitemap.ToXML(entries)
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		h.logger.Printf("api: sitemap marshal failed, serving fallback: %v", err)
		doc = sitemap.ToXML(sitemap.Fallback(h.siteCfg))
		body, _ = xml.MarshalIndent(doc, "", "  ")
	}

	payload := xml.Header + string(body)
	h.cache.Set(ctx, sitemapCacheKey, payload)
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(payload))
}

// storeReady rejects store-backed requests while storage is unavailable.
// The stats and sitemap endpoints have their own degraded paths instead.
func (h *Handler) storeReady(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Storage unavailable"})
		return false
	}
	return true
}

func (h *Handler) ListContent(c *gin.Context) {
	if !h.storeReady(c) {
		return
	}

	page, limit := getPaginationParams(c)
	offset := (page - 1) * limit

	filter := storage.ContentFilter{Limit: limit, Offset: offset}
	if t := c.Query("type"); t != "" {
		contentType := models.ContentType(t)
		filter.Type = &contentType
	}
	if p := c.Query("published"); p != "" {
		published := p == "true"
		filter.Published = &published
	}

	items, err := h.store.ListContentItems(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch content"})
		return
	}

	c.JSON(http.StatusOK, PaginationResponse{
		Data:  items,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) GetContent(c *gin.Context) {
	if !h.storeReady(c) {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid content ID"})
		return
	}

	item, err := h.store.GetContentItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch content"})
		return
	}

	if item == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Content not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) GetContentBySlug(c *gin.Context) {
	if !h.storeReady(c) {
		return
	}

	item, err := h.store.GetContentItemBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch content"})
		return
	}

	if item == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Content not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) SearchContent(c *gin.Context) {
	if !h.storeReady(c) {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Search query is required"})
		return
	}

	page, limit := getPaginationParams(c)
	offset := (page - 1) * limit

	items, err := h.store.SearchContentItems(c.Request.Context(), query, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to search content"})
		return
	}

	c.JSON(http.StatusOK, PaginationResponse{
		Data:  items,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) ListListings(c *gin.Context) {
	if !h.storeReady(c) {
		return
	}

	propertyType := c.Query("type")
	area := c.Query("area")

	var listings []*models.Listing
	var err error
	if propertyType != "" || area != "" {
		listings, err = h.store.ListListingsByTypeAndArea(c.Request.Context(), propertyType, area)
	} else {
		listings, err = h.store.ListPublishedListings(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch listings"})
		return
	}

	if listings == nil {
		listings = []*models.Listing{}
	}
	c.JSON(http.StatusOK, listings)
}

func (h *Handler) ListNeighborhoods(c *gin.Context) {
	if !h.storeReady(c) {
		return
	}

	neighborhoods, err := h.store.ListNeighborhoods(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch neighborhoods"})
		return
	}

	if neighborhoods == nil {
		neighborhoods = []*models.Neighborhood{}
	}
	c.JSON(http.StatusOK, neighborhoods)
}

// Utility functions
func getPaginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return page, limit
}
