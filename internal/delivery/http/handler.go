package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/internal/infrastructure/sources"
	"github.com/ucuzbot/backend/internal/usecase"
	"github.com/ucuzbot/backend/pkg/logger"
)

const (
	serviceName    = "ucuzbot-backend"
	serviceVersion = "1.0.0"

	maxLimitPerSource = 50
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService *usecase.SearchService
	watchService  *usecase.WatchService
	catalog       sources.Catalog
}

// NewHandler creates a new HTTP handler. Nil services make their endpoints answer 503.
func NewHandler(searchService *usecase.SearchService, watchService *usecase.WatchService, catalog sources.Catalog) *Handler {
	return &Handler{
		searchService: searchService,
		watchService:  watchService,
		catalog:       catalog,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Search handles GET /api/v1/search?q=&stores=&limit=&category=
func (h *Handler) Search(c *gin.Context) {
	if h.searchService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request := domain.SearchRequest{
		Query:          c.Query("q"),
		SourceIDs:      splitList(c.QueryArray("stores")),
		LimitPerSource: limit,
		CategorySlug:   c.Query("category"),
	}

	result, err := h.searchService.Search(c.Request.Context(), request)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListStores handles GET /api/v1/stores
func (h *Handler) ListStores(c *gin.Context) {
	stores := h.catalog
	if stores == nil {
		stores = sources.Catalog{}
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// ListCategories handles GET /api/v1/categories?q=. With a query it returns
// the categories detected for it, otherwise the full table.
func (h *Handler) ListCategories(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, gin.H{"categories": usecase.Categories()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "categories": usecase.DetectCategories(q)})
}

// checkWatchRequest is the body of POST /api/v1/watches/check
type checkWatchRequest struct {
	Query       string          `json:"query" binding:"required"`
	TargetPrice decimal.Decimal `json:"target_price"`
	Stores      []string        `json:"stores"`
	Category    string          `json:"category"`
}

// CheckWatch handles POST /api/v1/watches/check, a one-off check that is not stored
func (h *Handler) CheckWatch(c *gin.Context) {
	if h.watchService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "watch service not configured"})
		return
	}

	var body checkWatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	check, err := h.watchService.Check(c.Request.Context(), domain.Watch{
		Query:        body.Query,
		TargetPrice:  body.TargetPrice,
		SourceIDs:    body.Stores,
		CategorySlug: body.Category,
		Active:       true,
	})
	if err != nil && check == nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, check)
}

// writeError maps domain errors to status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLimitPerSource {
		return 0, errors.New("limit must be an integer between 1 and 50")
	}
	return n, nil
}

// splitList accepts both repeated parameters and comma separated values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
