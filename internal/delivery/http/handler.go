package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bharatpricing/backend/internal/domain"
	"github.com/bharatpricing/backend/internal/infrastructure/cache"
)

// SearchService runs the comparison pipeline for one request
type SearchService interface {
	Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search SearchService
	cache  *cache.MemoryCache
}

// NewHandler creates a new HTTP handler
func NewHandler(search SearchService, memoryCache *cache.MemoryCache) *Handler {
	return &Handler{search: search, cache: memoryCache}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "bharatpricing-backend",
		"version": "1.0.0",
	})
}

// Search handles product comparison requests
func (h *Handler) Search(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "search service not configured",
		})
		return
	}

	var request domain.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	response, err := h.search.Search(c.Request.Context(), &request)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// CacheStats returns cache hit/miss counters
func (h *Handler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Stats())
}

// CacheClear empties the result cache
func (h *Handler) CacheClear(c *gin.Context) {
	removed := h.cache.Clear()
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// statusForError maps pipeline errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
