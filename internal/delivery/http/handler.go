package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
	"github.com/rs/zerolog"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparison *usecase.ComparisonService
	logger     zerolog.Logger
}

// NewHandler creates a new HTTP handler. A nil service makes every
// comparison endpoint answer 501.
func NewHandler(comparison *usecase.ComparisonService, logger zerolog.Logger) *Handler {
	return &Handler{
		comparison: comparison,
		logger:     logger.With().Str("component", "http").Logger(),
	}
}

type matchRequest struct {
	Names []string `json:"names" binding:"required,min=1"`
}

type compareRequest struct {
	Vendors []string          `json:"vendors"`
	Records []domain.RawInput `json:"records" binding:"required,min=1,dive"`
}

type compareFreeRequest struct {
	compareRequest
	IntraThreshold *int `json:"intraThreshold"`
	CrossThreshold *int `json:"crossThreshold"`
}

type storefrontsRequest struct {
	Storefronts []domain.Storefront `json:"storefronts" binding:"required,min=1,dive"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// GetCatalog returns the catalog used for catalog-mode comparisons
func (h *Handler) GetCatalog(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	c.JSON(http.StatusOK, h.comparison.Catalog())
}

// MatchNames classifies a batch of product names against the catalog
func (h *Handler) MatchNames(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req matchRequest
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.comparison.MatchNames(req.Names))
}

// CompareCatalog compares vendors over records matched against the catalog
func (h *Handler) CompareCatalog(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req compareRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.comparison.CompareCatalog(c.Request.Context(), req.Vendors, req.Records)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CompareFree compares vendors over products discovered by clustering
func (h *Handler) CompareFree(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req compareFreeRequest
	if !bindJSON(c, &req) {
		return
	}

	opts := usecase.FreeOptions{IntraThreshold: req.IntraThreshold, CrossThreshold: req.CrossThreshold}
	report, err := h.comparison.CompareFree(c.Request.Context(), req.Vendors, req.Records, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CompareStorefronts collects catalog prices from live storefronts and
// compares them
func (h *Handler) CompareStorefronts(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req storefrontsRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.comparison.CompareStorefronts(c.Request.Context(), req.Storefronts)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.comparison == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "comparison service not configured"})
		return false
	}
	return true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return false
	}
	return true
}

// handleError maps domain errors to HTTP responses
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStorefrontsDisabled):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "storefront collection not configured"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
	case errors.Is(err, domain.ErrStorefrontFailure):
		h.logger.Warn().Err(err).Msg("storefront collection failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "storefront temporarily unavailable"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
