package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	repo       domain.CatalogRepository
	matcher    *usecase.MatcherService
	ingest     *usecase.IngestService
	comparison *usecase.ComparisonService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	repo domain.CatalogRepository,
	matcher *usecase.MatcherService,
	ingest *usecase.IngestService,
	comparison *usecase.ComparisonService,
) *Handler {
	return &Handler{
		repo:       repo,
		matcher:    matcher,
		ingest:     ingest,
		comparison: comparison,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// MatchProduct scores one extracted price line against the catalog and
// returns the best match, or a null match when nothing is compatible
func (h *Handler) MatchProduct(c *gin.Context) {
	var query domain.MatchQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	candidates, err := h.repo.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}

	result, err := h.matcher.FindBestMatch(c.Request.Context(), &query, candidates)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "matching failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": result})
}

// ingestRequest is the body of a document ingest call
type ingestRequest struct {
	UploadID string              `json:"uploadId"`
	Lines    []domain.MatchQuery `json:"lines" binding:"required"`
}

// IngestDocument runs every extracted line of one document through the
// matching pipeline and returns the per-line outcomes
func (h *Handler) IngestDocument(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.UploadID == "" {
		req.UploadID = uuid.NewString()
	}

	report, err := h.ingest.ProcessDocument(c.Request.Context(), req.UploadID, req.Lines)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDocument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "document contains no extractable lines"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListProducts returns the full canonical catalog
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.repo.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}
	if products == nil {
		products = []domain.CanonicalProduct{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// ProductComparison reports how a price compares across suppliers for one
// catalog product. The price to compare comes from the query string; the
// supplier parameter excludes the caller's own quotes.
func (h *Handler) ProductComparison(c *gin.Context) {
	productID := c.Param("id")

	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if err != nil || price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price query parameter must be a positive number"})
		return
	}
	excludeSupplier := c.Query("supplier")

	report, err := h.comparison.CompareAcrossSuppliers(c.Request.Context(), productID, price, excludeSupplier)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comparison failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ProductHistory returns the price-change history for one catalog product
func (h *Handler) ProductHistory(c *gin.Context) {
	productID := c.Param("id")

	if _, err := h.repo.GetProduct(c.Request.Context(), productID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}

	changes, err := h.repo.PriceChanges(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load price history"})
		return
	}
	if changes == nil {
		changes = []domain.PriceChange{}
	}

	c.JSON(http.StatusOK, gin.H{"productId": productID, "changes": changes})
}
