package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"neptune/internal/model"
	"neptune/internal/service"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
	log           *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService, log *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		log:           log,
	}
}

// Search handles POST /api/search and POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Query is required"})
		return
	}

	response, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"request_id": RequestID(c),
			"query":      req.Query,
		}).WithError(err).Error("search failed")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Intent handles GET /api/v1/intent?q=...
func (h *SearchHandler) Intent(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Query is required"})
		return
	}

	c.JSON(http.StatusOK, h.searchService.ExtractIntent(query))
}

// GetProvider handles GET /api/v1/providers/:id
func (h *SearchHandler) GetProvider(c *gin.Context) {
	provider, ok := h.searchService.GetProvider(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Provider not found"})
		return
	}

	c.JSON(http.StatusOK, provider)
}

// Categories handles GET /api/v1/categories
func (h *SearchHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.searchService.Categories()})
}
