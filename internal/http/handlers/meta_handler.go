package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightekpe/artisanhub-backend/internal/models"
)

// MetaHandler serves the static reference lists frontends render
// dropdowns from.
type MetaHandler struct{}

// NewMetaHandler creates the handler.
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Regions GET /meta/regions
func (h *MetaHandler) Regions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": models.GhanaRegions})
}

// Trades GET /meta/trades
func (h *MetaHandler) Trades(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"trades": models.Trades})
}
