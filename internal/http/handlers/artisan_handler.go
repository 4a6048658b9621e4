package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightekpe/artisanhub-backend/internal/dto"
	"github.com/brightekpe/artisanhub-backend/internal/http/handlers/common"
	"github.com/brightekpe/artisanhub-backend/internal/service"
)

// ArtisanHandler serves the public catalog and the artisan's own
// profile endpoints.
type ArtisanHandler struct {
	svc *service.ArtisanService
}

// NewArtisanHandler creates the handler.
func NewArtisanHandler(svc *service.ArtisanService) *ArtisanHandler {
	return &ArtisanHandler{svc: svc}
}

// Catalog GET /artisans
func (h *ArtisanHandler) Catalog(c *gin.Context) {
	artisans, err := h.svc.Catalog(c.Request.Context(), c.Query("trade"), c.Query("location"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, artisans)
}

// Get GET /artisans/:id
func (h *ArtisanHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	artisan, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, artisan)
}

// UpdateProfile PUT /artisans/me/profile
func (h *ArtisanHandler) UpdateProfile(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UpdateArtisanProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	artisan, err := h.svc.UpdateProfile(c.Request.Context(), artisanID, service.UpdateProfileInput{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Trade:      req.Trade,
		PriceRange: req.PriceRange,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, artisan)
}

// UpdateLocation PUT /artisans/me/location
func (h *ArtisanHandler) UpdateLocation(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UpdateArtisanLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	artisan, err := h.svc.UpdateLocation(c.Request.Context(), artisanID, service.UpdateLocationInput{
		Town:           req.Town,
		Region:         req.Region,
		DigitalAddress: req.DigitalAddress,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, artisan)
}

// UpdateAvailability PUT /artisans/me/status
func (h *ArtisanHandler) UpdateAvailability(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.SetAvailability(c.Request.Context(), artisanID, req.Status); err != nil {
		c.Error(err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "status updated", nil)
}

// Dashboard GET /artisans/me/dashboard
func (h *ArtisanHandler) Dashboard(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	dashboard, err := h.svc.Dashboard(c.Request.Context(), artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
