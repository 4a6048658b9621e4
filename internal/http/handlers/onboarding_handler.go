package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightekpe/artisanhub-backend/internal/dto"
	"github.com/brightekpe/artisanhub-backend/internal/http/handlers/common"
	"github.com/brightekpe/artisanhub-backend/internal/service"
)

// OnboardingHandler serves artisan registration, login and the
// onboarding pipeline endpoints.
type OnboardingHandler struct {
	svc *service.OnboardingService
}

// NewOnboardingHandler creates the handler.
func NewOnboardingHandler(svc *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{svc: svc}
}

// Register POST /artisans/register
func (h *OnboardingHandler) Register(c *gin.Context) {
	var req dto.ArtisanRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Register(c.Request.Context(), service.ArtisanRegisterInput{
		FullName:        req.FullName,
		Phone:           req.Phone,
		Password:        req.Password,
		Trade:           req.Trade,
		Region:          req.Region,
		Town:            req.Town,
		DigitalAddress:  req.DigitalAddress,
		PriceRange:      req.PriceRange,
		GhanaCardNumber: req.GhanaCardNumber,
		HasCertificate:  req.HasCertificate,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login POST /artisans/login
func (h *OnboardingHandler) Login(c *gin.Context) {
	var req dto.ArtisanLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Status GET /artisans/onboarding/status
func (h *OnboardingHandler) Status(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	status, err := h.svc.Status(c.Request.Context(), artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ReportPayment POST /artisans/onboarding/payment
func (h *OnboardingHandler) ReportPayment(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.ReportPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	status, err := h.svc.ReportPayment(c.Request.Context(), artisanID, req.Reference)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, status)
}
