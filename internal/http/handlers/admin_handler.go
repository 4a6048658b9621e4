package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightekpe/artisanhub-backend/internal/dto"
	"github.com/brightekpe/artisanhub-backend/internal/http/handlers/common"
	"github.com/brightekpe/artisanhub-backend/internal/service"
)

// AdminHandler serves the admin review surfaces: the onboarding
// pipeline, the withdrawal queue and project-request review.
type AdminHandler struct {
	onboarding *service.OnboardingService
	settlement *service.SettlementService
	projects   *service.ProjectService
}

// NewAdminHandler creates the handler.
func NewAdminHandler(onboarding *service.OnboardingService, settlement *service.SettlementService, projects *service.ProjectService) *AdminHandler {
	return &AdminHandler{
		onboarding: onboarding,
		settlement: settlement,
		projects:   projects,
	}
}

// Dashboard GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.onboarding.Dashboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// ApproveDocuments POST /admin/artisans/:id/verify
func (h *AdminHandler) ApproveDocuments(c *gin.Context) {
	artisanID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	status, err := h.onboarding.ApproveDocuments(c.Request.Context(), artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// RejectApplication DELETE /admin/artisans/:id
func (h *AdminHandler) RejectApplication(c *gin.Context) {
	artisanID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.onboarding.RejectApplication(c.Request.Context(), artisanID); err != nil {
		c.Error(err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "application rejected", nil)
}

// ConfirmSubscription POST /admin/artisans/:id/subscription
func (h *AdminHandler) ConfirmSubscription(c *gin.Context) {
	artisanID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	status, err := h.onboarding.ConfirmSubscription(c.Request.Context(), artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// RevokeSubscription DELETE /admin/artisans/:id/subscription
func (h *AdminHandler) RevokeSubscription(c *gin.Context) {
	artisanID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	status, err := h.onboarding.RevokeSubscription(c.Request.Context(), artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// PendingWithdrawals GET /admin/withdrawals
func (h *AdminHandler) PendingWithdrawals(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	withdrawals, err := h.settlement.PendingWithdrawals(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

// ApproveWithdrawal POST /admin/withdrawals/:id/approve
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.settlement.ApproveWithdrawal(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// RejectWithdrawal POST /admin/withdrawals/:id/reject
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.RejectWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.settlement.RejectWithdrawal(c.Request.Context(), id, req.Reason)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// ReviewQueue GET /admin/project-requests
func (h *AdminHandler) ReviewQueue(c *gin.Context) {
	requests, err := h.projects.ReviewQueue(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ApproveRequest POST /admin/project-requests/:id/approve
func (h *AdminHandler) ApproveRequest(c *gin.Context) {
	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	req, err := h.projects.ApproveRequest(c.Request.Context(), requestID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// AssignRequest POST /admin/project-requests/:id/assign
func (h *AdminHandler) AssignRequest(c *gin.Context) {
	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.AssignProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.projects.AssignRequest(c.Request.Context(), requestID, req.ArtisanID, req.FinalAmount)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, job)
}
