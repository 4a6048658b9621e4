package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightekpe/artisanhub-backend/internal/dto"
	"github.com/brightekpe/artisanhub-backend/internal/http/handlers/common"
	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/service"
)

// ProjectHandler serves the project brief and collaboration endpoints.
type ProjectHandler struct {
	svc *service.ProjectService
}

// NewProjectHandler creates the handler.
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// identity pulls the caller's ID and role in one go.
func (h *ProjectHandler) identity(c *gin.Context) (uuid.UUID, models.Role, bool) {
	callerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return uuid.Nil, "", false
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return uuid.Nil, "", false
	}
	return callerID, role, true
}

// SubmitRequest POST /project-requests
func (h *ProjectHandler) SubmitRequest(c *gin.Context) {
	clientID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.ProjectRequestCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	created, err := h.svc.SubmitRequest(c.Request.Context(), clientID, service.ProjectRequestInput{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		ProposedBudget: req.ProposedBudget,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListMyRequests GET /project-requests/my
func (h *ProjectHandler) ListMyRequests(c *gin.Context) {
	clientID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	requests, err := h.svc.ListMyRequests(c.Request.Context(), clientID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// PostUpdate POST /projects/:id/updates
func (h *ProjectHandler) PostUpdate(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	callerID, role, ok := h.identity(c)
	if !ok {
		return
	}

	var req dto.ProjectUpdateCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	update, err := h.svc.PostUpdate(c.Request.Context(), jobID, callerID, role, req.Message, req.PhotoURL)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, update)
}

// ListUpdates GET /projects/:id/updates
func (h *ProjectHandler) ListUpdates(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	callerID, role, ok := h.identity(c)
	if !ok {
		return
	}

	updates, err := h.svc.ListUpdates(c.Request.Context(), jobID, callerID, role)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updates)
}

// AddMilestone POST /projects/:id/milestones
func (h *ProjectHandler) AddMilestone(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	callerID, role, ok := h.identity(c)
	if !ok {
		return
	}

	var req dto.MilestoneCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	milestone, err := h.svc.AddMilestone(c.Request.Context(), jobID, callerID, role, req.Title)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, milestone)
}

// ListMilestones GET /projects/:id/milestones
func (h *ProjectHandler) ListMilestones(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	callerID, role, ok := h.identity(c)
	if !ok {
		return
	}

	milestones, err := h.svc.ListMilestones(c.Request.Context(), jobID, callerID, role)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, milestones)
}

// ToggleMilestone PUT /projects/:id/milestones/:milestoneId
func (h *ProjectHandler) ToggleMilestone(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	milestoneID, err := common.ParseUUIDParam(c, "milestoneId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	callerID, role, ok := h.identity(c)
	if !ok {
		return
	}

	milestone, err := h.svc.ToggleMilestone(c.Request.Context(), milestoneID, jobID, callerID, role)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}

// DeleteMilestone DELETE /projects/:id/milestones/:milestoneId
func (h *ProjectHandler) DeleteMilestone(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	milestoneID, err := common.ParseUUIDParam(c, "milestoneId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	callerID, role, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteMilestone(c.Request.Context(), milestoneID, jobID, callerID, role); err != nil {
		c.Error(err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "milestone deleted", nil)
}

// SendChatMessage POST /projects/:id/chat
func (h *ProjectHandler) SendChatMessage(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	callerID, role, ok := h.identity(c)
	if !ok {
		return
	}

	var req dto.ChatMessageCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	msg, err := h.svc.SendChatMessage(c.Request.Context(), jobID, callerID, role, req.Body)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListChatMessages GET /projects/:id/chat
func (h *ProjectHandler) ListChatMessages(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	callerID, role, ok := h.identity(c)
	if !ok {
		return
	}

	limit, offset := common.GetPagination(c)
	messages, err := h.svc.ListChatMessages(c.Request.Context(), jobID, callerID, role, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
