package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightekpe/artisanhub-backend/internal/dto"
	"github.com/brightekpe/artisanhub-backend/internal/http/handlers/common"
	"github.com/brightekpe/artisanhub-backend/internal/service"
)

// JobHandler serves the job lifecycle endpoints.
type JobHandler struct {
	jobs       *service.JobService
	settlement *service.SettlementService
}

// NewJobHandler creates the handler.
func NewJobHandler(jobs *service.JobService, settlement *service.SettlementService) *JobHandler {
	return &JobHandler{jobs: jobs, settlement: settlement}
}

// Book POST /jobs
func (h *JobHandler) Book(c *gin.Context) {
	clientID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.BookJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.jobs.Book(c.Request.Context(), clientID, service.BookInput{
		ArtisanID:    req.ArtisanID,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Budget:       req.Budget,
		NotifyOthers: req.NotifyOthers,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// Get GET /jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	callerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	job, err := h.jobs.GetDetail(c.Request.Context(), jobID, callerID, role)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListMine GET /jobs/my (client)
func (h *JobHandler) ListMine(c *gin.Context) {
	clientID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobs, err := h.jobs.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// ListAssigned GET /jobs/assigned (artisan)
func (h *JobHandler) ListAssigned(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobs, err := h.jobs.ListForArtisan(c.Request.Context(), artisanID, c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// ListAvailable GET /jobs/available (artisan)
func (h *JobHandler) ListAvailable(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobs, err := h.jobs.ListAvailable(c.Request.Context(), artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// CountNew GET /jobs/available/new?since=RFC3339 (artisan)
func (h *JobHandler) CountNew(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	// The new-jobs badge polls on a short window by default.
	since := time.Now().Add(-5 * time.Minute)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			common.RespondBadRequest(c, "since must be an RFC 3339 timestamp")
			return
		}
		since = parsed
	}

	count, err := h.jobs.CountNewAvailable(c.Request.Context(), artisanID, since)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Accept POST /jobs/:id/accept (artisan)
func (h *JobHandler) Accept(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	job, err := h.jobs.Accept(c.Request.Context(), jobID, artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Decline POST /jobs/:id/decline (artisan)
func (h *JobHandler) Decline(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	job, err := h.jobs.Decline(c.Request.Context(), jobID, artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CompleteByClient POST /jobs/:id/complete (client confirms, rates)
func (h *JobHandler) CompleteByClient(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	clientID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CompleteJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.settlement.CompleteByClient(c.Request.Context(), jobID, clientID, req.Rating, req.Review)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CompleteByArtisan POST /jobs/:id/complete-by-artisan
func (h *JobHandler) CompleteByArtisan(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	result, err := h.settlement.CompleteByArtisan(c.Request.Context(), jobID, artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Payment GET /jobs/:id/payment
func (h *JobHandler) Payment(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	callerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	// Participant check first so non-parties cannot probe settlements.
	if _, err := h.jobs.GetDetail(c.Request.Context(), jobID, callerID, role); err != nil {
		c.Error(err)
		return
	}

	payment, err := h.settlement.PaymentForJob(c.Request.Context(), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
