package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightekpe/artisanhub-backend/internal/dto"
	"github.com/brightekpe/artisanhub-backend/internal/http/handlers/common"
	"github.com/brightekpe/artisanhub-backend/internal/service"
)

// AuthHandler serves client and admin account endpoints.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler creates the handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Refresh POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.RespondUnauthorized(c, "invalid refresh token")
		return
	}
	c.JSON(http.StatusOK, pair)
}

// GetMe GET /profile
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe PUT /profile
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.UpdateContact(c.Request.Context(), userID, req.FullName, req.Phone); err != nil {
		c.Error(err)
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteMe DELETE /profile
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	if err := h.svc.DeleteAccount(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "account deleted", nil)
}
