package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightekpe/artisanhub-backend/internal/dto"
	"github.com/brightekpe/artisanhub-backend/internal/http/handlers/common"
	"github.com/brightekpe/artisanhub-backend/internal/service"
)

// EarningsHandler serves the artisan's money endpoints: earnings
// summary, balance and withdrawals.
type EarningsHandler struct {
	svc *service.SettlementService
}

// NewEarningsHandler creates the handler.
func NewEarningsHandler(svc *service.SettlementService) *EarningsHandler {
	return &EarningsHandler{svc: svc}
}

// Earnings GET /earnings
func (h *EarningsHandler) Earnings(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	summary, err := h.svc.Earnings(c.Request.Context(), artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Balance GET /earnings/balance
func (h *EarningsHandler) Balance(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	balance, err := h.svc.AvailableBalance(c.Request.Context(), artisanID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available_balance": balance})
}

// RequestWithdrawal POST /withdrawals
func (h *EarningsHandler) RequestWithdrawal(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.svc.RequestWithdrawal(c.Request.Context(), artisanID, req.Amount, req.Method)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// ListWithdrawals GET /withdrawals
func (h *EarningsHandler) ListWithdrawals(c *gin.Context) {
	artisanID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	withdrawals, err := h.svc.ListWithdrawals(c.Request.Context(), artisanID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}
