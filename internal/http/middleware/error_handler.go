package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brightekpe/artisanhub-backend/internal/logger"
	"github.com/brightekpe/artisanhub-backend/internal/pkg/apperror"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
	"github.com/brightekpe/artisanhub-backend/internal/repository/common"
)

// ErrorHandler turns errors attached to the context into JSON
// responses. Internal errors are masked; domain errors keep their
// message and map onto the right status code.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("request error")
		}

		statusCode, message := classify(err)
		c.JSON(statusCode, gin.H{"error": message})
	}
}

// classify maps an error to a status code and client-safe message.
func classify(err error) (int, string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus, appErr.Message
	}

	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, repository.ErrArtisanNotFound):
		return http.StatusNotFound, "artisan not found"
	case errors.Is(err, repository.ErrJobNotFound):
		return http.StatusNotFound, "job not found"
	case errors.Is(err, repository.ErrRequestNotFound):
		return http.StatusNotFound, "project request not found"
	case errors.Is(err, repository.ErrMilestoneNotFound):
		return http.StatusNotFound, "milestone not found"
	case errors.Is(err, repository.ErrWithdrawalNotFound):
		return http.StatusNotFound, "withdrawal not found"
	case errors.Is(err, repository.ErrPaymentNotFound):
		return http.StatusNotFound, "payment not found"
	case errors.Is(err, repository.ErrNotificationNotFound):
		return http.StatusNotFound, "notification not found"
	case errors.Is(err, repository.ErrJobConflict):
		return http.StatusConflict, "job is not in the expected state"
	case errors.Is(err, repository.ErrWithdrawalNotPending):
		return http.StatusConflict, "withdrawal has already been processed"
	case errors.Is(err, repository.ErrRequestNotApproved):
		return http.StatusConflict, "project request is not approved"
	case errors.Is(err, repository.ErrInsufficientBalance):
		return http.StatusBadRequest, "insufficient balance"
	case errors.Is(err, repository.ErrJobNotOwned):
		return http.StatusForbidden, "job does not belong to you"
	// Class-level fallbacks for sentinels without a dedicated case.
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, "resource already exists"
	}

	msg := err.Error()
	if containsInternalKeywords(msg) {
		return http.StatusInternalServerError, "internal server error"
	}

	// Service-layer errors carry a client-readable message after the
	// "<component> service:" prefix.
	if idx := strings.Index(msg, "service: "); idx >= 0 {
		msg = msg[idx+len("service: "):]
	}

	statusCode := http.StatusBadRequest
	if strings.Contains(strings.ToLower(msg), "invalid credentials") {
		statusCode = http.StatusUnauthorized
	}
	return statusCode, msg
}

// containsInternalKeywords reports whether a message would leak
// implementation detail to clients.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"repository:",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
	}

	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
