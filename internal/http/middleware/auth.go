package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
	"github.com/brightekpe/artisanhub-backend/internal/service"
)

// Context keys set on gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// AuthMiddleware verifies the JWT access token and stores the subject
// and role on the context.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		userID, role, err := tokens.ParseAccess(raw)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// RequireRole restricts a route to the given roles. It must run after
// AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(ContextRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		role, ok := raw.(models.Role)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// ArtisanReader is the lookup the gate needs.
type ArtisanReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error)
}

// ArtisanGate blocks artisans who have not finished onboarding. The
// artisan record is re-read on every request: tokens stay valid for
// minutes, but an admin can flip the gate flags at any moment, and the
// flip must take effect on the next request, not the next login.
//
// A missing record means the account was rejected mid-session; the
// client gets a 401 and must log the user out.
func ArtisanGate(artisans ArtisanReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(ContextUserIDKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		artisanID, ok := raw.(uuid.UUID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		artisan, err := artisans.GetByID(c.Request.Context(), artisanID)
		if err != nil {
			if errors.Is(err, repository.ErrArtisanNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":        "account no longer exists",
					"force_logout": true,
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if stage := artisan.Stage(); stage != models.StageComplete {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "onboarding incomplete",
				"stage": stage,
			})
			return
		}

		c.Next()
	}
}
