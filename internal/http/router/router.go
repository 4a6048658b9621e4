package router

import (
	"github.com/gin-gonic/gin"

	"github.com/brightekpe/artisanhub-backend/internal/config"
	"github.com/brightekpe/artisanhub-backend/internal/http/handlers"
	"github.com/brightekpe/artisanhub-backend/internal/http/middleware"
	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/service"
)

// SetupRouter wires every endpoint. Access tiers:
//   - public: catalog, auth, reference lists, websocket upgrade
//   - client: booking, completions, project requests
//   - artisan pre-gate: onboarding status and payment reporting
//   - artisan gated: everything that requires full marketplace access
//   - admin: review queues and gate-flag control
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	onboardingHandler *handlers.OnboardingHandler,
	artisanHandler *handlers.ArtisanHandler,
	jobHandler *handlers.JobHandler,
	earningsHandler *handlers.EarningsHandler,
	projectHandler *handlers.ProjectHandler,
	adminHandler *handlers.AdminHandler,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
	metaHandler *handlers.MetaHandler,
	wsHandler *handlers.WSHandler,
	tokenManager *service.TokenManager,
	artisanGateStore middleware.ArtisanReader,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	// Auth endpoints carry a tighter rate limit than the rest of the API.
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)

	authGroup := api.Group("/auth")
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	artisanAuth := api.Group("/artisans")
	artisanAuth.Use(authRateLimit)
	{
		artisanAuth.POST("/register", onboardingHandler.Register)
		artisanAuth.POST("/login", onboardingHandler.Login)
	}

	// Public routes.
	api.GET("/artisans", artisanHandler.Catalog)
	api.GET("/artisans/:id", middleware.UUIDValidator("id"), artisanHandler.Get)
	api.GET("/meta/regions", metaHandler.Regions)
	api.GET("/meta/trades", metaHandler.Trades)
	api.GET("/ws", wsHandler.Handle)

	// Any authenticated user.
	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(tokenManager))
	{
		authed.GET("/notifications", notificationHandler.List)
		authed.GET("/notifications/unread/count", notificationHandler.CountUnread)
		authed.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		authed.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)

		authed.GET("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.Get)
		authed.GET("/jobs/:id/payment", middleware.UUIDValidator("id"), jobHandler.Payment)

		// Collaboration on a contracted project is open to both parties
		// and admins; the service enforces participation.
		authed.POST("/projects/:id/updates", middleware.UUIDValidator("id"), projectHandler.PostUpdate)
		authed.GET("/projects/:id/updates", middleware.UUIDValidator("id"), projectHandler.ListUpdates)
		authed.POST("/projects/:id/milestones", middleware.UUIDValidator("id"), projectHandler.AddMilestone)
		authed.GET("/projects/:id/milestones", middleware.UUIDValidator("id"), projectHandler.ListMilestones)
		authed.PUT("/projects/:id/milestones/:milestoneId", middleware.UUIDValidator("id"), middleware.UUIDValidator("milestoneId"), projectHandler.ToggleMilestone)
		authed.DELETE("/projects/:id/milestones/:milestoneId", middleware.UUIDValidator("id"), middleware.UUIDValidator("milestoneId"), projectHandler.DeleteMilestone)
		authed.POST("/projects/:id/chat", middleware.UUIDValidator("id"), projectHandler.SendChatMessage)
		authed.GET("/projects/:id/chat", middleware.UUIDValidator("id"), projectHandler.ListChatMessages)
	}

	// Clients.
	client := api.Group("/")
	client.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleClient))
	{
		client.GET("/profile", authHandler.GetMe)
		client.PUT("/profile", authHandler.UpdateMe)
		client.DELETE("/profile", authHandler.DeleteMe)

		client.POST("/jobs", jobHandler.Book)
		client.GET("/jobs/my", jobHandler.ListMine)
		client.POST("/jobs/:id/complete", middleware.UUIDValidator("id"), jobHandler.CompleteByClient)

		client.POST("/project-requests", projectHandler.SubmitRequest)
		client.GET("/project-requests/my", projectHandler.ListMyRequests)
	}

	// Artisans before the gate: the onboarding surface itself.
	artisanPre := api.Group("/artisans")
	artisanPre.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleArtisan))
	{
		artisanPre.GET("/onboarding/status", onboardingHandler.Status)
		artisanPre.POST("/onboarding/payment", onboardingHandler.ReportPayment)
	}

	// Artisans past the gate: full marketplace access.
	artisan := api.Group("/")
	artisan.Use(
		middleware.AuthMiddleware(tokenManager),
		middleware.RequireRole(models.RoleArtisan),
		middleware.ArtisanGate(artisanGateStore),
	)
	{
		artisan.GET("/artisans/me/dashboard", artisanHandler.Dashboard)
		artisan.PUT("/artisans/me/profile", artisanHandler.UpdateProfile)
		artisan.PUT("/artisans/me/location", artisanHandler.UpdateLocation)
		artisan.PUT("/artisans/me/status", artisanHandler.UpdateAvailability)

		artisan.GET("/jobs/assigned", jobHandler.ListAssigned)
		artisan.GET("/jobs/available", jobHandler.ListAvailable)
		artisan.GET("/jobs/available/new", jobHandler.CountNew)
		artisan.POST("/jobs/:id/accept", middleware.UUIDValidator("id"), jobHandler.Accept)
		artisan.POST("/jobs/:id/decline", middleware.UUIDValidator("id"), jobHandler.Decline)
		artisan.POST("/jobs/:id/complete-by-artisan", middleware.UUIDValidator("id"), jobHandler.CompleteByArtisan)

		artisan.GET("/earnings", earningsHandler.Earnings)
		artisan.GET("/earnings/balance", earningsHandler.Balance)
		artisan.POST("/withdrawals", earningsHandler.RequestWithdrawal)
		artisan.GET("/withdrawals", earningsHandler.ListWithdrawals)
	}

	// Admins.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.POST("/artisans/:id/verify", middleware.UUIDValidator("id"), adminHandler.ApproveDocuments)
		admin.DELETE("/artisans/:id", middleware.UUIDValidator("id"), adminHandler.RejectApplication)
		admin.POST("/artisans/:id/subscription", middleware.UUIDValidator("id"), adminHandler.ConfirmSubscription)
		admin.DELETE("/artisans/:id/subscription", middleware.UUIDValidator("id"), adminHandler.RevokeSubscription)

		admin.GET("/withdrawals", adminHandler.PendingWithdrawals)
		admin.POST("/withdrawals/:id/approve", middleware.UUIDValidator("id"), adminHandler.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/reject", middleware.UUIDValidator("id"), adminHandler.RejectWithdrawal)

		admin.GET("/project-requests", adminHandler.ReviewQueue)
		admin.POST("/project-requests/:id/approve", middleware.UUIDValidator("id"), adminHandler.ApproveRequest)
		admin.POST("/project-requests/:id/assign", middleware.UUIDValidator("id"), adminHandler.AssignRequest)
	}

	return r
}
