package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/brightekpe/artisanhub-backend/internal/config"
	"github.com/brightekpe/artisanhub-backend/internal/db"
	"github.com/brightekpe/artisanhub-backend/internal/goroutine"
	httpHandlers "github.com/brightekpe/artisanhub-backend/internal/http/handlers"
	httpRouter "github.com/brightekpe/artisanhub-backend/internal/http/router"
	"github.com/brightekpe/artisanhub-backend/internal/logger"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
	"github.com/brightekpe/artisanhub-backend/internal/service"
	"github.com/brightekpe/artisanhub-backend/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: load config: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: connect to database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: run migrations: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	recovery := goroutine.NewRecoveryHandler(logger.Log)

	// Repositories.
	userRepo := repository.NewUserRepository(dbConn)
	artisanRepo := repository.NewArtisanRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	paymentRepo := repository.NewPaymentRepository(dbConn)
	withdrawalRepo := repository.NewWithdrawalRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Websocket hub for live notification pushes.
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Services.
	notificationService := service.NewNotificationService(notificationRepo, userRepo, hub, recovery)
	authService := service.NewAuthService(userRepo, tokenManager)
	onboardingService := service.NewOnboardingService(artisanRepo, tokenManager, notificationService)
	artisanService := service.NewArtisanService(artisanRepo, jobRepo, paymentRepo, withdrawalRepo)
	jobService := service.NewJobService(jobRepo, artisanRepo, notificationService)
	settlementService := service.NewSettlementService(paymentRepo, withdrawalRepo, artisanRepo, jobRepo, notificationService)
	projectService := service.NewProjectService(projectRepo, jobRepo, artisanRepo, notificationService)

	// The admin account exists before the first request ever arrives.
	adminCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	if err := authService.EnsureAdmin(adminCtx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		cancel()
		log.Fatalf("main: provision admin account: %v", err)
	}
	cancel()

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(authService)
	onboardingHandler := httpHandlers.NewOnboardingHandler(onboardingService)
	artisanHandler := httpHandlers.NewArtisanHandler(artisanService)
	jobHandler := httpHandlers.NewJobHandler(jobService, settlementService)
	earningsHandler := httpHandlers.NewEarningsHandler(settlementService)
	projectHandler := httpHandlers.NewProjectHandler(projectService)
	adminHandler := httpHandlers.NewAdminHandler(onboardingService, settlementService, projectService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	metaHandler := httpHandlers.NewMetaHandler()
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)

	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		onboardingHandler,
		artisanHandler,
		jobHandler,
		earningsHandler,
		projectHandler,
		adminHandler,
		notificationHandler,
		healthHandler,
		metaHandler,
		wsHandler,
		tokenManager,
		artisanRepo,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: shutdown http server: %v", err)
		}
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server stopped with error: %v", err)
	}
}

// safeClose closes the database connection.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: close database: %v", err)
	}
}
