package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ad-wizard/backend/internal/config"
	"github.com/ad-wizard/backend/internal/db"
	"github.com/ad-wizard/backend/internal/events"
	"github.com/ad-wizard/backend/internal/fbads"
	apphttp "github.com/ad-wizard/backend/internal/http"
	"github.com/ad-wizard/backend/internal/http/handlers"
	"github.com/ad-wizard/backend/internal/linkpreview"
	"github.com/ad-wizard/backend/internal/repositories"
	"github.com/ad-wizard/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	connectionRepo := repositories.NewConnectionRepo(pool)
	projectRepo := repositories.NewProjectRepo(pool)
	creativeRepo := repositories.NewCreativeRepo(pool)
	campaignRepo := repositories.NewAdCampaignRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewSubscriber(rdb, log)

	// Graph API client
	graph := fbads.NewClient(fbads.ClientConfig{
		BaseURL:    cfg.GraphAPIBaseURL,
		APIVersion: cfg.GraphAPIVersion,
		Timeout:    cfg.RemoteTimeout,
		Retry: fbads.RetryPolicy{
			MaxAttempts: cfg.RemoteRetryAttempts,
			Wait:        cfg.RemoteRetryWait,
			MaxWait:     cfg.RemoteRetryMaxWait,
		},
	}, log)

	// Services
	previews := linkpreview.NewFetcher(cfg.LinkPreviewTimeout, cfg.LinkPreviewRetries, log)
	connectionService := services.NewConnectionService(cfg, connectionRepo, auditRepo, graph, log)
	orchestrator := services.NewOrchestrator(cfg, graph, connectionService, campaignRepo, creativeRepo, previews, auditRepo, publisher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg, log)
	connectionHandler := handlers.NewConnectionHandler(connectionService, log)
	creativeHandler := handlers.NewCreativeHandler(creativeRepo, projectRepo, log)
	campaignHandler := handlers.NewCampaignHandler(orchestrator, log)
	linkPreviewHandler := handlers.NewLinkPreviewHandler(previews, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, connectionHandler, creativeHandler, campaignHandler, linkPreviewHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
