package http

import (
	"time"

	"github.com/ad-wizard/backend/internal/config"
	"github.com/ad-wizard/backend/internal/http/handlers"
	"github.com/ad-wizard/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	connectionHandler *handlers.ConnectionHandler,
	creativeHandler *handlers.CreativeHandler,
	campaignHandler *handlers.CampaignHandler,
	linkPreviewHandler *handlers.LinkPreviewHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/session", authHandler.CreateSession)

	// OAuth redirect target (public; user identified by signed state)
	api.Get("/connections/facebook/callback", connectionHandler.Callback)

	// Rate-limited endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Meta (public, no auth required)
	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/call-to-actions", metaHandler.GetCallToActions)
	api.Get("/meta/objectives", metaHandler.GetObjectives)
	api.Get("/meta/genders", metaHandler.GetGenders)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// User
	protected.Get("/me", authHandler.GetMe)

	// Facebook connection
	protected.Get("/connections/facebook", connectionHandler.GetStatus)
	protected.Get("/connections/facebook/auth-url", connectionHandler.GetAuthURL)
	protected.Post("/connections/facebook/select-account", connectionHandler.SelectAdAccount)
	protected.Post("/connections/facebook/select-page", connectionHandler.SelectPage)
	protected.Delete("/connections/facebook", connectionHandler.Disconnect)

	// Creatives
	protected.Get("/projects/:projectId/creatives", creativeHandler.ListByProject)
	protected.Put("/creatives/:id", creativeHandler.Update)
	protected.Post("/creatives/:id/duplicate", creativeHandler.Duplicate)
	protected.Delete("/creatives/:id", creativeHandler.Delete)
	protected.Post("/creatives/fb-settings", creativeHandler.BulkApplySettings)

	// Campaigns
	protected.Post("/campaigns/facebook", campaignHandler.Submit)
	protected.Get("/campaigns", campaignHandler.List)
	protected.Get("/campaigns/:id", campaignHandler.Get)
	protected.Get("/campaigns/:id/status", campaignHandler.GetStatus)
	protected.Post("/campaigns/:id/activate", campaignHandler.Activate)
	protected.Post("/campaigns/:id/pause", campaignHandler.Pause)
	protected.Post("/campaigns/:id/retry", campaignHandler.Retry)
	protected.Delete("/campaigns/:id", campaignHandler.Delete)

	// Link preview
	protected.Get("/linkpreview", linkPreviewHandler.Get)

	// WebSocket (token via query param)
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
