package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ad-wizard/backend/internal/config"
	"github.com/ad-wizard/backend/internal/db"
	"github.com/ad-wizard/backend/internal/events"
	"github.com/ad-wizard/backend/internal/fbads"
	"github.com/ad-wizard/backend/internal/models"
	"github.com/ad-wizard/backend/internal/repositories"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	connectionRepo := repositories.NewConnectionRepo(pool)
	campaignRepo := repositories.NewAdCampaignRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	publisher := events.NewRedisPublisher(rdb, log)
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

	log.Info("worker started")

	sweepTicker := time.NewTicker(cfg.ConnectionSweepInterval)
	statusTicker := time.NewTicker(cfg.StatusRefreshInterval)
	defer sweepTicker.Stop()
	defer statusTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			runConnectionSweep(ctx, connectionRepo, auditRepo, publisher, log)
		case <-statusTicker.C:
			runStatusRefresh(ctx, campaignRepo, connectionRepo, graph, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// runConnectionSweep notifies users whose stored Facebook token has passed
// its recorded expiry. The row is kept so the UI can show a reconnect
// prompt; only an explicit disconnect deletes it.
func runConnectionSweep(ctx context.Context, connectionRepo *repositories.ConnectionRepo, auditRepo *repositories.AuditRepo, publisher events.Publisher, log *zap.Logger) {
	expired, err := connectionRepo.ListExpired(ctx, time.Now())
	if err != nil {
		log.Error("failed to list expired connections", zap.Error(err))
		return
	}

	for _, conn := range expired {
		log.Info("connection token expired",
			zap.String("user_id", conn.UserID.String()),
			zap.String("platform", conn.Platform),
		)
		_ = publisher.Publish(ctx, events.New(events.ConnectionExpired, conn.UserID, map[string]any{
			"platform": conn.Platform,
		}))
		connID := conn.ID
		userID := conn.UserID
		if err := auditRepo.Log(ctx, models.AuditLog{
			ActorUserID: &userID,
			ActorType:   "system",
			Action:      "connection.expired",
			EntityType:  "platform_connection",
			EntityID:    &connID,
		}); err != nil {
			log.Error("failed to write audit log", zap.Error(err))
		}
	}
}

// runStatusRefresh reconciles the local status of active campaigns with the
// remote effective status.
func runStatusRefresh(ctx context.Context, campaignRepo *repositories.AdCampaignRepo, connectionRepo *repositories.ConnectionRepo, graph *fbads.Client, log *zap.Logger) {
	status := models.CampaignStatusActive
	campaigns, err := campaignRepo.List(ctx, repositories.AdCampaignFilter{Status: &status, Limit: 100})
	if err != nil {
		log.Error("failed to list active campaigns", zap.Error(err))
		return
	}

	for _, campaign := range campaigns {
		if campaign.PlatformCampaignID == nil {
			continue
		}
		conn, err := connectionRepo.Get(ctx, campaign.UserID, campaign.Platform)
		if err != nil || !conn.IsValid() {
			continue
		}

		effective, err := graph.GetEffectiveStatus(ctx, conn.AccessToken, *campaign.PlatformCampaignID)
		if err != nil {
			log.Warn("failed to fetch effective status",
				zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
			continue
		}

		if effective == "PAUSED" && models.IsValidCampaignTransition(campaign.Status, models.CampaignStatusPaused) {
			log.Info("campaign paused remotely, syncing local status",
				zap.String("campaign_id", campaign.ID.String()))
			if err := campaignRepo.UpdateStatus(ctx, campaign.ID, models.CampaignStatusPaused); err != nil {
				log.Error("failed to update campaign status", zap.Error(err))
			}
		}
	}
}
