package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ad-wizard/backend/internal/config"
	"github.com/ad-wizard/backend/internal/fbads"
	"github.com/ad-wizard/backend/internal/models"
	"github.com/ad-wizard/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ConnectionStore is the persistence surface the connection service needs.
type ConnectionStore interface {
	Get(ctx context.Context, userID uuid.UUID, platform string) (*models.PlatformConnection, error)
	Upsert(ctx context.Context, c *models.PlatformConnection) error
	SelectAdAccount(ctx context.Context, userID uuid.UUID, platform, adAccountID string) error
	SelectPage(ctx context.Context, userID uuid.UUID, platform, pageID string) error
	Delete(ctx context.Context, userID uuid.UUID, platform string) error
}

// GraphAuthAPI is the slice of the Graph client the connection flow uses.
type GraphAuthAPI interface {
	ExchangeCode(ctx context.Context, appID, appSecret, redirectURI, code string) (*fbads.TokenResponse, error)
	ListAdAccounts(ctx context.Context, accessToken string) ([]models.AdAccount, error)
	ListPages(ctx context.Context, accessToken string) ([]models.Page, error)
}

// ConnectionService owns the Facebook OAuth lifecycle: building the consent
// URL, handling the callback, selecting the working ad account and page, and
// disconnecting.
type ConnectionService struct {
	cfg      *config.Config
	connRepo ConnectionStore
	audit    *repositories.AuditRepo
	graph    GraphAuthAPI
	log      *zap.Logger
}

func NewConnectionService(cfg *config.Config, connRepo ConnectionStore, audit *repositories.AuditRepo, graph GraphAuthAPI, log *zap.Logger) *ConnectionService {
	return &ConnectionService{cfg: cfg, connRepo: connRepo, audit: audit, graph: graph, log: log}
}

// oauthState is round-tripped through the consent redirect so the callback
// can be tied back to the initiating user.
type oauthState struct {
	UserID uuid.UUID `json:"user_id"`
}

// AuthURL builds the Facebook consent dialog URL for a user.
func (s *ConnectionService) AuthURL(userID uuid.UUID) (string, error) {
	if missing := s.cfg.MissingFacebookKeys(); len(missing) > 0 {
		return "", &ConfigError{MissingKeys: missing}
	}

	state, err := json.Marshal(oauthState{UserID: userID})
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("client_id", s.cfg.FacebookAppID)
	q.Set("redirect_uri", s.cfg.FacebookRedirectURI)
	q.Set("scope", strings.Join(s.cfg.FacebookScopes, ","))
	q.Set("response_type", "code")
	q.Set("state", string(state))

	return "https://www.facebook.com/" + s.cfg.GraphAPIVersion + "/dialog/oauth?" + q.Encode(), nil
}

// HandleCallback exchanges the authorization code, discovers the ad accounts
// and pages the token can reach, and stores the connection. Account and page
// selection is deliberately left empty: the user picks explicitly.
func (s *ConnectionService) HandleCallback(ctx context.Context, code, state string) (*models.PlatformConnection, error) {
	if missing := s.cfg.MissingFacebookKeys(); len(missing) > 0 {
		return nil, &ConfigError{MissingKeys: missing}
	}

	var st oauthState
	if err := json.Unmarshal([]byte(state), &st); err != nil || st.UserID == uuid.Nil {
		return nil, fmt.Errorf("invalid oauth state: %w", ErrUnauthorized)
	}

	token, err := s.graph.ExchangeCode(ctx, s.cfg.FacebookAppID, s.cfg.FacebookAppSecret, s.cfg.FacebookRedirectURI, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging oauth code: %w", err)
	}

	conn := &models.PlatformConnection{
		UserID:      st.UserID,
		Platform:    models.PlatformFacebook,
		AccessToken: token.AccessToken,
	}
	if token.ExpiresIn > 0 {
		expiry := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
		conn.TokenExpiresAt = &expiry
	}

	accounts, err := s.graph.ListAdAccounts(ctx, token.AccessToken)
	if err != nil {
		s.log.Warn("listing ad accounts after oauth", zap.Error(err))
	}
	pages, err := s.graph.ListPages(ctx, token.AccessToken)
	if err != nil {
		s.log.Warn("listing pages after oauth", zap.Error(err))
	}
	conn.Metadata = models.ConnectionMetadata{AdAccounts: accounts, Pages: pages}

	if err := s.connRepo.Upsert(ctx, conn); err != nil {
		return nil, fmt.Errorf("storing connection: %w", err)
	}

	s.auditLog(ctx, st.UserID, "connection.created", conn.ID, map[string]any{
		"ad_accounts": len(accounts),
		"pages":       len(pages),
	})

	s.log.Info("facebook connection stored",
		zap.String("user_id", st.UserID.String()),
		zap.Int("ad_accounts", len(accounts)),
		zap.Int("pages", len(pages)))

	return conn, nil
}

// GetConnection returns the user's Facebook connection, or ErrNotConnected.
func (s *ConnectionService) GetConnection(ctx context.Context, userID uuid.UUID) (*models.PlatformConnection, error) {
	conn, err := s.connRepo.Get(ctx, userID, models.PlatformFacebook)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotConnected
		}
		return nil, err
	}
	return conn, nil
}

// RequireValid returns a connection ready for remote calls, distinguishing
// "never connected" from "token expired".
func (s *ConnectionService) RequireValid(ctx context.Context, userID uuid.UUID) (*models.PlatformConnection, error) {
	conn, err := s.GetConnection(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conn.IsExpired() {
		return nil, ErrTokenExpired
	}
	if !conn.IsValid() {
		return nil, ErrNotConnected
	}
	return conn, nil
}

// SelectAdAccount records the working ad account. The id must be one the
// OAuth discovery saw.
func (s *ConnectionService) SelectAdAccount(ctx context.Context, userID uuid.UUID, adAccountID string) error {
	conn, err := s.GetConnection(ctx, userID)
	if err != nil {
		return err
	}
	if !conn.Metadata.HasAdAccount(adAccountID) {
		return fmt.Errorf("ad account %s not available to this connection: %w", adAccountID, ErrNoAdAccount)
	}
	if err := s.connRepo.SelectAdAccount(ctx, userID, models.PlatformFacebook, adAccountID); err != nil {
		return err
	}
	s.auditLog(ctx, userID, "connection.ad_account_selected", conn.ID, map[string]any{"ad_account_id": adAccountID})
	return nil
}

// SelectPage records the working page.
func (s *ConnectionService) SelectPage(ctx context.Context, userID uuid.UUID, pageID string) error {
	conn, err := s.GetConnection(ctx, userID)
	if err != nil {
		return err
	}
	if !conn.Metadata.HasPage(pageID) {
		return fmt.Errorf("page %s not available to this connection: %w", pageID, ErrNoPage)
	}
	if err := s.connRepo.SelectPage(ctx, userID, models.PlatformFacebook, pageID); err != nil {
		return err
	}
	s.auditLog(ctx, userID, "connection.page_selected", conn.ID, map[string]any{"page_id": pageID})
	return nil
}

// Disconnect removes the stored connection. Remote campaigns are untouched.
func (s *ConnectionService) Disconnect(ctx context.Context, userID uuid.UUID) error {
	conn, err := s.GetConnection(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.connRepo.Delete(ctx, userID, models.PlatformFacebook); err != nil {
		return err
	}
	s.auditLog(ctx, userID, "connection.deleted", conn.ID, nil)
	return nil
}

func (s *ConnectionService) auditLog(ctx context.Context, userID uuid.UUID, action string, entityID uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      action,
		EntityType:  "platform_connection",
		EntityID:    &entityID,
		Meta:        meta,
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		s.log.Warn("writing audit log", zap.String("action", action), zap.Error(err))
	}
}
