package handlers

import (
	"errors"

	"github.com/ad-wizard/backend/internal/http/dto"
	"github.com/ad-wizard/backend/internal/middleware"
	"github.com/ad-wizard/backend/internal/models"
	"github.com/ad-wizard/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ConnectionHandler struct {
	connections *services.ConnectionService
	log         *zap.Logger
}

func NewConnectionHandler(connections *services.ConnectionService, log *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{connections: connections, log: log}
}

// configErrorResponse maps a ConfigError to the right message for the
// caller: admins see the missing keys, everyone else a generic message.
func configErrorResponse(c *fiber.Ctx, cfgErr *services.ConfigError) error {
	msg := cfgErr.UserMessage()
	if middleware.IsAdmin(c) {
		msg = cfgErr.AdminMessage()
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: msg})
}

// GetAuthURL returns the Facebook consent dialog URL for the caller.
func (h *ConnectionHandler) GetAuthURL(c *fiber.Ctx) error {
	url, err := h.connections.AuthURL(middleware.GetUserID(c))
	if err != nil {
		var cfgErr *services.ConfigError
		if errors.As(err, &cfgErr) {
			return configErrorResponse(c, cfgErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.AuthURLResponse{URL: url})
}

// Callback handles the OAuth redirect. Public endpoint: the user is
// identified by the signed state parameter, not a bearer token.
func (h *ConnectionHandler) Callback(c *fiber.Ctx) error {
	if errMsg := c.Query("error"); errMsg != "" {
		desc := c.Query("error_description")
		h.log.Info("oauth consent denied", zap.String("error", errMsg), zap.String("description", desc))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "facebook authorization was denied"})
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "code and state are required"})
	}

	conn, err := h.connections.HandleCallback(c.Context(), code, state)
	if err != nil {
		var cfgErr *services.ConfigError
		if errors.As(err, &cfgErr) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: cfgErr.UserMessage()})
		}
		if errors.Is(err, services.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid oauth state"})
		}
		h.log.Error("oauth callback failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "facebook token exchange failed"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: connectionStatus(conn)})
}

// GetStatus reports the stored connection without the token.
func (h *ConnectionHandler) GetStatus(c *fiber.Ctx) error {
	conn, err := h.connections.GetConnection(c.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotConnected) {
			return c.JSON(dto.ConnectionStatusResponse{Connected: false})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(connectionStatus(conn))
}

func (h *ConnectionHandler) SelectAdAccount(c *fiber.Ctx) error {
	var req dto.SelectAdAccountRequest
	if err := c.BodyParser(&req); err != nil || req.AdAccountID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "ad_account_id is required"})
	}
	if err := h.connections.SelectAdAccount(c.Context(), middleware.GetUserID(c), req.AdAccountID); err != nil {
		return connectionError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ConnectionHandler) SelectPage(c *fiber.Ctx) error {
	var req dto.SelectPageRequest
	if err := c.BodyParser(&req); err != nil || req.PageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "page_id is required"})
	}
	if err := h.connections.SelectPage(c.Context(), middleware.GetUserID(c), req.PageID); err != nil {
		return connectionError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ConnectionHandler) Disconnect(c *fiber.Ctx) error {
	if err := h.connections.Disconnect(c.Context(), middleware.GetUserID(c)); err != nil {
		return connectionError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func connectionStatus(conn *models.PlatformConnection) dto.ConnectionStatusResponse {
	return dto.ConnectionStatusResponse{
		Connected:           true,
		Valid:               conn.IsValid(),
		Expired:             conn.IsExpired(),
		SelectedAdAccountID: conn.SelectedAdAccountID,
		SelectedPageID:      conn.SelectedPageID,
		AdAccounts:          conn.Metadata.AdAccounts,
		Pages:               conn.Metadata.Pages,
	}
}

func connectionError(c *fiber.Ctx, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, services.ErrNotConnected):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: services.ErrNotConnected.Error()})
	case errors.Is(err, services.ErrTokenExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: services.ErrTokenExpired.Error()})
	case errors.Is(err, services.ErrNoAdAccount), errors.Is(err, services.ErrNoPage):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		log.Error("connection operation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
}
