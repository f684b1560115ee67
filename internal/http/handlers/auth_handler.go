package handlers

import (
	"github.com/ad-wizard/backend/internal/auth"
	"github.com/ad-wizard/backend/internal/config"
	"github.com/ad-wizard/backend/internal/http/dto"
	"github.com/ad-wizard/backend/internal/middleware"
	"github.com/ad-wizard/backend/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userRepo *repositories.UserRepo
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthHandler(userRepo *repositories.UserRepo, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, cfg: cfg, log: log}
}

// CreateSession validates a signed identity assertion from the front-end
// identity provider and issues a bearer token.
func (h *AuthHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.AuthSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	if err := auth.ValidateIdentityAssertion(req.Assertion, h.cfg.IdentitySecret, h.cfg.AssertionMaxAge); err != nil {
		h.log.Debug("identity assertion rejected", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	var displayName *string
	if req.Assertion.DisplayName != "" {
		displayName = &req.Assertion.DisplayName
	}
	isAdmin := h.cfg.IsAdminEmail(req.Assertion.Email)

	user, err := h.userRepo.UpsertByEmail(c.Context(), req.Assertion.Email, displayName, isAdmin)
	if err != nil {
		h.log.Error("failed to upsert user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.Email, user.IsAdmin, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.AuthResponse{Token: token, User: user})
}

// GetMe returns the authenticated user's record.
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	user, err := h.userRepo.GetByID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}
