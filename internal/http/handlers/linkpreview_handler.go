package handlers

import (
	"net/url"

	"github.com/ad-wizard/backend/internal/http/dto"
	"github.com/ad-wizard/backend/internal/linkpreview"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LinkPreviewHandler struct {
	fetcher *linkpreview.Fetcher
	log     *zap.Logger
}

func NewLinkPreviewHandler(fetcher *linkpreview.Fetcher, log *zap.Logger) *LinkPreviewHandler {
	return &LinkPreviewHandler{fetcher: fetcher, log: log}
}

// Get fetches og: metadata for a landing page URL.
func (h *LinkPreviewHandler) Get(c *fiber.Ctx) error {
	raw := c.Query("url")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "url is required"})
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "url must be absolute http(s)"})
	}

	preview, err := h.fetcher.Fetch(c.Context(), raw)
	if err != nil {
		h.log.Debug("link preview failed", zap.String("url", raw), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "could not fetch page"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: preview})
}
