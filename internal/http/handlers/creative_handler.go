package handlers

import (
	"errors"

	"github.com/ad-wizard/backend/internal/http/dto"
	"github.com/ad-wizard/backend/internal/middleware"
	"github.com/ad-wizard/backend/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CreativeHandler struct {
	creatives *repositories.CreativeRepo
	projects  *repositories.ProjectRepo
	log       *zap.Logger
}

func NewCreativeHandler(creatives *repositories.CreativeRepo, projects *repositories.ProjectRepo, log *zap.Logger) *CreativeHandler {
	return &CreativeHandler{creatives: creatives, projects: projects, log: log}
}

// requireOwner verifies the creative belongs to the caller's project.
func (h *CreativeHandler) requireOwner(c *fiber.Ctx, creativeID uuid.UUID) error {
	owner, err := h.creatives.ProjectOwner(c.Context(), creativeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "creative not found"})
		}
		h.log.Error("resolving creative owner", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	if owner != middleware.GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "not your creative"})
	}
	return nil
}

// ListByProject returns the creatives of one project.
func (h *CreativeHandler) ListByProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid project id"})
	}
	project, err := h.projects.GetByID(c.Context(), projectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "project not found"})
	}
	if project.UserID != middleware.GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "not your project"})
	}

	variants, err := h.creatives.ListByProject(c.Context(), projectID)
	if err != nil {
		h.log.Error("listing creatives", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: variants})
}

// Update edits the copy fields of a creative.
func (h *CreativeHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid creative id"})
	}
	if resp := h.requireOwner(c, id); resp != nil {
		return resp
	}

	var req dto.UpdateCreativeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.creatives.UpdateCopy(c.Context(), id, req.Headline, req.PrimaryText, req.ImageURL); err != nil {
		h.log.Error("updating creative", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Duplicate copies a creative within its project.
func (h *CreativeHandler) Duplicate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid creative id"})
	}
	if resp := h.requireOwner(c, id); resp != nil {
		return resp
	}

	dup, err := h.creatives.Duplicate(c.Context(), id)
	if err != nil {
		h.log.Error("duplicating creative", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: dup})
}

func (h *CreativeHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid creative id"})
	}
	if resp := h.requireOwner(c, id); resp != nil {
		return resp
	}
	if err := h.creatives.Delete(c.Context(), id); err != nil {
		h.log.Error("deleting creative", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// BulkApplySettings applies one FacebookAdSettings payload to several
// creatives at once.
func (h *CreativeHandler) BulkApplySettings(c *fiber.Ctx) error {
	var req dto.BulkFBSettingsRequest
	if err := c.BodyParser(&req); err != nil || len(req.CreativeIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "creative_ids is required"})
	}
	for _, id := range req.CreativeIDs {
		if resp := h.requireOwner(c, id); resp != nil {
			return resp
		}
	}
	if err := h.creatives.ApplySettings(c.Context(), req.CreativeIDs, req.Settings); err != nil {
		h.log.Error("bulk applying settings", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
