package handlers

import (
	"errors"

	"github.com/ad-wizard/backend/internal/http/dto"
	"github.com/ad-wizard/backend/internal/middleware"
	"github.com/ad-wizard/backend/internal/services"
	"github.com/ad-wizard/backend/internal/targeting"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	orchestrator *services.Orchestrator
	log          *zap.Logger
}

func NewCampaignHandler(orchestrator *services.Orchestrator, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{orchestrator: orchestrator, log: log}
}

// Submit runs one campaign orchestration.
func (h *CampaignHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.CampaignName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "campaign_name is required"})
	}
	if len(req.SelectedCreativeIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "selected_creative_ids is required"})
	}

	interests := make([]targeting.Interest, 0, len(req.Settings.Interests))
	for _, id := range req.Settings.Interests {
		interests = append(interests, targeting.Interest{ID: id, Name: id})
	}

	sub := services.Submission{
		ProjectID:           req.ProjectID,
		CampaignName:        req.CampaignName,
		Mode:                req.Mode,
		DailyBudgetUSD:      req.Settings.DailyBudget,
		StartDate:           req.Settings.StartDate,
		EndDate:             req.Settings.EndDate,
		AgeMin:              req.Settings.AgeMin,
		AgeMax:              req.Settings.AgeMax,
		Genders:             req.Settings.Genders,
		Interests:           interests,
		SelectedCreativeIDs: req.SelectedCreativeIDs,
		BusinessIdea:        req.BusinessIdea,
		TargetAudience:      req.TargetAudience,
		LandingPageURL:      req.LandingPageURL,
	}

	result, err := h.orchestrator.Run(c.Context(), middleware.GetUserID(c), sub)
	if err != nil {
		return h.orchestrationError(c, err, result)
	}
	return c.JSON(result)
}

// orchestrationError maps the service error taxonomy to HTTP responses.
func (h *CampaignHandler) orchestrationError(c *fiber.Ctx, err error, result *services.OrchestrationResult) error {
	var cfgErr *services.ConfigError
	var remoteErr *services.RemoteCreateError

	switch {
	case errors.As(err, &cfgErr):
		msg := cfgErr.UserMessage()
		if middleware.IsAdmin(c) {
			msg = cfgErr.AdminMessage()
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: msg})
	case errors.As(err, &remoteErr):
		// The remote message is surfaced verbatim so the user sees why
		// Facebook rejected the submission.
		if result == nil {
			result = &services.OrchestrationResult{Success: false, Error: remoteErr.Message}
		}
		return c.Status(fiber.StatusBadGateway).JSON(result)
	case errors.Is(err, services.ErrNotConnected), errors.Is(err, services.ErrTokenExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNoAdAccount), errors.Is(err, services.ErrNoPage):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		h.log.Error("orchestration failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
}

// List returns the caller's campaigns.
func (h *CampaignHandler) List(c *fiber.Ctx) error {
	var projectID *uuid.UUID
	if p := c.Query("project_id"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid project_id"})
		}
		projectID = &id
	}
	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	campaigns, err := h.orchestrator.List(c.Context(), middleware.GetUserID(c), projectID, status,
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		h.log.Error("listing campaigns", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	campaign, err := h.orchestrator.Get(c.Context(), middleware.GetUserID(c), id)
	if err != nil {
		return h.orchestrationError(c, err, nil)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

// GetStatus returns the stored record plus the live remote status.
func (h *CampaignHandler) GetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	status, err := h.orchestrator.Status(c.Context(), middleware.GetUserID(c), id)
	if err != nil {
		return h.orchestrationError(c, err, nil)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: status})
}

// Activate flips a draft campaign to active, locally and remotely.
func (h *CampaignHandler) Activate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	if err := h.orchestrator.Activate(c.Context(), middleware.GetUserID(c), id); err != nil {
		return h.orchestrationError(c, err, nil)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Pause flips an active campaign to paused.
func (h *CampaignHandler) Pause(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	if err := h.orchestrator.Pause(c.Context(), middleware.GetUserID(c), id); err != nil {
		return h.orchestrationError(c, err, nil)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Retry re-runs the failed per-creative steps of a campaign.
func (h *CampaignHandler) Retry(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	var req dto.RetryCreativesRequest
	if err := c.BodyParser(&req); err != nil || len(req.CreativeIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "creative_ids is required"})
	}
	result, err := h.orchestrator.RetryCreatives(c.Context(), middleware.GetUserID(c), id, req.CreativeIDs)
	if err != nil {
		return h.orchestrationError(c, err, result)
	}
	return c.JSON(result)
}

// Delete removes the local record; remote objects are left untouched.
func (h *CampaignHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	if err := h.orchestrator.Delete(c.Context(), middleware.GetUserID(c), id); err != nil {
		return h.orchestrationError(c, err, nil)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
