package handlers

import (
	"github.com/ad-wizard/backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var callToActionOptions = []MetaOption{
	{ID: "LEARN_MORE", Label: "Learn More"},
	{ID: "SHOP_NOW", Label: "Shop Now"},
	{ID: "SIGN_UP", Label: "Sign Up"},
	{ID: "SUBSCRIBE", Label: "Subscribe"},
	{ID: "GET_OFFER", Label: "Get Offer"},
	{ID: "CONTACT_US", Label: "Contact Us"},
	{ID: "DOWNLOAD", Label: "Download"},
	{ID: "BOOK_TRAVEL", Label: "Book Now"},
	{ID: "APPLY_NOW", Label: "Apply Now"},
	{ID: "GET_QUOTE", Label: "Get Quote"},
}

var objectiveOptions = []MetaOption{
	{ID: "OUTCOME_AWARENESS", Label: "Awareness"},
	{ID: "OUTCOME_TRAFFIC", Label: "Traffic"},
	{ID: "OUTCOME_ENGAGEMENT", Label: "Engagement"},
	{ID: "OUTCOME_LEADS", Label: "Leads"},
	{ID: "OUTCOME_SALES", Label: "Sales"},
	{ID: "CONVERSIONS", Label: "Conversions"},
}

var genderOptions = []MetaOption{
	{ID: "1", Label: "Female"},
	{ID: "2", Label: "Male"},
}

func (h *MetaHandler) GetCallToActions(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: callToActionOptions})
}

func (h *MetaHandler) GetObjectives(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: objectiveOptions})
}

func (h *MetaHandler) GetGenders(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: genderOptions})
}
