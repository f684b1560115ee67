package fbads

import (
	"strings"
	"testing"

	"github.com/ad-wizard/backend/internal/models"
	"github.com/ad-wizard/backend/internal/targeting"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testMapper(opts MapperOptions) (*Mapper, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return NewMapper(opts, zap.New(core)), logs
}

func TestMapperPresets(t *testing.T) {
	preview := PreviewOptions()
	if preview.Objective != "CONVERSIONS" || preview.CampaignStatus != "PAUSED" {
		t.Errorf("preview preset = %+v", preview)
	}

	direct := DirectOptions("")
	if direct.Objective != "OUTCOME_AWARENESS" || direct.CampaignStatus != "ACTIVE" {
		t.Errorf("direct preset = %+v", direct)
	}

	custom := DirectOptions("OUTCOME_TRAFFIC")
	if custom.Objective != "OUTCOME_TRAFFIC" {
		t.Errorf("direct preset ignored configured objective: %+v", custom)
	}
}

func TestMapAdSetBudgetInCents(t *testing.T) {
	m, _ := testMapper(PreviewOptions())

	tests := []struct {
		budgetUSD float64
		cents     int64
	}{
		{10, 1000},
		{10.50, 1050},
		{0.99, 99},
		{19.999, 2000},
	}

	for _, tt := range tests {
		params := m.MapAdSet("Launch", "c1", tt.budgetUSD, targeting.Spec{}, Schedule{})
		if params.DailyBudget != tt.cents {
			t.Errorf("MapAdSet(%v) daily_budget = %d, want %d", tt.budgetUSD, params.DailyBudget, tt.cents)
		}
	}
}

func TestMapAdSetSchedule(t *testing.T) {
	m, _ := testMapper(PreviewOptions())
	params := m.MapAdSet("Launch", "c1", 10, targeting.Spec{}, Schedule{StartDate: "2026-09-01", EndDate: "2026-09-30"})
	if params.StartTime != "2026-09-01" || params.EndTime != "2026-09-30" {
		t.Errorf("schedule = %q..%q", params.StartTime, params.EndTime)
	}
	if params.CampaignID != "c1" {
		t.Errorf("campaign_id = %q", params.CampaignID)
	}
}

func TestMapCreativeLongHeadlineWarnsButReturns(t *testing.T) {
	m, logs := testMapper(PreviewOptions())

	longHeadline := strings.Repeat("Buy our amazing product now ", 3) // > 40 chars
	variant := models.AdVariant{
		ID:       uuid.New(),
		Headline: longHeadline,
		ImageURL: "https://cdn.example.com/img.jpg",
		Size:     models.DefaultAdSize,
	}

	params := m.MapCreative(models.BusinessIdea{}, models.TargetAudience{}, variant, "page1", "https://example.com")

	if params.ObjectStorySpec.LinkData.Name != longHeadline {
		t.Error("long headline was truncated or dropped; lenient validation requires pass-through")
	}
	if logs.FilterMessageSnippet("headline exceeds").Len() != 1 {
		t.Errorf("expected exactly one headline warning, got %d log entries", logs.Len())
	}
}

func TestMapCreativeLongMessageWarnsButReturns(t *testing.T) {
	m, logs := testMapper(PreviewOptions())

	longMessage := strings.Repeat("value proposition ", 10) // > 125 chars
	variant := models.AdVariant{
		ID:          uuid.New(),
		Headline:    "Short headline",
		PrimaryText: longMessage,
		ImageURL:    "https://cdn.example.com/img.jpg",
	}

	params := m.MapCreative(models.BusinessIdea{}, models.TargetAudience{}, variant, "page1", "https://example.com")
	if params.ObjectStorySpec.LinkData.Message != longMessage {
		t.Error("long message must pass through unchanged")
	}
	if logs.FilterMessageSnippet("message exceeds").Len() != 1 {
		t.Errorf("expected one message warning, got %d entries", logs.Len())
	}
}

func TestMapCreativeDefaults(t *testing.T) {
	m, _ := testMapper(PreviewOptions())

	variant := models.AdVariant{
		ID:       uuid.New(),
		Headline: "Plan meals in minutes",
		ImageURL: "https://cdn.example.com/img.jpg",
		Size:     models.AdSize{Width: 1200, Height: 628, Label: "Landscape"},
	}
	idea := models.BusinessIdea{Description: "Meal planning for busy parents", ValueProposition: "Save 5 hours a week"}

	params := m.MapCreative(idea, models.TargetAudience{}, variant, "page9", "https://example.com/landing")

	ld := params.ObjectStorySpec.LinkData
	if ld.CallToAction.Type != DefaultCallToAction {
		t.Errorf("cta = %q, want %q", ld.CallToAction.Type, DefaultCallToAction)
	}
	if ld.Link != "https://example.com/landing" || ld.CallToAction.Value.Link != ld.Link {
		t.Errorf("link wiring wrong: %+v", ld)
	}
	if ld.Message != idea.ValueProposition {
		t.Errorf("empty primary text should fall back to value proposition, got %q", ld.Message)
	}
	if params.ObjectStorySpec.PageID != "page9" {
		t.Errorf("page id = %q", params.ObjectStorySpec.PageID)
	}
}

func TestMapCreativeSettingsOverride(t *testing.T) {
	m, _ := testMapper(PreviewOptions())

	variant := models.AdVariant{
		ID:       uuid.New(),
		Headline: "Headline",
		ImageURL: "https://cdn.example.com/img.jpg",
		FBAdSettings: &models.FacebookAdSettings{
			WebsiteURL:    "https://override.example.com",
			CallToAction:  "SIGN_UP",
			VisibleLink:   "override.example.com",
			URLParameters: "?utm_source=fb",
		},
	}

	params := m.MapCreative(models.BusinessIdea{}, models.TargetAudience{}, variant, "p", "https://example.com")
	ld := params.ObjectStorySpec.LinkData
	if ld.Link != "https://override.example.com" {
		t.Errorf("website override not applied: %q", ld.Link)
	}
	if ld.CallToAction.Type != "SIGN_UP" {
		t.Errorf("cta override not applied: %q", ld.CallToAction.Type)
	}
	if ld.Caption != "override.example.com" {
		t.Errorf("visible link not applied: %q", ld.Caption)
	}
	if params.URLTags != "utm_source=fb" {
		t.Errorf("url tags = %q", params.URLTags)
	}
}

func TestMapCampaignStatusByMode(t *testing.T) {
	preview, _ := testMapper(PreviewOptions())
	if got := preview.MapCampaign("X").Status; got != "PAUSED" {
		t.Errorf("preview campaign status = %q, want PAUSED", got)
	}

	direct, _ := testMapper(DirectOptions(""))
	if got := direct.MapCampaign("X").Status; got != "ACTIVE" {
		t.Errorf("direct campaign status = %q, want ACTIVE", got)
	}
}
