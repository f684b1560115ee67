package dto

import (
	"github.com/ad-wizard/backend/internal/auth"
	"github.com/ad-wizard/backend/internal/models"
	"github.com/google/uuid"
)

type AuthSessionRequest struct {
	Assertion auth.IdentityAssertion `json:"assertion"`
}

type SelectAdAccountRequest struct {
	AdAccountID string `json:"ad_account_id"`
}

type SelectPageRequest struct {
	PageID string `json:"page_id"`
}

// SubmitCampaignRequest is the body of one campaign submission.
type SubmitCampaignRequest struct {
	ProjectID    uuid.UUID `json:"project_id"`
	CampaignName string    `json:"campaign_name"`
	Mode         string    `json:"mode"` // preview | direct
	Settings     struct {
		DailyBudget float64  `json:"daily_budget"`
		StartDate   string   `json:"start_date"`
		EndDate     string   `json:"end_date"`
		AgeMin      int      `json:"age_min"`
		AgeMax      int      `json:"age_max"`
		Genders     []int    `json:"genders"`
		Interests   []string `json:"interests"`
	} `json:"settings"`
	SelectedCreativeIDs []uuid.UUID           `json:"selected_creative_ids"`
	BusinessIdea        models.BusinessIdea   `json:"business_idea"`
	TargetAudience      models.TargetAudience `json:"target_audience"`
	LandingPageURL      string                `json:"landing_page_url"`
}

type RetryCreativesRequest struct {
	CreativeIDs []uuid.UUID `json:"creative_ids"`
}

type UpdateCreativeRequest struct {
	Headline    string `json:"headline"`
	PrimaryText string `json:"primary_text"`
	ImageURL    string `json:"image_url"`
}

type BulkFBSettingsRequest struct {
	CreativeIDs []uuid.UUID               `json:"creative_ids"`
	Settings    models.FacebookAdSettings `json:"settings"`
}
