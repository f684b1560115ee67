package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft  = "draft"
	CampaignStatusActive = "active"
	CampaignStatusPaused = "paused"
)

// Valid status transitions: from -> []to. Rows are never deleted by a
// transition; deletion is an explicit user action.
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusDraft:  {CampaignStatusActive},
	CampaignStatusActive: {CampaignStatusPaused},
	CampaignStatusPaused: {CampaignStatusActive},
}

func IsValidCampaignTransition(from, to string) bool {
	allowed, ok := ValidCampaignTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Orchestration stages of one submission run.
const (
	StageInit            = "init"
	StageCampaignCreated = "campaign_created"
	StageAdSetCreated    = "adset_created"
	StagePersisted       = "persisted"
	StageDone            = "done"
	StageError           = "error"
)

// Stage order is strict; error is reachable from any non-terminal stage.
var ValidStageTransitions = map[string][]string{
	StageInit:            {StageCampaignCreated, StageError},
	StageCampaignCreated: {StageAdSetCreated, StageError},
	StageAdSetCreated:    {StagePersisted, StageError},
	StagePersisted:       {StageDone, StageError},
	StageDone:            {},
	StageError:           {},
}

func IsValidStageTransition(from, to string) bool {
	allowed, ok := ValidStageTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// AdResult is the outcome of one per-creative fan-out task. A failure here
// never aborts sibling creatives.
type AdResult struct {
	CreativeID       uuid.UUID `json:"creative_id"`
	AdID             string    `json:"ad_id,omitempty"`
	RemoteCreativeID string    `json:"remote_creative_id,omitempty"`
	ImageHash        string    `json:"image_hash,omitempty"`
	Stage            string    `json:"stage"` // last completed per-creative step
	Success          bool      `json:"success"`
	Error            string    `json:"error,omitempty"`
}

// Per-creative steps recorded in AdResult.Stage.
const (
	CreativeStageImageUploaded   = "image_uploaded"
	CreativeStageCreativeCreated = "creative_created"
	CreativeStageAdCreated       = "ad_created"
)

// AdCampaign is the persisted record of one orchestration run. The row is
// written only after the remote campaign and ad set exist; it is never
// silently deleted.
type AdCampaign struct {
	ID                 uuid.UUID       `json:"id"`
	ProjectID          uuid.UUID       `json:"project_id"`
	UserID             uuid.UUID       `json:"user_id"`
	Platform           string          `json:"platform"`
	Name               string          `json:"name"`
	Status             string          `json:"status"`
	PlatformCampaignID *string         `json:"platform_campaign_id,omitempty"`
	PlatformAdSetID    *string         `json:"platform_ad_set_id,omitempty"`
	PlatformAdIDs      []string        `json:"platform_ad_ids,omitempty"`
	CampaignData       json.RawMessage `json:"campaign_data,omitempty"`
	ImageURL           *string         `json:"image_url,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// CampaignSnapshot is the structured audit payload stored in campaign_data.
type CampaignSnapshot struct {
	Mode           string          `json:"mode"`
	Request        json.RawMessage `json:"request,omitempty"`
	CampaignParams json.RawMessage `json:"campaign_params,omitempty"`
	AdSetParams    json.RawMessage `json:"adset_params,omitempty"`
	Results        []AdResult      `json:"results"`
}

func DecodeCampaignSnapshot(raw []byte) CampaignSnapshot {
	var s CampaignSnapshot
	if len(raw) == 0 {
		return s
	}
	_ = json.Unmarshal(raw, &s)
	return s
}
