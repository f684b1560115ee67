package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AdSize describes the rendered dimensions of a creative. Stored as loose
// jsonb; decoded through DecodeAdSize.
type AdSize struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Label  string `json:"label"`
}

// DefaultAdSize is the Facebook feed landscape format.
var DefaultAdSize = AdSize{Width: 1200, Height: 628, Label: "Landscape"}

// DecodeAdSize parses a stored size value, falling back to DefaultAdSize on
// malformed or incomplete data.
func DecodeAdSize(raw []byte) AdSize {
	if len(raw) == 0 {
		return DefaultAdSize
	}
	var s AdSize
	if err := json.Unmarshal(raw, &s); err != nil {
		return DefaultAdSize
	}
	if s.Width <= 0 || s.Height <= 0 {
		return DefaultAdSize
	}
	if s.Label == "" {
		s.Label = DefaultAdSize.Label
	}
	return s
}

// FacebookAdSettings is an optional per-creative override merged with
// defaults at mapping time. Can be bulk-applied to a set of creatives.
type FacebookAdSettings struct {
	WebsiteURL    string `json:"website_url"`
	VisibleLink   string `json:"visible_link,omitempty"`
	CallToAction  string `json:"call_to_action,omitempty"`
	Language      string `json:"language,omitempty"`
	URLParameters string `json:"url_parameters,omitempty"`
	BrowserAddons string `json:"browser_addons,omitempty"`
}

// DecodeFacebookAdSettings parses a stored settings value. Malformed data
// yields nil, meaning "no override".
func DecodeFacebookAdSettings(raw []byte) *FacebookAdSettings {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s FacebookAdSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if s == (FacebookAdSettings{}) {
		return nil
	}
	return &s
}

// Merge overlays non-empty fields of the override onto the receiver.
func (s FacebookAdSettings) Merge(override *FacebookAdSettings) FacebookAdSettings {
	if override == nil {
		return s
	}
	if override.WebsiteURL != "" {
		s.WebsiteURL = override.WebsiteURL
	}
	if override.VisibleLink != "" {
		s.VisibleLink = override.VisibleLink
	}
	if override.CallToAction != "" {
		s.CallToAction = override.CallToAction
	}
	if override.Language != "" {
		s.Language = override.Language
	}
	if override.URLParameters != "" {
		s.URLParameters = override.URLParameters
	}
	if override.BrowserAddons != "" {
		s.BrowserAddons = override.BrowserAddons
	}
	return s
}

// AdVariant is a generated ad creative. Campaign orchestration only ever
// reads variants; it never mutates or deletes them.
type AdVariant struct {
	ID           uuid.UUID           `json:"id"`
	ProjectID    uuid.UUID           `json:"project_id"`
	Platform     string              `json:"platform"`
	Headline     string              `json:"headline"`
	PrimaryText  string              `json:"primary_text"`
	ImageURL     string              `json:"image_url"`
	Size         AdSize              `json:"size"`
	FBAdSettings *FacebookAdSettings `json:"fb_ad_settings,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
