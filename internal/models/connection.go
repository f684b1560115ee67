package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const PlatformFacebook = "facebook"

type AdAccount struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status"`
}

type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token,omitempty"`
}

// ConnectionMetadata holds the ad accounts and pages discovered during the
// OAuth callback. Stored as jsonb; decoded through DecodeConnectionMetadata.
type ConnectionMetadata struct {
	AdAccounts []AdAccount `json:"ad_accounts"`
	Pages      []Page      `json:"pages"`
}

func DecodeConnectionMetadata(raw []byte) ConnectionMetadata {
	var m ConnectionMetadata
	if len(raw) == 0 {
		return m
	}
	_ = json.Unmarshal(raw, &m)
	return m
}

func (m ConnectionMetadata) HasAdAccount(id string) bool {
	for _, a := range m.AdAccounts {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (m ConnectionMetadata) HasPage(id string) bool {
	for _, p := range m.Pages {
		if p.ID == id {
			return true
		}
	}
	return false
}

// PlatformConnection is the stored OAuth credential linking a user to an ads
// platform. One row per (user, platform). Mutated only by the connection
// service.
type PlatformConnection struct {
	ID                  uuid.UUID          `json:"id"`
	UserID              uuid.UUID          `json:"user_id"`
	Platform            string             `json:"platform"`
	AccessToken         string             `json:"-"`
	TokenExpiresAt      *time.Time         `json:"token_expires_at,omitempty"`
	AccountID           *string            `json:"account_id,omitempty"`
	SelectedAdAccountID *string            `json:"selected_ad_account_id,omitempty"`
	SelectedPageID      *string            `json:"selected_page_id,omitempty"`
	Metadata            ConnectionMetadata `json:"metadata"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// IsValid reports whether the connection can be used for remote calls: a
// token is present and, if an expiry is recorded, it lies in the future.
func (c *PlatformConnection) IsValid() bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	if c.TokenExpiresAt != nil && c.TokenExpiresAt.Before(time.Now()) {
		return false
	}
	return true
}

// IsExpired reports a recorded expiry in the past. Distinct from !IsValid so
// callers can tell "never connected" from "stale token".
func (c *PlatformConnection) IsExpired() bool {
	return c != nil && c.TokenExpiresAt != nil && c.TokenExpiresAt.Before(time.Now())
}
