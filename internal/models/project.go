package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is one wizard session: a business idea plus the audience selected
// for it. The idea is immutable once generated.
type Project struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Name           string         `json:"name"`
	BusinessIdea   BusinessIdea   `json:"business_idea"`
	TargetAudience TargetAudience `json:"target_audience"`
	CreatedAt      time.Time      `json:"created_at"`
}
