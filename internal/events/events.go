package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Campaign lifecycle event types published on the events channel.
const (
	CampaignSubmitted    = "campaign_submitted"
	CampaignStageChanged = "campaign_stage_changed"
	CampaignCompleted    = "campaign_completed"
	CampaignPartial      = "campaign_partial"
	CampaignFailed       = "campaign_failed"
	CampaignActivated    = "campaign_activated"
	ConnectionExpired    = "connection_expired"
)

// Event is the envelope pushed to subscribers. Data is event-specific.
type Event struct {
	Type      string         `json:"type"`
	UserID    uuid.UUID      `json:"user_id"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

func New(eventType string, userID uuid.UUID, data map[string]any) Event {
	return Event{
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Publisher pushes events to the bus. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops all events. Used in tests and when Redis is absent.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
