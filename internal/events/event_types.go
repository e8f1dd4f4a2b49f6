package events

import (
	"time"

	"github.com/spec-kit/minesafe-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIncidentReported      EventType = "incident_reported"
	EventIncidentStatusChanged EventType = "incident_status_changed"
	EventIncidentMediaUpdated  EventType = "incident_media_updated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	IncidentID int64       `json:"incident_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// IncidentReportedPayload payload.
type IncidentReportedPayload struct {
	EmergencyID int64           `json:"emergency_id"`
	Severity    domain.Severity `json:"severity"`
	Issue       string          `json:"issue"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
}

// IncidentStatusChangedPayload payload.
type IncidentStatusChangedPayload struct {
	OldStatus domain.IncidentStatus `json:"old_status"`
	NewStatus domain.IncidentStatus `json:"new_status"`
}

// IncidentMediaUpdatedPayload payload.
type IncidentMediaUpdatedPayload struct {
	MediaURL    string             `json:"media_url"`
	MediaStatus domain.MediaStatus `json:"media_status"`
}
