package dto

import (
	"time"

	"github.com/spec-kit/minesafe-service/internal/domain"
)

// CreateEmergencyRequest payload. Latitude and longitude are independently
// optional, matching the reporting clients.
type CreateEmergencyRequest struct {
	EmergencyID int64           `json:"emergency_id"`
	Severity    domain.Severity `json:"severity"`
	Issue       string          `json:"issue"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.IncidentStatus `json:"status"`
}

// UpdateMediaRequest payload.
type UpdateMediaRequest struct {
	MediaURL    string             `json:"media_url"`
	MediaStatus domain.MediaStatus `json:"media_status"`
}

// IncidentResponse is the wire representation of an incident.
type IncidentResponse struct {
	ID          int64                 `json:"id"`
	EmergencyID int64                 `json:"emergency_id"`
	ReporterID  string                `json:"user_id"`
	Severity    domain.Severity       `json:"severity"`
	Issue       string                `json:"issue"`
	Latitude    *float64              `json:"latitude,omitempty"`
	Longitude   *float64              `json:"longitude,omitempty"`
	MediaURL    *string               `json:"media_url,omitempty"`
	MediaStatus *domain.MediaStatus   `json:"media_status,omitempty"`
	Status      domain.IncidentStatus `json:"status"`
	ReportedAt  time.Time             `json:"reported_at"`
	CreatedAt   time.Time             `json:"created_at"`
}

// NewIncidentResponse maps a domain incident.
func NewIncidentResponse(incident *domain.Incident) IncidentResponse {
	return IncidentResponse{
		ID:          incident.ID,
		EmergencyID: incident.EmergencyID,
		ReporterID:  incident.ReporterID,
		Severity:    incident.Severity,
		Issue:       incident.Issue,
		Latitude:    incident.Latitude,
		Longitude:   incident.Longitude,
		MediaURL:    incident.MediaURL,
		MediaStatus: incident.MediaStatus,
		Status:      incident.Status,
		ReportedAt:  incident.ReportedAt,
		CreatedAt:   incident.CreatedAt,
	}
}
