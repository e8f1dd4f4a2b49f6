package domain

import "time"

// IncidentStatus enumerates lifecycle states for emergency incidents.
type IncidentStatus string

const (
	IncidentStatusPending    IncidentStatus = "PENDING"
	IncidentStatusResolving  IncidentStatus = "RESOLVING"
	IncidentStatusResolved   IncidentStatus = "RESOLVED"
	IncidentStatusFalseAlarm IncidentStatus = "FALSE_ALARM"
)

// Severity enumerates incident urgency, ordered by increasing severity.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Valid reports whether the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// MediaStatus tracks the upload state of an incident's media reference.
// Unlike IncidentStatus there is no transition discipline here: writes are
// plain overwrites validated against the known values only.
type MediaStatus string

const (
	MediaStatusPending  MediaStatus = "PENDING"
	MediaStatusUploaded MediaStatus = "UPLOADED"
	MediaStatusFailed   MediaStatus = "FAILED"
)

// Valid reports whether the media status is a known value.
func (m MediaStatus) Valid() bool {
	switch m {
	case MediaStatusPending, MediaStatusUploaded, MediaStatusFailed:
		return true
	}
	return false
}

// Incident is the aggregate for reported safety emergencies. Latitude and
// longitude are independently optional; the contract does not require both.
type Incident struct {
	ID          int64
	EmergencyID int64
	ReporterID  string
	Severity    Severity
	Issue       string
	Latitude    *float64
	Longitude   *float64
	MediaURL    *string
	MediaStatus *MediaStatus
	Status      IncidentStatus
	ReportedAt  time.Time
	CreatedAt   time.Time
}
