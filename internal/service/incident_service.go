package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/minesafe-service/internal/authz"
	"github.com/spec-kit/minesafe-service/internal/domain"
	"github.com/spec-kit/minesafe-service/internal/events"
	"github.com/spec-kit/minesafe-service/internal/repository"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

// allowedTransitions is the incident lifecycle edge table. RESOLVED and
// FALSE_ALARM are terminal; there is no backward edge and no direct
// PENDING to RESOLVED shortcut.
var allowedTransitions = map[domain.IncidentStatus][]domain.IncidentStatus{
	domain.IncidentStatusPending:    {domain.IncidentStatusResolving, domain.IncidentStatusFalseAlarm},
	domain.IncidentStatusResolving:  {domain.IncidentStatusResolved},
	domain.IncidentStatusResolved:   {},
	domain.IncidentStatusFalseAlarm: {},
}

func isValidTransition(current, next domain.IncidentStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IncidentService owns the incident lifecycle: creation, status
// transitions, media updates and scoped listing. Every mutation passes
// through the access-control guard before touching the store.
type IncidentService struct {
	incidents  repository.IncidentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewIncidentService constructs the service.
func NewIncidentService(incidents repository.IncidentRepository, dispatcher events.Dispatcher, logger *zap.Logger) *IncidentService {
	return &IncidentService{incidents: incidents, dispatcher: dispatcher, logger: logger}
}

// ReportInput describes incident creation payload.
type ReportInput struct {
	EmergencyID int64
	Severity    domain.Severity
	Issue       string
	Latitude    *float64
	Longitude   *float64
}

// IncidentListFilter describes listing filters before scoping.
type IncidentListFilter struct {
	Status     *domain.IncidentStatus
	ReporterID *string
	Limit      int
	Offset     int
}

// Report creates a new incident at PENDING with the caller as reporter.
func (s *IncidentService) Report(ctx context.Context, caller *domain.User, input ReportInput) (*domain.Incident, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionReportIncident); !decision.Allowed {
		return nil, s.deny(caller, authz.ActionReportIncident, decision)
	}
	if !input.Severity.Valid() {
		return nil, apperrors.NewValidationError("unknown severity", map[string]any{"severity": input.Severity})
	}
	if strings.TrimSpace(input.Issue) == "" {
		return nil, apperrors.NewValidationError("issue required", nil)
	}

	incident := &domain.Incident{
		EmergencyID: input.EmergencyID,
		ReporterID:  caller.UserID,
		Severity:    input.Severity,
		Issue:       strings.TrimSpace(input.Issue),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Status:      domain.IncidentStatusPending,
		ReportedAt:  time.Now(),
	}
	if err := s.incidents.Create(ctx, incident); err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventIncidentReported,
		IncidentID: incident.ID,
		Actor:      events.Actor{UserID: caller.UserID, Role: caller.Role},
		Payload: events.IncidentReportedPayload{
			EmergencyID: incident.EmergencyID,
			Severity:    incident.Severity,
			Issue:       incident.Issue,
			Latitude:    incident.Latitude,
			Longitude:   incident.Longitude,
		},
	})
	return incident, nil
}

// Get fetches a single incident, enforcing reporter scoping for miners.
func (s *IncidentService) Get(ctx context.Context, caller *domain.User, id int64) (*domain.Incident, error) {
	incident, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	decision := authz.AuthorizeOwned(caller.Role, authz.ActionViewIncidents, caller.UserID, incident.ReporterID)
	if !decision.Allowed {
		return nil, s.deny(caller, authz.ActionViewIncidents, decision)
	}
	return incident, nil
}

// List returns incidents visible to the caller. Miners are forcibly
// scoped to their own reports regardless of requested filters.
func (s *IncidentService) List(ctx context.Context, caller *domain.User, filter IncidentListFilter) ([]domain.Incident, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionViewIncidents); !decision.Allowed {
		return nil, s.deny(caller, authz.ActionViewIncidents, decision)
	}

	repoFilter := repository.IncidentFilter{
		Status:     filter.Status,
		ReporterID: filter.ReporterID,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if authz.OwnScoped(caller.Role, authz.ActionViewIncidents) {
		reporterID := caller.UserID
		repoFilter.ReporterID = &reporterID
	}

	incidents, err := s.incidents.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return incidents, nil
}

// Transition moves an incident along one lifecycle edge. The write is a
// compare-and-set keyed on the status read during validation, so of two
// racing transitions on the same source state exactly one wins and the
// loser observes an illegal transition.
func (s *IncidentService) Transition(ctx context.Context, caller *domain.User, id int64, next domain.IncidentStatus) (*domain.Incident, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionTransitionIncident); !decision.Allowed {
		return nil, s.deny(caller, authz.ActionTransitionIncident, decision)
	}

	incident, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	current := incident.Status
	if !isValidTransition(current, next) {
		return nil, apperrors.NewIllegalTransition(string(current), string(next))
	}

	ok, err := s.incidents.UpdateStatus(ctx, id, current, next)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	if !ok {
		// Lost the race: the stored status moved between read and write.
		return nil, apperrors.NewIllegalTransition(string(current), string(next))
	}
	incident.Status = next

	s.publish(ctx, events.Event{
		Type:       events.EventIncidentStatusChanged,
		IncidentID: incident.ID,
		Actor:      events.Actor{UserID: caller.UserID, Role: caller.Role},
		Payload: events.IncidentStatusChangedPayload{
			OldStatus: current,
			NewStatus: next,
		},
	})
	return incident, nil
}

// UpdateMedia overwrites the incident's media reference. Media status has
// no transition discipline; only the value set is validated. Permitted for
// the owning reporter or any supervisor.
func (s *IncidentService) UpdateMedia(ctx context.Context, caller *domain.User, id int64, mediaURL string, mediaStatus domain.MediaStatus) (*domain.Incident, error) {
	if !mediaStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown media status", map[string]any{"media_status": mediaStatus})
	}

	incident, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	decision := authz.AuthorizeOwned(caller.Role, authz.ActionUpdateIncidentMedia, caller.UserID, incident.ReporterID)
	if !decision.Allowed {
		return nil, s.deny(caller, authz.ActionUpdateIncidentMedia, decision)
	}

	if err := s.incidents.UpdateMedia(ctx, id, mediaURL, mediaStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("incident", nil)
		}
		return nil, apperrors.NewUnavailable(err)
	}
	incident.MediaURL = &mediaURL
	incident.MediaStatus = &mediaStatus

	s.publish(ctx, events.Event{
		Type:       events.EventIncidentMediaUpdated,
		IncidentID: incident.ID,
		Actor:      events.Actor{UserID: caller.UserID, Role: caller.Role},
		Payload: events.IncidentMediaUpdatedPayload{
			MediaURL:    mediaURL,
			MediaStatus: mediaStatus,
		},
	})
	return incident, nil
}

// EmergenciesSince counts incidents reported at or after the given time.
func (s *IncidentService) EmergenciesSince(ctx context.Context, since time.Time) (int, error) {
	count, err := s.incidents.CountSince(ctx, since)
	if err != nil {
		return 0, apperrors.NewUnavailable(err)
	}
	return count, nil
}

func (s *IncidentService) fetch(ctx context.Context, id int64) (*domain.Incident, error) {
	incident, err := s.incidents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("incident", map[string]any{"id": id})
		}
		return nil, apperrors.NewUnavailable(err)
	}
	return incident, nil
}

func (s *IncidentService) deny(caller *domain.User, action authz.Action, decision authz.Decision) error {
	return denied(s.logger, caller, action, decision)
}

func (s *IncidentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
