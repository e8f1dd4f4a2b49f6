package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/minesafe-service/internal/config"
	"github.com/spec-kit/minesafe-service/internal/domain"
	"github.com/spec-kit/minesafe-service/internal/events"
)

// AlertService emits operator alerts for incident domain events.
type AlertService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AlertConfig
}

// NewAlertService creates the service.
func NewAlertService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AlertConfig) *AlertService {
	return &AlertService{dispatcher: dispatcher, logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes to incident events.
func (a *AlertService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventIncidentReported, a.handleIncidentReported)
	a.dispatcher.Subscribe(events.EventIncidentStatusChanged, a.handleIncidentStatusChanged)
	a.dispatcher.Subscribe(events.EventIncidentMediaUpdated, a.handleIncidentMediaUpdated)
}

func (a *AlertService) handleIncidentReported(ctx context.Context, event events.Event) error {
	a.logger.Info("IncidentReported", zap.Int64("incident_id", event.IncidentID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.IncidentReportedPayload); ok && payload.Severity == domain.SeverityCritical {
		a.logger.Warn("critical incident reported",
			zap.Int64("incident_id", event.IncidentID),
			zap.Int64("emergency_id", payload.EmergencyID),
			zap.String("reporter", event.Actor.UserID))
	}
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AlertService) handleIncidentStatusChanged(ctx context.Context, event events.Event) error {
	a.logger.Info("IncidentStatusChanged", zap.Int64("incident_id", event.IncidentID), zap.Any("payload", event.Payload))
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AlertService) handleIncidentMediaUpdated(ctx context.Context, event events.Event) error {
	a.logger.Info("IncidentMediaUpdated", zap.Int64("incident_id", event.IncidentID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AlertService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.Int64("incident_id", event.IncidentID),
		zap.String("event_type", string(event.Type)))
}
