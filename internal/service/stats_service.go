package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/minesafe-service/internal/authz"
	"github.com/spec-kit/minesafe-service/internal/domain"
	"github.com/spec-kit/minesafe-service/internal/repository"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

// StatsService computes dashboard aggregate statistics (supervisor-only).
type StatsService struct {
	users       repository.UserRepository
	incidents   repository.IncidentRepository
	modules     repository.ModuleRepository
	completions repository.CompletionRepository
	logger      *zap.Logger
}

// NewStatsService constructs the service.
func NewStatsService(
	users repository.UserRepository,
	incidents repository.IncidentRepository,
	modules repository.ModuleRepository,
	completions repository.CompletionRepository,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{users: users, incidents: incidents, modules: modules, completions: completions, logger: logger}
}

// DashboardStats aggregates the numbers shown on the supervisor dashboard.
type DashboardStats struct {
	ActiveMiners           int `json:"active_miners"`
	EmergenciesToday       int `json:"emergencies_today"`
	TotalModules           int `json:"total_modules"`
	TrainingCompletionRate int `json:"training_completion_rate"`
}

// Dashboard computes the stats snapshot.
func (s *StatsService) Dashboard(ctx context.Context, caller *domain.User) (*DashboardStats, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionViewDashboardStats); !decision.Allowed {
		return nil, denied(s.logger, caller, authz.ActionViewDashboardStats, decision)
	}

	miners, err := s.users.CountByRole(ctx, domain.RoleMiner)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	midnight := time.Now().Truncate(24 * time.Hour)
	today, err := s.incidents.CountSince(ctx, midnight)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	modules, err := s.modules.Count(ctx)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	completed, err := s.completions.CountDistinctUsers(ctx)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	rate := 0
	if miners > 0 {
		rate = completed * 100 / miners
		if rate > 100 {
			rate = 100
		}
	}

	return &DashboardStats{
		ActiveMiners:           miners,
		EmergenciesToday:       today,
		TotalModules:           modules,
		TrainingCompletionRate: rate,
	}, nil
}
