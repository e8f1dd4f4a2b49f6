package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/minesafe-service/internal/auth"
	"github.com/spec-kit/minesafe-service/internal/authz"
	"github.com/spec-kit/minesafe-service/internal/config"
	"github.com/spec-kit/minesafe-service/internal/domain"
	"github.com/spec-kit/minesafe-service/internal/repository"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

// RosterService manages miner accounts. All operations are
// supervisor-only; miner accounts never self-register.
type RosterService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewRosterService constructs the service.
func NewRosterService(cfg config.Config, users repository.UserRepository, logger *zap.Logger) *RosterService {
	return &RosterService{users: users, bcryptCost: cfg.Auth.BcryptCost, logger: logger}
}

// MinerInput carries miner provisioning and profile fields.
type MinerInput struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	MiningSite string
}

// CreateMiner provisions a MINER account under the calling supervisor.
// Role is forced to MINER regardless of input.
func (s *RosterService) CreateMiner(ctx context.Context, caller *domain.User, input MinerInput) (*domain.User, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionManageMiners); !decision.Allowed {
		return nil, denied(s.logger, caller, authz.ActionManageMiners, decision)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateEmail(email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewUnavailable(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	supervisorID := caller.UserID
	miner := &domain.User{
		UserID:       uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleMiner,
		SupervisorID: &supervisorID,
	}
	if input.Phone != "" {
		miner.Phone = &input.Phone
	}
	if input.MiningSite != "" {
		miner.MiningSite = &input.MiningSite
	} else {
		miner.MiningSite = caller.MiningSite
	}

	if err := s.users.Create(ctx, miner); err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return miner, nil
}

// UpdateMiner changes profile fields of an existing miner. Role is
// immutable and never touched here.
func (s *RosterService) UpdateMiner(ctx context.Context, caller *domain.User, minerID string, input MinerInput) (*domain.User, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionManageMiners); !decision.Allowed {
		return nil, denied(s.logger, caller, authz.ActionManageMiners, decision)
	}

	miner, err := s.getMiner(ctx, minerID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		miner.Name = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		email := strings.ToLower(strings.TrimSpace(input.Email))
		if email != miner.Email {
			if _, err := s.users.GetByEmail(ctx, email); err == nil {
				return nil, apperrors.NewDuplicateEmail(email)
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewUnavailable(err)
			}
			miner.Email = email
		}
	}
	if input.Phone != "" {
		miner.Phone = &input.Phone
	}
	if input.MiningSite != "" {
		miner.MiningSite = &input.MiningSite
	}

	if err := s.users.Update(ctx, miner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("miner", nil)
		}
		return nil, apperrors.NewUnavailable(err)
	}
	return miner, nil
}

// DeleteMiner removes a miner account.
func (s *RosterService) DeleteMiner(ctx context.Context, caller *domain.User, minerID string) error {
	if decision := authz.Authorize(caller.Role, authz.ActionManageMiners); !decision.Allowed {
		return denied(s.logger, caller, authz.ActionManageMiners, decision)
	}
	if _, err := s.getMiner(ctx, minerID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, minerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("miner", nil)
		}
		return apperrors.NewUnavailable(err)
	}
	return nil
}

// GetMiner fetches a single miner.
func (s *RosterService) GetMiner(ctx context.Context, caller *domain.User, minerID string) (*domain.User, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionManageMiners); !decision.Allowed {
		return nil, denied(s.logger, caller, authz.ActionManageMiners, decision)
	}
	return s.getMiner(ctx, minerID)
}

// ListMiners returns all miner accounts.
func (s *RosterService) ListMiners(ctx context.Context, caller *domain.User) ([]domain.User, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionManageMiners); !decision.Allowed {
		return nil, denied(s.logger, caller, authz.ActionManageMiners, decision)
	}
	miners, err := s.users.ListByRole(ctx, domain.RoleMiner)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return miners, nil
}

func (s *RosterService) getMiner(ctx context.Context, minerID string) (*domain.User, error) {
	miner, err := s.users.GetByUserID(ctx, minerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("miner", map[string]any{"id": minerID})
		}
		return nil, apperrors.NewUnavailable(err)
	}
	if miner.Role != domain.RoleMiner {
		return nil, apperrors.NewNotFound("miner", map[string]any{"id": minerID})
	}
	return miner, nil
}
