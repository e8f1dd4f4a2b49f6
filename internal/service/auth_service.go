package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/minesafe-service/internal/auth"
	"github.com/spec-kit/minesafe-service/internal/config"
	"github.com/spec-kit/minesafe-service/internal/domain"
	"github.com/spec-kit/minesafe-service/internal/repository"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

// AuthService coordinates login and supervisor self-registration.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// SignupInput carries supervisor self-registration fields.
type SignupInput struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	MiningSite string
	Location   string
}

// Login authenticates a user by email and password. Unknown email and
// wrong password produce the same error so neither case is distinguishable
// from outside.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.NewUnavailable(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.UserID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Signup registers a new SUPERVISOR account and issues a session. Miner
// accounts are provisioned by supervisors through the roster service and
// never self-register.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, string, time.Time, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewDuplicateEmail(email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.NewUnavailable(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		UserID:       uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleSupervisor,
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}
	if input.MiningSite != "" {
		user.MiningSite = &input.MiningSite
	}
	if input.Location != "" {
		user.Location = &input.Location
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnavailable(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.UserID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
