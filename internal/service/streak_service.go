package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/minesafe-service/internal/authz"
	"github.com/spec-kit/minesafe-service/internal/domain"
	"github.com/spec-kit/minesafe-service/internal/repository"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

const leaderboardKey = "minesafe:streaks:leaderboard"

// StreakService tracks consecutive-day learning streaks. Postgres holds
// the per-user streak rows; a Redis sorted set keeps the leaderboard
// ordering so the supervisor view is a single range read.
type StreakService struct {
	completions repository.CompletionRepository
	users       repository.UserRepository
	redis       *redis.Client
	logger      *zap.Logger
}

// NewStreakService constructs the service.
func NewStreakService(completions repository.CompletionRepository, users repository.UserRepository, redisClient *redis.Client, logger *zap.Logger) *StreakService {
	return &StreakService{completions: completions, users: users, redis: redisClient, logger: logger}
}

// LeaderboardEntry is one row of the streak leaderboard.
type LeaderboardEntry struct {
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	CurrentStreak int    `json:"current_streak"`
}

// RecordCompletion advances the user's streak for a completion at the
// given time: same-day completions leave it unchanged, a completion on the
// day after the last one extends it, anything later resets it to one.
func (s *StreakService) RecordCompletion(ctx context.Context, userID string, completedAt time.Time) error {
	streak, err := s.completions.GetStreak(ctx, userID)
	if err != nil {
		return err
	}

	day := completedAt.Truncate(24 * time.Hour)
	switch {
	case streak.LastCompletedAt == nil:
		streak.CurrentStreak = 1
	case streak.LastCompletedAt.Truncate(24 * time.Hour).Equal(day):
		// already counted today
	case streak.LastCompletedAt.Truncate(24 * time.Hour).Equal(day.AddDate(0, 0, -1)):
		streak.CurrentStreak++
	default:
		streak.CurrentStreak = 1
	}
	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	streak.LastCompletedAt = &completedAt

	if err := s.completions.UpsertStreak(ctx, streak); err != nil {
		return err
	}

	if s.redis != nil {
		err := s.redis.ZAdd(ctx, leaderboardKey, redis.Z{
			Score:  float64(streak.CurrentStreak),
			Member: userID,
		}).Err()
		if err != nil {
			// leaderboard lags until the next completion; the row is the truth
			s.logger.Warn("leaderboard update failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}

// StreakForUser returns the caller's streak row.
func (s *StreakService) StreakForUser(ctx context.Context, userID string) (*domain.LearningStreak, error) {
	streak, err := s.completions.GetStreak(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return streak, nil
}

// Leaderboard returns the top streaks in descending order
// (supervisor-only).
func (s *StreakService) Leaderboard(ctx context.Context, caller *domain.User, limit int) ([]LeaderboardEntry, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionViewLeaderboard); !decision.Allowed {
		return nil, denied(s.logger, caller, authz.ActionViewLeaderboard, decision)
	}
	if limit <= 0 {
		limit = 20
	}
	if s.redis == nil {
		return nil, apperrors.NewUnavailable(nil)
	}

	members, err := s.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, member := range members {
		userID, ok := member.Member.(string)
		if !ok {
			continue
		}
		entry := LeaderboardEntry{UserID: userID, CurrentStreak: int(member.Score)}
		if user, err := s.users.GetByUserID(ctx, userID); err == nil {
			entry.Name = user.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
