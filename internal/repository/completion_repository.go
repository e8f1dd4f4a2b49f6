package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/minesafe-service/internal/domain"
)

// CompletionRepository persists module completions and learning streaks.
type CompletionRepository interface {
	Create(ctx context.Context, completion *domain.ModuleCompletion) error
	ListByUser(ctx context.Context, userID string) ([]domain.ModuleCompletion, error)
	CountDistinctUsers(ctx context.Context) (int, error)
	GetStreak(ctx context.Context, userID string) (*domain.LearningStreak, error)
	UpsertStreak(ctx context.Context, streak *domain.LearningStreak) error
}

type completionRepository struct {
	pool *pgxpool.Pool
}

// NewCompletionRepository instantiates repository.
func NewCompletionRepository(pool *pgxpool.Pool) CompletionRepository {
	return &completionRepository{pool: pool}
}

func (r *completionRepository) Create(ctx context.Context, completion *domain.ModuleCompletion) error {
	const query = `
        INSERT INTO module_completions (user_id, module_id, score, completed_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		completion.UserID,
		completion.ModuleID,
		completion.Score,
		completion.CompletedAt,
	).Scan(&completion.ID)
}

func (r *completionRepository) ListByUser(ctx context.Context, userID string) ([]domain.ModuleCompletion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, module_id, score, completed_at FROM module_completions WHERE user_id=$1 ORDER BY completed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ModuleCompletion
	for rows.Next() {
		var c domain.ModuleCompletion
		if err := rows.Scan(&c.ID, &c.UserID, &c.ModuleID, &c.Score, &c.CompletedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *completionRepository) CountDistinctUsers(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT user_id) FROM module_completions`).Scan(&count)
	return count, err
}

func (r *completionRepository) GetStreak(ctx context.Context, userID string) (*domain.LearningStreak, error) {
	var streak domain.LearningStreak
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, current_streak, longest_streak, last_completed_at FROM learning_streaks WHERE user_id=$1`,
		userID,
	).Scan(&streak.UserID, &streak.CurrentStreak, &streak.LongestStreak, &streak.LastCompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &domain.LearningStreak{UserID: userID}, nil
		}
		return nil, err
	}
	return &streak, nil
}

func (r *completionRepository) UpsertStreak(ctx context.Context, streak *domain.LearningStreak) error {
	const query = `
        INSERT INTO learning_streaks (user_id, current_streak, longest_streak, last_completed_at)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id) DO UPDATE SET
            current_streak=EXCLUDED.current_streak,
            longest_streak=EXCLUDED.longest_streak,
            last_completed_at=EXCLUDED.last_completed_at`
	_, err := r.pool.Exec(ctx, query,
		streak.UserID,
		streak.CurrentStreak,
		streak.LongestStreak,
		streak.LastCompletedAt,
	)
	return err
}
