package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/minesafe-service/internal/domain"
)

// QuestionRepository encapsulates module quiz question persistence.
type QuestionRepository interface {
	Create(ctx context.Context, question *domain.ModuleQuestion) error
	ListByModule(ctx context.Context, moduleID int64) ([]domain.ModuleQuestion, error)
}

type questionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository instantiates repository.
func NewQuestionRepository(pool *pgxpool.Pool) QuestionRepository {
	return &questionRepository{pool: pool}
}

func (r *questionRepository) Create(ctx context.Context, question *domain.ModuleQuestion) error {
	const query = `
        INSERT INTO module_questions (module_id, question, options, answer)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		question.ModuleID,
		question.Question,
		question.Options,
		question.Answer,
	).Scan(&question.ID)
}

func (r *questionRepository) ListByModule(ctx context.Context, moduleID int64) ([]domain.ModuleQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, module_id, question, options, answer FROM module_questions WHERE module_id=$1 ORDER BY id`,
		moduleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ModuleQuestion
	for rows.Next() {
		var q domain.ModuleQuestion
		if err := rows.Scan(&q.ID, &q.ModuleID, &q.Question, &q.Options, &q.Answer); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	return result, rows.Err()
}
