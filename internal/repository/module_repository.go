package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/minesafe-service/internal/domain"
)

// ModuleRepository encapsulates training module persistence.
type ModuleRepository interface {
	Create(ctx context.Context, module *domain.TrainingModule) error
	GetByID(ctx context.Context, id int64) (*domain.TrainingModule, error)
	List(ctx context.Context) ([]domain.TrainingModule, error)
	Count(ctx context.Context) (int, error)
	SetStar(ctx context.Context, id int64) error
	GetStarred(ctx context.Context) (*domain.TrainingModule, error)
}

type moduleRepository struct {
	pool *pgxpool.Pool
}

// NewModuleRepository instantiates repository.
func NewModuleRepository(pool *pgxpool.Pool) ModuleRepository {
	return &moduleRepository{pool: pool}
}

const moduleColumns = `id, title, description, video_url, duration, category, thumbnail, created_by, starred, created_at, updated_at`

func (r *moduleRepository) Create(ctx context.Context, module *domain.TrainingModule) error {
	const query = `
        INSERT INTO training_modules (title, description, video_url, duration, category, thumbnail, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		module.Title,
		module.Description,
		module.VideoURL,
		module.Duration,
		module.Category,
		module.Thumbnail,
		module.CreatedBy,
	).Scan(&module.ID, &module.CreatedAt, &module.UpdatedAt)
}

func (r *moduleRepository) GetByID(ctx context.Context, id int64) (*domain.TrainingModule, error) {
	return r.fetchSingle(ctx, `SELECT `+moduleColumns+` FROM training_modules WHERE id=$1`, id)
}

func (r *moduleRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.TrainingModule, error) {
	var module domain.TrainingModule
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&module.ID,
		&module.Title,
		&module.Description,
		&module.VideoURL,
		&module.Duration,
		&module.Category,
		&module.Thumbnail,
		&module.CreatedBy,
		&module.Starred,
		&module.CreatedAt,
		&module.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) List(ctx context.Context) ([]domain.TrainingModule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+moduleColumns+` FROM training_modules ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TrainingModule
	for rows.Next() {
		var module domain.TrainingModule
		if err := rows.Scan(
			&module.ID,
			&module.Title,
			&module.Description,
			&module.VideoURL,
			&module.Duration,
			&module.Category,
			&module.Thumbnail,
			&module.CreatedBy,
			&module.Starred,
			&module.CreatedAt,
			&module.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, module)
	}
	return result, rows.Err()
}

func (r *moduleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM training_modules`).Scan(&count)
	return count, err
}

// SetStar marks a single module as starred, clearing any previous star.
func (r *moduleRepository) SetStar(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE training_modules SET starred=FALSE WHERE starred`); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `UPDATE training_modules SET starred=TRUE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *moduleRepository) GetStarred(ctx context.Context) (*domain.TrainingModule, error) {
	return r.fetchSingle(ctx, `SELECT `+moduleColumns+` FROM training_modules WHERE starred LIMIT 1`)
}
