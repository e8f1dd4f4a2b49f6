package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/minesafe-service/internal/domain"
)

// IncidentFilter captures listing parameters.
type IncidentFilter struct {
	Status     *domain.IncidentStatus
	ReporterID *string
	Limit      int
	Offset     int
}

// IncidentRepository encapsulates emergency incident persistence. The
// store is the single source of truth for incident status; UpdateStatus is
// a compare-and-set so concurrent transitions resolve to one winner.
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	GetByID(ctx context.Context, id int64) (*domain.Incident, error)
	List(ctx context.Context, filter IncidentFilter) ([]domain.Incident, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.IncidentStatus) (bool, error)
	UpdateMedia(ctx context.Context, id int64, mediaURL string, mediaStatus domain.MediaStatus) error
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type incidentRepository struct {
	pool *pgxpool.Pool
}

// NewIncidentRepository instantiates repository.
func NewIncidentRepository(pool *pgxpool.Pool) IncidentRepository {
	return &incidentRepository{pool: pool}
}

const incidentColumns = `id, emergency_id, reporter_id, severity, issue, latitude, longitude, media_url, media_status, status, reported_at, created_at`

func (r *incidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	const query = `
        INSERT INTO emergencies (emergency_id, reporter_id, severity, issue, latitude, longitude, media_url, media_status, status, reported_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		incident.EmergencyID,
		incident.ReporterID,
		incident.Severity,
		incident.Issue,
		incident.Latitude,
		incident.Longitude,
		incident.MediaURL,
		incident.MediaStatus,
		incident.Status,
		incident.ReportedAt,
	).Scan(&incident.ID, &incident.CreatedAt)
}

func (r *incidentRepository) GetByID(ctx context.Context, id int64) (*domain.Incident, error) {
	var incident domain.Incident
	if err := r.pool.QueryRow(ctx, `SELECT `+incidentColumns+` FROM emergencies WHERE id=$1`, id).Scan(
		&incident.ID,
		&incident.EmergencyID,
		&incident.ReporterID,
		&incident.Severity,
		&incident.Issue,
		&incident.Latitude,
		&incident.Longitude,
		&incident.MediaURL,
		&incident.MediaStatus,
		&incident.Status,
		&incident.ReportedAt,
		&incident.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepository) List(ctx context.Context, filter IncidentFilter) ([]domain.Incident, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM emergencies WHERE %s ORDER BY reported_at DESC LIMIT %d OFFSET %d`,
		incidentColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Incident
	for rows.Next() {
		var incident domain.Incident
		if err := rows.Scan(
			&incident.ID,
			&incident.EmergencyID,
			&incident.ReporterID,
			&incident.Severity,
			&incident.Issue,
			&incident.Latitude,
			&incident.Longitude,
			&incident.MediaURL,
			&incident.MediaStatus,
			&incident.Status,
			&incident.ReportedAt,
			&incident.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, incident)
	}
	return result, rows.Err()
}

// UpdateStatus writes the new status only when the stored status still
// equals the one the caller validated against. Returns false when the row
// has moved on, which the service surfaces as an illegal transition.
func (r *incidentRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.IncidentStatus) (bool, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE emergencies SET status=$1 WHERE id=$2 AND status=$3`,
		to, id, from,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *incidentRepository) UpdateMedia(ctx context.Context, id int64, mediaURL string, mediaStatus domain.MediaStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE emergencies SET media_url=$1, media_status=$2 WHERE id=$3`,
		mediaURL, mediaStatus, id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *incidentRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM emergencies WHERE reported_at >= $1`, since).Scan(&count)
	return count, err
}
