package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/package-tracking/internal/domain"
)

// StatusHistoryRepository encapsulates the transition audit trail.
type StatusHistoryRepository interface {
	Create(ctx context.Context, entry *domain.StatusHistory) error
	ListByPackage(ctx context.Context, packageID string, limit, offset int) ([]domain.StatusHistory, error)
}

type statusHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStatusHistoryRepository instantiates repository.
func NewStatusHistoryRepository(pool *pgxpool.Pool) StatusHistoryRepository {
	return &statusHistoryRepository{pool: pool}
}

func (r *statusHistoryRepository) Create(ctx context.Context, entry *domain.StatusHistory) error {
	before, err := json.Marshal(entry.Before)
	if err != nil {
		return err
	}
	after, err := json.Marshal(entry.After)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO status_history (package_id, actor_id, actor_role, action, before_state, after_state)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		entry.PackageID,
		entry.ActorID,
		entry.ActorRole,
		entry.Action,
		before,
		after,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *statusHistoryRepository) ListByPackage(ctx context.Context, packageID string, limit, offset int) ([]domain.StatusHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, package_id, actor_id, actor_role, action, before_state, after_state, created_at
        FROM status_history WHERE package_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := querier(ctx, r.pool).Query(ctx, query, packageID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusHistory
	for rows.Next() {
		var entry domain.StatusHistory
		var before, after []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.PackageID,
			&entry.ActorID,
			&entry.ActorRole,
			&entry.Action,
			&before,
			&after,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(before, &entry.Before); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(after, &entry.After); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
