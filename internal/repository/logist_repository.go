package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/package-tracking/internal/domain"
)

// LogistRepository manages logist profile persistence.
type LogistRepository interface {
	Create(ctx context.Context, profile *domain.LogistProfile) error
	Update(ctx context.Context, profile *domain.LogistProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.LogistProfile, error)
	List(ctx context.Context, activeOnly bool) ([]domain.LogistProfile, error)
}

type logistRepository struct {
	pool *pgxpool.Pool
}

// NewLogistRepository instantiates repository.
func NewLogistRepository(pool *pgxpool.Pool) LogistRepository {
	return &logistRepository{pool: pool}
}

func (r *logistRepository) Create(ctx context.Context, profile *domain.LogistProfile) error {
	const query = `
        INSERT INTO logist_profiles (user_id, service_location, address, supports_lockers, supports_offices, active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, updated_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		profile.UserID,
		profile.ServiceLocation,
		profile.Address,
		profile.SupportsLockers,
		profile.SupportsOffices,
		profile.Active,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *logistRepository) Update(ctx context.Context, profile *domain.LogistProfile) error {
	const query = `
        UPDATE logist_profiles SET service_location=$1, address=$2, supports_lockers=$3,
            supports_offices=$4, active=$5, updated_at=NOW()
        WHERE user_id=$6`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query,
		profile.ServiceLocation,
		profile.Address,
		profile.SupportsLockers,
		profile.SupportsOffices,
		profile.Active,
		profile.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *logistRepository) GetByUserID(ctx context.Context, userID string) (*domain.LogistProfile, error) {
	const query = `
        SELECT user_id, service_location, address, supports_lockers, supports_offices, active, created_at, updated_at
        FROM logist_profiles WHERE user_id=$1`
	var profile domain.LogistProfile
	if err := querier(ctx, r.pool).QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.ServiceLocation,
		&profile.Address,
		&profile.SupportsLockers,
		&profile.SupportsOffices,
		&profile.Active,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *logistRepository) List(ctx context.Context, activeOnly bool) ([]domain.LogistProfile, error) {
	query := `
        SELECT user_id, service_location, address, supports_lockers, supports_offices, active, created_at, updated_at
        FROM logist_profiles`
	if activeOnly {
		query += ` WHERE active=TRUE`
	}
	query += ` ORDER BY service_location ASC`

	rows, err := querier(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LogistProfile
	for rows.Next() {
		var profile domain.LogistProfile
		if err := rows.Scan(
			&profile.UserID,
			&profile.ServiceLocation,
			&profile.Address,
			&profile.SupportsLockers,
			&profile.SupportsOffices,
			&profile.Active,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}
