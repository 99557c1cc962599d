package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/package-tracking/internal/domain"
)

// MessageRepository encapsulates package message persistence.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByPackage(ctx context.Context, packageID string) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO package_messages (package_id, author_id, author_role, body)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		msg.PackageID,
		msg.AuthorID,
		msg.AuthorRole,
		msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) ListByPackage(ctx context.Context, packageID string) ([]domain.Message, error) {
	const query = `
        SELECT id, package_id, author_id, author_role, body, created_at
        FROM package_messages WHERE package_id=$1 ORDER BY created_at ASC`
	rows, err := querier(ctx, r.pool).Query(ctx, query, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.PackageID,
			&msg.AuthorID,
			&msg.AuthorRole,
			&msg.Body,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
