package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/package-tracking/internal/domain"
)

// NotificationRepository encapsulates notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (user_id, kind, package_id, body)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		notification.UserID,
		notification.Kind,
		notification.PackageID,
		notification.Body,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	query := `
        SELECT id, user_id, kind, package_id, body, read, created_at
        FROM notifications WHERE user_id=$1`
	if unreadOnly {
		query += ` AND read=FALSE`
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := querier(ctx, r.pool).Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Kind,
			&n.PackageID,
			&n.Body,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND read=FALSE`
	var count int64
	if err := querier(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	const query = `UPDATE notifications SET read=TRUE WHERE id=$1 AND user_id=$2`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
