package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/package-tracking/internal/domain"
)

// PackageFileRepository encapsulates uploaded file metadata persistence.
type PackageFileRepository interface {
	Create(ctx context.Context, file *domain.PackageFile) error
	ListByPackage(ctx context.Context, packageID string) ([]domain.PackageFile, error)
}

type packageFileRepository struct {
	pool *pgxpool.Pool
}

// NewPackageFileRepository instantiates repository.
func NewPackageFileRepository(pool *pgxpool.Pool) PackageFileRepository {
	return &packageFileRepository{pool: pool}
}

func (r *packageFileRepository) Create(ctx context.Context, file *domain.PackageFile) error {
	const query = `
        INSERT INTO package_files (package_id, uploader_id, kind, storage_key, file_name, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		file.PackageID,
		file.UploaderID,
		file.Kind,
		file.StorageKey,
		file.FileName,
		file.MimeType,
		file.SizeBytes,
	).Scan(&file.ID, &file.CreatedAt)
}

func (r *packageFileRepository) ListByPackage(ctx context.Context, packageID string) ([]domain.PackageFile, error) {
	const query = `
        SELECT id, package_id, uploader_id, kind, storage_key, file_name, mime_type, size_bytes, created_at
        FROM package_files WHERE package_id=$1 ORDER BY created_at ASC`
	rows, err := querier(ctx, r.pool).Query(ctx, query, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PackageFile
	for rows.Next() {
		var file domain.PackageFile
		if err := rows.Scan(
			&file.ID,
			&file.PackageID,
			&file.UploaderID,
			&file.Kind,
			&file.StorageKey,
			&file.FileName,
			&file.MimeType,
			&file.SizeBytes,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}
