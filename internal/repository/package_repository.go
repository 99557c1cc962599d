package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/package-tracking/internal/domain"
)

// ErrVersionConflict signals an optimistic-lock failure on a status write.
var ErrVersionConflict = fmt.Errorf("package version conflict")

// PackageFilter captures listing parameters.
type PackageFilter struct {
	ClientID        *string
	LogistID        *string
	ClientStatuses  []domain.ClientStatus
	LogistStatuses  []domain.LogistStatus
	ManagerStatuses []domain.ManagerStatus
	SearchTerm      *string
	Limit           int
	Offset          int
}

// PackageRepository encapsulates package persistence.
type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.Package) error
	GetByID(ctx context.Context, id string) (*domain.Package, error)
	GetByTrackingCode(ctx context.Context, code string) (*domain.Package, error)
	ListWithFilter(ctx context.Context, filter PackageFilter) ([]domain.Package, error)
	UpdateDetails(ctx context.Context, pkg *domain.Package) error
	// UpdateStatuses writes the full tri-state with a compare-and-swap on
	// the version column. Returns ErrVersionConflict when the row moved.
	UpdateStatuses(ctx context.Context, id string, state domain.StatusSnapshot, expectedVersion int64) (*domain.Package, error)
	SetPaymentInfo(ctx context.Context, id string, amount int64, details string) error
}

const packageColumns = `id, tracking_code, client_id, logist_id,
           client_status, logist_status, manager_status,
           recipient_name, delivery_type, locker_address, locker_code,
           courier_name, tracking_number, estimated_delivery,
           item_name, shop_name, comment, manager_comment,
           payment_amount, payment_details, version, created_at, updated_at`

type packageRepository struct {
	pool *pgxpool.Pool
}

// NewPackageRepository instantiates repository.
func NewPackageRepository(pool *pgxpool.Pool) PackageRepository {
	return &packageRepository{pool: pool}
}

func (r *packageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	const query = `
        INSERT INTO packages (tracking_code, client_id, logist_id,
            client_status, logist_status, manager_status,
            recipient_name, delivery_type, locker_address, locker_code,
            courier_name, tracking_number, estimated_delivery,
            item_name, shop_name, comment, manager_comment)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING id, version, created_at, updated_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		pkg.TrackingCode,
		pkg.ClientID,
		pkg.LogistID,
		pkg.ClientStatus,
		pkg.LogistStatus,
		pkg.ManagerStatus,
		pkg.RecipientName,
		pkg.DeliveryType,
		pkg.LockerAddress,
		pkg.LockerCode,
		pkg.CourierName,
		pkg.TrackingNumber,
		pkg.EstimatedDelivery,
		pkg.ItemName,
		pkg.ShopName,
		pkg.Comment,
		pkg.ManagerComment,
	).Scan(&pkg.ID, &pkg.Version, &pkg.CreatedAt, &pkg.UpdatedAt)
}

func (r *packageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	query := fmt.Sprintf(`SELECT %s FROM packages WHERE id=$1`, packageColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *packageRepository) GetByTrackingCode(ctx context.Context, code string) (*domain.Package, error) {
	query := fmt.Sprintf(`SELECT %s FROM packages WHERE tracking_code=$1`, packageColumns)
	return r.fetchSingle(ctx, query, code)
}

func (r *packageRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Package, error) {
	row := querier(ctx, r.pool).QueryRow(ctx, query, arg)
	return scanPackage(row)
}

func (r *packageRepository) ListWithFilter(ctx context.Context, filter PackageFilter) ([]domain.Package, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.LogistID != nil {
		args = append(args, *filter.LogistID)
		clauses = append(clauses, fmt.Sprintf("logist_id=$%d", len(args)))
	}
	if len(filter.ClientStatuses) > 0 {
		placeholders := make([]string, len(filter.ClientStatuses))
		for i, status := range filter.ClientStatuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("client_status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.LogistStatuses) > 0 {
		placeholders := make([]string, len(filter.LogistStatuses))
		for i, status := range filter.LogistStatuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("logist_status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.ManagerStatuses) > 0 {
		placeholders := make([]string, len(filter.ManagerStatuses))
		for i, status := range filter.ManagerStatuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("manager_status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(item_name) LIKE %s OR LOWER(recipient_name) LIKE %s OR LOWER(tracking_code) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM packages WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		packageColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := querier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *pkg)
	}
	return result, rows.Err()
}

func (r *packageRepository) UpdateDetails(ctx context.Context, pkg *domain.Package) error {
	const query = `
        UPDATE packages SET recipient_name=$1, delivery_type=$2, locker_address=$3, locker_code=$4,
            courier_name=$5, tracking_number=$6, estimated_delivery=$7,
            item_name=$8, shop_name=$9, comment=$10, manager_comment=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query,
		pkg.RecipientName,
		pkg.DeliveryType,
		pkg.LockerAddress,
		pkg.LockerCode,
		pkg.CourierName,
		pkg.TrackingNumber,
		pkg.EstimatedDelivery,
		pkg.ItemName,
		pkg.ShopName,
		pkg.Comment,
		pkg.ManagerComment,
		pkg.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *packageRepository) UpdateStatuses(ctx context.Context, id string, state domain.StatusSnapshot, expectedVersion int64) (*domain.Package, error) {
	query := fmt.Sprintf(`
        UPDATE packages SET client_status=$1, logist_status=$2, manager_status=$3,
            version=version+1, updated_at=NOW()
        WHERE id=$4 AND version=$5
        RETURNING %s`, packageColumns)
	row := querier(ctx, r.pool).QueryRow(ctx, query,
		state.Client,
		state.Logist,
		state.Manager,
		id,
		expectedVersion,
	)
	pkg, err := scanPackage(row)
	if err == pgx.ErrNoRows {
		// Row missing or version moved; the caller distinguishes by refetch.
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

func (r *packageRepository) SetPaymentInfo(ctx context.Context, id string, amount int64, details string) error {
	const query = `
        UPDATE packages SET payment_amount=$1, payment_details=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query, amount, details, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanPackage(row pgx.Row) (*domain.Package, error) {
	var pkg domain.Package
	if err := row.Scan(
		&pkg.ID,
		&pkg.TrackingCode,
		&pkg.ClientID,
		&pkg.LogistID,
		&pkg.ClientStatus,
		&pkg.LogistStatus,
		&pkg.ManagerStatus,
		&pkg.RecipientName,
		&pkg.DeliveryType,
		&pkg.LockerAddress,
		&pkg.LockerCode,
		&pkg.CourierName,
		&pkg.TrackingNumber,
		&pkg.EstimatedDelivery,
		&pkg.ItemName,
		&pkg.ShopName,
		&pkg.Comment,
		&pkg.ManagerComment,
		&pkg.PaymentAmount,
		&pkg.PaymentDetails,
		&pkg.Version,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &pkg, nil
}
