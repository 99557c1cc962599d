package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/package-tracking/internal/auth"
	"github.com/spec-kit/package-tracking/internal/config"
	"github.com/spec-kit/package-tracking/internal/domain"
	"github.com/spec-kit/package-tracking/internal/repository"
	apperrors "github.com/spec-kit/package-tracking/pkg/util/errorutil"
)

// AdminService manages accounts and logist profiles.
type AdminService struct {
	users      repository.UserRepository
	logists    repository.LogistRepository
	bcryptCost int
}

// AdminDependencies encapsulates repositories for administration.
type AdminDependencies struct {
	UserRepo   repository.UserRepository
	LogistRepo repository.LogistRepository
}

// LogistProfileInput describes a profile create/update payload.
type LogistProfileInput struct {
	ServiceLocation string
	Address         string
	SupportsLockers bool
	SupportsOffices bool
	Active          bool
}

// NewAdminService constructs the service.
func NewAdminService(cfg config.Config, deps AdminDependencies) *AdminService {
	return &AdminService{
		users:      deps.UserRepo,
		logists:    deps.LogistRepo,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

func requireStaff(actor *domain.User) error {
	if actor == nil || !actor.Role.IsStaff() {
		return apperrors.NewForbidden("manager role required")
	}
	return nil
}

// CreateUser provisions an account with any role. Staff only.
func (s *AdminService) CreateUser(ctx context.Context, actor *domain.User, name, email, password string, role domain.Role) (*domain.User, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	switch role {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleLogist, domain.RoleClient:
	default:
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns accounts filtered by role/active. Staff only.
func (s *AdminService) ListUsers(ctx context.Context, actor *domain.User, filter repository.UserFilter) ([]domain.User, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx, filter)
}

// SetUserRole changes an account's role. Staff only.
func (s *AdminService) SetUserRole(ctx context.Context, actor *domain.User, userID string, role domain.Role) (*domain.User, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, err
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SetUserActive toggles the active flag. Staff only.
func (s *AdminService) SetUserActive(ctx context.Context, actor *domain.User, userID string, active bool) (*domain.User, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, err
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpsertLogistProfile creates or updates the profile for a logist user.
// Staff only; the target must hold the logist role.
func (s *AdminService) UpsertLogistProfile(ctx context.Context, actor *domain.User, userID string, input LogistProfileInput) (*domain.LogistProfile, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, err
	}
	if user.Role != domain.RoleLogist {
		return nil, apperrors.NewValidationError("user is not a logist", map[string]any{"user_id": userID})
	}
	if strings.TrimSpace(input.ServiceLocation) == "" {
		return nil, apperrors.NewValidationError("service_location required", nil)
	}

	profile := &domain.LogistProfile{
		UserID:          userID,
		ServiceLocation: strings.TrimSpace(input.ServiceLocation),
		Address:         strings.TrimSpace(input.Address),
		SupportsLockers: input.SupportsLockers,
		SupportsOffices: input.SupportsOffices,
		Active:          input.Active,
	}

	existing, err := s.logists.GetByUserID(ctx, userID)
	if err == pgx.ErrNoRows {
		if err := s.logists.Create(ctx, profile); err != nil {
			return nil, apperrors.MapError(err)
		}
		return profile, nil
	}
	if err != nil {
		return nil, err
	}
	profile.CreatedAt = existing.CreatedAt
	if err := s.logists.Update(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// ListLogists returns logist profiles, optionally active only. Any
// authenticated role may browse the pickup points.
func (s *AdminService) ListLogists(ctx context.Context, activeOnly bool) ([]domain.LogistProfile, error) {
	return s.logists.List(ctx, activeOnly)
}
