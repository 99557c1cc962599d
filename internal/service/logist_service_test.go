package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/package-tracking/internal/config"
	"github.com/spec-kit/package-tracking/internal/domain"
	"github.com/spec-kit/package-tracking/internal/repository"
	apperrors "github.com/spec-kit/package-tracking/pkg/util/errorutil"
)

type adminServiceFixture struct {
	service *AdminService
	users   *fakeUserRepo
	logists *fakeLogistRepo
	admin   *domain.User
	client  *domain.User
}

func newAdminServiceFixture() *adminServiceFixture {
	f := &adminServiceFixture{
		users:   newFakeUserRepo(),
		logists: newFakeLogistRepo(),
	}
	f.admin = f.users.add(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin, Active: true})
	f.client = f.users.add(domain.User{Name: "Client", Email: "client@example.com", Role: domain.RoleClient, Active: true})

	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: 4}}
	f.service = NewAdminService(cfg, AdminDependencies{UserRepo: f.users, LogistRepo: f.logists})
	return f
}

func TestAdminCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("staff provisions a logist account", func(t *testing.T) {
		f := newAdminServiceFixture()
		user, err := f.service.CreateUser(ctx, f.admin, "Log", "log@example.com", "secret123", domain.RoleLogist)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleLogist, user.Role)
		assert.True(t, user.Active)
		assert.NotEmpty(t, user.PasswordHash)
	})

	t.Run("non-staff denied", func(t *testing.T) {
		f := newAdminServiceFixture()
		_, err := f.service.CreateUser(ctx, f.client, "X", "x@example.com", "secret123", domain.RoleClient)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newAdminServiceFixture()
		_, err := f.service.CreateUser(ctx, f.admin, "Dup", "client@example.com", "secret123", domain.RoleClient)
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		f := newAdminServiceFixture()
		_, err := f.service.CreateUser(ctx, f.admin, "X", "x@example.com", "secret123", domain.Role("AUDITOR"))
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})
}

func TestAdminUserToggles(t *testing.T) {
	ctx := context.Background()

	t.Run("role change", func(t *testing.T) {
		f := newAdminServiceFixture()
		user, err := f.service.SetUserRole(ctx, f.admin, f.client.ID, domain.RoleManager)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleManager, user.Role)
	})

	t.Run("deactivate", func(t *testing.T) {
		f := newAdminServiceFixture()
		user, err := f.service.SetUserActive(ctx, f.admin, f.client.ID, false)
		require.NoError(t, err)
		assert.False(t, user.Active)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAdminServiceFixture()
		_, err := f.service.SetUserActive(ctx, f.admin, "missing", false)
		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})

	t.Run("list filtered by role", func(t *testing.T) {
		f := newAdminServiceFixture()
		role := domain.RoleClient
		users, err := f.service.ListUsers(ctx, f.admin, repository.UserFilter{Role: &role})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, f.client.ID, users[0].ID)
	})
}

func TestUpsertLogistProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("create then update", func(t *testing.T) {
		f := newAdminServiceFixture()
		logist, err := f.service.CreateUser(ctx, f.admin, "Log", "log@example.com", "secret123", domain.RoleLogist)
		require.NoError(t, err)

		profile, err := f.service.UpsertLogistProfile(ctx, f.admin, logist.ID, LogistProfileInput{
			ServiceLocation: "Warsaw",
			SupportsLockers: true,
			Active:          true,
		})
		require.NoError(t, err)
		assert.True(t, profile.SupportsLockers)

		profile, err = f.service.UpsertLogistProfile(ctx, f.admin, logist.ID, LogistProfileInput{
			ServiceLocation: "Krakow",
			SupportsOffices: true,
			Active:          true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Krakow", profile.ServiceLocation)
		assert.False(t, profile.SupportsLockers)
	})

	t.Run("target must hold the logist role", func(t *testing.T) {
		f := newAdminServiceFixture()
		_, err := f.service.UpsertLogistProfile(ctx, f.admin, f.client.ID, LogistProfileInput{ServiceLocation: "Warsaw"})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("service location required", func(t *testing.T) {
		f := newAdminServiceFixture()
		logist, err := f.service.CreateUser(ctx, f.admin, "Log", "log2@example.com", "secret123", domain.RoleLogist)
		require.NoError(t, err)
		_, err = f.service.UpsertLogistProfile(ctx, f.admin, logist.ID, LogistProfileInput{})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("inactive profiles hidden from the active listing", func(t *testing.T) {
		f := newAdminServiceFixture()
		logist, err := f.service.CreateUser(ctx, f.admin, "Log", "log3@example.com", "secret123", domain.RoleLogist)
		require.NoError(t, err)
		_, err = f.service.UpsertLogistProfile(ctx, f.admin, logist.ID, LogistProfileInput{ServiceLocation: "Warsaw", Active: false})
		require.NoError(t, err)

		active, err := f.service.ListLogists(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, active)

		all, err := f.service.ListLogists(ctx, false)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
