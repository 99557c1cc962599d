package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/package-tracking/internal/domain"
	"github.com/spec-kit/package-tracking/internal/events"
	"github.com/spec-kit/package-tracking/internal/repository"
	apperrors "github.com/spec-kit/package-tracking/pkg/util/errorutil"
)

type packageServiceFixture struct {
	service    *PackageService
	packages   *fakePackageRepo
	users      *fakeUserRepo
	logists    *fakeLogistRepo
	history    *fakeHistoryRepo
	tracking   *fakeTrackingCache
	dispatcher *capturingDispatcher

	client  *domain.User
	logist  *domain.User
	manager *domain.User
	admin   *domain.User
}

func newPackageServiceFixture(t *testing.T) *packageServiceFixture {
	t.Helper()

	f := &packageServiceFixture{
		packages:   newFakePackageRepo(),
		users:      newFakeUserRepo(),
		logists:    newFakeLogistRepo(),
		history:    &fakeHistoryRepo{},
		tracking:   newFakeTrackingCache(),
		dispatcher: &capturingDispatcher{},
	}

	f.client = f.users.add(domain.User{Name: "Client", Email: "client@example.com", Role: domain.RoleClient, Active: true})
	f.logist = f.users.add(domain.User{Name: "Logist", Email: "logist@example.com", Role: domain.RoleLogist, Active: true})
	f.manager = f.users.add(domain.User{Name: "Manager", Email: "manager@example.com", Role: domain.RoleManager, Active: true})
	f.admin = f.users.add(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin, Active: true})

	require.NoError(t, f.logists.Create(context.Background(), &domain.LogistProfile{
		UserID:          f.logist.ID,
		ServiceLocation: "Warsaw",
		SupportsLockers: true,
		Active:          true,
	}))

	f.service = NewPackageService(PackageDependencies{
		PackageRepo: f.packages,
		MessageRepo: &fakeMessageRepo{},
		FileRepo:    &fakeFileRepo{},
		HistoryRepo: f.history,
		UserRepo:    f.users,
		LogistRepo:  f.logists,
		UnitOfWork:  fakeUnitOfWork{},
		Tracking:    f.tracking,
		Dispatcher:  f.dispatcher,
	})
	return f
}

func (f *packageServiceFixture) createPackage(t *testing.T) *domain.Package {
	t.Helper()
	pkg, err := f.service.CreatePackage(context.Background(), f.client.ID, PackageCreateInput{
		LogistID:      f.logist.ID,
		RecipientName: "Jane Doe",
		DeliveryType:  domain.DeliveryTypeLocker,
		ItemName:      "Keyboard",
		ShopName:      "shop.example",
	})
	require.NoError(t, err)
	return pkg
}

func TestCreatePackage(t *testing.T) {
	ctx := context.Background()

	t.Run("initializes the tri-state", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)

		assert.Equal(t, domain.ClientStatusCreated, pkg.ClientStatus)
		assert.Equal(t, domain.LogistStatusNone, pkg.LogistStatus)
		assert.Equal(t, domain.ManagerStatusCreated, pkg.ManagerStatus)
		assert.Equal(t, int64(1), pkg.Version)
		assert.True(t, strings.HasPrefix(pkg.TrackingCode, "PKG-"))

		cached, _ := f.tracking.Get(ctx, pkg.TrackingCode)
		assert.Equal(t, pkg.ID, cached, "tracking code cached on create")
		assert.Len(t, f.dispatcher.byType(events.EventPackageCreated), 1)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		_, err := f.service.CreatePackage(ctx, f.client.ID, PackageCreateInput{
			LogistID:     f.logist.ID,
			DeliveryType: domain.DeliveryTypeAddress,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		assert.Empty(t, f.dispatcher.published, "nothing published on failed create")
	})

	t.Run("rejects unknown delivery type", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		_, err := f.service.CreatePackage(ctx, f.client.ID, PackageCreateInput{
			LogistID:      f.logist.ID,
			RecipientName: "Jane",
			ItemName:      "Mouse",
			DeliveryType:  domain.DeliveryType("PIGEON"),
		})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("rejects a non-logist assignee", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		_, err := f.service.CreatePackage(ctx, f.client.ID, PackageCreateInput{
			LogistID:      f.manager.ID,
			RecipientName: "Jane",
			ItemName:      "Mouse",
			DeliveryType:  domain.DeliveryTypeAddress,
		})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("rejects locker delivery when unsupported", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		require.NoError(t, f.logists.Update(ctx, &domain.LogistProfile{
			UserID:          f.logist.ID,
			ServiceLocation: "Warsaw",
			SupportsLockers: false,
			Active:          true,
		}))
		_, err := f.service.CreatePackage(ctx, f.client.ID, PackageCreateInput{
			LogistID:      f.logist.ID,
			RecipientName: "Jane",
			ItemName:      "Mouse",
			DeliveryType:  domain.DeliveryTypeLocker,
		})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("rejects unknown logist", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		_, err := f.service.CreatePackage(ctx, f.client.ID, PackageCreateInput{
			LogistID:      "nope",
			RecipientName: "Jane",
			ItemName:      "Mouse",
			DeliveryType:  domain.DeliveryTypeAddress,
		})
		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})
}

func TestApplyAction(t *testing.T) {
	ctx := context.Background()

	t.Run("manager relay projects into the logist vocabulary", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)

		updated, err := f.service.ApplyAction(ctx, f.manager, pkg.ID, domain.ActionSendToLogist, 0)
		require.NoError(t, err)
		assert.Equal(t, domain.ManagerStatusSentToLogist, updated.ManagerStatus)
		assert.Equal(t, domain.LogistStatusReceivedInfo, updated.LogistStatus)
		assert.Equal(t, domain.ClientStatusCreated, updated.ClientStatus)
		assert.Equal(t, int64(2), updated.Version)

		entries, err := f.history.ListByPackage(ctx, pkg.ID, 50, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, f.manager.ID, entries[0].ActorID)
		assert.Equal(t, domain.ActionSendToLogist, entries[0].Action)
		assert.Equal(t, domain.LogistStatusNone, entries[0].Before.Logist)
		assert.Equal(t, domain.LogistStatusReceivedInfo, entries[0].After.Logist)

		assert.Len(t, f.dispatcher.byType(events.EventPackageStatusChanged), 1)
	})

	t.Run("full lifecycle ends with all roles terminal", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)

		steps := []struct {
			actor  *domain.User
			action domain.Action
		}{
			{f.manager, domain.ActionSendToLogist},
			{f.logist, domain.ActionConfirmReceived},
			{f.manager, domain.ActionSendInfoToClient},
			{f.client, domain.ActionConfirmReceipt},
			{f.manager, domain.ActionRequestPayment},
			{f.client, domain.ActionPay},
			{f.manager, domain.ActionSendToShipping},
			{f.logist, domain.ActionShip},
			{f.manager, domain.ActionConfirmShipped},
		}
		var updated *domain.Package
		for _, step := range steps {
			var err error
			updated, err = f.service.ApplyAction(ctx, step.actor, pkg.ID, step.action, 0)
			require.NoError(t, err, "actor=%s action=%s", step.actor.Role, step.action)
		}

		assert.Equal(t, domain.ClientStatusShipped, updated.ClientStatus)
		assert.Equal(t, domain.LogistStatusPaid, updated.LogistStatus)
		assert.Equal(t, domain.ManagerStatusPaid, updated.ManagerStatus)
		assert.Equal(t, int64(10), updated.Version)

		for _, actor := range []*domain.User{f.client, f.logist, f.manager, f.admin} {
			assert.Empty(t, f.service.AvailableActions(updated, actor.Role), "role=%s", actor.Role)
		}

		entries, err := f.history.ListByPackage(ctx, pkg.ID, 50, 0)
		require.NoError(t, err)
		assert.Len(t, entries, len(steps))
	})

	t.Run("admin may run manager actions", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		updated, err := f.service.ApplyAction(ctx, f.admin, pkg.ID, domain.ActionSendToLogist, 0)
		require.NoError(t, err)
		assert.Equal(t, domain.ManagerStatusSentToLogist, updated.ManagerStatus)
	})

	t.Run("role in a waiting state is rejected", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		_, err := f.service.ApplyAction(ctx, f.client, pkg.ID, domain.ActionConfirmReceipt, 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("undefined action on an interactive status is rejected", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		_, err := f.service.ApplyAction(ctx, f.manager, pkg.ID, domain.ActionRequestPayment, 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
	})

	t.Run("stale expected version conflicts before any write", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		_, err := f.service.ApplyAction(ctx, f.manager, pkg.ID, domain.ActionSendToLogist, 0)
		require.NoError(t, err)

		_, err = f.service.ApplyAction(ctx, f.logist, pkg.ID, domain.ActionConfirmReceived, 1)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))

		entries, _ := f.history.ListByPackage(ctx, pkg.ID, 50, 0)
		assert.Len(t, entries, 1, "no audit entry for the conflicted attempt")
	})

	t.Run("unrelated client is denied", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		stranger := f.users.add(domain.User{Name: "Other", Email: "other@example.com", Role: domain.RoleClient, Active: true})
		_, err := f.service.ApplyAction(ctx, stranger, pkg.ID, domain.ActionConfirmReceipt, 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("unknown package", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		_, err := f.service.ApplyAction(ctx, f.manager, "missing", domain.ActionSendToLogist, 0)
		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})
}

func TestSetPaymentInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("staff records billing without touching statuses", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)

		updated, err := f.service.SetPaymentInfo(ctx, f.manager, pkg.ID, 4500, "IBAN PL00 1234")
		require.NoError(t, err)
		require.NotNil(t, updated.PaymentAmount)
		assert.Equal(t, int64(4500), *updated.PaymentAmount)

		stored, err := f.packages.GetByID(ctx, pkg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ManagerStatusCreated, stored.ManagerStatus)
		assert.Equal(t, int64(1), stored.Version, "payment write does not bump the status version")
		assert.Len(t, f.dispatcher.byType(events.EventPaymentInfoSet), 1)
	})

	t.Run("clients may not set payment info", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		_, err := f.service.SetPaymentInfo(ctx, f.client, pkg.ID, 100, "details")
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("amount must be positive", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		_, err := f.service.SetPaymentInfo(ctx, f.manager, pkg.ID, 0, "details")
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})
}

func TestUpdateDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("staff amends courier fields", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		courier := "DHL"
		updated, err := f.service.UpdateDetails(ctx, f.manager, pkg.ID, PackageDetailsInput{CourierName: &courier})
		require.NoError(t, err)
		require.NotNil(t, updated.CourierName)
		assert.Equal(t, "DHL", *updated.CourierName)
	})

	t.Run("non-staff rejected", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		courier := "DHL"
		_, err := f.service.UpdateDetails(ctx, f.logist, pkg.ID, PackageDetailsInput{CourierName: &courier})
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})
}

func TestMessagesAndFiles(t *testing.T) {
	ctx := context.Background()

	t.Run("participants exchange messages", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)

		msg, err := f.service.AddMessage(ctx, f.logist, pkg.ID, "  package arrived damp  ")
		require.NoError(t, err)
		assert.Equal(t, "package arrived damp", msg.Body)
		assert.Equal(t, domain.RoleLogist, msg.AuthorRole)

		_, msgs, _, err := f.service.GetPackage(ctx, f.client, pkg.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
	})

	t.Run("empty message rejected", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		_, err := f.service.AddMessage(ctx, f.client, pkg.ID, "   ")
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("file upload never changes status", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)

		file, err := f.service.AttachFile(ctx, f.logist, pkg.ID, FileInput{
			Kind:       domain.FileKindReceiptProof,
			StorageKey: "s3://bucket/key",
			FileName:   "receipt.jpg",
			MimeType:   "image/jpeg",
			SizeBytes:  1024,
		})
		require.NoError(t, err)
		assert.Equal(t, f.logist.ID, file.UploaderID)

		stored, err := f.packages.GetByID(ctx, pkg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ManagerStatusCreated, stored.ManagerStatus)
	})

	t.Run("stranger cannot read the package", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		stranger := f.users.add(domain.User{Name: "Other", Email: "o@example.com", Role: domain.RoleClient, Active: true})
		_, _, _, err := f.service.GetPackage(ctx, stranger, pkg.ID)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})
}

func TestListPackagesScoping(t *testing.T) {
	ctx := context.Background()
	f := newPackageServiceFixture(t)
	pkg := f.createPackage(t)

	otherClient := f.users.add(domain.User{Name: "Other", Email: "o@example.com", Role: domain.RoleClient, Active: true})
	_, err := f.service.CreatePackage(ctx, otherClient.ID, PackageCreateInput{
		LogistID:      f.logist.ID,
		RecipientName: "Bob",
		DeliveryType:  domain.DeliveryTypeAddress,
		ItemName:      "Cable",
	})
	require.NoError(t, err)

	clientView, err := f.service.ListPackages(ctx, f.client, repository.PackageFilter{})
	require.NoError(t, err)
	require.Len(t, clientView, 1)
	assert.Equal(t, pkg.ID, clientView[0].ID)

	logistView, err := f.service.ListPackages(ctx, f.logist, repository.PackageFilter{})
	require.NoError(t, err)
	assert.Len(t, logistView, 2)

	managerView, err := f.service.ListPackages(ctx, f.manager, repository.PackageFilter{})
	require.NoError(t, err)
	assert.Len(t, managerView, 2)
}

func TestTrackByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves via cache and reports the client status", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)

		view, err := f.service.TrackByCode(ctx, pkg.TrackingCode)
		require.NoError(t, err)
		assert.Equal(t, pkg.TrackingCode, view.TrackingCode)
		assert.Equal(t, "CREATED", view.Status)
		assert.Equal(t, "Created", view.StatusLabel)
	})

	t.Run("falls back to the table on cache miss", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		pkg := f.createPackage(t)
		f.tracking.entries = map[string]string{}

		view, err := f.service.TrackByCode(ctx, pkg.TrackingCode)
		require.NoError(t, err)
		assert.Equal(t, pkg.TrackingCode, view.TrackingCode)

		cached, _ := f.tracking.Get(ctx, pkg.TrackingCode)
		assert.Equal(t, pkg.ID, cached, "cache repopulated after fallback")
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newPackageServiceFixture(t)
		_, err := f.service.TrackByCode(ctx, "PKG-NOPE1234")
		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})
}
