package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/package-tracking/internal/domain"
	"github.com/spec-kit/package-tracking/internal/events"
	"github.com/spec-kit/package-tracking/internal/repository"
	"github.com/spec-kit/package-tracking/internal/workflow"
	apperrors "github.com/spec-kit/package-tracking/pkg/util/errorutil"
)

// TrackingCache caches tracking code lookups for the public endpoint.
type TrackingCache interface {
	Get(ctx context.Context, trackingCode string) (string, error)
	Set(ctx context.Context, trackingCode, packageID string) error
}

// PackageService coordinates the package workflow.
type PackageService struct {
	packages   repository.PackageRepository
	messages   repository.MessageRepository
	files      repository.PackageFileRepository
	history    repository.StatusHistoryRepository
	users      repository.UserRepository
	logists    repository.LogistRepository
	uow        repository.UnitOfWork
	tracking   TrackingCache
	dispatcher events.Dispatcher
}

// PackageDependencies bundles repositories for the package service.
type PackageDependencies struct {
	PackageRepo repository.PackageRepository
	MessageRepo repository.MessageRepository
	FileRepo    repository.PackageFileRepository
	HistoryRepo repository.StatusHistoryRepository
	UserRepo    repository.UserRepository
	LogistRepo  repository.LogistRepository
	UnitOfWork  repository.UnitOfWork
	Tracking    TrackingCache
	Dispatcher  events.Dispatcher
}

// PackageCreateInput describes package creation payload.
type PackageCreateInput struct {
	LogistID          string
	RecipientName     string
	DeliveryType      domain.DeliveryType
	LockerAddress     *string
	LockerCode        *string
	ItemName          string
	ShopName          string
	Comment           string
	TrackingNumber    *string
	EstimatedDelivery *time.Time
}

// FileInput defines uploaded file metadata.
type FileInput struct {
	Kind       domain.FileKind
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// TrackingView is the public, unauthenticated projection of a package.
type TrackingView struct {
	TrackingCode string
	Status       string
	StatusLabel  string
	UpdatedAt    time.Time
}

// NewPackageService constructs the service.
func NewPackageService(deps PackageDependencies) *PackageService {
	return &PackageService{
		packages:   deps.PackageRepo,
		messages:   deps.MessageRepo,
		files:      deps.FileRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		logists:    deps.LogistRepo,
		uow:        deps.UnitOfWork,
		tracking:   deps.Tracking,
		dispatcher: deps.Dispatcher,
	}
}

// CreatePackage registers a package for a client. Client and manager
// sub-statuses start at created; the logist side stays unset until the
// manager relays. Creation is all-or-nothing: validation happens before any
// write.
func (s *PackageService) CreatePackage(ctx context.Context, clientID string, input PackageCreateInput) (*domain.Package, error) {
	if strings.TrimSpace(input.RecipientName) == "" || strings.TrimSpace(input.ItemName) == "" {
		return nil, apperrors.NewValidationError("recipient_name and item_name required", nil)
	}
	if input.DeliveryType != domain.DeliveryTypeLocker && input.DeliveryType != domain.DeliveryTypeAddress {
		return nil, apperrors.NewValidationError("delivery_type must be LOCKER or ADDRESS", nil)
	}
	if input.LogistID == "" {
		return nil, apperrors.NewValidationError("logist_id required", nil)
	}

	logist, err := s.users.GetByID(ctx, input.LogistID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("logist", map[string]any{"logist_id": input.LogistID})
		}
		return nil, err
	}
	if logist.Role != domain.RoleLogist || !logist.Active {
		return nil, apperrors.NewValidationError("selected user is not an active logist", nil)
	}
	if profile, err := s.logists.GetByUserID(ctx, input.LogistID); err == nil {
		if !profile.Active {
			return nil, apperrors.NewValidationError("logist is not accepting packages", nil)
		}
		if input.DeliveryType == domain.DeliveryTypeLocker && !profile.SupportsLockers {
			return nil, apperrors.NewValidationError("logist does not support locker delivery", nil)
		}
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	state := workflow.InitialState()
	pkg := &domain.Package{
		TrackingCode:      generateTrackingCode(),
		ClientID:          clientID,
		LogistID:          input.LogistID,
		ClientStatus:      state.Client,
		LogistStatus:      state.Logist,
		ManagerStatus:     state.Manager,
		RecipientName:     strings.TrimSpace(input.RecipientName),
		DeliveryType:      input.DeliveryType,
		LockerAddress:     input.LockerAddress,
		LockerCode:        input.LockerCode,
		TrackingNumber:    input.TrackingNumber,
		EstimatedDelivery: input.EstimatedDelivery,
		ItemName:          strings.TrimSpace(input.ItemName),
		ShopName:          strings.TrimSpace(input.ShopName),
		Comment:           strings.TrimSpace(input.Comment),
	}

	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}
	if s.tracking != nil {
		_ = s.tracking.Set(ctx, pkg.TrackingCode, pkg.ID)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventPackageCreated,
		PackageID: pkg.ID,
		Actor:     events.Actor{UserID: clientID, Role: domain.RoleClient},
		Payload: events.PackageCreatedPayload{
			TrackingCode: pkg.TrackingCode,
			ClientID:     pkg.ClientID,
			LogistID:     pkg.LogistID,
			ItemName:     pkg.ItemName,
		},
	})
	return pkg, nil
}

// ApplyAction runs one workflow step: interaction policy gate, transition
// lookup, cross-role projection, then an atomic persist of the tri-state
// plus audit entry. expectedVersion > 0 enables the caller-side optimistic
// check; the storage write always compare-and-swaps against the version it
// read.
func (s *PackageService) ApplyAction(ctx context.Context, actor *domain.User, packageID string, action domain.Action, expectedVersion int64) (*domain.Package, error) {
	pkg, err := s.getPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(actor, pkg); err != nil {
		return nil, err
	}
	if expectedVersion > 0 && expectedVersion != pkg.Version {
		return nil, apperrors.NewConflict("package was modified concurrently",
			map[string]any{"expected": expectedVersion, "actual": pkg.Version})
	}

	before := snapshot(pkg)
	after, err := workflow.Advance(before, actor.Role, action)
	if err != nil {
		return nil, err
	}

	var updated *domain.Package
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.packages.UpdateStatuses(ctx, pkg.ID, after, pkg.Version)
		if err == repository.ErrVersionConflict {
			return apperrors.NewConflict("package was modified concurrently",
				map[string]any{"expected": pkg.Version})
		}
		if err != nil {
			return err
		}
		return s.history.Create(ctx, &domain.StatusHistory{
			PackageID: pkg.ID,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Action:    action,
			Before:    before,
			After:     after,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventPackageStatusChanged,
		PackageID: pkg.ID,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.StatusChangedPayload{
			Action:   action,
			Before:   before,
			After:    after,
			ClientID: pkg.ClientID,
			LogistID: pkg.LogistID,
		},
	})
	return updated, nil
}

// PackageDetailsInput carries the staff-editable descriptive fields.
type PackageDetailsInput struct {
	CourierName       *string
	TrackingNumber    *string
	EstimatedDelivery *time.Time
	ManagerComment    *string
}

// UpdateDetails lets staff amend the descriptive fields of a package, such
// as courier and outbound tracking number. Sub-statuses are untouched.
func (s *PackageService) UpdateDetails(ctx context.Context, actor *domain.User, packageID string, input PackageDetailsInput) (*domain.Package, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("manager role required")
	}
	pkg, err := s.getPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if input.CourierName != nil {
		pkg.CourierName = input.CourierName
	}
	if input.TrackingNumber != nil {
		pkg.TrackingNumber = input.TrackingNumber
	}
	if input.EstimatedDelivery != nil {
		pkg.EstimatedDelivery = input.EstimatedDelivery
	}
	if input.ManagerComment != nil {
		pkg.ManagerComment = strings.TrimSpace(*input.ManagerComment)
	}
	if err := s.packages.UpdateDetails(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// SetPaymentInfo records billing details on a package. A side-channel
// write: it never changes any sub-status.
func (s *PackageService) SetPaymentInfo(ctx context.Context, actor *domain.User, packageID string, amount int64, details string) (*domain.Package, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("manager role required")
	}
	if amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", nil)
	}
	pkg, err := s.getPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if err := s.packages.SetPaymentInfo(ctx, pkg.ID, amount, details); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventPaymentInfoSet,
		PackageID: pkg.ID,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload:   events.PaymentInfoSetPayload{Amount: amount, ClientID: pkg.ClientID},
	})
	amountCopy := amount
	detailsCopy := details
	pkg.PaymentAmount = &amountCopy
	pkg.PaymentDetails = &detailsCopy
	return pkg, nil
}

// AttachFile records uploaded evidence metadata. Files never gate
// transitions; sequencing an upload with an action is the caller's concern.
func (s *PackageService) AttachFile(ctx context.Context, actor *domain.User, packageID string, input FileInput) (*domain.PackageFile, error) {
	pkg, err := s.getPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(actor, pkg); err != nil {
		return nil, err
	}
	if input.StorageKey == "" || input.FileName == "" {
		return nil, apperrors.NewValidationError("storage_key and file_name required", nil)
	}
	file := &domain.PackageFile{
		PackageID:  pkg.ID,
		UploaderID: actor.ID,
		Kind:       input.Kind,
		StorageKey: input.StorageKey,
		FileName:   input.FileName,
		MimeType:   input.MimeType,
		SizeBytes:  input.SizeBytes,
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventFileAttached,
		PackageID: pkg.ID,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload:   events.FileAttachedPayload{FileID: file.ID, Kind: file.Kind, FileName: file.FileName},
	})
	return file, nil
}

// AddMessage appends a note to the package thread.
func (s *PackageService) AddMessage(ctx context.Context, actor *domain.User, packageID, body string) (*domain.Message, error) {
	pkg, err := s.getPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(actor, pkg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	msg := &domain.Message{
		PackageID:  pkg.ID,
		AuthorID:   actor.ID,
		AuthorRole: actor.Role,
		Body:       strings.TrimSpace(body),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventMessageAdded,
		PackageID: pkg.ID,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.MessageAddedPayload{
			MessageID:   msg.ID,
			AuthorRole:  msg.AuthorRole,
			BodyPreview: stringPreview(msg.Body, 120),
			ClientID:    pkg.ClientID,
			LogistID:    pkg.LogistID,
		},
	})
	return msg, nil
}

// GetPackage fetches a package with its thread and files, enforcing access.
func (s *PackageService) GetPackage(ctx context.Context, actor *domain.User, packageID string) (*domain.Package, []domain.Message, []domain.PackageFile, error) {
	pkg, err := s.getPackage(ctx, packageID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.checkAccess(actor, pkg); err != nil {
		return nil, nil, nil, err
	}
	msgs, err := s.messages.ListByPackage(ctx, pkg.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	files, err := s.files.ListByPackage(ctx, pkg.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return pkg, msgs, files, nil
}

// ListPackages returns the packages visible to the actor, scoped by role.
func (s *PackageService) ListPackages(ctx context.Context, actor *domain.User, filter repository.PackageFilter) ([]domain.Package, error) {
	switch actor.Role {
	case domain.RoleClient:
		filter.ClientID = &actor.ID
	case domain.RoleLogist:
		filter.LogistID = &actor.ID
	}
	return s.packages.ListWithFilter(ctx, filter)
}

// ListHistory returns the transition audit trail, enforcing access.
func (s *PackageService) ListHistory(ctx context.Context, actor *domain.User, packageID string, limit, offset int) ([]domain.StatusHistory, error) {
	pkg, err := s.getPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(actor, pkg); err != nil {
		return nil, err
	}
	return s.history.ListByPackage(ctx, pkg.ID, limit, offset)
}

// TrackByCode resolves a tracking code to the client-visible status. Served
// unauthenticated, so only the public fields leave the service. Lookups go
// through the redis cache first.
func (s *PackageService) TrackByCode(ctx context.Context, trackingCode string) (*TrackingView, error) {
	var pkg *domain.Package
	if s.tracking != nil {
		if id, err := s.tracking.Get(ctx, trackingCode); err == nil && id != "" {
			if cached, err := s.packages.GetByID(ctx, id); err == nil {
				pkg = cached
			}
		}
	}
	if pkg == nil {
		found, err := s.packages.GetByTrackingCode(ctx, trackingCode)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("package", map[string]any{"tracking_code": trackingCode})
			}
			return nil, err
		}
		pkg = found
		if s.tracking != nil {
			_ = s.tracking.Set(ctx, pkg.TrackingCode, pkg.ID)
		}
	}
	status := workflow.VisibleStatus(snapshot(pkg), domain.RoleClient)
	return &TrackingView{
		TrackingCode: pkg.TrackingCode,
		Status:       status,
		StatusLabel:  workflow.Label(domain.RoleClient, status),
		UpdatedAt:    pkg.UpdatedAt,
	}, nil
}

// VisibleStatus projects the tri-state into the role's display status.
func (s *PackageService) VisibleStatus(pkg *domain.Package, role domain.Role) string {
	return workflow.VisibleStatus(snapshot(pkg), role)
}

// AvailableActions lists the actions the role can take on the package.
func (s *PackageService) AvailableActions(pkg *domain.Package, role domain.Role) []domain.Action {
	return workflow.AvailableActions(snapshot(pkg), role)
}

func (s *PackageService) getPackage(ctx context.Context, packageID string) (*domain.Package, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("package", map[string]any{"package_id": packageID})
		}
		return nil, err
	}
	return pkg, nil
}

// checkAccess enforces ownership: clients see their own packages, logists
// their assigned ones. Manager authority is role-based, not assignment-based.
func (s *PackageService) checkAccess(actor *domain.User, pkg *domain.Package) error {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleManager:
		return nil
	case domain.RoleClient:
		if pkg.ClientID == actor.ID {
			return nil
		}
	case domain.RoleLogist:
		if pkg.LogistID == actor.ID {
			return nil
		}
	}
	return apperrors.NewForbidden("access denied")
}

func (s *PackageService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func snapshot(pkg *domain.Package) domain.StatusSnapshot {
	return domain.StatusSnapshot{
		Client:  pkg.ClientStatus,
		Logist:  pkg.LogistStatus,
		Manager: pkg.ManagerStatus,
	}
}

func generateTrackingCode() string {
	return "PKG-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
