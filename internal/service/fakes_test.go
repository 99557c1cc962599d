package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/package-tracking/internal/domain"
	"github.com/spec-kit/package-tracking/internal/events"
	"github.com/spec-kit/package-tracking/internal/repository"
)

// In-memory repository doubles. They emulate the contract of the pgx
// implementations, pgx.ErrNoRows on misses included, so services can be
// exercised without a database.

type fakePackageRepo struct {
	mu       sync.Mutex
	packages map[string]*domain.Package
	seq      int
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{packages: map[string]*domain.Package{}}
}

func (f *fakePackageRepo) Create(_ context.Context, pkg *domain.Package) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	pkg.ID = fmt.Sprintf("pkg-%d", f.seq)
	pkg.Version = 1
	clone := *pkg
	f.packages[pkg.ID] = &clone
	return nil
}

func (f *fakePackageRepo) GetByID(_ context.Context, id string) (*domain.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pkg, ok := f.packages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *pkg
	return &clone, nil
}

func (f *fakePackageRepo) GetByTrackingCode(_ context.Context, code string) (*domain.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pkg := range f.packages {
		if pkg.TrackingCode == code {
			clone := *pkg
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePackageRepo) ListWithFilter(_ context.Context, filter repository.PackageFilter) ([]domain.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Package{}
	for _, pkg := range f.packages {
		if filter.ClientID != nil && pkg.ClientID != *filter.ClientID {
			continue
		}
		if filter.LogistID != nil && pkg.LogistID != *filter.LogistID {
			continue
		}
		out = append(out, *pkg)
	}
	return out, nil
}

func (f *fakePackageRepo) UpdateDetails(_ context.Context, pkg *domain.Package) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.packages[pkg.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.CourierName = pkg.CourierName
	stored.TrackingNumber = pkg.TrackingNumber
	stored.EstimatedDelivery = pkg.EstimatedDelivery
	stored.ManagerComment = pkg.ManagerComment
	return nil
}

func (f *fakePackageRepo) UpdateStatuses(_ context.Context, id string, state domain.StatusSnapshot, expectedVersion int64) (*domain.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pkg, ok := f.packages[id]
	if !ok || pkg.Version != expectedVersion {
		return nil, repository.ErrVersionConflict
	}
	pkg.ClientStatus = state.Client
	pkg.LogistStatus = state.Logist
	pkg.ManagerStatus = state.Manager
	pkg.Version++
	clone := *pkg
	return &clone, nil
}

func (f *fakePackageRepo) SetPaymentInfo(_ context.Context, id string, amount int64, details string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pkg, ok := f.packages[id]
	if !ok {
		return pgx.ErrNoRows
	}
	pkg.PaymentAmount = &amount
	pkg.PaymentDetails = &details
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) add(user domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		f.seq++
		user.ID = fmt.Sprintf("user-%d", f.seq)
	}
	f.users[user.ID] = &user
	return &user
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	stored := f.add(*user)
	user.ID = stored.ID
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.User{}
	for _, user := range f.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

type fakeLogistRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.LogistProfile
}

func newFakeLogistRepo() *fakeLogistRepo {
	return &fakeLogistRepo{profiles: map[string]*domain.LogistProfile{}}
}

func (f *fakeLogistRepo) Create(_ context.Context, profile *domain.LogistProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *profile
	f.profiles[profile.UserID] = &clone
	return nil
}

func (f *fakeLogistRepo) Update(_ context.Context, profile *domain.LogistProfile) error {
	return f.Create(context.Background(), profile)
}

func (f *fakeLogistRepo) GetByUserID(_ context.Context, userID string) (*domain.LogistProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeLogistRepo) List(_ context.Context, activeOnly bool) ([]domain.LogistProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.LogistProfile{}
	for _, profile := range f.profiles {
		if activeOnly && !profile.Active {
			continue
		}
		out = append(out, *profile)
	}
	return out, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
	seq      int
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	msg.ID = fmt.Sprintf("msg-%d", f.seq)
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) ListByPackage(_ context.Context, packageID string) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Message{}
	for _, msg := range f.messages {
		if msg.PackageID == packageID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeFileRepo struct {
	mu    sync.Mutex
	files []domain.PackageFile
	seq   int
}

func (f *fakeFileRepo) Create(_ context.Context, file *domain.PackageFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	file.ID = fmt.Sprintf("file-%d", f.seq)
	f.files = append(f.files, *file)
	return nil
}

func (f *fakeFileRepo) ListByPackage(_ context.Context, packageID string) ([]domain.PackageFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.PackageFile{}
	for _, file := range f.files {
		if file.PackageID == packageID {
			out = append(out, file)
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.StatusHistory
	seq     int
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.StatusHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	entry.ID = fmt.Sprintf("hist-%d", f.seq)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByPackage(_ context.Context, packageID string, _, _ int) ([]domain.StatusHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.StatusHistory{}
	for _, entry := range f.entries {
		if entry.PackageID == packageID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// fakeUnitOfWork runs the function without a transaction.
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTrackingCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeTrackingCache() *fakeTrackingCache {
	return &fakeTrackingCache{entries: map[string]string{}}
}

func (f *fakeTrackingCache) Get(_ context.Context, trackingCode string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[trackingCode], nil
}

func (f *fakeTrackingCache) Set(_ context.Context, trackingCode, packageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[trackingCode] = packageID
	return nil
}

// capturingDispatcher records published events.
type capturingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []events.Event{}
	for _, event := range d.published {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}
