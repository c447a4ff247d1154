package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// tickingClock returns a strictly increasing time on every call so that
// insertion order is creation order.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// --- Recording event sink ---

type recordedEvent struct {
	kind      string
	addressID string
	isFirst   bool
	update    *domain.UpdateResult
	delete    *domain.DeleteResult
	user      *domain.User
}

type recordingEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingEvents) add(e recordedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEvents) All() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

func (r *recordingEvents) AddressAdded(_ context.Context, a *domain.Address, isFirst bool) {
	r.add(recordedEvent{kind: "added", addressID: a.ID, isFirst: isFirst})
}

func (r *recordingEvents) AddressUpdated(_ context.Context, res *domain.UpdateResult) {
	r.add(recordedEvent{kind: "updated", addressID: res.Address.ID, update: res})
}

func (r *recordingEvents) AddressDeleted(_ context.Context, _, addressID string, res *domain.DeleteResult) {
	r.add(recordedEvent{kind: "deleted", addressID: addressID, delete: res})
}

func (r *recordingEvents) UserRegistered(_ context.Context, u *domain.User) {
	r.add(recordedEvent{kind: "registered", user: u})
}

// --- Mock Address Repository ---

type mockAddressRepository struct {
	mock.Mock
}

func (m *mockAddressRepository) Create(ctx context.Context, a *domain.Address) (domain.CreateResult, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(domain.CreateResult), args.Error(1)
}

func (m *mockAddressRepository) GetForUser(ctx context.Context, userID, id string) (*domain.Address, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *mockAddressRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *mockAddressRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockAddressRepository) Update(ctx context.Context, userID, id string, patch domain.AddressPatch) (domain.UpdateResult, error) {
	args := m.Called(ctx, userID, id, patch)
	return args.Get(0).(domain.UpdateResult), args.Error(1)
}

func (m *mockAddressRepository) Delete(ctx context.Context, userID, id string) (domain.DeleteResult, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(domain.DeleteResult), args.Error(1)
}

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Stub token issuer ---

type stubTokens struct {
	err error
}

func (s stubTokens) GenerateAccessToken(userID, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + userID, nil
}
