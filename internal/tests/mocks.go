package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"assistall/internal/domain"
	"assistall/internal/redis"
	"assistall/internal/repository"
)

// Ensure mocks satisfy the real interfaces.
var (
	_ repository.RideRepository = (*MockRideRepository)(nil)
	_ redis.RideLockInterface   = (*MockLockStore)(nil)
	_ redis.FeedCacheInterface  = (*MockFeedCache)(nil)
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is an in-memory implementation of RideRepository. The
// conditional-update methods hold the mutex across check and write, so the
// mock gives the same atomicity guarantees as the SQL implementation.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32
	AcceptCallCount int32

	// Error injection
	CreateError error
	AcceptError error
	FeedError   error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide seeds a ride into the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

// GetRide returns the stored ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) RequesterFeed(ctx context.Context, requesterID string, pendingSince time.Time) ([]*domain.Ride, error) {
	if m.FeedError != nil {
		return nil, m.FeedError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Ride
	for _, r := range m.rides {
		visible := (r.Status == domain.RideStatusPending && r.CreatedAt.After(pendingSince)) ||
			r.Status == domain.RideStatusAccepted ||
			r.Status == domain.RideStatusInProgress ||
			r.RequesterID == requesterID
		if visible {
			copy := *r
			result = append(result, &copy)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (m *MockRideRepository) VolunteerFeed(ctx context.Context, volunteerID string, pendingSince time.Time) ([]*domain.Ride, error) {
	if m.FeedError != nil {
		return nil, m.FeedError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Ride
	for _, r := range m.rides {
		ownActive := r.VolunteerID == volunteerID &&
			(r.Status == domain.RideStatusAccepted ||
				r.Status == domain.RideStatusInProgress ||
				r.Status == domain.RideStatusCompleted)
		visible := (r.Status == domain.RideStatusPending && r.CreatedAt.After(pendingSince)) || ownActive
		if visible {
			copy := *r
			result = append(result, &copy)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (m *MockRideRepository) Accept(ctx context.Context, id, volunteerID, volunteerName string) error {
	atomic.AddInt32(&m.AcceptCallCount, 1)
	if m.AcceptError != nil {
		return m.AcceptError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusPending {
		return repository.ErrStaleStatus
	}
	ride.Status = domain.RideStatusAccepted
	ride.VolunteerID = volunteerID
	ride.VolunteerName = volunteerName
	ride.UpdatedAt = time.Now()
	return nil
}

func (m *MockRideRepository) TransitionStatus(ctx context.Context, id string, from, to domain.RideStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != from {
		return repository.ErrStaleStatus
	}
	ride.Status = to
	ride.UpdatedAt = time.Now()
	return nil
}

func (m *MockRideRepository) Cancel(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status.Terminal() {
		return repository.ErrStaleStatus
	}
	ride.Status = domain.RideStatusCancelled
	ride.UpdatedAt = time.Now()
	return nil
}

func (m *MockRideRepository) AttachFeedback(ctx context.Context, id string, rating int, review string, tip float64, method domain.PaymentMethod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusCompleted {
		return repository.ErrStaleStatus
	}
	if ride.Rating != 0 {
		return repository.ErrStaleStatus
	}
	ride.Rating = rating
	ride.Review = review
	ride.Tip = tip
	ride.PaymentMethod = method
	ride.UpdatedAt = time.Now()
	return nil
}

func (m *MockRideRepository) DeleteStalePending(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pruned int64
	for id, r := range m.rides {
		if r.Status == domain.RideStatusPending && r.CreatedAt.Before(before) {
			delete(m.rides, id)
			pruned++
		}
	}
	return pruned, nil
}

func sortNewestFirst(rides []*domain.Ride) {
	sort.Slice(rides, func(i, j int) bool {
		return rides[i].CreatedAt.After(rides[j].CreatedAt)
	})
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of RideLockInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[rideID] {
		return false, nil
	}
	m.locks[rideID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, rideID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK FEED CACHE
// ──────────────────────────────────────────────

// MockFeedCache is an in-memory implementation of FeedCacheInterface.
type MockFeedCache struct {
	mu      sync.Mutex
	entries map[string][]*domain.Ride

	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockFeedCache creates a new mock feed cache.
func NewMockFeedCache() *MockFeedCache {
	return &MockFeedCache{entries: make(map[string][]*domain.Ride)}
}

func (m *MockFeedCache) Get(ctx context.Context, key string) ([]*domain.Ride, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rides, ok := m.entries[key]
	return rides, ok
}

func (m *MockFeedCache) Set(ctx context.Context, key string, rides []*domain.Ride) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = rides
	return nil
}

func (m *MockFeedCache) InvalidateAll(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]*domain.Ride)
	return nil
}
