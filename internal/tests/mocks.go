package tests

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/redis"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu      sync.RWMutex
	rides   map[string]*domain.Ride
	numbers map[string]bool

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error

	// ForceDuplicates makes the next N creates fail with ErrDuplicate,
	// simulating ride number collisions.
	ForceDuplicates int32
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides:   make(map[string]*domain.Ride),
		numbers: make(map[string]bool),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	m.numbers[ride.RideNumber] = true
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	if atomic.AddInt32(&m.ForceDuplicates, -1) >= 0 {
		return repository.ErrDuplicate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.numbers[ride.RideNumber] {
		return repository.ErrDuplicate
	}
	m.rides[ride.ID] = ride
	m.numbers[ride.RideNumber] = true
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

func (m *MockRideRepository) GetByNumber(ctx context.Context, rideNumber string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rides {
		if r.RideNumber == rideNumber {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockRideRepository) ListByRider(ctx context.Context, riderID string, status domain.RideStatus) ([]*domain.Ride, error) {
	return m.list(func(r *domain.Ride) bool {
		return r.RiderID == riderID && (status == "" || r.Status == status)
	})
}

func (m *MockRideRepository) ListByDriver(ctx context.Context, driverID string, status domain.RideStatus) ([]*domain.Ride, error) {
	return m.list(func(r *domain.Ride) bool {
		return r.DriverID == driverID && (status == "" || r.Status == status)
	})
}

func (m *MockRideRepository) ListDueForReminder(ctx context.Context, now time.Time) ([]*domain.Ride, error) {
	return m.list(func(r *domain.Ride) bool {
		return r.Status == domain.RideStatusDriverAssigned &&
			!r.BookingDeadline.After(now) && r.ScheduledPickupTime.After(now)
	})
}

func (m *MockRideRepository) list(match func(*domain.Ride) bool) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if match(r) {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rides[ride.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// CountRides returns the number of rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.drivers {
		if strings.EqualFold(d.LicensePlate, driver.LicensePlate) {
			return repository.ErrDuplicate
		}
	}
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.UserID == userID {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) ListByVerificationStatus(ctx context.Context, statuses ...domain.VerificationStatus) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Driver
	for _, d := range m.drivers {
		for _, status := range statuses {
			if d.VerificationStatus == status {
				copy := *d
				result = append(result, &copy)
				break
			}
		}
	}
	return result, nil
}

func (m *MockDriverRepository) ListAvailable(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Driver
	for _, d := range m.drivers {
		if d.VerificationStatus == domain.VerificationApproved && d.IsOnline && d.IsAvailable {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *driver
	m.drivers[driver.ID] = &copy
	return nil
}

// GetDriver returns driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK AVAILABILITY REPOSITORY
// ──────────────────────────────────────────────

// MockAvailabilityRepository is a mock implementation of AvailabilityRepository.
type MockAvailabilityRepository struct {
	mu      sync.RWMutex
	windows map[string]*domain.AvailabilityWindow

	// Error injection
	ListError error
}

// NewMockAvailabilityRepository creates a new mock availability repository.
func NewMockAvailabilityRepository() *MockAvailabilityRepository {
	return &MockAvailabilityRepository{
		windows: make(map[string]*domain.AvailabilityWindow),
	}
}

// AddWindow adds a window to the mock repository.
func (m *MockAvailabilityRepository) AddWindow(window *domain.AvailabilityWindow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows[window.ID] = window
}

func (m *MockAvailabilityRepository) Create(ctx context.Context, window *domain.AvailabilityWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows[window.ID] = window
	return nil
}

func (m *MockAvailabilityRepository) GetByID(ctx context.Context, id string) (*domain.AvailabilityWindow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	window, ok := m.windows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *window
	return &copy, nil
}

func (m *MockAvailabilityRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.AvailabilityWindow, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.AvailabilityWindow
	for _, w := range m.windows {
		if w.DriverID == driverID {
			copy := *w
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockAvailabilityRepository) Update(ctx context.Context, window *domain.AvailabilityWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[window.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *window
	m.windows[window.ID] = &copy
	return nil
}

func (m *MockAvailabilityRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.windows, id)
	return nil
}

// CountWindows returns the number of windows.
func (m *MockAvailabilityRepository) CountWindows() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.windows)
}

// ──────────────────────────────────────────────
// MOCK DOCUMENT REPOSITORY
// ──────────────────────────────────────────────

// MockDocumentRepository is a mock implementation of DocumentRepository.
type MockDocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]*domain.DriverDocument

	// Counters for verification
	UpdateCallCount int32
}

// NewMockDocumentRepository creates a new mock document repository.
func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{
		docs: make(map[string]*domain.DriverDocument),
	}
}

// AddDocument adds a document to the mock repository.
func (m *MockDocumentRepository) AddDocument(doc *domain.DriverDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.DriverDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	return nil
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*domain.DriverDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *doc
	return &copy, nil
}

func (m *MockDocumentRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.DriverDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DriverDocument
	for _, d := range m.docs {
		if d.DriverID == driverID {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDocumentRepository) ListExpiring(ctx context.Context, cutoff time.Time) ([]*domain.DriverDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DriverDocument
	for _, d := range m.docs {
		live := d.Status == domain.DocumentPending || d.Status == domain.DocumentApproved
		if live && d.ExpiryDate.Before(cutoff) {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *domain.DriverDocument) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *doc
	m.docs[doc.ID] = &copy
	return nil
}

// GetDocument returns document for test assertions.
func (m *MockDocumentRepository) GetDocument(id string) *domain.DriverDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docs[id]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// driverByRide maps ride IDs to driver IDs for payout queries.
	driverByRide map[string]string

	// Counters for verification
	CreateCallCount int32
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments:     make(map[string]*domain.Payment),
		driverByRide: make(map[string]string),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

// SetRideDriver records the driver for a ride, mirroring the rides join.
func (m *MockPaymentRepository) SetRideDriver(rideID, driverID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.driverByRide[rideID] = driverID
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.RideID == payment.RideID {
			return repository.ErrDuplicate
		}
	}
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.RideID == rideID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) ListDriverPayouts(ctx context.Context, driverID string, from, to time.Time) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if m.driverByRide[p.RideID] != driverID || p.Status != domain.PaymentSucceeded || p.PaidAt == nil {
			continue
		}
		if p.PaidAt.Before(from) || p.PaidAt.After(to) {
			continue
		}
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[payment.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

// CountPayments returns the number of payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStoreInterface.
type MockLocationStore struct {
	mu     sync.RWMutex
	nearby []redis.NearbyDriver

	// Counters for verification
	UpdateLocationCallCount int32
	RemoveLocationCallCount int32

	// Error injection
	UpdateLocationError error
	FindNearbyError     error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{}
}

// SetNearby sets the drivers FindNearby returns, in order.
func (m *MockLocationStore) SetNearby(nearby []redis.NearbyDriver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nearby = nearby
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateLocationCallCount, 1)
	return m.UpdateLocationError
}

func (m *MockLocationStore) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]redis.NearbyDriver, error) {
	if m.FindNearbyError != nil {
		return nil, m.FindNearbyError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]redis.NearbyDriver, len(m.nearby))
	copy(result, m.nearby)
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, driverID string) error {
	atomic.AddInt32(&m.RemoveLocationCallCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Force lock failure
	ForceRideLockFailure   bool
	ForceDriverLockFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	if m.ForceRideLockFailure {
		return false, nil
	}
	return m.acquire("ride:" + rideID)
}

func (m *MockLockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	m.release("ride:" + rideID)
	return nil
}

func (m *MockLockStore) AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error) {
	if m.ForceDriverLockFailure {
		return false, nil
	}
	return m.acquire("driver:" + driverID)
}

func (m *MockLockStore) ReleaseDriverLock(ctx context.Context, driverID string) error {
	m.release("driver:" + driverID)
	return nil
}

func (m *MockLockStore) acquire(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[key] {
		return false, nil
	}
	m.locks[key] = true
	return true, nil
}

func (m *MockLockStore) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStoreInterface.
type MockCacheStore struct {
	mu        sync.RWMutex
	drivers   map[string]*redis.CachedDriver
	rides     map[string]*redis.CachedRide
	available map[string]bool

	// Counters for verification
	InvalidateDriverCallCount int32
	InvalidateRideCallCount   int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		drivers:   make(map[string]*redis.CachedDriver),
		rides:     make(map[string]*redis.CachedRide),
		available: make(map[string]bool),
	}
}

func (m *MockCacheStore) GetDriver(ctx context.Context, driverID string) (*redis.CachedDriver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[driverID], nil
}

func (m *MockCacheStore) SetDriver(ctx context.Context, driver *redis.CachedDriver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockCacheStore) InvalidateDriver(ctx context.Context, driverID string) error {
	atomic.AddInt32(&m.InvalidateDriverCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drivers, driverID)
	return nil
}

func (m *MockCacheStore) GetRide(ctx context.Context, rideID string) (*redis.CachedRide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[rideID], nil
}

func (m *MockCacheStore) SetRide(ctx context.Context, ride *redis.CachedRide) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockCacheStore) InvalidateRide(ctx context.Context, rideID string) error {
	atomic.AddInt32(&m.InvalidateRideCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rides, rideID)
	return nil
}

func (m *MockCacheStore) AddAvailableDriver(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available[driverID] = true
	return nil
}

func (m *MockCacheStore) RemoveAvailableDriver(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.available, driverID)
	return nil
}

func (m *MockCacheStore) IsDriverAvailable(ctx context.Context, driverID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available[driverID], nil
}

func (m *MockCacheStore) GetAvailableDrivers(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]string, 0, len(m.available))
	for id := range m.available {
		result = append(result, id)
	}
	return result, nil
}

// HasAvailableDriver reports membership in the availability set (for assertions).
func (m *MockCacheStore) HasAvailableDriver(driverID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available[driverID]
}
