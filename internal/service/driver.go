package service

import (
	"context"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/redis"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// DriverService handles driver registration, verification review and
// availability state.
type DriverService struct {
	driverRepo       repository.DriverRepository
	availabilityRepo repository.AvailabilityRepository
	locationStore    redis.LocationStoreInterface
	cacheStore       redis.CacheStoreInterface
}

// NewDriverService creates a new DriverService.
func NewDriverService(
	driverRepo repository.DriverRepository,
	availabilityRepo repository.AvailabilityRepository,
	locationStore redis.LocationStoreInterface,
	cacheStore redis.CacheStoreInterface,
) *DriverService {
	return &DriverService{
		driverRepo:       driverRepo,
		availabilityRepo: availabilityRepo,
		locationStore:    locationStore,
		cacheStore:       cacheStore,
	}
}

// Register creates a driver account in PENDING verification status. The
// license plate must be unique.
func (s *DriverService) Register(ctx context.Context, params domain.DriverParams) (*domain.Driver, error) {
	if params.UserID == "" {
		return nil, ErrInvalidUserID
	}

	driver := domain.NewDriver(params)
	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// GetByID retrieves a driver by ID.
func (s *DriverService) GetByID(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.driverRepo.GetByID(ctx, driverID)
}

// GetByUserID retrieves the driver account owned by a user.
func (s *DriverService) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.driverRepo.GetByUserID(ctx, userID)
}

// SubmitDocuments advances a pending driver after their credential upload.
func (s *DriverService) SubmitDocuments(ctx context.Context, driverID string) (*domain.Driver, error) {
	return s.mutate(ctx, driverID, func(d *domain.Driver) error {
		return d.SubmitDocuments()
	})
}

// StartReview moves a driver with submitted documents into admin review.
func (s *DriverService) StartReview(ctx context.Context, driverID string) (*domain.Driver, error) {
	return s.mutate(ctx, driverID, func(d *domain.Driver) error {
		return d.StartReview()
	})
}

// Approve marks a driver verified.
func (s *DriverService) Approve(ctx context.Context, driverID, adminID string) (*domain.Driver, error) {
	return s.mutate(ctx, driverID, func(d *domain.Driver) error {
		return d.Approve(adminID)
	})
}

// Reject marks a driver's verification as rejected with a reason.
func (s *DriverService) Reject(ctx context.Context, driverID, adminID, reason string) (*domain.Driver, error) {
	return s.mutate(ctx, driverID, func(d *domain.Driver) error {
		d.Reject(adminID, reason)
		return nil
	})
}

// Suspend revokes an approved driver and forces them offline.
func (s *DriverService) Suspend(ctx context.Context, driverID string) (*domain.Driver, error) {
	driver, err := s.mutate(ctx, driverID, func(d *domain.Driver) error {
		d.Suspend()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.dropPresence(ctx, driverID)
	return driver, nil
}

// GoOnline makes an approved driver online and available.
func (s *DriverService) GoOnline(ctx context.Context, driverID string) (*domain.Driver, error) {
	driver, err := s.mutate(ctx, driverID, func(d *domain.Driver) error {
		return d.GoOnline()
	})
	if err != nil {
		return nil, err
	}
	if s.cacheStore != nil {
		_ = s.cacheStore.AddAvailableDriver(ctx, driverID)
	}
	return driver, nil
}

// GoOffline takes the driver offline and drops their tracked position.
func (s *DriverService) GoOffline(ctx context.Context, driverID string) (*domain.Driver, error) {
	driver, err := s.mutate(ctx, driverID, func(d *domain.Driver) error {
		d.GoOffline()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.dropPresence(ctx, driverID)
	return driver, nil
}

// SetAvailable marks an online driver available for assignment again.
func (s *DriverService) SetAvailable(ctx context.Context, driverID string) (*domain.Driver, error) {
	driver, err := s.mutate(ctx, driverID, func(d *domain.Driver) error {
		return d.SetAvailable()
	})
	if err != nil {
		return nil, err
	}
	if s.cacheStore != nil {
		_ = s.cacheStore.AddAvailableDriver(ctx, driverID)
	}
	return driver, nil
}

// UpdateLocation stamps the driver's position in the database and the Redis
// geo index.
func (s *DriverService) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return ErrInvalidLocation
	}

	if _, err := s.mutate(ctx, driverID, func(d *domain.Driver) error {
		d.UpdateLocation(lat, lng)
		return nil
	}); err != nil {
		return err
	}

	if s.locationStore != nil {
		if err := s.locationStore.UpdateLocation(ctx, driverID, lat, lng); err != nil {
			return err
		}
	}
	return nil
}

// PendingReviewQueue lists drivers waiting on verification, oldest first.
func (s *DriverService) PendingReviewQueue(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.ListByVerificationStatus(ctx,
		domain.VerificationPending,
		domain.VerificationDocumentsSubmitted,
		domain.VerificationUnderReview,
	)
}

// AddWindow creates a weekly availability window for a driver.
func (s *DriverService) AddWindow(ctx context.Context, driverID string, day time.Weekday, start, end domain.TimeOfDay) (*domain.AvailabilityWindow, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, err
	}

	window, err := domain.NewAvailabilityWindow(driverID, day, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.availabilityRepo.Create(ctx, window); err != nil {
		return nil, err
	}
	return window, nil
}

// UpdateWindow changes a window's bounds and active flag.
func (s *DriverService) UpdateWindow(ctx context.Context, windowID string, start, end domain.TimeOfDay, active bool) (*domain.AvailabilityWindow, error) {
	window, err := s.availabilityRepo.GetByID(ctx, windowID)
	if err != nil {
		return nil, err
	}
	if err := window.Update(start, end); err != nil {
		return nil, err
	}
	if active {
		window.Activate()
	} else {
		window.Deactivate()
	}
	if err := s.availabilityRepo.Update(ctx, window); err != nil {
		return nil, err
	}
	return window, nil
}

// ListWindows retrieves a driver's availability windows.
func (s *DriverService) ListWindows(ctx context.Context, driverID string) ([]*domain.AvailabilityWindow, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.availabilityRepo.ListByDriver(ctx, driverID)
}

// DeleteWindow removes an availability window.
func (s *DriverService) DeleteWindow(ctx context.Context, windowID string) error {
	return s.availabilityRepo.Delete(ctx, windowID)
}

// mutate loads a driver, applies a change and persists it, then invalidates
// the cache entry.
func (s *DriverService) mutate(ctx context.Context, driverID string, op func(*domain.Driver) error) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if err := op(driver); err != nil {
		return nil, err
	}
	if err := s.driverRepo.Update(ctx, driver); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateDriver(ctx, driverID)
	}
	return driver, nil
}

// dropPresence clears every Redis trace of a driver that left the pool.
func (s *DriverService) dropPresence(ctx context.Context, driverID string) {
	if s.locationStore != nil {
		_ = s.locationStore.RemoveLocation(ctx, driverID)
	}
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateDriver(ctx, driverID)
		_ = s.cacheStore.RemoveAvailableDriver(ctx, driverID)
	}
}
