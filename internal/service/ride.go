package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/redis"
	"github.com/phoenixvc/chaufher/internal/repository"
	"github.com/phoenixvc/chaufher/internal/repository/postgres"
)

const (
	rideNumberAttempts = 5
	rideLockTTL        = 30 * time.Second
	driverLockTTL      = 10 * time.Second
)

// Placeholder route estimation. There is no routing engine; estimates are a
// straight-line distance with a road factor and a flat tariff.
const (
	roadCurveFactor  = 1.3
	averageSpeedKmh  = 40.0
	baseFareCents    = 5000 // flag fall
	perKmFareCents   = 1250
	minimumDurationM = 5
)

// RideService orchestrates the ride lifecycle.
type RideService struct {
	db               *sql.DB
	rideRepo         repository.RideRepository
	driverRepo       repository.DriverRepository
	availabilityRepo repository.AvailabilityRepository
	search           *DriverSearchService
	payments         *PaymentService
	lockStore        redis.LockStoreInterface
	cacheStore       redis.CacheStoreInterface
	notifier         *NotificationService
}

// NewRideService creates a new RideService.
func NewRideService(
	db *sql.DB,
	rideRepo repository.RideRepository,
	driverRepo repository.DriverRepository,
	availabilityRepo repository.AvailabilityRepository,
	search *DriverSearchService,
	payments *PaymentService,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	notifier *NotificationService,
) *RideService {
	return &RideService{
		db:               db,
		rideRepo:         rideRepo,
		driverRepo:       driverRepo,
		availabilityRepo: availabilityRepo,
		search:           search,
		payments:         payments,
		lockStore:        lockStore,
		cacheStore:       cacheStore,
		notifier:         notifier,
	}
}

// CreateScheduledRequest contains the parameters for booking a ride.
type CreateScheduledRequest struct {
	RiderID             string
	ScheduledPickupTime time.Time
	PickupAddress       string
	PickupLat           float64
	PickupLng           float64
	DropoffAddress      string
	DropoffLat          float64
	DropoffLng          float64
	PassengerCount      int
	HasChildren         bool
	SpecialRequirements string
	Currency            string // empty uses the default
}

// CreateScheduled books a new ride. The generated ride number is retried on
// duplicate inserts with a bounded attempt budget.
func (s *RideService) CreateScheduled(ctx context.Context, req CreateScheduledRequest) (*domain.Ride, error) {
	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}
	if !isValidLatitude(req.PickupLat) || !isValidLongitude(req.PickupLng) {
		return nil, ErrInvalidPickupLocation
	}
	if !isValidLatitude(req.DropoffLat) || !isValidLongitude(req.DropoffLng) {
		return nil, ErrInvalidDropoffLocation
	}

	currency := req.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	distanceKm, durationMin, fareCents := estimateRoute(req.PickupLat, req.PickupLng, req.DropoffLat, req.DropoffLng)

	ride, err := domain.NewScheduledRide(domain.ScheduledRideParams{
		RiderID:                  req.RiderID,
		ScheduledPickupTime:      req.ScheduledPickupTime,
		PickupAddress:            req.PickupAddress,
		PickupLatitude:           req.PickupLat,
		PickupLongitude:          req.PickupLng,
		DropoffAddress:           req.DropoffAddress,
		DropoffLatitude:          req.DropoffLat,
		DropoffLongitude:         req.DropoffLng,
		EstimatedDistanceKm:      distanceKm,
		EstimatedDurationMinutes: durationMin,
		EstimatedFare:            domain.Money{Cents: fareCents, Currency: currency},
		PassengerCount:           req.PassengerCount,
		HasChildren:              req.HasChildren,
		SpecialRequirements:      req.SpecialRequirements,
	})
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < rideNumberAttempts; attempt++ {
		err = s.rideRepo.Create(ctx, ride)
		if err == nil {
			return ride, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		ride.RideNumber = domain.GenerateRideNumber()
	}
	return nil, ErrRideNumberExhausted
}

// AssignDriver assigns a driver to a scheduled ride. With an empty driverID
// the best search candidate is used. The driver must pass the availability
// gate: approved, online, available, and inside an active weekly window
// covering the pickup time.
func (s *RideService) AssignDriver(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRideLock(ctx, rideID, rideLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrRideLocked
		}
		defer func() { _ = s.lockStore.ReleaseRideLock(ctx, rideID) }()
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if driverID == "" {
		driverID, err = s.pickDriver(ctx, ride)
		if err != nil {
			return nil, err
		}
	}

	// Driver cache entries are invalidated on every driver state change, so a
	// hit reflects committed state within the TTL and can reject an ineligible
	// driver without a database read.
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetDriver(ctx, driverID); err == nil && cached != nil {
			if cached.VerificationStatus != string(domain.VerificationApproved) || !cached.IsOnline || !cached.IsAvailable {
				return nil, ErrDriverNotAvailable
			}
		}
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if s.cacheStore != nil {
		_ = s.cacheStore.SetDriver(ctx, cachedDriver(driver))
	}
	if err := s.checkAvailabilityGate(ctx, driver, ride.ScheduledPickupTime); err != nil {
		return nil, err
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireDriverLock(ctx, driver.ID, driverLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrDriverNotAvailable
		}
		defer func() { _ = s.lockStore.ReleaseDriverLock(ctx, driver.ID) }()
	}

	if err := ride.AssignDriver(driver.ID); err != nil {
		return nil, err
	}
	driver.SetBusy()

	if err := s.commitRideAndDriver(ctx, ride, driver); err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, ride.ID, driver.ID)
	if s.notifier != nil {
		_ = s.notifier.NotifyDriverAssigned(ctx, ride)
	}
	return ride, nil
}

// pickDriver selects the best eligible driver for the ride.
func (s *RideService) pickDriver(ctx context.Context, ride *domain.Ride) (string, error) {
	if s.search == nil {
		return "", ErrNoDriverAvailable
	}
	candidates, err := s.search.Search(ctx, SearchRequest{
		PickupTime:     ride.ScheduledPickupTime,
		PickupLat:      ride.PickupLatitude,
		PickupLng:      ride.PickupLongitude,
		PassengerCount: ride.PassengerCount,
	})
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", ErrNoDriverAvailable
	}
	return candidates[0].Driver.ID, nil
}

func (s *RideService) checkAvailabilityGate(ctx context.Context, driver *domain.Driver, pickupTime time.Time) error {
	if driver.VerificationStatus != domain.VerificationApproved || !driver.IsOnline || !driver.IsAvailable {
		return ErrDriverNotAvailable
	}
	windows, err := s.availabilityRepo.ListByDriver(ctx, driver.ID)
	if err != nil {
		return err
	}
	if !domain.AvailableAt(windows, pickupTime) {
		return ErrDriverOutsideWindow
	}
	return nil
}

// MarkNoDriverFound moves a scheduled ride to NO_DRIVER_FOUND.
func (s *RideService) MarkNoDriverFound(ctx context.Context, rideID string) (*domain.Ride, error) {
	return s.transitionRide(ctx, rideID, func(ride *domain.Ride) error {
		return ride.MarkNoDriverFound()
	}, func(ctx context.Context, ride *domain.Ride) {
		if s.notifier != nil {
			_ = s.notifier.NotifyNoDriverFound(ctx, ride)
		}
	})
}

// DriverEnRoute records that the assigned driver is on the way. Only the
// assigned driver may report it.
func (s *RideService) DriverEnRoute(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	return s.driverTransition(ctx, rideID, driverID, (*domain.Ride).DriverEnRoute)
}

// DriverArrived records that the driver reached the pickup location.
func (s *RideService) DriverArrived(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	return s.driverTransition(ctx, rideID, driverID, (*domain.Ride).DriverArrived)
}

// StartRide moves an arrived ride to IN_PROGRESS.
func (s *RideService) StartRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	return s.driverTransition(ctx, rideID, driverID, (*domain.Ride).StartRide)
}

func (s *RideService) driverTransition(ctx context.Context, rideID, driverID string, op func(*domain.Ride) error) (*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	// Ride cache entries are invalidated on every ride write, so a hit can
	// reject a wrong-driver report before the ride is loaded.
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetRide(ctx, rideID); err == nil && cached != nil &&
			cached.DriverID != "" && cached.DriverID != driverID {
			return nil, ErrDriverNotAssignedToRide
		}
	}

	return s.transitionRide(ctx, rideID, func(ride *domain.Ride) error {
		if ride.DriverID != driverID {
			return ErrDriverNotAssignedToRide
		}
		return op(ride)
	}, func(ctx context.Context, ride *domain.Ride) {
		if s.notifier != nil {
			_ = s.notifier.NotifyRideStatus(ctx, ride)
		}
	})
}

// transitionRide applies a single-entity transition and persists it with CAS.
func (s *RideService) transitionRide(ctx context.Context, rideID string, op func(*domain.Ride) error, after func(context.Context, *domain.Ride)) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if err := op(ride); err != nil {
		return nil, err
	}
	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, ride.ID, "")
	if after != nil {
		after(ctx, ride)
	}
	return ride, nil
}

// CompleteRequest contains the parameters for completing a ride.
type CompleteRequest struct {
	RideID    string
	DriverID  string
	FareCents int64
	Currency  string // empty uses the ride's estimate currency
	Method    domain.PaymentMethod
}

// Complete finishes an in-progress ride: the ride transition, the driver's
// return to available and ride-count bump commit in one transaction; the
// payment record is created after the commit, then the rider is notified.
func (s *RideService) Complete(ctx context.Context, req CompleteRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != req.DriverID {
		return nil, ErrDriverNotAssignedToRide
	}

	driver, err := s.driverRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = ride.EstimatedFare.Currency
	}
	fare, err := domain.NewMoney(req.FareCents, currency)
	if err != nil {
		return nil, err
	}

	if err := ride.Complete(fare); err != nil {
		return nil, err
	}
	if driver.IsOnline {
		_ = driver.SetAvailable()
	}
	driver.IncrementRideCount()

	if err := s.commitRideAndDriver(ctx, ride, driver); err != nil {
		return nil, err
	}
	s.invalidateCaches(ctx, ride.ID, driver.ID)

	// Payment failure after the committed transition surfaces to the caller;
	// the completion itself stands.
	if s.payments != nil {
		payment, err := s.payments.CreateForRide(ctx, ride.ID, fare, req.Method)
		if err != nil {
			return nil, err
		}
		ride.AttachPayment(payment.ID)
		if err := s.rideRepo.Update(ctx, ride); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyRideStatus(ctx, ride)
	}
	return ride, nil
}

// Cancel moves a ride to CANCELLED from any non-terminal status.
func (s *RideService) Cancel(ctx context.Context, rideID, cancelledByID, reason string) (*domain.Ride, error) {
	ride, err := s.transitionRide(ctx, rideID, func(ride *domain.Ride) error {
		return ride.Cancel(cancelledByID, reason)
	}, nil)
	if err != nil {
		return nil, err
	}

	// An assigned driver goes back to available.
	if ride.DriverID != "" {
		if driver, err := s.driverRepo.GetByID(ctx, ride.DriverID); err == nil && driver.IsOnline {
			if err := driver.SetAvailable(); err == nil {
				_ = s.driverRepo.Update(ctx, driver)
				s.invalidateCaches(ctx, "", driver.ID)
			}
		}
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyRideCancelled(ctx, ride)
	}
	return ride, nil
}

// SubmitRiderRating records the rider's post-ride rating and folds it into
// the driver's running average.
func (s *RideService) SubmitRiderRating(ctx context.Context, rideID string, stars int, feedback string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if err := ride.RateByRider(stars, feedback); err != nil {
		return nil, err
	}
	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	if ride.DriverID != "" {
		driver, err := s.driverRepo.GetByID(ctx, ride.DriverID)
		if err != nil {
			return nil, err
		}
		if err := driver.AddRating(stars); err != nil {
			return nil, err
		}
		if err := s.driverRepo.Update(ctx, driver); err != nil {
			return nil, err
		}
		s.invalidateCaches(ctx, "", driver.ID)
	}
	return ride, nil
}

// SubmitDriverRating records the driver's post-ride rating of the rider.
func (s *RideService) SubmitDriverRating(ctx context.Context, rideID, driverID string, stars int, feedback string) (*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.transitionRide(ctx, rideID, func(ride *domain.Ride) error {
		if ride.DriverID != driverID {
			return ErrDriverNotAssignedToRide
		}
		return ride.RateByDriver(stars, feedback)
	}, nil)
}

// GetByID retrieves a ride by ID and refreshes its cache entry.
func (s *RideService) GetByID(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if s.cacheStore != nil {
		_ = s.cacheStore.SetRide(ctx, cachedRide(ride))
	}
	return ride, nil
}

// GetByNumber retrieves a ride by its human-readable number.
func (s *RideService) GetByNumber(ctx context.Context, rideNumber string) (*domain.Ride, error) {
	if rideNumber == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByNumber(ctx, rideNumber)
}

// ListByRider retrieves a rider's rides with an optional status filter.
func (s *RideService) ListByRider(ctx context.Context, riderID string, status domain.RideStatus) ([]*domain.Ride, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	return s.rideRepo.ListByRider(ctx, riderID, status)
}

// ListByDriver retrieves a driver's rides with an optional status filter.
func (s *RideService) ListByDriver(ctx context.Context, driverID string, status domain.RideStatus) ([]*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.rideRepo.ListByDriver(ctx, driverID, status)
}

// commitRideAndDriver persists a paired ride and driver change atomically.
func (s *RideService) commitRideAndDriver(ctx context.Context, ride *domain.Ride, driver *domain.Driver) error {
	if s.db == nil {
		// Mock-backed wiring in tests runs without a transaction.
		if err := s.rideRepo.Update(ctx, ride); err != nil {
			return err
		}
		return s.driverRepo.Update(ctx, driver)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txRideRepo := postgres.NewRideRepositoryWithTx(tx)
	txDriverRepo := postgres.NewDriverRepositoryWithTx(tx)

	if err = txRideRepo.Update(ctx, ride); err != nil {
		return err
	}
	if err = txDriverRepo.Update(ctx, driver); err != nil {
		return err
	}
	return tx.Commit()
}

func cachedDriver(d *domain.Driver) *redis.CachedDriver {
	return &redis.CachedDriver{
		ID:                 d.ID,
		VerificationStatus: string(d.VerificationStatus),
		Rating:             d.Rating,
		VehicleCapacity:    d.VehicleCapacity,
		IsOnline:           d.IsOnline,
		IsAvailable:        d.IsAvailable,
	}
}

func cachedRide(r *domain.Ride) *redis.CachedRide {
	return &redis.CachedRide{
		ID:         r.ID,
		RideNumber: r.RideNumber,
		RiderID:    r.RiderID,
		DriverID:   r.DriverID,
		Status:     string(r.Status),
	}
}

func (s *RideService) invalidateCaches(ctx context.Context, rideID, driverID string) {
	if s.cacheStore == nil {
		return
	}
	if rideID != "" {
		_ = s.cacheStore.InvalidateRide(ctx, rideID)
	}
	if driverID != "" {
		_ = s.cacheStore.InvalidateDriver(ctx, driverID)
		_ = s.cacheStore.RemoveAvailableDriver(ctx, driverID)
	}
}

// estimateRoute produces placeholder distance, duration and fare figures
// from a great-circle distance with a road curve factor.
func estimateRoute(pickupLat, pickupLng, dropoffLat, dropoffLng float64) (km float64, minutes int, fareCents int64) {
	km = haversineKm(pickupLat, pickupLng, dropoffLat, dropoffLng) * roadCurveFactor
	km = math.Round(km*100) / 100

	minutes = int(math.Ceil(km / averageSpeedKmh * 60))
	if minutes < minimumDurationM {
		minutes = minimumDurationM
	}

	fareCents = baseFareCents + int64(math.Round(km*perKmFareCents))
	return km, minutes, fareCents
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
