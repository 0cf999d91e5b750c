package tests

import (
	"context"
	"testing"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/redis"
	"github.com/phoenixvc/chaufher/internal/service"
)

// rideFixture wires a RideService onto mocks, without a database.
type rideFixture struct {
	rideRepo         *MockRideRepository
	driverRepo       *MockDriverRepository
	availabilityRepo *MockAvailabilityRepository
	paymentRepo      *MockPaymentRepository
	locationStore    *MockLocationStore
	lockStore        *MockLockStore
	cacheStore       *MockCacheStore
	rides            *service.RideService
}

func newRideFixture() *rideFixture {
	f := &rideFixture{
		rideRepo:         NewMockRideRepository(),
		driverRepo:       NewMockDriverRepository(),
		availabilityRepo: NewMockAvailabilityRepository(),
		paymentRepo:      NewMockPaymentRepository(),
		locationStore:    NewMockLocationStore(),
		lockStore:        NewMockLockStore(),
		cacheStore:       NewMockCacheStore(),
	}

	notifier := service.NewNotificationService()
	search := service.NewDriverSearchService(f.driverRepo, f.availabilityRepo, f.locationStore)
	payments := service.NewPaymentService(f.paymentRepo, f.rideRepo, notifier, 1500)
	f.rides = service.NewRideService(
		nil, f.rideRepo, f.driverRepo, f.availabilityRepo,
		search, payments, f.lockStore, f.cacheStore, notifier,
	)
	return f
}

// addEligibleDriver creates an approved, online, available driver with a wide
// availability window on the pickup weekday.
func (f *rideFixture) addEligibleDriver(t *testing.T, plate string, pickup time.Time) *domain.Driver {
	t.Helper()

	driver := domain.NewDriver(domain.DriverParams{
		UserID:          "user-" + plate,
		LicensePlate:    plate,
		VehicleCapacity: 4,
	})
	driver.VerificationStatus = domain.VerificationApproved
	driver.IsOnline = true
	driver.IsAvailable = true
	f.driverRepo.AddDriver(driver)

	start, _ := domain.ParseTimeOfDay("00:00")
	end, _ := domain.ParseTimeOfDay("23:59")
	window, err := domain.NewAvailabilityWindow(driver.ID, pickup.Weekday(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.availabilityRepo.AddWindow(window)
	return driver
}

func validCreateRequest(pickup time.Time) service.CreateScheduledRequest {
	return service.CreateScheduledRequest{
		RiderID:             "rider-1",
		ScheduledPickupTime: pickup,
		PickupAddress:       "1 Long Street, Cape Town",
		PickupLat:           -33.9249,
		PickupLng:           18.4241,
		DropoffAddress:      "Cape Town International",
		DropoffLat:          -33.9715,
		DropoffLng:          18.6021,
		PassengerCount:      2,
	}
}

func TestCreateScheduled_ValidatesRiderID(t *testing.T) {
	f := newRideFixture()

	req := validCreateRequest(time.Now().UTC().Add(2 * time.Hour))
	req.RiderID = ""

	_, err := f.rides.CreateScheduled(context.Background(), req)
	if err != service.ErrInvalidRiderID {
		t.Errorf("expected ErrInvalidRiderID, got %v", err)
	}
}

func TestCreateScheduled_ValidatesCoordinates(t *testing.T) {
	f := newRideFixture()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	badPickup := validCreateRequest(pickup)
	badPickup.PickupLat = -91.0
	if _, err := f.rides.CreateScheduled(context.Background(), badPickup); err != service.ErrInvalidPickupLocation {
		t.Errorf("expected ErrInvalidPickupLocation, got %v", err)
	}

	badDropoff := validCreateRequest(pickup)
	badDropoff.DropoffLng = 181.0
	if _, err := f.rides.CreateScheduled(context.Background(), badDropoff); err != service.ErrInvalidDropoffLocation {
		t.Errorf("expected ErrInvalidDropoffLocation, got %v", err)
	}
}

func TestCreateScheduled_RejectsPickupOutsideWindow(t *testing.T) {
	f := newRideFixture()

	_, err := f.rides.CreateScheduled(context.Background(), validCreateRequest(time.Now().UTC().Add(10*time.Minute)))
	if err != domain.ErrPickupTooSoon {
		t.Errorf("expected ErrPickupTooSoon, got %v", err)
	}

	_, err = f.rides.CreateScheduled(context.Background(), validCreateRequest(time.Now().UTC().Add(45*24*time.Hour)))
	if err != domain.ErrPickupTooFar {
		t.Errorf("expected ErrPickupTooFar, got %v", err)
	}

	if f.rideRepo.CountRides() != 0 {
		t.Errorf("expected no rides persisted, got %d", f.rideRepo.CountRides())
	}
}

func TestCreateScheduled_SetsEstimates(t *testing.T) {
	f := newRideFixture()

	ride, err := f.rides.CreateScheduled(context.Background(), validCreateRequest(time.Now().UTC().Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.EstimatedDistanceKm <= 0 {
		t.Errorf("expected positive distance, got %f", ride.EstimatedDistanceKm)
	}
	if ride.EstimatedDurationMinutes < 5 {
		t.Errorf("expected at least the minimum duration, got %d", ride.EstimatedDurationMinutes)
	}
	// Flag fall plus per-km charge.
	if ride.EstimatedFare.Cents <= 5000 {
		t.Errorf("expected fare above the base, got %d", ride.EstimatedFare.Cents)
	}
	if ride.EstimatedFare.Currency != domain.DefaultCurrency {
		t.Errorf("expected default currency, got %s", ride.EstimatedFare.Currency)
	}
}

func TestCreateScheduled_RetriesDuplicateRideNumbers(t *testing.T) {
	f := newRideFixture()
	f.rideRepo.ForceDuplicates = 2

	ride, err := f.rides.CreateScheduled(context.Background(), validCreateRequest(time.Now().UTC().Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride == nil || ride.RideNumber == "" {
		t.Fatal("expected a persisted ride with a number")
	}
	if f.rideRepo.CreateCallCount != 3 {
		t.Errorf("expected 3 create attempts, got %d", f.rideRepo.CreateCallCount)
	}
}

func TestCreateScheduled_ExhaustsRideNumberRetries(t *testing.T) {
	f := newRideFixture()
	f.rideRepo.ForceDuplicates = 100

	_, err := f.rides.CreateScheduled(context.Background(), validCreateRequest(time.Now().UTC().Add(2*time.Hour)))
	if err != service.ErrRideNumberExhausted {
		t.Errorf("expected ErrRideNumberExhausted, got %v", err)
	}
	if f.rideRepo.CreateCallCount != 5 {
		t.Errorf("expected 5 create attempts, got %d", f.rideRepo.CreateCallCount)
	}
}

func TestRideLifecycle_ScheduledThroughCompleted(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	driver := f.addEligibleDriver(t, "CA 111-111", pickup)

	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("create: unexpected error: %v", err)
	}

	ride, err = f.rides.AssignDriver(ctx, ride.ID, driver.ID)
	if err != nil {
		t.Fatalf("assign: unexpected error: %v", err)
	}
	if ride.Status != domain.RideStatusDriverAssigned {
		t.Fatalf("expected DRIVER_ASSIGNED, got %s", ride.Status)
	}
	if f.driverRepo.GetDriver(driver.ID).IsAvailable {
		t.Error("expected assigned driver busy")
	}

	if _, err := f.rides.DriverEnRoute(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("en route: unexpected error: %v", err)
	}
	if _, err := f.rides.DriverArrived(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("arrived: unexpected error: %v", err)
	}
	if _, err := f.rides.StartRide(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("start: unexpected error: %v", err)
	}

	ride, err = f.rides.Complete(ctx, service.CompleteRequest{
		RideID:    ride.ID,
		DriverID:  driver.ID,
		FareCents: 17550,
		Method:    domain.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("complete: unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", ride.Status)
	}
	if ride.ActualFare == nil || ride.ActualFare.Cents != 17550 {
		t.Errorf("expected actual fare 17550, got %+v", ride.ActualFare)
	}
	if ride.PaymentID == "" {
		t.Error("expected a payment attached")
	}
	if f.paymentRepo.CountPayments() != 1 {
		t.Errorf("expected one payment, got %d", f.paymentRepo.CountPayments())
	}

	updatedDriver := f.driverRepo.GetDriver(driver.ID)
	if !updatedDriver.IsAvailable {
		t.Error("expected driver available again after completion")
	}
	if updatedDriver.TotalRides != 1 {
		t.Errorf("expected ride count 1, got %d", updatedDriver.TotalRides)
	}

	// The completed ride accepts no further assignment.
	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); !domain.IsTransitionError(err) {
		t.Errorf("expected transition error, got %v", err)
	}
}

func TestAssignDriver_AutoPicksNearestCandidate(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	far := f.addEligibleDriver(t, "CA 222-222", pickup)
	near := f.addEligibleDriver(t, "CA 333-333", pickup)
	f.locationStore.SetNearby([]redis.NearbyDriver{
		{DriverID: near.ID, DistanceKm: 1.2},
		{DriverID: far.ID, DistanceKm: 9.8},
	})

	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ride, err = f.rides.AssignDriver(ctx, ride.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.DriverID != near.ID {
		t.Errorf("expected nearest driver %s, got %s", near.ID, ride.DriverID)
	}
}

func TestAssignDriver_NoCandidates(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()

	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(time.Now().UTC().Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.rides.AssignDriver(ctx, ride.ID, ""); err != service.ErrNoDriverAvailable {
		t.Errorf("expected ErrNoDriverAvailable, got %v", err)
	}
}

func TestAssignDriver_DriverWithoutWindowsIsOutside(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	// Approved, online and available, but with no availability windows at all.
	driver := domain.NewDriver(domain.DriverParams{UserID: "user-1", LicensePlate: "CA 444-444"})
	driver.VerificationStatus = domain.VerificationApproved
	driver.IsOnline = true
	driver.IsAvailable = true
	f.driverRepo.AddDriver(driver)

	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); err != service.ErrDriverOutsideWindow {
		t.Errorf("expected ErrDriverOutsideWindow, got %v", err)
	}
}

func TestAssignDriver_OfflineDriverRejected(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	driver := f.addEligibleDriver(t, "CA 555-555", pickup)
	driver.IsOnline = false
	f.driverRepo.AddDriver(driver)

	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); err != service.ErrDriverNotAvailable {
		t.Errorf("expected ErrDriverNotAvailable, got %v", err)
	}
}

func TestAssignDriver_CachedBusyDriverRejectedWithoutRepoRead(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	// Repo says eligible, but the cache already records the driver as busy.
	// The cached entry alone must reject the assignment.
	driver := f.addEligibleDriver(t, "CA 555-555", pickup)
	_ = f.cacheStore.SetDriver(ctx, &redis.CachedDriver{
		ID:                 driver.ID,
		VerificationStatus: string(domain.VerificationApproved),
		IsOnline:           true,
		IsAvailable:        false,
	})

	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); err != service.ErrDriverNotAvailable {
		t.Errorf("expected ErrDriverNotAvailable, got %v", err)
	}
	if got := f.rideRepo.GetRide(ride.ID).Status; got != domain.RideStatusScheduled {
		t.Errorf("expected ride left SCHEDULED, got %s", got)
	}
}

func TestAssignDriver_FailedGateRefreshesDriverCache(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	driver := f.addEligibleDriver(t, "CA 555-555", pickup)
	driver.IsOnline = false
	f.driverRepo.AddDriver(driver)

	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); err != service.ErrDriverNotAvailable {
		t.Fatalf("expected ErrDriverNotAvailable, got %v", err)
	}

	// The hot subset read from the repo is written back, so the next
	// attempt rejects straight from cache.
	cached, err := f.cacheStore.GetDriver(ctx, driver.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached == nil {
		t.Fatal("expected a cached driver entry")
	}
	if cached.IsOnline {
		t.Error("expected cached entry to record the driver offline")
	}
}

func TestGetRide_RefreshesRideCache(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()

	created, err := f.rides.CreateScheduled(ctx, validCreateRequest(time.Now().UTC().Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.rides.GetByID(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached, err := f.cacheStore.GetRide(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached == nil {
		t.Fatal("expected a cached ride entry")
	}
	if cached.RideNumber != created.RideNumber || cached.Status != string(domain.RideStatusScheduled) {
		t.Errorf("unexpected cached entry: %+v", cached)
	}
}

func TestStatusUpdate_CachedRideRejectsWrongDriver(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	driver := f.addEligibleDriver(t, "CA 555-555", pickup)
	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Seed the cache with an entry naming another driver; the report must be
	// rejected from the cached entry before the ride is loaded.
	_ = f.cacheStore.SetRide(ctx, &redis.CachedRide{
		ID:       ride.ID,
		DriverID: "someone-else",
		Status:   string(domain.RideStatusDriverAssigned),
	})

	if _, err := f.rides.DriverEnRoute(ctx, ride.ID, driver.ID); err != service.ErrDriverNotAssignedToRide {
		t.Errorf("expected ErrDriverNotAssignedToRide, got %v", err)
	}
}

func TestAssignDriver_LockedRideRejected(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	driver := f.addEligibleDriver(t, "CA 666-666", pickup)
	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.lockStore.ForceRideLockFailure = true
	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); err != service.ErrRideLocked {
		t.Errorf("expected ErrRideLocked, got %v", err)
	}
}

func TestStatusUpdate_RejectsWrongDriver(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	driver := f.addEligibleDriver(t, "CA 777-777", pickup)
	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.rides.DriverEnRoute(ctx, ride.ID, "someone-else"); err != service.ErrDriverNotAssignedToRide {
		t.Errorf("expected ErrDriverNotAssignedToRide, got %v", err)
	}
}

func TestMarkNoDriverFound(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()

	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(time.Now().UTC().Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ride, err = f.rides.MarkNoDriverFound(ctx, ride.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Status != domain.RideStatusNoDriverFound {
		t.Errorf("expected NO_DRIVER_FOUND, got %s", ride.Status)
	}
}

func TestCancel_ReturnsAssignedDriverToPool(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	driver := f.addEligibleDriver(t, "CA 888-888", pickup)
	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ride, err = f.rides.Cancel(ctx, ride.ID, "rider-1", "change of plans")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", ride.Status)
	}
	if ride.CancellationReason != "change of plans" {
		t.Errorf("unexpected reason %q", ride.CancellationReason)
	}
	if !f.driverRepo.GetDriver(driver.ID).IsAvailable {
		t.Error("expected driver available again after cancellation")
	}
}

func TestSubmitRiderRating_FoldsIntoDriverAverage(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	driver := f.addEligibleDriver(t, "CA 999-999", pickup)
	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rides.DriverEnRoute(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rides.DriverArrived(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rides.StartRide(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rides.Complete(ctx, service.CompleteRequest{RideID: ride.ID, DriverID: driver.ID, FareCents: 9900}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ride, err = f.rides.SubmitRiderRating(ctx, ride.ID, 4, "smooth trip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.RiderRating == nil || *ride.RiderRating != 4 {
		t.Errorf("expected rating 4, got %+v", ride.RiderRating)
	}

	updatedDriver := f.driverRepo.GetDriver(driver.ID)
	if updatedDriver.TotalRatings != 1 || updatedDriver.Rating != 4.0 {
		t.Errorf("expected driver average 4.0 over 1 rating, got %f over %d", updatedDriver.Rating, updatedDriver.TotalRatings)
	}

	// Write-once.
	if _, err := f.rides.SubmitRiderRating(ctx, ride.ID, 5, ""); err != domain.ErrRideAlreadyRated {
		t.Errorf("expected ErrRideAlreadyRated, got %v", err)
	}
}

func TestComplete_RejectsWrongDriver(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	driver := f.addEligibleDriver(t, "CA 121-212", pickup)
	ride, err := f.rides.CreateScheduled(ctx, validCreateRequest(pickup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rides.AssignDriver(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.rides.Complete(ctx, service.CompleteRequest{RideID: ride.ID, DriverID: "someone-else", FareCents: 1000})
	if err != service.ErrDriverNotAssignedToRide {
		t.Errorf("expected ErrDriverNotAssignedToRide, got %v", err)
	}
}

func TestGetByNumber(t *testing.T) {
	f := newRideFixture()
	ctx := context.Background()

	created, err := f.rides.CreateScheduled(ctx, validCreateRequest(time.Now().UTC().Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := f.rides.GetByNumber(ctx, created.RideNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("expected %s, got %s", created.ID, found.ID)
	}
}
