package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/redis"
	"github.com/phoenixvc/chaufher/internal/service"
)

type searchFixture struct {
	driverRepo       *MockDriverRepository
	availabilityRepo *MockAvailabilityRepository
	locationStore    *MockLocationStore
	search           *service.DriverSearchService
}

func newSearchFixture() *searchFixture {
	f := &searchFixture{
		driverRepo:       NewMockDriverRepository(),
		availabilityRepo: NewMockAvailabilityRepository(),
		locationStore:    NewMockLocationStore(),
	}
	f.search = service.NewDriverSearchService(f.driverRepo, f.availabilityRepo, f.locationStore)
	return f
}

// addCandidate creates an eligible driver covering the pickup weekday.
func (f *searchFixture) addCandidate(t *testing.T, plate string, capacity int, rating float64, pickup time.Time) *domain.Driver {
	t.Helper()

	driver := domain.NewDriver(domain.DriverParams{
		UserID:          "user-" + plate,
		LicensePlate:    plate,
		VehicleCapacity: capacity,
	})
	driver.VerificationStatus = domain.VerificationApproved
	driver.IsOnline = true
	driver.IsAvailable = true
	driver.Rating = rating
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

func TestSearch_FiltersByCapacity(t *testing.T) {
	f := newSearchFixture()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	small := f.addCandidate(t, "CA 111-111", 2, 4.8, pickup)
	large := f.addCandidate(t, "CA 222-222", 6, 4.5, pickup)
	_ = small

	candidates, err := f.search.Search(context.Background(), service.SearchRequest{
		PickupTime:     pickup,
		PassengerCount: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Driver.ID != large.ID {
		t.Errorf("expected only the six-seater, got %d candidates", len(candidates))
	}
}

func TestSearch_FiltersByAvailabilityWindow(t *testing.T) {
	f := newSearchFixture()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	covered := f.addCandidate(t, "CA 111-111", 4, 4.8, pickup)

	// Eligible driver whose only window is on another weekday.
	uncovered := domain.NewDriver(domain.DriverParams{UserID: "user-2", LicensePlate: "CA 222-222", VehicleCapacity: 4})
	uncovered.VerificationStatus = domain.VerificationApproved
	uncovered.IsOnline = true
	uncovered.IsAvailable = true
	f.driverRepo.AddDriver(uncovered)

	start, _ := domain.ParseTimeOfDay("09:00")
	end, _ := domain.ParseTimeOfDay("17:00")
	otherDay := (pickup.Weekday() + 1) % 7
	window, _ := domain.NewAvailabilityWindow(uncovered.ID, otherDay, start, end)
	f.availabilityRepo.AddWindow(window)

	candidates, err := f.search.Search(context.Background(), service.SearchRequest{PickupTime: pickup})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Driver.ID != covered.ID {
		t.Errorf("expected only the covered driver, got %d candidates", len(candidates))
	}
}

func TestSearch_RanksNearestFirst(t *testing.T) {
	f := newSearchFixture()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	far := f.addCandidate(t, "CA 111-111", 4, 5.0, pickup)
	near := f.addCandidate(t, "CA 222-222", 4, 3.0, pickup)
	untracked := f.addCandidate(t, "CA 333-333", 4, 4.9, pickup)

	f.locationStore.SetNearby([]redis.NearbyDriver{
		{DriverID: far.ID, DistanceKm: 12.5},
		{DriverID: near.ID, DistanceKm: 0.8},
	})

	candidates, err := f.search.Search(context.Background(), service.SearchRequest{
		PickupTime: pickup,
		PickupLat:  -33.9249,
		PickupLng:  18.4241,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}

	if candidates[0].Driver.ID != near.ID {
		t.Errorf("expected nearest first, got %s", candidates[0].Driver.ID)
	}
	if candidates[1].Driver.ID != far.ID {
		t.Errorf("expected tracked driver second, got %s", candidates[1].Driver.ID)
	}
	if candidates[2].Driver.ID != untracked.ID || candidates[2].DistanceKm != nil {
		t.Errorf("expected untracked driver last with nil distance")
	}
}

func TestSearch_FallsBackToRatingOnGeoFailure(t *testing.T) {
	f := newSearchFixture()
	pickup := time.Now().UTC().Add(2 * time.Hour)

	lower := f.addCandidate(t, "CA 111-111", 4, 4.2, pickup)
	higher := f.addCandidate(t, "CA 222-222", 4, 4.9, pickup)
	_ = lower
	f.locationStore.FindNearbyError = errors.New("redis unavailable")

	candidates, err := f.search.Search(context.Background(), service.SearchRequest{
		PickupTime: pickup,
		PickupLat:  -33.9249,
		PickupLng:  18.4241,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates[0].Driver.ID != higher.ID {
		t.Errorf("expected highest-rated first, got %s", candidates[0].Driver.ID)
	}
}

func TestSearch_NoEligibleDrivers(t *testing.T) {
	f := newSearchFixture()

	candidates, err := f.search.Search(context.Background(), service.SearchRequest{
		PickupTime: time.Now().UTC().Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}
