package service

import (
	"context"
	"sort"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/redis"
	"github.com/phoenixvc/chaufher/internal/repository"
)

const defaultSearchRadiusKm = 25.0

// DriverSearchService finds drivers eligible for a scheduled pickup.
type DriverSearchService struct {
	driverRepo       repository.DriverRepository
	availabilityRepo repository.AvailabilityRepository
	locationStore    redis.LocationStoreInterface
}

// NewDriverSearchService creates a new DriverSearchService.
func NewDriverSearchService(
	driverRepo repository.DriverRepository,
	availabilityRepo repository.AvailabilityRepository,
	locationStore redis.LocationStoreInterface,
) *DriverSearchService {
	return &DriverSearchService{
		driverRepo:       driverRepo,
		availabilityRepo: availabilityRepo,
		locationStore:    locationStore,
	}
}

// SearchRequest contains the parameters for a driver search.
type SearchRequest struct {
	PickupTime     time.Time
	PickupLat      float64
	PickupLng      float64
	PassengerCount int
	RadiusKm       float64 // 0 uses the default
}

// Candidate is an eligible driver, with distance from pickup when known.
type Candidate struct {
	Driver     *domain.Driver
	DistanceKm *float64
}

// Search returns drivers that pass the availability gate for the pickup
// instant: approved, online, available, inside an active weekly window, with
// enough seats. Candidates with a known position come first, nearest first;
// the rest follow ordered by rating.
func (s *DriverSearchService) Search(ctx context.Context, req SearchRequest) ([]Candidate, error) {
	drivers, err := s.driverRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	var eligible []Candidate
	for _, driver := range drivers {
		if req.PassengerCount > 0 && driver.VehicleCapacity < req.PassengerCount {
			continue
		}

		windows, err := s.availabilityRepo.ListByDriver(ctx, driver.ID)
		if err != nil {
			return nil, err
		}
		if !domain.AvailableAt(windows, req.PickupTime) {
			continue
		}

		eligible = append(eligible, Candidate{Driver: driver})
	}

	if len(eligible) == 0 {
		return nil, nil
	}

	s.rankByDistance(ctx, req, eligible)
	return eligible, nil
}

// rankByDistance orders candidates nearest-first using the Redis geo index.
// Drivers without a tracked position keep a nil distance and sort last.
func (s *DriverSearchService) rankByDistance(ctx context.Context, req SearchRequest, candidates []Candidate) {
	if s.locationStore == nil || !isValidLatitude(req.PickupLat) || !isValidLongitude(req.PickupLng) {
		s.sortByRating(candidates)
		return
	}

	radiusKm := req.RadiusKm
	if radiusKm <= 0 {
		radiusKm = defaultSearchRadiusKm
	}

	nearby, err := s.locationStore.FindNearby(ctx, req.PickupLat, req.PickupLng, radiusKm)
	if err != nil {
		s.sortByRating(candidates)
		return
	}

	distances := make(map[string]float64, len(nearby))
	for _, n := range nearby {
		distances[n.DriverID] = n.DistanceKm
	}
	for i := range candidates {
		if d, ok := distances[candidates[i].Driver.ID]; ok {
			dist := d
			candidates[i].DistanceKm = &dist
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch {
		case a.DistanceKm != nil && b.DistanceKm != nil:
			return *a.DistanceKm < *b.DistanceKm
		case a.DistanceKm != nil:
			return true
		case b.DistanceKm != nil:
			return false
		default:
			return a.Driver.Rating > b.Driver.Rating
		}
	})
}

func (s *DriverSearchService) sortByRating(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Driver.Rating > candidates[j].Driver.Rating
	})
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
