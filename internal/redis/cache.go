package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching and the available-driver set in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTLs. Driver availability flips often, so the driver entry is short-lived.
const (
	DriverCacheTTL = 30 * time.Second
	RideCacheTTL   = 10 * time.Second
)

const (
	driverCachePrefix  = "cache:driver:"
	rideCachePrefix    = "cache:ride:"
	availableDriverKey = "drivers:available"
)

// CachedDriver is the hot subset of a driver read on every matching pass.
type CachedDriver struct {
	ID                 string  `json:"id"`
	VerificationStatus string  `json:"verification_status"`
	Rating             float64 `json:"rating"`
	VehicleCapacity    int     `json:"vehicle_capacity"`
	IsOnline           bool    `json:"is_online"`
	IsAvailable        bool    `json:"is_available"`
}

// CachedRide is the hot subset of a ride read during assignment.
type CachedRide struct {
	ID         string `json:"id"`
	RideNumber string `json:"ride_number"`
	RiderID    string `json:"rider_id"`
	DriverID   string `json:"driver_id"`
	Status     string `json:"status"`
}

// GetDriver retrieves a driver from cache. A miss returns nil, nil.
func (s *CacheStore) GetDriver(ctx context.Context, driverID string) (*CachedDriver, error) {
	data, err := s.client.Get(ctx, driverCachePrefix+driverID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var driver CachedDriver
	if err := json.Unmarshal(data, &driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// SetDriver stores a driver in cache.
func (s *CacheStore) SetDriver(ctx context.Context, driver *CachedDriver) error {
	data, err := json.Marshal(driver)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, driverCachePrefix+driver.ID, data, DriverCacheTTL).Err()
}

// InvalidateDriver removes a driver from cache after a state change.
func (s *CacheStore) InvalidateDriver(ctx context.Context, driverID string) error {
	return s.client.Del(ctx, driverCachePrefix+driverID).Err()
}

// GetRide retrieves a ride from cache. A miss returns nil, nil.
func (s *CacheStore) GetRide(ctx context.Context, rideID string) (*CachedRide, error) {
	data, err := s.client.Get(ctx, rideCachePrefix+rideID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var ride CachedRide
	if err := json.Unmarshal(data, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

// SetRide stores a ride in cache.
func (s *CacheStore) SetRide(ctx context.Context, ride *CachedRide) error {
	data, err := json.Marshal(ride)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, rideCachePrefix+ride.ID, data, RideCacheTTL).Err()
}

// InvalidateRide removes a ride from cache after a state change.
func (s *CacheStore) InvalidateRide(ctx context.Context, rideID string) error {
	return s.client.Del(ctx, rideCachePrefix+rideID).Err()
}

// AddAvailableDriver adds a driver to the fast-lookup availability set.
func (s *CacheStore) AddAvailableDriver(ctx context.Context, driverID string) error {
	return s.client.SAdd(ctx, availableDriverKey, driverID).Err()
}

// RemoveAvailableDriver removes a driver from the availability set.
func (s *CacheStore) RemoveAvailableDriver(ctx context.Context, driverID string) error {
	return s.client.SRem(ctx, availableDriverKey, driverID).Err()
}

// IsDriverAvailable checks membership in the availability set.
func (s *CacheStore) IsDriverAvailable(ctx context.Context, driverID string) (bool, error) {
	return s.client.SIsMember(ctx, availableDriverKey, driverID).Result()
}

// GetAvailableDrivers returns all driver IDs in the availability set.
func (s *CacheStore) GetAvailableDrivers(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, availableDriverKey).Result()
}
