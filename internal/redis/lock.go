package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis. Ride locks serialize
// assignment attempts; driver locks serialize availability flips.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireRideLock attempts to acquire the assignment lock for a ride.
// Returns true if acquired, false if already held.
func (s *LockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, fmt.Sprintf("lock:ride:%s", rideID), "1", ttl).Result()
}

// ReleaseRideLock releases the assignment lock for a ride.
func (s *LockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	return s.client.Del(ctx, fmt.Sprintf("lock:ride:%s", rideID)).Err()
}

// AcquireDriverLock attempts to acquire the lock for a driver.
func (s *LockStore) AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, fmt.Sprintf("lock:driver:%s", driverID), "1", ttl).Result()
}

// ReleaseDriverLock releases the lock for a driver.
func (s *LockStore) ReleaseDriverLock(ctx context.Context, driverID string) error {
	return s.client.Del(ctx, fmt.Sprintf("lock:driver:%s", driverID)).Err()
}
