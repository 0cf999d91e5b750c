package repository

import (
	"context"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride. Returns ErrDuplicate if the ride number
	// is already taken.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByNumber retrieves a ride by its human-readable ride number.
	GetByNumber(ctx context.Context, rideNumber string) (*domain.Ride, error)

	// ListByRider retrieves a rider's rides, newest pickup first.
	// An empty status matches all statuses.
	ListByRider(ctx context.Context, riderID string, status domain.RideStatus) ([]*domain.Ride, error)

	// ListByDriver retrieves a driver's rides, newest pickup first.
	ListByDriver(ctx context.Context, driverID string, status domain.RideStatus) ([]*domain.Ride, error)

	// ListDueForReminder retrieves assigned rides whose booking deadline has
	// passed but whose pickup has not, soonest pickup first.
	ListDueForReminder(ctx context.Context, now time.Time) ([]*domain.Ride, error)

	// Update persists the full ride state, bumping its version. Returns
	// ErrVersionConflict if the stored version no longer matches the one
	// the ride was loaded with.
	Update(ctx context.Context, ride *domain.Ride) error
}
