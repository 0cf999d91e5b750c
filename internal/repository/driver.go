package repository

import (
	"context"

	"github.com/phoenixvc/chaufher/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create persists a new driver. Returns ErrDuplicate if the license
	// plate is already registered.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByUserID retrieves the driver account owned by a user.
	GetByUserID(ctx context.Context, userID string) (*domain.Driver, error)

	// ListByVerificationStatus retrieves drivers in the given pipeline
	// stages, oldest first.
	ListByVerificationStatus(ctx context.Context, statuses ...domain.VerificationStatus) ([]*domain.Driver, error)

	// ListAvailable retrieves approved drivers that are online and available.
	ListAvailable(ctx context.Context) ([]*domain.Driver, error)

	// Update persists the full driver state.
	Update(ctx context.Context, driver *domain.Driver) error
}

// AvailabilityRepository defines the persistence operations for weekly
// availability windows. Windows are owned by their driver (cascade delete).
type AvailabilityRepository interface {
	// Create persists a new window.
	Create(ctx context.Context, window *domain.AvailabilityWindow) error

	// GetByID retrieves a window by ID.
	GetByID(ctx context.Context, id string) (*domain.AvailabilityWindow, error)

	// ListByDriver retrieves all of a driver's windows.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.AvailabilityWindow, error)

	// Update persists the full window state.
	Update(ctx context.Context, window *domain.AvailabilityWindow) error

	// Delete removes a window.
	Delete(ctx context.Context, id string) error
}
