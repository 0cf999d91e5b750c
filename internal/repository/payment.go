package repository

import (
	"context"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment. Returns ErrDuplicate if the ride
	// already has one (one payment per ride).
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByRideID retrieves the payment for a ride. Returns nil, nil if
	// the ride has no payment yet.
	GetByRideID(ctx context.Context, rideID string) (*domain.Payment, error)

	// ListDriverPayouts retrieves succeeded payments for rides driven by
	// the given driver, paid within [from, to].
	ListDriverPayouts(ctx context.Context, driverID string, from, to time.Time) ([]*domain.Payment, error)

	// Update persists the full payment state.
	Update(ctx context.Context, payment *domain.Payment) error
}
