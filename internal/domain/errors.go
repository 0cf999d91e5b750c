package domain

import (
	"errors"
	"fmt"
)

// TransitionError reports an operation that is not legal from the entity's
// current status. Non-retryable: the caller must re-fetch and re-decide.
type TransitionError struct {
	Entity    string
	Operation string
	Status    string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition: cannot %s %s in status %s", e.Operation, e.Entity, e.Status)
}

// IsTransitionError reports whether err is a TransitionError.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

var (
	// ErrPickupTooSoon is returned when the pickup time is under the minimum lead.
	ErrPickupTooSoon = errors.New("pickup time must be at least 30 minutes from now")

	// ErrPickupTooFar is returned when the pickup time is past the maximum lead.
	ErrPickupTooFar = errors.New("pickup time must be within 30 days")

	// ErrWindowOrder is returned when a window's end is not after its start.
	ErrWindowOrder = errors.New("window end must be after start")

	// ErrDriverNotApproved is returned when an unapproved driver tries to go online.
	ErrDriverNotApproved = errors.New("driver not approved")

	// ErrDriverOffline is returned when setting an offline driver available.
	ErrDriverOffline = errors.New("driver must be online")

	// ErrDriverAlreadyApproved is returned on a double approval.
	ErrDriverAlreadyApproved = errors.New("driver already approved")

	// ErrInvalidRating is returned when a rating is outside 1-5 stars.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrRideAlreadyRated is returned when a party rates the same ride twice.
	ErrRideAlreadyRated = errors.New("ride already rated")

	// ErrInvalidAmount is returned when a monetary amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrMissingChargeReference is returned when a success report lacks the
	// external charge reference.
	ErrMissingChargeReference = errors.New("charge reference required")

	// ErrPaymentNotRefundable is returned when refunding a payment that has
	// not succeeded.
	ErrPaymentNotRefundable = errors.New("only succeeded payments can be refunded")
)
