package service

import "errors"

var (
	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidDocumentID is returned when document ID is empty.
	ErrInvalidDocumentID = errors.New("invalid document id")

	// ErrInvalidPaymentID is returned when payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrInvalidEmail is returned when the email address is empty.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidPickupLocation is returned when pickup coordinates are out of range.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropoffLocation is returned when dropoff coordinates are out of range.
	ErrInvalidDropoffLocation = errors.New("invalid dropoff location")

	// ErrInvalidLocation is returned when location coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrRideNumberExhausted is returned when ride number generation keeps
	// colliding after the bounded retry budget.
	ErrRideNumberExhausted = errors.New("could not generate a unique ride number")

	// ErrRideLocked is returned when another assignment attempt holds the ride lock.
	ErrRideLocked = errors.New("ride assignment already in progress")

	// ErrDriverNotAvailable is returned when the driver fails the availability
	// gate: not approved, offline, or already busy.
	ErrDriverNotAvailable = errors.New("driver not available")

	// ErrDriverOutsideWindow is returned when no active availability window
	// covers the ride's pickup time.
	ErrDriverOutsideWindow = errors.New("pickup time outside driver availability windows")

	// ErrNoDriverAvailable is returned when no driver can be matched to a ride.
	ErrNoDriverAvailable = errors.New("no driver available")

	// ErrDriverNotAssignedToRide is returned when the acting driver is not the
	// ride's assigned driver.
	ErrDriverNotAssignedToRide = errors.New("driver not assigned to this ride")

	// ErrRideHasNoPayment is returned when a payment operation references a
	// ride with no settlement record.
	ErrRideHasNoPayment = errors.New("ride has no payment")

	// ErrMixedPayoutCurrencies is returned when a payout period contains
	// settlements in more than one currency; the sum would be meaningless.
	ErrMixedPayoutCurrencies = errors.New("payout period spans multiple currencies")
)
