package domain

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
)

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusScheduled      RideStatus = "SCHEDULED"
	RideStatusDriverAssigned RideStatus = "DRIVER_ASSIGNED"
	RideStatusDriverEnRoute  RideStatus = "DRIVER_EN_ROUTE"
	RideStatusDriverArrived  RideStatus = "DRIVER_ARRIVED"
	RideStatusInProgress     RideStatus = "IN_PROGRESS"
	RideStatusCompleted      RideStatus = "COMPLETED"
	RideStatusCancelled      RideStatus = "CANCELLED"
	RideStatusNoDriverFound  RideStatus = "NO_DRIVER_FOUND"
)

// rideTransitions is the legal transition graph. CANCELLED is reachable from
// every status except the two terminal ones.
var rideTransitions = map[RideStatus][]RideStatus{
	RideStatusScheduled:      {RideStatusDriverAssigned, RideStatusNoDriverFound, RideStatusCancelled},
	RideStatusDriverAssigned: {RideStatusDriverEnRoute, RideStatusCancelled},
	RideStatusDriverEnRoute:  {RideStatusDriverArrived, RideStatusCancelled},
	RideStatusDriverArrived:  {RideStatusInProgress, RideStatusCancelled},
	RideStatusInProgress:     {RideStatusCompleted, RideStatusCancelled},
	RideStatusNoDriverFound:  {RideStatusCancelled},
}

// CanTransition reports whether a ride in status s may move to status to.
func (s RideStatus) CanTransition(to RideStatus) bool {
	for _, next := range rideTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Scheduling window bounds for new rides.
const (
	MinScheduleLead = 30 * time.Minute
	MaxScheduleLead = 30 * 24 * time.Hour
)

// Ride number format: prefix plus a fixed-length code from a 32-symbol
// alphabet that excludes easily-confused characters (0/O, 1/I).
const (
	rideNumberPrefix   = "CHF-"
	rideNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	rideNumberLength   = 6
)

// Ride represents one scheduled trip booking.
type Ride struct {
	ID         string
	RideNumber string

	RiderID  string
	DriverID string // empty until assigned

	ScheduledPickupTime time.Time
	BookingDeadline     time.Time // pickup - 1h, informational

	PickupAddress    string
	PickupLatitude   float64
	PickupLongitude  float64
	DropoffAddress   string
	DropoffLatitude  float64
	DropoffLongitude float64

	EstimatedDistanceKm      float64
	EstimatedDurationMinutes int
	EstimatedFare            Money
	ActualFare               *Money // set only on completion

	Status             RideStatus
	CancellationReason string
	CancelledByID      string

	PassengerCount      int
	HasChildren         bool
	SpecialRequirements string

	PaymentID string

	RiderRating    *int
	RiderFeedback  string
	DriverRating   *int
	DriverFeedback string

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduledRideParams contains the parameters for creating a scheduled ride.
type ScheduledRideParams struct {
	RiderID                  string
	ScheduledPickupTime      time.Time
	PickupAddress            string
	PickupLatitude           float64
	PickupLongitude          float64
	DropoffAddress           string
	DropoffLatitude          float64
	DropoffLongitude         float64
	EstimatedDistanceKm      float64
	EstimatedDurationMinutes int
	EstimatedFare            Money
	PassengerCount           int
	HasChildren              bool
	SpecialRequirements      string
}

// NewScheduledRide creates a ride in SCHEDULED status. The pickup time must
// be at least MinScheduleLead and at most MaxScheduleLead from now.
func NewScheduledRide(p ScheduledRideParams) (*Ride, error) {
	now := time.Now().UTC()

	if !p.ScheduledPickupTime.After(now.Add(MinScheduleLead)) {
		return nil, ErrPickupTooSoon
	}
	if p.ScheduledPickupTime.After(now.Add(MaxScheduleLead)) {
		return nil, ErrPickupTooFar
	}

	passengers := p.PassengerCount
	if passengers <= 0 {
		passengers = 1
	}

	return &Ride{
		ID:                       uuid.New().String(),
		RideNumber:               GenerateRideNumber(),
		RiderID:                  p.RiderID,
		ScheduledPickupTime:      p.ScheduledPickupTime,
		BookingDeadline:          p.ScheduledPickupTime.Add(-time.Hour),
		PickupAddress:            p.PickupAddress,
		PickupLatitude:           p.PickupLatitude,
		PickupLongitude:          p.PickupLongitude,
		DropoffAddress:           p.DropoffAddress,
		DropoffLatitude:          p.DropoffLatitude,
		DropoffLongitude:         p.DropoffLongitude,
		EstimatedDistanceKm:      p.EstimatedDistanceKm,
		EstimatedDurationMinutes: p.EstimatedDurationMinutes,
		EstimatedFare:            p.EstimatedFare,
		PassengerCount:           passengers,
		HasChildren:              p.HasChildren,
		SpecialRequirements:      p.SpecialRequirements,
		Status:                   RideStatusScheduled,
		CreatedAt:                now,
		UpdatedAt:                now,
	}, nil
}

// GenerateRideNumber returns a fresh candidate ride number. Uniqueness is
// enforced by the persistence layer; a duplicate insert is retried with a
// freshly generated code.
func GenerateRideNumber() string {
	buf := make([]byte, rideNumberLength)
	// crypto/rand.Read only fails if the OS entropy source is unavailable.
	_, _ = rand.Read(buf)
	// Alphabet length is 32, so the byte modulo is unbiased.
	for i, b := range buf {
		buf[i] = rideNumberAlphabet[int(b)%len(rideNumberAlphabet)]
	}
	return rideNumberPrefix + string(buf)
}

// transition moves the ride to the target status, or fails without mutating it.
func (r *Ride) transition(op string, to RideStatus) error {
	if !r.Status.CanTransition(to) {
		return &TransitionError{Entity: "ride", Operation: op, Status: string(r.Status)}
	}
	r.Status = to
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// AssignDriver moves a scheduled ride to DRIVER_ASSIGNED.
func (r *Ride) AssignDriver(driverID string) error {
	if err := r.transition("assign driver", RideStatusDriverAssigned); err != nil {
		return err
	}
	r.DriverID = driverID
	return nil
}

// MarkNoDriverFound moves a scheduled ride to the absorbing NO_DRIVER_FOUND status.
func (r *Ride) MarkNoDriverFound() error {
	return r.transition("mark no driver found", RideStatusNoDriverFound)
}

// DriverEnRoute records that the assigned driver is on the way.
func (r *Ride) DriverEnRoute() error {
	return r.transition("driver en route", RideStatusDriverEnRoute)
}

// DriverArrived records that the driver has reached the pickup location.
func (r *Ride) DriverArrived() error {
	return r.transition("driver arrived", RideStatusDriverArrived)
}

// StartRide moves an arrived ride to IN_PROGRESS.
func (r *Ride) StartRide() error {
	return r.transition("start", RideStatusInProgress)
}

// Complete finishes an in-progress ride and records the actual fare.
func (r *Ride) Complete(actualFare Money) error {
	if err := r.transition("complete", RideStatusCompleted); err != nil {
		return err
	}
	r.ActualFare = &actualFare
	return nil
}

// Cancel moves the ride to CANCELLED from any non-terminal status.
func (r *Ride) Cancel(cancelledByID, reason string) error {
	if err := r.transition("cancel", RideStatusCancelled); err != nil {
		return err
	}
	r.CancelledByID = cancelledByID
	r.CancellationReason = reason
	return nil
}

// AttachPayment links the ride to its settlement record.
func (r *Ride) AttachPayment(paymentID string) {
	r.PaymentID = paymentID
	r.UpdatedAt = time.Now().UTC()
}

// RateByRider records the rider's post-ride rating. Write-once, completed rides only.
func (r *Ride) RateByRider(stars int, feedback string) error {
	if r.Status != RideStatusCompleted {
		return &TransitionError{Entity: "ride", Operation: "rate", Status: string(r.Status)}
	}
	if stars < 1 || stars > 5 {
		return ErrInvalidRating
	}
	if r.RiderRating != nil {
		return ErrRideAlreadyRated
	}
	r.RiderRating = &stars
	r.RiderFeedback = feedback
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// RateByDriver records the driver's post-ride rating. Write-once, completed rides only.
func (r *Ride) RateByDriver(stars int, feedback string) error {
	if r.Status != RideStatusCompleted {
		return &TransitionError{Entity: "ride", Operation: "rate", Status: string(r.Status)}
	}
	if stars < 1 || stars > 5 {
		return ErrInvalidRating
	}
	if r.DriverRating != nil {
		return ErrRideAlreadyRated
	}
	r.DriverRating = &stars
	r.DriverFeedback = feedback
	r.UpdatedAt = time.Now().UTC()
	return nil
}
