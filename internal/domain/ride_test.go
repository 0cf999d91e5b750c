package domain

import (
	"strings"
	"testing"
	"time"
)

func validRideParams(pickup time.Time) ScheduledRideParams {
	return ScheduledRideParams{
		RiderID:             "rider-1",
		ScheduledPickupTime: pickup,
		PickupAddress:       "1 Long Street",
		PickupLatitude:      -33.9249,
		PickupLongitude:     18.4241,
		DropoffAddress:      "Airport",
		DropoffLatitude:     -33.9715,
		DropoffLongitude:    18.6021,
		EstimatedFare:       Money{Cents: 17550, Currency: "ZAR"},
		PassengerCount:      2,
	}
}

func TestNewScheduledRide_RejectsPickupTooSoon(t *testing.T) {
	_, err := NewScheduledRide(validRideParams(time.Now().UTC().Add(10 * time.Minute)))
	if err != ErrPickupTooSoon {
		t.Errorf("expected ErrPickupTooSoon, got %v", err)
	}
}

func TestNewScheduledRide_RejectsPickupTooFar(t *testing.T) {
	_, err := NewScheduledRide(validRideParams(time.Now().UTC().Add(31 * 24 * time.Hour)))
	if err != ErrPickupTooFar {
		t.Errorf("expected ErrPickupTooFar, got %v", err)
	}
}

func TestNewScheduledRide_Defaults(t *testing.T) {
	pickup := time.Now().UTC().Add(2 * time.Hour)
	params := validRideParams(pickup)
	params.PassengerCount = 0

	ride, err := NewScheduledRide(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != RideStatusScheduled {
		t.Errorf("expected SCHEDULED, got %s", ride.Status)
	}
	if ride.PassengerCount != 1 {
		t.Errorf("expected default passenger count 1, got %d", ride.PassengerCount)
	}
	if !ride.BookingDeadline.Equal(pickup.Add(-time.Hour)) {
		t.Errorf("expected booking deadline pickup-1h, got %v", ride.BookingDeadline)
	}
	if ride.ID == "" {
		t.Error("expected generated ride ID")
	}
}

func TestGenerateRideNumber_Format(t *testing.T) {
	number := GenerateRideNumber()

	if !strings.HasPrefix(number, "CHF-") {
		t.Errorf("expected CHF- prefix, got %s", number)
	}
	code := strings.TrimPrefix(number, "CHF-")
	if len(code) != 6 {
		t.Errorf("expected 6-character code, got %q", code)
	}
	for _, c := range code {
		if !strings.ContainsRune(rideNumberAlphabet, c) {
			t.Errorf("character %q not in alphabet", c)
		}
	}
	if strings.ContainsAny(code, "01IO") {
		t.Errorf("code %q contains an ambiguous character", code)
	}
}

func TestRide_HappyPathTransitions(t *testing.T) {
	ride, err := NewScheduledRide(validRideParams(time.Now().UTC().Add(2 * time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := []struct {
		name string
		op   func() error
		want RideStatus
	}{
		{"assign", func() error { return ride.AssignDriver("driver-1") }, RideStatusDriverAssigned},
		{"en route", ride.DriverEnRoute, RideStatusDriverEnRoute},
		{"arrived", ride.DriverArrived, RideStatusDriverArrived},
		{"start", ride.StartRide, RideStatusInProgress},
		{"complete", func() error { return ride.Complete(Money{Cents: 17550, Currency: "ZAR"}) }, RideStatusCompleted},
	}

	for _, step := range steps {
		if err := step.op(); err != nil {
			t.Fatalf("%s: unexpected error: %v", step.name, err)
		}
		if ride.Status != step.want {
			t.Fatalf("%s: expected %s, got %s", step.name, step.want, ride.Status)
		}
	}

	if ride.DriverID != "driver-1" {
		t.Errorf("expected driver-1, got %s", ride.DriverID)
	}
	if ride.ActualFare == nil || ride.ActualFare.Cents != 17550 {
		t.Errorf("expected actual fare 17550, got %+v", ride.ActualFare)
	}
}

func TestRide_IllegalTransitionsLeaveRideUnmodified(t *testing.T) {
	ride := &Ride{Status: RideStatusScheduled}

	err := ride.StartRide()
	if !IsTransitionError(err) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if ride.Status != RideStatusScheduled {
		t.Errorf("expected status unchanged, got %s", ride.Status)
	}
}

func TestRide_CancelFromEveryNonTerminalStatus(t *testing.T) {
	cancellable := []RideStatus{
		RideStatusScheduled,
		RideStatusDriverAssigned,
		RideStatusDriverEnRoute,
		RideStatusDriverArrived,
		RideStatusInProgress,
		RideStatusNoDriverFound,
	}

	for _, status := range cancellable {
		t.Run(string(status), func(t *testing.T) {
			ride := &Ride{Status: status}
			if err := ride.Cancel("rider-1", "change of plans"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ride.Status != RideStatusCancelled {
				t.Errorf("expected CANCELLED, got %s", ride.Status)
			}
			if ride.CancelledByID != "rider-1" {
				t.Errorf("expected canceller rider-1, got %s", ride.CancelledByID)
			}
		})
	}
}

func TestRide_TerminalStatusesRejectEverything(t *testing.T) {
	for _, status := range []RideStatus{RideStatusCompleted, RideStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			ride := &Ride{Status: status}

			if err := ride.Cancel("rider-1", "too late"); !IsTransitionError(err) {
				t.Errorf("cancel: expected transition error, got %v", err)
			}
			if err := ride.AssignDriver("driver-1"); !IsTransitionError(err) {
				t.Errorf("assign: expected transition error, got %v", err)
			}
		})
	}
}

func TestRide_NoDriverFoundOnlyAllowsCancel(t *testing.T) {
	ride := &Ride{Status: RideStatusNoDriverFound}

	if err := ride.AssignDriver("driver-1"); !IsTransitionError(err) {
		t.Errorf("expected transition error, got %v", err)
	}
	if err := ride.Cancel("rider-1", ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRide_RateByRider(t *testing.T) {
	ride := &Ride{Status: RideStatusCompleted}

	if err := ride.RateByRider(0, ""); err != ErrInvalidRating {
		t.Errorf("expected ErrInvalidRating for 0 stars, got %v", err)
	}
	if err := ride.RateByRider(6, ""); err != ErrInvalidRating {
		t.Errorf("expected ErrInvalidRating for 6 stars, got %v", err)
	}

	if err := ride.RateByRider(5, "great trip"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.RiderRating == nil || *ride.RiderRating != 5 {
		t.Errorf("expected rating 5, got %+v", ride.RiderRating)
	}

	// Write-once.
	if err := ride.RateByRider(4, "second thoughts"); err != ErrRideAlreadyRated {
		t.Errorf("expected ErrRideAlreadyRated, got %v", err)
	}
}

func TestRide_RateRequiresCompletedStatus(t *testing.T) {
	ride := &Ride{Status: RideStatusInProgress}

	if err := ride.RateByRider(5, ""); !IsTransitionError(err) {
		t.Errorf("rider: expected transition error, got %v", err)
	}
	if err := ride.RateByDriver(5, ""); !IsTransitionError(err) {
		t.Errorf("driver: expected transition error, got %v", err)
	}
}

func TestRide_DriverAndRiderRatingsAreIndependent(t *testing.T) {
	ride := &Ride{Status: RideStatusCompleted}

	if err := ride.RateByRider(5, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ride.RateByDriver(4, "polite rider"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *ride.RiderRating != 5 || *ride.DriverRating != 4 {
		t.Errorf("expected 5/4, got %d/%d", *ride.RiderRating, *ride.DriverRating)
	}
}
