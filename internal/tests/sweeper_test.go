package tests

import (
	"context"
	"testing"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/jobs"
	"github.com/phoenixvc/chaufher/internal/service"
)

func TestSweep_ExpiresLapsedDocuments(t *testing.T) {
	documentRepo := NewMockDocumentRepository()
	driverRepo := NewMockDriverRepository()
	rideRepo := NewMockRideRepository()
	notifier := service.NewNotificationService()
	documents := service.NewDocumentService(documentRepo, driverRepo, notifier)

	lapsed := domain.NewDriverDocument("driver-1", domain.DocumentDriversLicense, "", "license.pdf", time.Now().UTC().Add(-time.Hour))
	documentRepo.AddDocument(lapsed)

	sweeper := jobs.NewSweeper(documents, rideRepo, notifier, time.Hour)
	sweeper.Sweep(context.Background())

	if got := documentRepo.GetDocument(lapsed.ID).Status; got != domain.DocumentExpired {
		t.Errorf("expected EXPIRED, got %s", got)
	}
}

func TestSweep_RemindsRidesPastBookingDeadline(t *testing.T) {
	documentRepo := NewMockDocumentRepository()
	driverRepo := NewMockDriverRepository()
	rideRepo := NewMockRideRepository()
	notifier := service.NewNotificationService()
	documents := service.NewDocumentService(documentRepo, driverRepo, notifier)

	now := time.Now().UTC()

	due := &domain.Ride{
		ID:                  "ride-due",
		RiderID:             "rider-1",
		DriverID:            "driver-1",
		Status:              domain.RideStatusDriverAssigned,
		ScheduledPickupTime: now.Add(30 * time.Minute),
		BookingDeadline:     now.Add(-30 * time.Minute),
	}
	notYet := &domain.Ride{
		ID:                  "ride-later",
		RiderID:             "rider-2",
		Status:              domain.RideStatusDriverAssigned,
		ScheduledPickupTime: now.Add(5 * time.Hour),
		BookingDeadline:     now.Add(4 * time.Hour),
	}
	rideRepo.AddRide(due)
	rideRepo.AddRide(notYet)

	rides, err := rideRepo.ListDueForReminder(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rides) != 1 || rides[0].ID != due.ID {
		t.Fatalf("expected only the due ride, got %d", len(rides))
	}

	// The sweep itself must process the due ride without error.
	sweeper := jobs.NewSweeper(documents, rideRepo, notifier, time.Hour)
	sweeper.Sweep(context.Background())
}

func TestSweeper_StartStop(t *testing.T) {
	documentRepo := NewMockDocumentRepository()
	driverRepo := NewMockDriverRepository()
	rideRepo := NewMockRideRepository()
	notifier := service.NewNotificationService()
	documents := service.NewDocumentService(documentRepo, driverRepo, notifier)

	sweeper := jobs.NewSweeper(documents, rideRepo, notifier, 10*time.Millisecond)
	sweeper.Start()
	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()
}
