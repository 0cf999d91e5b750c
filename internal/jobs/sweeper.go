package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/phoenixvc/chaufher/internal/repository"
	"github.com/phoenixvc/chaufher/internal/service"
)

// Sweeper runs the periodic housekeeping passes: expiring lapsed driver
// documents and reminding parties of rides whose booking deadline has passed.
type Sweeper struct {
	documents *service.DocumentService
	rideRepo  repository.RideRepository
	notifier  *service.NotificationService
	interval  time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(
	documents *service.DocumentService,
	rideRepo repository.RideRepository,
	notifier *service.NotificationService,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		documents: documents,
		rideRepo:  rideRepo,
		notifier:  notifier,
		interval:  interval,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called. It returns immediately.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.Sweep(context.Background())
			}
		}
	}()
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// Sweep runs one pass of both jobs. Failures are logged, not propagated;
// the next tick retries.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now()

	expired, err := s.documents.ExpireLapsed(ctx, now)
	if err != nil {
		log.Printf("[SWEEP] document expiry failed: %v", err)
	} else if expired > 0 {
		log.Printf("[SWEEP] expired %d lapsed documents", expired)
	}

	rides, err := s.rideRepo.ListDueForReminder(ctx, now)
	if err != nil {
		log.Printf("[SWEEP] reminder lookup failed: %v", err)
		return
	}
	for _, ride := range rides {
		if err := s.notifier.NotifyRideReminder(ctx, ride); err != nil {
			log.Printf("[SWEEP] reminder for ride %s failed: %v", ride.ID, err)
		}
	}
}
