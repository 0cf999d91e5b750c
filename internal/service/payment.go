package service

import (
	"context"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// PaymentService handles the settlement record lifecycle. Processor calls
// are out of scope; callbacks arrive through the Mark* methods.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	rideRepo    repository.RideRepository
	notifier    *NotificationService
	feeBps      int64
}

// NewPaymentService creates a new PaymentService. feeBps <= 0 uses the
// default platform fee.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	rideRepo repository.RideRepository,
	notifier *NotificationService,
	feeBps int64,
) *PaymentService {
	if feeBps <= 0 {
		feeBps = domain.DefaultPlatformFeeBps
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		rideRepo:    rideRepo,
		notifier:    notifier,
		feeBps:      feeBps,
	}
}

// CreateForRide creates the ride's settlement record. Idempotent: if the
// ride already has a payment, the existing record is returned.
func (s *PaymentService) CreateForRide(ctx context.Context, rideID string, amount domain.Money, method domain.PaymentMethod) (*domain.Payment, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if method == "" {
		method = domain.PaymentMethodCard
	}
	if _, err := validateMethod(method); err != nil {
		return nil, err
	}

	existing, err := s.paymentRepo.GetByRideID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	payment, err := domain.NewPayment(rideID, amount, method, s.feeBps)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		// Lost a race against a concurrent creation for the same ride.
		if err == repository.ErrDuplicate {
			return s.paymentRepo.GetByRideID(ctx, rideID)
		}
		return nil, err
	}
	return payment, nil
}

// GetByID retrieves a payment by ID.
func (s *PaymentService) GetByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}
	return s.paymentRepo.GetByID(ctx, paymentID)
}

// GetByRideID retrieves the settlement record for a ride.
func (s *PaymentService) GetByRideID(ctx context.Context, rideID string) (*domain.Payment, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	payment, err := s.paymentRepo.GetByRideID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrRideHasNoPayment
	}
	return payment, nil
}

// MarkProcessing records the processor intent and moves the payment to PROCESSING.
func (s *PaymentService) MarkProcessing(ctx context.Context, paymentID, intentID string) (*domain.Payment, error) {
	return s.mutate(ctx, paymentID, func(p *domain.Payment) error {
		return p.AttachIntent(intentID)
	}, nil)
}

// MarkSucceeded records a successful external charge and notifies the rider.
func (s *PaymentService) MarkSucceeded(ctx context.Context, paymentID, chargeID string) (*domain.Payment, error) {
	return s.mutate(ctx, paymentID, func(p *domain.Payment) error {
		return p.MarkSucceeded(chargeID)
	}, s.notifySucceeded)
}

// MarkFailed records a failed charge with the processor's reason.
func (s *PaymentService) MarkFailed(ctx context.Context, paymentID, reason string) (*domain.Payment, error) {
	return s.mutate(ctx, paymentID, func(p *domain.Payment) error {
		return p.MarkFailed(reason)
	}, s.notifyFailed)
}

// Refund reverses a succeeded payment.
func (s *PaymentService) Refund(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.mutate(ctx, paymentID, func(p *domain.Payment) error {
		return p.Refund()
	}, s.notifyRefunded)
}

// DriverPayouts lists a driver's succeeded settlements paid in [from, to]
// and the summed payout.
func (s *PaymentService) DriverPayouts(ctx context.Context, driverID string, from, to time.Time) ([]*domain.Payment, domain.Money, error) {
	if driverID == "" {
		return nil, domain.Money{}, ErrInvalidDriverID
	}

	payments, err := s.paymentRepo.ListDriverPayouts(ctx, driverID, from, to)
	if err != nil {
		return nil, domain.Money{}, err
	}

	total := domain.Money{Currency: domain.DefaultCurrency}
	for i, p := range payments {
		if i == 0 {
			total.Currency = p.DriverPayout.Currency
		} else if p.DriverPayout.Currency != total.Currency {
			return nil, domain.Money{}, ErrMixedPayoutCurrencies
		}
		total.Cents += p.DriverPayout.Cents
	}
	return payments, total, nil
}

func (s *PaymentService) mutate(ctx context.Context, paymentID string, op func(*domain.Payment) error, after func(context.Context, *domain.Payment)) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := op(payment); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	if after != nil {
		after(ctx, payment)
	}
	return payment, nil
}

func (s *PaymentService) notifySucceeded(ctx context.Context, payment *domain.Payment) {
	if riderID := s.riderFor(ctx, payment); riderID != "" && s.notifier != nil {
		_ = s.notifier.NotifyPaymentSucceeded(ctx, payment, riderID)
	}
}

func (s *PaymentService) notifyFailed(ctx context.Context, payment *domain.Payment) {
	if riderID := s.riderFor(ctx, payment); riderID != "" && s.notifier != nil {
		_ = s.notifier.NotifyPaymentFailed(ctx, payment, riderID)
	}
}

func (s *PaymentService) notifyRefunded(ctx context.Context, payment *domain.Payment) {
	if riderID := s.riderFor(ctx, payment); riderID != "" && s.notifier != nil {
		_ = s.notifier.NotifyPaymentRefunded(ctx, payment, riderID)
	}
}

func (s *PaymentService) riderFor(ctx context.Context, payment *domain.Payment) string {
	if s.rideRepo == nil {
		return ""
	}
	ride, err := s.rideRepo.GetByID(ctx, payment.RideID)
	if err != nil {
		return ""
	}
	return ride.RiderID
}

func validateMethod(method domain.PaymentMethod) (domain.PaymentMethod, error) {
	switch method {
	case domain.PaymentMethodCard, domain.PaymentMethodApplePay, domain.PaymentMethodGooglePay:
		return method, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
