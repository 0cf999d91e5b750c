package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentSucceeded  PaymentStatus = "SUCCEEDED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

// paymentTransitions is the legal transition graph for settlements.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentProcessing, PaymentSucceeded, PaymentFailed},
	PaymentProcessing: {PaymentSucceeded, PaymentFailed},
	PaymentSucceeded:  {PaymentRefunded},
}

// CanTransition reports whether a payment in status s may move to status to.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	for _, next := range paymentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentMethod represents how a rider pays.
type PaymentMethod string

const (
	PaymentMethodCard      PaymentMethod = "CARD"
	PaymentMethodApplePay  PaymentMethod = "APPLE_PAY"
	PaymentMethodGooglePay PaymentMethod = "GOOGLE_PAY"
)

// DefaultPlatformFeeBps is the platform fee percentage in basis points (15%).
const DefaultPlatformFeeBps = 1500

// Payment is one monetary settlement tied to exactly one ride.
type Payment struct {
	ID     string
	RideID string

	Amount       Money
	PlatformFee  Money
	DriverPayout Money

	Status PaymentStatus
	Method PaymentMethod

	ProcessorIntentID string
	ProcessorChargeID string
	FailureReason     string

	CreatedAt  time.Time
	UpdatedAt  time.Time
	PaidAt     *time.Time
	RefundedAt *time.Time
}

// NewPayment creates a PENDING payment, splitting the amount into the platform
// fee and driver payout once, at creation. feeBps <= 0 uses the default 15%.
func NewPayment(rideID string, amount Money, method PaymentMethod, feeBps int64) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if feeBps <= 0 {
		feeBps = DefaultPlatformFeeBps
	}

	fee, payout := amount.SplitFee(feeBps)
	now := time.Now().UTC()

	return &Payment{
		ID:           uuid.New().String(),
		RideID:       rideID,
		Amount:       amount,
		PlatformFee:  fee,
		DriverPayout: payout,
		Status:       PaymentPending,
		Method:       method,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (p *Payment) transition(op string, to PaymentStatus) error {
	if !p.Status.CanTransition(to) {
		return &TransitionError{Entity: "payment", Operation: op, Status: string(p.Status)}
	}
	p.Status = to
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// AttachIntent records the external processor intent and moves the payment to PROCESSING.
func (p *Payment) AttachIntent(intentID string) error {
	if err := p.transition("attach intent", PaymentProcessing); err != nil {
		return err
	}
	p.ProcessorIntentID = intentID
	return nil
}

// MarkSucceeded records a successful external charge.
func (p *Payment) MarkSucceeded(chargeID string) error {
	if chargeID == "" {
		return ErrMissingChargeReference
	}
	if err := p.transition("mark succeeded", PaymentSucceeded); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.ProcessorChargeID = chargeID
	p.PaidAt = &now
	return nil
}

// MarkFailed records a failed charge with the processor's reason.
func (p *Payment) MarkFailed(reason string) error {
	if err := p.transition("mark failed", PaymentFailed); err != nil {
		return err
	}
	p.FailureReason = reason
	return nil
}

// Refund reverses a succeeded payment.
func (p *Payment) Refund() error {
	if p.Status != PaymentSucceeded {
		return ErrPaymentNotRefundable
	}
	now := time.Now().UTC()
	p.Status = PaymentRefunded
	p.RefundedAt = &now
	p.UpdatedAt = now
	return nil
}
