package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/service"
)

type paymentFixture struct {
	paymentRepo *MockPaymentRepository
	rideRepo    *MockRideRepository
	payments    *service.PaymentService
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		paymentRepo: NewMockPaymentRepository(),
		rideRepo:    NewMockRideRepository(),
	}
	f.payments = service.NewPaymentService(f.paymentRepo, f.rideRepo, service.NewNotificationService(), 1500)
	return f
}

func zar(cents int64) domain.Money {
	return domain.Money{Cents: cents, Currency: "ZAR"}
}

func TestCreateForRide(t *testing.T) {
	f := newPaymentFixture()

	payment, err := f.payments.CreateForRide(context.Background(), "ride-1", zar(17550), domain.PaymentMethodCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != domain.PaymentPending {
		t.Errorf("expected PENDING, got %s", payment.Status)
	}
	if payment.PlatformFee.Cents+payment.DriverPayout.Cents != 17550 {
		t.Error("expected fee + payout to equal the amount")
	}
}

func TestCreateForRide_Idempotent(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	first, err := f.payments.CreateForRide(ctx, "ride-1", zar(17550), domain.PaymentMethodCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := f.payments.CreateForRide(ctx, "ride-1", zar(99999), domain.PaymentMethodApplePay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected the existing payment back, got %s and %s", first.ID, second.ID)
	}
	if f.paymentRepo.CountPayments() != 1 {
		t.Errorf("expected one payment, got %d", f.paymentRepo.CountPayments())
	}
}

func TestCreateForRide_RejectsUnknownMethod(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.payments.CreateForRide(context.Background(), "ride-1", zar(100), domain.PaymentMethod("BARTER"))
	if err != service.ErrInvalidPaymentMethod {
		t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}

func TestPaymentProcessorFlow(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	payment, err := f.payments.CreateForRide(ctx, "ride-1", zar(17550), domain.PaymentMethodCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment, err = f.payments.MarkProcessing(ctx, payment.ID, "pi_123")
	if err != nil {
		t.Fatalf("processing: unexpected error: %v", err)
	}
	if payment.Status != domain.PaymentProcessing {
		t.Errorf("expected PROCESSING, got %s", payment.Status)
	}

	payment, err = f.payments.MarkSucceeded(ctx, payment.ID, "ch_456")
	if err != nil {
		t.Fatalf("succeeded: unexpected error: %v", err)
	}
	if payment.Status != domain.PaymentSucceeded || payment.PaidAt == nil {
		t.Errorf("unexpected state: %s", payment.Status)
	}

	payment, err = f.payments.Refund(ctx, payment.ID)
	if err != nil {
		t.Fatalf("refund: unexpected error: %v", err)
	}
	if payment.Status != domain.PaymentRefunded {
		t.Errorf("expected REFUNDED, got %s", payment.Status)
	}
}

func TestRefund_RequiresSucceededPayment(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	payment, err := f.payments.CreateForRide(ctx, "ride-1", zar(17550), domain.PaymentMethodCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.payments.Refund(ctx, payment.ID); err != domain.ErrPaymentNotRefundable {
		t.Errorf("expected ErrPaymentNotRefundable, got %v", err)
	}
}

func TestGetByRideID_NoPayment(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.payments.GetByRideID(context.Background(), "ride-without-payment")
	if err != service.ErrRideHasNoPayment {
		t.Errorf("expected ErrRideHasNoPayment, got %v", err)
	}
}

func TestDriverPayouts_SumsSucceededSettlements(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()
	now := time.Now().UTC()

	// Two succeeded settlements for the driver, one failed, one for another driver.
	for i, setup := range []struct {
		rideID   string
		driverID string
		cents    int64
		succeed  bool
	}{
		{"ride-1", "driver-1", 10000, true},
		{"ride-2", "driver-1", 20000, true},
		{"ride-3", "driver-1", 5000, false},
		{"ride-4", "driver-2", 7000, true},
	} {
		payment, err := f.payments.CreateForRide(ctx, setup.rideID, zar(setup.cents), domain.PaymentMethodCard)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		f.paymentRepo.SetRideDriver(setup.rideID, setup.driverID)
		if setup.succeed {
			if _, err := f.payments.MarkSucceeded(ctx, payment.ID, "ch_ok"); err != nil {
				t.Fatalf("case %d: unexpected error: %v", i, err)
			}
		} else {
			if _, err := f.payments.MarkFailed(ctx, payment.ID, "declined"); err != nil {
				t.Fatalf("case %d: unexpected error: %v", i, err)
			}
		}
	}

	payouts, total, err := f.payments.DriverPayouts(ctx, "driver-1", now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(payouts) != 2 {
		t.Fatalf("expected 2 payouts, got %d", len(payouts))
	}
	// 85% of 10000 + 85% of 20000.
	if total.Cents != 8500+17000 {
		t.Errorf("expected total 25500, got %d", total.Cents)
	}
	if total.Currency != "ZAR" {
		t.Errorf("expected ZAR, got %s", total.Currency)
	}
}

func TestDriverPayouts_RejectsMixedCurrencies(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()
	now := time.Now().UTC()

	for i, amount := range []domain.Money{
		zar(10000),
		{Cents: 20000, Currency: "USD"},
	} {
		rideID := fmt.Sprintf("ride-%d", i+1)
		payment, err := f.payments.CreateForRide(ctx, rideID, amount, domain.PaymentMethodCard)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		f.paymentRepo.SetRideDriver(rideID, "driver-1")
		if _, err := f.payments.MarkSucceeded(ctx, payment.ID, "ch_ok"); err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
	}

	_, _, err := f.payments.DriverPayouts(ctx, "driver-1", now.Add(-time.Hour), now.Add(time.Hour))
	if err != service.ErrMixedPayoutCurrencies {
		t.Errorf("expected ErrMixedPayoutCurrencies, got %v", err)
	}
}
