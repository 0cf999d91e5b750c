package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `
	id, ride_id, amount_cents, platform_fee_cents, driver_payout_cents, currency,
	status, method, processor_intent_id, processor_charge_id, failure_reason,
	created_at, updated_at, paid_at, refunded_at`

// Create persists a new payment. A second payment for the same ride surfaces
// as ErrDuplicate via the unique ride_id constraint.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.RideID,
		payment.Amount.Cents,
		payment.PlatformFee.Cents,
		payment.DriverPayout.Cents,
		payment.Amount.Currency,
		payment.Status,
		payment.Method,
		nullString(payment.ProcessorIntentID),
		nullString(payment.ProcessorChargeID),
		nullString(payment.FailureReason),
		payment.CreatedAt,
		payment.UpdatedAt,
		nullTimePtr(payment.PaidAt),
		nullTimePtr(payment.RefundedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.scanPayment(r.q.QueryRowContext(ctx, query, id))
}

// GetByRideID retrieves the payment for a ride, or nil if none exists.
func (r *PaymentRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ride_id = $1`
	payment, err := r.scanPayment(r.q.QueryRowContext(ctx, query, rideID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return payment, err
}

// ListDriverPayouts retrieves succeeded payments for rides driven by the
// given driver, paid within [from, to], oldest first.
func (r *PaymentRepository) ListDriverPayouts(ctx context.Context, driverID string, from, to time.Time) ([]*domain.Payment, error) {
	query := `
		SELECT p.id, p.ride_id, p.amount_cents, p.platform_fee_cents, p.driver_payout_cents,
		       p.currency, p.status, p.method, p.processor_intent_id, p.processor_charge_id,
		       p.failure_reason, p.created_at, p.updated_at, p.paid_at, p.refunded_at
		FROM payments p
		JOIN rides r ON r.id = p.ride_id
		WHERE r.driver_id = $1 AND p.status = $2 AND p.paid_at BETWEEN $3 AND $4
		ORDER BY p.paid_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, driverID, domain.PaymentSucceeded, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// Update persists the full payment state.
func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $1, processor_intent_id = $2, processor_charge_id = $3,
		    failure_reason = $4, updated_at = $5, paid_at = $6, refunded_at = $7
		WHERE id = $8
	`
	result, err := r.q.ExecContext(ctx, query,
		payment.Status,
		nullString(payment.ProcessorIntentID),
		nullString(payment.ProcessorChargeID),
		nullString(payment.FailureReason),
		payment.UpdatedAt,
		nullTimePtr(payment.PaidAt),
		nullTimePtr(payment.RefundedAt),
		payment.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		payment       domain.Payment
		currency      string
		intentID      sql.NullString
		chargeID      sql.NullString
		failureReason sql.NullString
		paidAt        sql.NullTime
		refundedAt    sql.NullTime
	)

	err := row.Scan(
		&payment.ID,
		&payment.RideID,
		&payment.Amount.Cents,
		&payment.PlatformFee.Cents,
		&payment.DriverPayout.Cents,
		&currency,
		&payment.Status,
		&payment.Method,
		&intentID,
		&chargeID,
		&failureReason,
		&payment.CreatedAt,
		&payment.UpdatedAt,
		&paidAt,
		&refundedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	payment.Amount.Currency = currency
	payment.PlatformFee.Currency = currency
	payment.DriverPayout.Currency = currency
	payment.ProcessorIntentID = intentID.String
	payment.ProcessorChargeID = chargeID.String
	payment.FailureReason = failureReason.String
	payment.PaidAt = timePtr(paidAt)
	payment.RefundedAt = timePtr(refundedAt)

	return &payment, nil
}
