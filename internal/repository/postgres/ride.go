package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `
	id, ride_number, rider_id, driver_id,
	scheduled_pickup_time, booking_deadline,
	pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng,
	estimated_distance_km, estimated_duration_minutes,
	estimated_fare_cents, actual_fare_cents, currency,
	status, cancellation_reason, cancelled_by_id,
	passenger_count, has_children, special_requirements,
	payment_id, rider_rating, rider_feedback, driver_rating, driver_feedback,
	version, created_at, updated_at`

// Create persists a new ride. A ride number collision surfaces as ErrDuplicate.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
	`

	var actualFare sql.NullInt64
	if ride.ActualFare != nil {
		actualFare = sql.NullInt64{Int64: ride.ActualFare.Cents, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RideNumber,
		ride.RiderID,
		nullString(ride.DriverID),
		ride.ScheduledPickupTime,
		ride.BookingDeadline,
		ride.PickupAddress,
		ride.PickupLatitude,
		ride.PickupLongitude,
		ride.DropoffAddress,
		ride.DropoffLatitude,
		ride.DropoffLongitude,
		ride.EstimatedDistanceKm,
		ride.EstimatedDurationMinutes,
		ride.EstimatedFare.Cents,
		actualFare,
		ride.EstimatedFare.Currency,
		ride.Status,
		nullString(ride.CancellationReason),
		nullString(ride.CancelledByID),
		ride.PassengerCount,
		ride.HasChildren,
		nullString(ride.SpecialRequirements),
		nullString(ride.PaymentID),
		nullIntPtr(ride.RiderRating),
		nullString(ride.RiderFeedback),
		nullIntPtr(ride.DriverRating),
		nullString(ride.DriverFeedback),
		ride.Version,
		ride.CreatedAt,
		ride.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return r.scanRide(r.q.QueryRowContext(ctx, query, id))
}

// GetByNumber retrieves a ride by its human-readable ride number.
func (r *RideRepository) GetByNumber(ctx context.Context, rideNumber string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE ride_number = $1`
	return r.scanRide(r.q.QueryRowContext(ctx, query, rideNumber))
}

// ListByRider retrieves a rider's rides, newest pickup first.
func (r *RideRepository) ListByRider(ctx context.Context, riderID string, status domain.RideStatus) ([]*domain.Ride, error) {
	return r.list(ctx, "rider_id", riderID, status)
}

// ListByDriver retrieves a driver's rides, newest pickup first.
func (r *RideRepository) ListByDriver(ctx context.Context, driverID string, status domain.RideStatus) ([]*domain.Ride, error) {
	return r.list(ctx, "driver_id", driverID, status)
}

// ListDueForReminder retrieves assigned rides inside their reminder window:
// booking deadline passed, pickup still ahead.
func (r *RideRepository) ListDueForReminder(ctx context.Context, now time.Time) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides
		WHERE status = $1 AND booking_deadline <= $2 AND scheduled_pickup_time > $2
		ORDER BY scheduled_pickup_time ASC`

	rows, err := r.q.QueryContext(ctx, query, domain.RideStatusDriverAssigned, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := r.scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

func (r *RideRepository) list(ctx context.Context, column, id string, status domain.RideStatus) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE ` + column + ` = $1`
	args := []any{id}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY scheduled_pickup_time DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := r.scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// Update persists the full ride state with a compare-and-swap on version.
// A concurrent writer surfaces as ErrVersionConflict.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `
		UPDATE rides
		SET driver_id = $1, estimated_fare_cents = $2, actual_fare_cents = $3,
		    status = $4, cancellation_reason = $5, cancelled_by_id = $6,
		    payment_id = $7, rider_rating = $8, rider_feedback = $9,
		    driver_rating = $10, driver_feedback = $11,
		    version = version + 1, updated_at = $12
		WHERE id = $13 AND version = $14
	`

	var actualFare sql.NullInt64
	if ride.ActualFare != nil {
		actualFare = sql.NullInt64{Int64: ride.ActualFare.Cents, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		nullString(ride.DriverID),
		ride.EstimatedFare.Cents,
		actualFare,
		ride.Status,
		nullString(ride.CancellationReason),
		nullString(ride.CancelledByID),
		nullString(ride.PaymentID),
		nullIntPtr(ride.RiderRating),
		nullString(ride.RiderFeedback),
		nullIntPtr(ride.DriverRating),
		nullString(ride.DriverFeedback),
		ride.UpdatedAt,
		ride.ID,
		ride.Version,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the ride is gone or a concurrent writer bumped the version.
		if _, err := r.GetByID(ctx, ride.ID); err != nil {
			return err
		}
		return repository.ErrVersionConflict
	}

	ride.Version++
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RideRepository) scanRide(row rowScanner) (*domain.Ride, error) {
	var (
		ride         domain.Ride
		driverID     sql.NullString
		actualFare   sql.NullInt64
		currency     string
		cancelReason sql.NullString
		cancelledBy  sql.NullString
		specialReqs  sql.NullString
		paymentID    sql.NullString
		riderRating  sql.NullInt32
		riderFeedbk  sql.NullString
		driverRating sql.NullInt32
		driverFeedbk sql.NullString
	)

	err := row.Scan(
		&ride.ID,
		&ride.RideNumber,
		&ride.RiderID,
		&driverID,
		&ride.ScheduledPickupTime,
		&ride.BookingDeadline,
		&ride.PickupAddress,
		&ride.PickupLatitude,
		&ride.PickupLongitude,
		&ride.DropoffAddress,
		&ride.DropoffLatitude,
		&ride.DropoffLongitude,
		&ride.EstimatedDistanceKm,
		&ride.EstimatedDurationMinutes,
		&ride.EstimatedFare.Cents,
		&actualFare,
		&currency,
		&ride.Status,
		&cancelReason,
		&cancelledBy,
		&ride.PassengerCount,
		&ride.HasChildren,
		&specialReqs,
		&paymentID,
		&riderRating,
		&riderFeedbk,
		&driverRating,
		&driverFeedbk,
		&ride.Version,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	ride.EstimatedFare.Currency = currency
	if actualFare.Valid {
		fare := domain.Money{Cents: actualFare.Int64, Currency: currency}
		ride.ActualFare = &fare
	}
	ride.DriverID = driverID.String
	ride.CancellationReason = cancelReason.String
	ride.CancelledByID = cancelledBy.String
	ride.SpecialRequirements = specialReqs.String
	ride.PaymentID = paymentID.String
	ride.RiderRating = intPtr(riderRating)
	ride.RiderFeedback = riderFeedbk.String
	ride.DriverRating = intPtr(driverRating)
	ride.DriverFeedback = driverFeedbk.String

	return &ride, nil
}
