package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `
	id, user_id, verification_status, background_check_status,
	verified_at, verified_by_admin_id, rejection_reason,
	vehicle_make, vehicle_model, vehicle_year, vehicle_color,
	license_plate, vehicle_capacity, vehicle_photo_url,
	rating, total_rides, total_ratings, acceptance_rate, cancellation_rate,
	last_lat, last_lng, last_location_update,
	is_online, is_available, created_at, updated_at`

// Create persists a new driver. A license plate collision surfaces as ErrDuplicate.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (` + driverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.UserID,
		driver.VerificationStatus,
		driver.BackgroundCheckStatus,
		nullTimePtr(driver.VerifiedAt),
		nullString(driver.VerifiedByAdminID),
		nullString(driver.RejectionReason),
		driver.VehicleMake,
		driver.VehicleModel,
		driver.VehicleYear,
		driver.VehicleColor,
		driver.LicensePlate,
		driver.VehicleCapacity,
		nullString(driver.VehiclePhotoURL),
		driver.Rating,
		driver.TotalRides,
		driver.TotalRatings,
		driver.AcceptanceRate,
		driver.CancellationRate,
		nullFloatPtr(driver.LastLatitude),
		nullFloatPtr(driver.LastLongitude),
		nullTimePtr(driver.LastLocationUpdate),
		driver.IsOnline,
		driver.IsAvailable,
		driver.CreatedAt,
		driver.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`
	return r.scanDriver(r.q.QueryRowContext(ctx, query, id))
}

// GetByUserID retrieves the driver account owned by a user.
func (r *DriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE user_id = $1`
	return r.scanDriver(r.q.QueryRowContext(ctx, query, userID))
}

// ListByVerificationStatus retrieves drivers in the given pipeline stages, oldest first.
func (r *DriverRepository) ListByVerificationStatus(ctx context.Context, statuses ...domain.VerificationStatus) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers
		WHERE verification_status = ANY($1) ORDER BY created_at ASC`

	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	rows, err := r.q.QueryContext(ctx, query, pq.Array(values))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListAvailable retrieves approved drivers that are online and available.
func (r *DriverRepository) ListAvailable(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers
		WHERE verification_status = $1 AND is_online AND is_available`

	rows, err := r.q.QueryContext(ctx, query, domain.VerificationApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

// Update persists the full driver state.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	query := `
		UPDATE drivers
		SET verification_status = $1, background_check_status = $2,
		    verified_at = $3, verified_by_admin_id = $4, rejection_reason = $5,
		    vehicle_photo_url = $6,
		    rating = $7, total_rides = $8, total_ratings = $9,
		    acceptance_rate = $10, cancellation_rate = $11,
		    last_lat = $12, last_lng = $13, last_location_update = $14,
		    is_online = $15, is_available = $16, updated_at = $17
		WHERE id = $18
	`

	result, err := r.q.ExecContext(ctx, query,
		driver.VerificationStatus,
		driver.BackgroundCheckStatus,
		nullTimePtr(driver.VerifiedAt),
		nullString(driver.VerifiedByAdminID),
		nullString(driver.RejectionReason),
		nullString(driver.VehiclePhotoURL),
		driver.Rating,
		driver.TotalRides,
		driver.TotalRatings,
		driver.AcceptanceRate,
		driver.CancellationRate,
		nullFloatPtr(driver.LastLatitude),
		nullFloatPtr(driver.LastLongitude),
		nullTimePtr(driver.LastLocationUpdate),
		driver.IsOnline,
		driver.IsAvailable,
		driver.UpdatedAt,
		driver.ID,
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

func (r *DriverRepository) collect(rows *sql.Rows) ([]*domain.Driver, error) {
	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := r.scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

func (r *DriverRepository) scanDriver(row rowScanner) (*domain.Driver, error) {
	var (
		driver       domain.Driver
		verifiedAt   sql.NullTime
		verifiedBy   sql.NullString
		rejectReason sql.NullString
		photoURL     sql.NullString
		lastLat      sql.NullFloat64
		lastLng      sql.NullFloat64
		lastUpdate   sql.NullTime
	)

	err := row.Scan(
		&driver.ID,
		&driver.UserID,
		&driver.VerificationStatus,
		&driver.BackgroundCheckStatus,
		&verifiedAt,
		&verifiedBy,
		&rejectReason,
		&driver.VehicleMake,
		&driver.VehicleModel,
		&driver.VehicleYear,
		&driver.VehicleColor,
		&driver.LicensePlate,
		&driver.VehicleCapacity,
		&photoURL,
		&driver.Rating,
		&driver.TotalRides,
		&driver.TotalRatings,
		&driver.AcceptanceRate,
		&driver.CancellationRate,
		&lastLat,
		&lastLng,
		&lastUpdate,
		&driver.IsOnline,
		&driver.IsAvailable,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	driver.VerifiedAt = timePtr(verifiedAt)
	driver.VerifiedByAdminID = verifiedBy.String
	driver.RejectionReason = rejectReason.String
	driver.VehiclePhotoURL = photoURL.String
	driver.LastLatitude = floatPtr(lastLat)
	driver.LastLongitude = floatPtr(lastLng)
	driver.LastLocationUpdate = timePtr(lastUpdate)

	return &driver, nil
}
