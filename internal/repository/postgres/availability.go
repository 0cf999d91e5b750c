package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// AvailabilityRepository is a PostgreSQL implementation of
// repository.AvailabilityRepository. Windows cascade-delete with their driver.
type AvailabilityRepository struct {
	q Querier
}

// NewAvailabilityRepository creates a new PostgreSQL availability repository.
func NewAvailabilityRepository(db *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{q: db}
}

const availabilityColumns = `
	id, driver_id, day_of_week, start_minutes, end_minutes, is_active, created_at, updated_at`

// Create persists a new window.
func (r *AvailabilityRepository) Create(ctx context.Context, w *domain.AvailabilityWindow) error {
	query := `
		INSERT INTO driver_availability (` + availabilityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		w.ID, w.DriverID, int(w.Day), int(w.Start), int(w.End), w.IsActive, w.CreatedAt, w.UpdatedAt,
	)
	return err
}

// GetByID retrieves a window by ID.
func (r *AvailabilityRepository) GetByID(ctx context.Context, id string) (*domain.AvailabilityWindow, error) {
	query := `SELECT ` + availabilityColumns + ` FROM driver_availability WHERE id = $1`
	return r.scanWindow(r.q.QueryRowContext(ctx, query, id))
}

// ListByDriver retrieves all of a driver's windows.
func (r *AvailabilityRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.AvailabilityWindow, error) {
	query := `SELECT ` + availabilityColumns + ` FROM driver_availability
		WHERE driver_id = $1 ORDER BY day_of_week, start_minutes`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []*domain.AvailabilityWindow
	for rows.Next() {
		w, err := r.scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

// Update persists the full window state.
func (r *AvailabilityRepository) Update(ctx context.Context, w *domain.AvailabilityWindow) error {
	query := `
		UPDATE driver_availability
		SET start_minutes = $1, end_minutes = $2, is_active = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.q.ExecContext(ctx, query, int(w.Start), int(w.End), w.IsActive, w.UpdatedAt, w.ID)
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

// Delete removes a window.
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM driver_availability WHERE id = $1`, id)
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

func (r *AvailabilityRepository) scanWindow(row rowScanner) (*domain.AvailabilityWindow, error) {
	var (
		w     domain.AvailabilityWindow
		day   int
		start int
		end   int
	)

	err := row.Scan(&w.ID, &w.DriverID, &day, &start, &end, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	w.Day = time.Weekday(day)
	w.Start = domain.TimeOfDay(start)
	w.End = domain.TimeOfDay(end)
	return &w, nil
}
