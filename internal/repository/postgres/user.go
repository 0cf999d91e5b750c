package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

const userColumns = `
	id, email, phone_number, first_name, last_name, role, is_active,
	enable_push_notifications, enable_sms_notifications, enable_email_notifications,
	created_at, updated_at, last_login_at`

// Create persists a new user. An email collision surfaces as ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PhoneNumber,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsActive,
		user.EnablePushNotifications,
		user.EnableSmsNotifications,
		user.EnableEmailNotifications,
		user.CreatedAt,
		user.UpdatedAt,
		nullTimePtr(user.LastLoginAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.q.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.q.QueryRowContext(ctx, query, strings.ToLower(email)))
}

// Update persists the full user state.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET phone_number = $1, first_name = $2, last_name = $3, is_active = $4,
		    enable_push_notifications = $5, enable_sms_notifications = $6,
		    enable_email_notifications = $7, updated_at = $8, last_login_at = $9
		WHERE id = $10
	`
	result, err := r.q.ExecContext(ctx, query,
		user.PhoneNumber,
		user.FirstName,
		user.LastName,
		user.IsActive,
		user.EnablePushNotifications,
		user.EnableSmsNotifications,
		user.EnableEmailNotifications,
		user.UpdatedAt,
		nullTimePtr(user.LastLoginAt),
		user.ID,
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

func (r *UserRepository) scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		lastLogin sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PhoneNumber,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsActive,
		&user.EnablePushNotifications,
		&user.EnableSmsNotifications,
		&user.EnableEmailNotifications,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	user.LastLoginAt = timePtr(lastLogin)
	return &user, nil
}
