package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes riders, drivers and admins.
type UserRole string

const (
	RoleRider  UserRole = "RIDER"
	RoleDriver UserRole = "DRIVER"
	RoleAdmin  UserRole = "ADMIN"
)

// User represents an account on the platform.
type User struct {
	ID          string
	Email       string
	PhoneNumber string
	FirstName   string
	LastName    string
	Role        UserRole
	IsActive    bool

	EnablePushNotifications  bool
	EnableSmsNotifications   bool
	EnableEmailNotifications bool

	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// NewUser creates an active account with all notification channels enabled.
// Email is stored lower-cased; uniqueness is enforced by the persistence layer.
func NewUser(email, phone, firstName, lastName string, role UserRole) *User {
	now := time.Now().UTC()
	return &User{
		ID:                       uuid.New().String(),
		Email:                    strings.ToLower(email),
		PhoneNumber:              phone,
		FirstName:                firstName,
		LastName:                 lastName,
		Role:                     role,
		IsActive:                 true,
		EnablePushNotifications:  true,
		EnableSmsNotifications:   true,
		EnableEmailNotifications: true,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

// FullName returns the display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UpdateProfile changes the user's name.
func (u *User) UpdateProfile(firstName, lastName string) {
	u.FirstName = firstName
	u.LastName = lastName
	u.UpdatedAt = time.Now().UTC()
}

// UpdateNotificationPreferences toggles the delivery channels.
func (u *User) UpdateNotificationPreferences(push, sms, email bool) {
	u.EnablePushNotifications = push
	u.EnableSmsNotifications = sms
	u.EnableEmailNotifications = email
	u.UpdatedAt = time.Now().UTC()
}

// RecordLogin stamps the last login time.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

// Deactivate disables the account.
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}

// Reactivate re-enables the account.
func (u *User) Reactivate() {
	u.IsActive = true
	u.UpdatedAt = time.Now().UTC()
}
