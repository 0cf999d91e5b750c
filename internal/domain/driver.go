package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus represents a driver's position in the admin approval pipeline.
type VerificationStatus string

const (
	VerificationPending            VerificationStatus = "PENDING"
	VerificationDocumentsSubmitted VerificationStatus = "DOCUMENTS_SUBMITTED"
	VerificationUnderReview        VerificationStatus = "UNDER_REVIEW"
	VerificationApproved           VerificationStatus = "APPROVED"
	VerificationRejected           VerificationStatus = "REJECTED"
	VerificationSuspended          VerificationStatus = "SUSPENDED"
)

// BackgroundCheckStatus represents the status of a driver's background check.
type BackgroundCheckStatus string

const (
	BackgroundCheckNotStarted BackgroundCheckStatus = "NOT_STARTED"
	BackgroundCheckInProgress BackgroundCheckStatus = "IN_PROGRESS"
	BackgroundCheckPassed     BackgroundCheckStatus = "PASSED"
	BackgroundCheckFailed     BackgroundCheckStatus = "FAILED"
)

// Driver represents a vehicle operator account.
type Driver struct {
	ID     string
	UserID string

	VerificationStatus    VerificationStatus
	BackgroundCheckStatus BackgroundCheckStatus
	VerifiedAt            *time.Time
	VerifiedByAdminID     string
	RejectionReason       string

	VehicleMake     string
	VehicleModel    string
	VehicleYear     int
	VehicleColor    string
	LicensePlate    string
	VehicleCapacity int
	VehiclePhotoURL string

	Rating           float64
	TotalRides       int
	TotalRatings     int
	AcceptanceRate   float64
	CancellationRate float64

	LastLatitude       *float64
	LastLongitude      *float64
	LastLocationUpdate *time.Time

	IsOnline    bool
	IsAvailable bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DriverParams contains the parameters for registering a driver.
type DriverParams struct {
	UserID          string
	VehicleMake     string
	VehicleModel    string
	VehicleYear     int
	VehicleColor    string
	LicensePlate    string
	VehicleCapacity int
}

// NewDriver creates a driver in PENDING verification status with new-account
// defaults: 5.0 rating, 100% acceptance, offline and unavailable.
func NewDriver(p DriverParams) *Driver {
	now := time.Now().UTC()

	capacity := p.VehicleCapacity
	if capacity <= 0 {
		capacity = 4
	}

	return &Driver{
		ID:                    uuid.New().String(),
		UserID:                p.UserID,
		VerificationStatus:    VerificationPending,
		BackgroundCheckStatus: BackgroundCheckNotStarted,
		VehicleMake:           p.VehicleMake,
		VehicleModel:          p.VehicleModel,
		VehicleYear:           p.VehicleYear,
		VehicleColor:          p.VehicleColor,
		LicensePlate:          strings.ToUpper(p.LicensePlate),
		VehicleCapacity:       capacity,
		Rating:                5.0,
		AcceptanceRate:        100,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func (d *Driver) touch() {
	d.UpdatedAt = time.Now().UTC()
}

// SubmitDocuments advances a pending driver after the credential upload step.
func (d *Driver) SubmitDocuments() error {
	if d.VerificationStatus != VerificationPending {
		return &TransitionError{Entity: "driver", Operation: "submit documents", Status: string(d.VerificationStatus)}
	}
	d.VerificationStatus = VerificationDocumentsSubmitted
	d.touch()
	return nil
}

// StartReview moves a driver with submitted documents into admin review.
func (d *Driver) StartReview() error {
	if d.VerificationStatus != VerificationDocumentsSubmitted {
		return &TransitionError{Entity: "driver", Operation: "start review", Status: string(d.VerificationStatus)}
	}
	d.VerificationStatus = VerificationUnderReview
	d.touch()
	return nil
}

// Approve marks the driver verified. Fails only on double-approval; it does
// not check that the driver's documents are themselves approved.
func (d *Driver) Approve(adminID string) error {
	if d.VerificationStatus == VerificationApproved {
		return ErrDriverAlreadyApproved
	}
	now := time.Now().UTC()
	d.VerificationStatus = VerificationApproved
	d.VerifiedAt = &now
	d.VerifiedByAdminID = adminID
	d.UpdatedAt = now
	return nil
}

// Reject marks the driver's verification as rejected.
func (d *Driver) Reject(adminID, reason string) {
	d.VerificationStatus = VerificationRejected
	d.VerifiedByAdminID = adminID
	d.RejectionReason = reason
	d.touch()
}

// Suspend revokes an approved driver and forces them offline.
func (d *Driver) Suspend() {
	d.VerificationStatus = VerificationSuspended
	d.IsOnline = false
	d.IsAvailable = false
	d.touch()
}

// GoOnline makes an approved driver online and available.
func (d *Driver) GoOnline() error {
	if d.VerificationStatus != VerificationApproved {
		return ErrDriverNotApproved
	}
	d.IsOnline = true
	d.IsAvailable = true
	d.touch()
	return nil
}

// GoOffline takes the driver offline and unavailable. Unconditional.
func (d *Driver) GoOffline() {
	d.IsOnline = false
	d.IsAvailable = false
	d.touch()
}

// SetBusy marks the driver unavailable, used when a ride is assigned.
func (d *Driver) SetBusy() {
	d.IsAvailable = false
	d.touch()
}

// SetAvailable marks an online driver available again.
func (d *Driver) SetAvailable() error {
	if !d.IsOnline {
		return ErrDriverOffline
	}
	d.IsAvailable = true
	d.touch()
	return nil
}

// UpdateLocation stamps the driver's last known position.
func (d *Driver) UpdateLocation(lat, lng float64) {
	now := time.Now().UTC()
	d.LastLatitude = &lat
	d.LastLongitude = &lng
	d.LastLocationUpdate = &now
}

// AddRating folds a 1-5 star rating into the running average.
func (d *Driver) AddRating(stars int) error {
	if stars < 1 || stars > 5 {
		return ErrInvalidRating
	}
	total := d.Rating*float64(d.TotalRatings) + float64(stars)
	d.TotalRatings++
	d.Rating = total / float64(d.TotalRatings)
	d.touch()
	return nil
}

// IncrementRideCount bumps the completed ride counter.
func (d *Driver) IncrementRideCount() {
	d.TotalRides++
	d.touch()
}
