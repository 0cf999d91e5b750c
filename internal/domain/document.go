package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType identifies the kind of uploaded driver credential.
type DocumentType string

const (
	DocumentDriversLicense      DocumentType = "DRIVERS_LICENSE"
	DocumentVehicleRegistration DocumentType = "VEHICLE_REGISTRATION"
	DocumentInsurance           DocumentType = "INSURANCE"
	DocumentBackgroundCheck     DocumentType = "BACKGROUND_CHECK"
	DocumentProfilePhoto        DocumentType = "PROFILE_PHOTO"
	DocumentVehiclePhoto        DocumentType = "VEHICLE_PHOTO"
)

// DocumentStatus represents the review state of a driver document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
	DocumentExpired  DocumentStatus = "EXPIRED"
)

// ExpiringSoonWindow is how far ahead a document counts as expiring soon.
const ExpiringSoonWindow = 30 * 24 * time.Hour

// DriverDocument is one uploaded credential tied to a driver.
type DriverDocument struct {
	ID       string
	DriverID string
	Type     DocumentType
	FileURL  string
	FileName string

	ExpiryDate time.Time

	Status            DocumentStatus
	RejectionReason   string
	ReviewedByAdminID string
	ReviewedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDriverDocument creates a document in PENDING status.
func NewDriverDocument(driverID string, docType DocumentType, fileURL, fileName string, expiry time.Time) *DriverDocument {
	now := time.Now().UTC()
	return &DriverDocument{
		ID:         uuid.New().String(),
		DriverID:   driverID,
		Type:       docType,
		FileURL:    fileURL,
		FileName:   fileName,
		ExpiryDate: expiry,
		Status:     DocumentPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Approve marks a pending document approved. Documents are reviewed exactly once.
func (d *DriverDocument) Approve(adminID string) error {
	if d.Status != DocumentPending {
		return &TransitionError{Entity: "document", Operation: "approve", Status: string(d.Status)}
	}
	now := time.Now().UTC()
	d.Status = DocumentApproved
	d.ReviewedByAdminID = adminID
	d.ReviewedAt = &now
	d.UpdatedAt = now
	return nil
}

// Reject marks a pending document rejected with a reason.
func (d *DriverDocument) Reject(adminID, reason string) error {
	if d.Status != DocumentPending {
		return &TransitionError{Entity: "document", Operation: "reject", Status: string(d.Status)}
	}
	now := time.Now().UTC()
	d.Status = DocumentRejected
	d.RejectionReason = reason
	d.ReviewedByAdminID = adminID
	d.ReviewedAt = &now
	d.UpdatedAt = now
	return nil
}

// MarkExpired retires a document whose expiry date has passed. Invoked by the
// periodic expiry sweep, not by review actions.
func (d *DriverDocument) MarkExpired() error {
	if d.Status != DocumentPending && d.Status != DocumentApproved {
		return &TransitionError{Entity: "document", Operation: "expire", Status: string(d.Status)}
	}
	d.Status = DocumentExpired
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// IsExpired reports whether the expiry date has passed at the given instant.
// Derived, not stored.
func (d *DriverDocument) IsExpired(now time.Time) bool {
	return d.ExpiryDate.Before(now)
}

// IsExpiringSoon reports whether the document expires within the next 30 days.
func (d *DriverDocument) IsExpiringSoon(now time.Time) bool {
	return d.ExpiryDate.Before(now.Add(ExpiringSoonWindow))
}
