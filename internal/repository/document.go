package repository

import (
	"context"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
)

// DocumentRepository defines the persistence operations for driver documents.
type DocumentRepository interface {
	// Create persists a new document.
	Create(ctx context.Context, doc *domain.DriverDocument) error

	// GetByID retrieves a document by ID.
	GetByID(ctx context.Context, id string) (*domain.DriverDocument, error)

	// ListByDriver retrieves all documents for a driver.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.DriverDocument, error)

	// ListExpiring retrieves pending or approved documents whose expiry
	// date falls before the cutoff.
	ListExpiring(ctx context.Context, cutoff time.Time) ([]*domain.DriverDocument, error)

	// Update persists the full document state.
	Update(ctx context.Context, doc *domain.DriverDocument) error
}
