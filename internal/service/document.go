package service

import (
	"context"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// DocumentService handles driver credential uploads and review.
type DocumentService struct {
	documentRepo repository.DocumentRepository
	driverRepo   repository.DriverRepository
	notifier     *NotificationService
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	documentRepo repository.DocumentRepository,
	driverRepo repository.DriverRepository,
	notifier *NotificationService,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		driverRepo:   driverRepo,
		notifier:     notifier,
	}
}

// UploadRequest contains the parameters for uploading a document.
type UploadRequest struct {
	DriverID   string
	Type       domain.DocumentType
	FileURL    string
	FileName   string
	ExpiryDate time.Time
}

// Upload stores a new PENDING document for a driver.
func (s *DocumentService) Upload(ctx context.Context, req UploadRequest) (*domain.DriverDocument, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if _, err := s.driverRepo.GetByID(ctx, req.DriverID); err != nil {
		return nil, err
	}

	doc := domain.NewDriverDocument(req.DriverID, req.Type, req.FileURL, req.FileName, req.ExpiryDate)
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByID retrieves a document by ID.
func (s *DocumentService) GetByID(ctx context.Context, documentID string) (*domain.DriverDocument, error) {
	if documentID == "" {
		return nil, ErrInvalidDocumentID
	}
	return s.documentRepo.GetByID(ctx, documentID)
}

// ListByDriver retrieves all documents for a driver.
func (s *DocumentService) ListByDriver(ctx context.Context, driverID string) ([]*domain.DriverDocument, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.documentRepo.ListByDriver(ctx, driverID)
}

// Approve marks a pending document approved.
func (s *DocumentService) Approve(ctx context.Context, documentID, adminID string) (*domain.DriverDocument, error) {
	return s.review(ctx, documentID, func(doc *domain.DriverDocument) error {
		return doc.Approve(adminID)
	})
}

// Reject marks a pending document rejected with a reason.
func (s *DocumentService) Reject(ctx context.Context, documentID, adminID, reason string) (*domain.DriverDocument, error) {
	return s.review(ctx, documentID, func(doc *domain.DriverDocument) error {
		return doc.Reject(adminID, reason)
	})
}

// ListExpiring retrieves live documents expiring within the soon window.
func (s *DocumentService) ListExpiring(ctx context.Context) ([]*domain.DriverDocument, error) {
	cutoff := time.Now().UTC().Add(domain.ExpiringSoonWindow)
	return s.documentRepo.ListExpiring(ctx, cutoff)
}

// ExpireLapsed transitions every live document whose expiry date has passed
// to EXPIRED and notifies the driver. Returns the number expired. Invoked by
// the periodic sweep.
func (s *DocumentService) ExpireLapsed(ctx context.Context, now time.Time) (int, error) {
	docs, err := s.documentRepo.ListExpiring(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, doc := range docs {
		if !doc.IsExpired(now) {
			continue
		}
		if err := doc.MarkExpired(); err != nil {
			continue
		}
		if err := s.documentRepo.Update(ctx, doc); err != nil {
			return expired, err
		}
		expired++
		if s.notifier != nil {
			_ = s.notifier.NotifyDocumentExpired(ctx, doc)
		}
	}
	return expired, nil
}

func (s *DocumentService) review(ctx context.Context, documentID string, op func(*domain.DriverDocument) error) (*domain.DriverDocument, error) {
	if documentID == "" {
		return nil, ErrInvalidDocumentID
	}

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := op(doc); err != nil {
		return nil, err
	}
	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
