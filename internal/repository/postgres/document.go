package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// DocumentRepository is a PostgreSQL implementation of repository.DocumentRepository.
// Documents cascade-delete with their driver.
type DocumentRepository struct {
	q Querier
}

// NewDocumentRepository creates a new PostgreSQL document repository.
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{q: db}
}

const documentColumns = `
	id, driver_id, doc_type, file_url, file_name, expiry_date,
	status, rejection_reason, reviewed_by_admin_id, reviewed_at,
	created_at, updated_at`

// Create persists a new document.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.DriverDocument) error {
	query := `
		INSERT INTO driver_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.q.ExecContext(ctx, query,
		doc.ID,
		doc.DriverID,
		doc.Type,
		doc.FileURL,
		doc.FileName,
		doc.ExpiryDate,
		doc.Status,
		nullString(doc.RejectionReason),
		nullString(doc.ReviewedByAdminID),
		nullTimePtr(doc.ReviewedAt),
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID retrieves a document by ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.DriverDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM driver_documents WHERE id = $1`
	return r.scanDocument(r.q.QueryRowContext(ctx, query, id))
}

// ListByDriver retrieves all documents for a driver.
func (r *DocumentRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.DriverDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM driver_documents
		WHERE driver_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListExpiring retrieves pending or approved documents expiring before the cutoff.
func (r *DocumentRepository) ListExpiring(ctx context.Context, cutoff time.Time) ([]*domain.DriverDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM driver_documents
		WHERE status IN ($1, $2) AND expiry_date < $3 ORDER BY expiry_date`

	rows, err := r.q.QueryContext(ctx, query, domain.DocumentPending, domain.DocumentApproved, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

// Update persists the full document state.
func (r *DocumentRepository) Update(ctx context.Context, doc *domain.DriverDocument) error {
	query := `
		UPDATE driver_documents
		SET status = $1, rejection_reason = $2, reviewed_by_admin_id = $3,
		    reviewed_at = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.q.ExecContext(ctx, query,
		doc.Status,
		nullString(doc.RejectionReason),
		nullString(doc.ReviewedByAdminID),
		nullTimePtr(doc.ReviewedAt),
		doc.UpdatedAt,
		doc.ID,
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

func (r *DocumentRepository) collect(rows *sql.Rows) ([]*domain.DriverDocument, error) {
	var docs []*domain.DriverDocument
	for rows.Next() {
		doc, err := r.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) scanDocument(row rowScanner) (*domain.DriverDocument, error) {
	var (
		doc          domain.DriverDocument
		rejectReason sql.NullString
		reviewedBy   sql.NullString
		reviewedAt   sql.NullTime
	)

	err := row.Scan(
		&doc.ID,
		&doc.DriverID,
		&doc.Type,
		&doc.FileURL,
		&doc.FileName,
		&doc.ExpiryDate,
		&doc.Status,
		&rejectReason,
		&reviewedBy,
		&reviewedAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	doc.RejectionReason = rejectReason.String
	doc.ReviewedByAdminID = reviewedBy.String
	doc.ReviewedAt = timePtr(reviewedAt)

	return &doc, nil
}
