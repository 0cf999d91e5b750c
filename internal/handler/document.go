package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/service"
)

// DocumentHandler handles HTTP requests for driver documents.
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// UploadDocumentRequest is the HTTP request body for uploading a document.
type UploadDocumentRequest struct {
	DriverID   string    `json:"driver_id"`
	Type       string    `json:"type"`
	FileURL    string    `json:"file_url"`
	FileName   string    `json:"file_name"`
	ExpiryDate time.Time `json:"expiry_date"`
}

// ReviewDocumentRequest is the HTTP request body for document review actions.
type ReviewDocumentRequest struct {
	AdminID string `json:"admin_id"`
	Reason  string `json:"reason,omitempty"`
}

// DocumentResponse is the HTTP representation of a document.
type DocumentResponse struct {
	ID                string     `json:"id"`
	DriverID          string     `json:"driver_id"`
	Type              string     `json:"type"`
	FileURL           string     `json:"file_url"`
	FileName          string     `json:"file_name"`
	ExpiryDate        time.Time  `json:"expiry_date"`
	Status            string     `json:"status"`
	RejectionReason   string     `json:"rejection_reason,omitempty"`
	ReviewedByAdminID string     `json:"reviewed_by_admin_id,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
}

func documentResponse(d *domain.DriverDocument) DocumentResponse {
	return DocumentResponse{
		ID:                d.ID,
		DriverID:          d.DriverID,
		Type:              string(d.Type),
		FileURL:           d.FileURL,
		FileName:          d.FileName,
		ExpiryDate:        d.ExpiryDate,
		Status:            string(d.Status),
		RejectionReason:   d.RejectionReason,
		ReviewedByAdminID: d.ReviewedByAdminID,
		ReviewedAt:        d.ReviewedAt,
	}
}

func documentListResponse(docs []*domain.DriverDocument) []DocumentResponse {
	response := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		response = append(response, documentResponse(d))
	}
	return response
}

// UploadDocument handles POST /v1/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	var req UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	doc, err := h.documentService.Upload(c.Request.Context(), service.UploadRequest{
		DriverID:   req.DriverID,
		Type:       domain.DocumentType(req.Type),
		FileURL:    req.FileURL,
		FileName:   req.FileName,
		ExpiryDate: req.ExpiryDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, documentResponse(doc))
}

// GetDocument handles GET /v1/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.documentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, documentResponse(doc))
}

// ListByDriver handles GET /v1/drivers/:id/documents
func (h *DocumentHandler) ListByDriver(c *gin.Context) {
	docs, err := h.documentService.ListByDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, documentListResponse(docs))
}

// ApproveDocument handles POST /v1/documents/:id/approve
func (h *DocumentHandler) ApproveDocument(c *gin.Context) {
	var req ReviewDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	doc, err := h.documentService.Approve(c.Request.Context(), c.Param("id"), req.AdminID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, documentResponse(doc))
}

// RejectDocument handles POST /v1/documents/:id/reject
func (h *DocumentHandler) RejectDocument(c *gin.Context) {
	var req ReviewDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	doc, err := h.documentService.Reject(c.Request.Context(), c.Param("id"), req.AdminID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, documentResponse(doc))
}

// ListExpiring handles GET /v1/documents/expiring
func (h *DocumentHandler) ListExpiring(c *gin.Context) {
	docs, err := h.documentService.ListExpiring(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, documentListResponse(docs))
}
