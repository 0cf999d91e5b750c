package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
	"github.com/phoenixvc/chaufher/internal/service"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps domain, service and repository errors to HTTP
// status codes. This is the only place the mapping lives.
func mapErrorToHTTPStatus(err error) int {
	// Illegal lifecycle transitions conflict with current entity state.
	if domain.IsTransitionError(err) {
		return http.StatusConflict
	}

	switch {
	// Not found
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrRideHasNoPayment):
		return http.StatusNotFound

	// Invalid arguments - Bad Request
	case errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidDocumentID),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropoffLocation),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrPickupTooSoon),
		errors.Is(err, domain.ErrPickupTooFar),
		errors.Is(err, domain.ErrWindowOrder),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMissingChargeReference):
		return http.StatusBadRequest

	// Preconditions, uniqueness and write races - Conflict
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, repository.ErrVersionConflict),
		errors.Is(err, service.ErrRideLocked),
		errors.Is(err, service.ErrDriverNotAvailable),
		errors.Is(err, service.ErrDriverOutsideWindow),
		errors.Is(err, domain.ErrDriverNotApproved),
		errors.Is(err, domain.ErrDriverOffline),
		errors.Is(err, domain.ErrDriverAlreadyApproved),
		errors.Is(err, domain.ErrRideAlreadyRated),
		errors.Is(err, domain.ErrPaymentNotRefundable):
		return http.StatusConflict

	// Acting party is not allowed on this entity
	case errors.Is(err, service.ErrDriverNotAssignedToRide):
		return http.StatusForbidden

	// No capacity
	case errors.Is(err, service.ErrNoDriverAvailable),
		errors.Is(err, service.ErrRideNumberExhausted):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
