package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
	"github.com/phoenixvc/chaufher/internal/service"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"transition error", &domain.TransitionError{Entity: "ride", Operation: "start", Status: "SCHEDULED"}, http.StatusConflict},
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"ride has no payment", service.ErrRideHasNoPayment, http.StatusNotFound},
		{"invalid rider id", service.ErrInvalidRiderID, http.StatusBadRequest},
		{"pickup too soon", domain.ErrPickupTooSoon, http.StatusBadRequest},
		{"window order", domain.ErrWindowOrder, http.StatusBadRequest},
		{"invalid rating", domain.ErrInvalidRating, http.StatusBadRequest},
		{"duplicate", repository.ErrDuplicate, http.StatusConflict},
		{"version conflict", repository.ErrVersionConflict, http.StatusConflict},
		{"ride locked", service.ErrRideLocked, http.StatusConflict},
		{"driver outside window", service.ErrDriverOutsideWindow, http.StatusConflict},
		{"already rated", domain.ErrRideAlreadyRated, http.StatusConflict},
		{"not refundable", domain.ErrPaymentNotRefundable, http.StatusConflict},
		{"wrong driver", service.ErrDriverNotAssignedToRide, http.StatusForbidden},
		{"no driver available", service.ErrNoDriverAvailable, http.StatusServiceUnavailable},
		{"ride numbers exhausted", service.ErrRideNumberExhausted, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mapErrorToHTTPStatus(tc.err); got != tc.want {
				t.Errorf("mapErrorToHTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
