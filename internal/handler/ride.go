package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// CreateRideRequest is the HTTP request body for booking a ride.
type CreateRideRequest struct {
	RiderID             string    `json:"rider_id"`
	ScheduledPickupTime time.Time `json:"scheduled_pickup_time"`
	PickupAddress       string    `json:"pickup_address"`
	PickupLat           float64   `json:"pickup_lat"`
	PickupLng           float64   `json:"pickup_lng"`
	DropoffAddress      string    `json:"dropoff_address"`
	DropoffLat          float64   `json:"dropoff_lat"`
	DropoffLng          float64   `json:"dropoff_lng"`
	PassengerCount      int       `json:"passenger_count,omitempty"`
	HasChildren         bool      `json:"has_children,omitempty"`
	SpecialRequirements string    `json:"special_requirements,omitempty"`
	Currency            string    `json:"currency,omitempty"`
}

// AssignDriverRequest is the HTTP request body for assigning a driver.
// An empty driver_id asks the service to pick the best candidate.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id,omitempty"`
}

// StatusUpdateRequest is the HTTP request body for driver-reported progress.
type StatusUpdateRequest struct {
	DriverID string `json:"driver_id"`
}

// CompleteRideRequest is the HTTP request body for completing a ride.
type CompleteRideRequest struct {
	DriverID  string `json:"driver_id"`
	FareCents int64  `json:"fare_cents"`
	Currency  string `json:"currency,omitempty"`
	Method    string `json:"payment_method,omitempty"`
}

// CancelRideRequest is the HTTP request body for cancelling a ride.
type CancelRideRequest struct {
	CancelledBy string `json:"cancelled_by"`
	Reason      string `json:"reason,omitempty"`
}

// RateRideRequest is the HTTP request body for a post-ride rating.
type RateRideRequest struct {
	By       string `json:"by"` // "rider" or "driver"
	DriverID string `json:"driver_id,omitempty"`
	Stars    int    `json:"stars"`
	Feedback string `json:"feedback,omitempty"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID                  string    `json:"id"`
	RideNumber          string    `json:"ride_number"`
	RiderID             string    `json:"rider_id"`
	DriverID            string    `json:"driver_id,omitempty"`
	ScheduledPickupTime time.Time `json:"scheduled_pickup_time"`
	BookingDeadline     time.Time `json:"booking_deadline"`
	PickupAddress       string    `json:"pickup_address"`
	PickupLat           float64   `json:"pickup_lat"`
	PickupLng           float64   `json:"pickup_lng"`
	DropoffAddress      string    `json:"dropoff_address"`
	DropoffLat          float64   `json:"dropoff_lat"`
	DropoffLng          float64   `json:"dropoff_lng"`
	EstimatedDistanceKm float64   `json:"estimated_distance_km"`
	EstimatedDurationM  int       `json:"estimated_duration_minutes"`
	EstimatedFareCents  int64     `json:"estimated_fare_cents"`
	ActualFareCents     *int64    `json:"actual_fare_cents,omitempty"`
	Currency            string    `json:"currency"`
	Status              string    `json:"status"`
	CancellationReason  string    `json:"cancellation_reason,omitempty"`
	CancelledByID       string    `json:"cancelled_by_id,omitempty"`
	PassengerCount      int       `json:"passenger_count"`
	HasChildren         bool      `json:"has_children"`
	SpecialRequirements string    `json:"special_requirements,omitempty"`
	PaymentID           string    `json:"payment_id,omitempty"`
	RiderRating         *int      `json:"rider_rating,omitempty"`
	DriverRating        *int      `json:"driver_rating,omitempty"`
}

func rideResponse(ride *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:                  ride.ID,
		RideNumber:          ride.RideNumber,
		RiderID:             ride.RiderID,
		DriverID:            ride.DriverID,
		ScheduledPickupTime: ride.ScheduledPickupTime,
		BookingDeadline:     ride.BookingDeadline,
		PickupAddress:       ride.PickupAddress,
		PickupLat:           ride.PickupLatitude,
		PickupLng:           ride.PickupLongitude,
		DropoffAddress:      ride.DropoffAddress,
		DropoffLat:          ride.DropoffLatitude,
		DropoffLng:          ride.DropoffLongitude,
		EstimatedDistanceKm: ride.EstimatedDistanceKm,
		EstimatedDurationM:  ride.EstimatedDurationMinutes,
		EstimatedFareCents:  ride.EstimatedFare.Cents,
		Currency:            ride.EstimatedFare.Currency,
		Status:              string(ride.Status),
		CancellationReason:  ride.CancellationReason,
		CancelledByID:       ride.CancelledByID,
		PassengerCount:      ride.PassengerCount,
		HasChildren:         ride.HasChildren,
		SpecialRequirements: ride.SpecialRequirements,
		PaymentID:           ride.PaymentID,
		RiderRating:         ride.RiderRating,
		DriverRating:        ride.DriverRating,
	}
	if ride.ActualFare != nil {
		cents := ride.ActualFare.Cents
		resp.ActualFareCents = &cents
	}
	return resp
}

func rideListResponse(rides []*domain.Ride) []RideResponse {
	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, rideResponse(r))
	}
	return response
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CreateScheduled(c.Request.Context(), service.CreateScheduledRequest{
		RiderID:             req.RiderID,
		ScheduledPickupTime: req.ScheduledPickupTime,
		PickupAddress:       req.PickupAddress,
		PickupLat:           req.PickupLat,
		PickupLng:           req.PickupLng,
		DropoffAddress:      req.DropoffAddress,
		DropoffLat:          req.DropoffLat,
		DropoffLng:          req.DropoffLng,
		PassengerCount:      req.PassengerCount,
		HasChildren:         req.HasChildren,
		SpecialRequirements: req.SpecialRequirements,
		Currency:            req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, rideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// GetRideByNumber handles GET /v1/rides/number/:number
func (h *RideHandler) GetRideByNumber(c *gin.Context) {
	ride, err := h.rideService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// ListByRider handles GET /v1/riders/:id/rides?status=
func (h *RideHandler) ListByRider(c *gin.Context) {
	rides, err := h.rideService.ListByRider(c.Request.Context(), c.Param("id"), domain.RideStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideListResponse(rides))
}

// ListByDriver handles GET /v1/drivers/:id/rides?status=
func (h *RideHandler) ListByDriver(c *gin.Context) {
	rides, err := h.rideService.ListByDriver(c.Request.Context(), c.Param("id"), domain.RideStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideListResponse(rides))
}

// AssignDriver handles POST /v1/rides/:id/assign
func (h *RideHandler) AssignDriver(c *gin.Context) {
	var req AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.AssignDriver(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// NoDriverFound handles POST /v1/rides/:id/no-driver
func (h *RideHandler) NoDriverFound(c *gin.Context) {
	ride, err := h.rideService.MarkNoDriverFound(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// DriverEnRoute handles POST /v1/rides/:id/en-route
func (h *RideHandler) DriverEnRoute(c *gin.Context) {
	h.statusUpdate(c, h.rideService.DriverEnRoute)
}

// DriverArrived handles POST /v1/rides/:id/arrived
func (h *RideHandler) DriverArrived(c *gin.Context) {
	h.statusUpdate(c, h.rideService.DriverArrived)
}

// StartRide handles POST /v1/rides/:id/start
func (h *RideHandler) StartRide(c *gin.Context) {
	h.statusUpdate(c, h.rideService.StartRide)
}

func (h *RideHandler) statusUpdate(c *gin.Context, op func(ctx context.Context, rideID, driverID string) (*domain.Ride, error)) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := op(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	var req CompleteRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Complete(c.Request.Context(), service.CompleteRequest{
		RideID:    c.Param("id"),
		DriverID:  req.DriverID,
		FareCents: req.FareCents,
		Currency:  req.Currency,
		Method:    domain.PaymentMethod(req.Method),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	var req CancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Cancel(c.Request.Context(), c.Param("id"), req.CancelledBy, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// RateRide handles POST /v1/rides/:id/rate
func (h *RideHandler) RateRide(c *gin.Context) {
	var req RateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var (
		ride *domain.Ride
		err  error
	)
	switch req.By {
	case "driver":
		ride, err = h.rideService.SubmitDriverRating(c.Request.Context(), c.Param("id"), req.DriverID, req.Stars, req.Feedback)
	default:
		ride, err = h.rideService.SubmitRiderRating(c.Request.Context(), c.Param("id"), req.Stars, req.Feedback)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}
