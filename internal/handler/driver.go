package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
	searchService *service.DriverSearchService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService, searchService *service.DriverSearchService) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		searchService: searchService,
	}
}

// RegisterDriverRequest is the HTTP request body for registering a driver.
type RegisterDriverRequest struct {
	UserID          string `json:"user_id"`
	VehicleMake     string `json:"vehicle_make"`
	VehicleModel    string `json:"vehicle_model"`
	VehicleYear     int    `json:"vehicle_year"`
	VehicleColor    string `json:"vehicle_color"`
	LicensePlate    string `json:"license_plate"`
	VehicleCapacity int    `json:"vehicle_capacity,omitempty"`
}

// ReviewRequest is the HTTP request body for verification review actions.
type ReviewRequest struct {
	AdminID string `json:"admin_id"`
	Reason  string `json:"reason,omitempty"`
}

// LocationUpdateRequest is the HTTP request body for a position report.
type LocationUpdateRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// WindowRequest is the HTTP request body for availability windows.
type WindowRequest struct {
	Day      int    `json:"day_of_week"` // 0 = Sunday
	Start    string `json:"start"`       // "08:00"
	End      string `json:"end"`         // "17:30"
	IsActive *bool  `json:"is_active,omitempty"`
}

// DriverResponse is the HTTP representation of a driver.
type DriverResponse struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"user_id"`
	VerificationStatus    string     `json:"verification_status"`
	BackgroundCheckStatus string     `json:"background_check_status"`
	VerifiedAt            *time.Time `json:"verified_at,omitempty"`
	RejectionReason       string     `json:"rejection_reason,omitempty"`
	VehicleMake           string     `json:"vehicle_make"`
	VehicleModel          string     `json:"vehicle_model"`
	VehicleYear           int        `json:"vehicle_year"`
	VehicleColor          string     `json:"vehicle_color"`
	LicensePlate          string     `json:"license_plate"`
	VehicleCapacity       int        `json:"vehicle_capacity"`
	Rating                float64    `json:"rating"`
	TotalRides            int        `json:"total_rides"`
	TotalRatings          int        `json:"total_ratings"`
	IsOnline              bool       `json:"is_online"`
	IsAvailable           bool       `json:"is_available"`
}

func driverResponse(d *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:                    d.ID,
		UserID:                d.UserID,
		VerificationStatus:    string(d.VerificationStatus),
		BackgroundCheckStatus: string(d.BackgroundCheckStatus),
		VerifiedAt:            d.VerifiedAt,
		RejectionReason:       d.RejectionReason,
		VehicleMake:           d.VehicleMake,
		VehicleModel:          d.VehicleModel,
		VehicleYear:           d.VehicleYear,
		VehicleColor:          d.VehicleColor,
		LicensePlate:          d.LicensePlate,
		VehicleCapacity:       d.VehicleCapacity,
		Rating:                d.Rating,
		TotalRides:            d.TotalRides,
		TotalRatings:          d.TotalRatings,
		IsOnline:              d.IsOnline,
		IsAvailable:           d.IsAvailable,
	}
}

// WindowResponse is the HTTP representation of an availability window.
type WindowResponse struct {
	ID       string `json:"id"`
	DriverID string `json:"driver_id"`
	Day      int    `json:"day_of_week"`
	Start    string `json:"start"`
	End      string `json:"end"`
	IsActive bool   `json:"is_active"`
}

func windowResponse(w *domain.AvailabilityWindow) WindowResponse {
	return WindowResponse{
		ID:       w.ID,
		DriverID: w.DriverID,
		Day:      int(w.Day),
		Start:    w.Start.String(),
		End:      w.End.String(),
		IsActive: w.IsActive,
	}
}

// RegisterDriver handles POST /v1/drivers
func (h *DriverHandler) RegisterDriver(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Register(c.Request.Context(), domain.DriverParams{
		UserID:          req.UserID,
		VehicleMake:     req.VehicleMake,
		VehicleModel:    req.VehicleModel,
		VehicleYear:     req.VehicleYear,
		VehicleColor:    req.VehicleColor,
		LicensePlate:    req.LicensePlate,
		VehicleCapacity: req.VehicleCapacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, driverResponse(driver))
}

// GetDriver handles GET /v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, driverResponse(driver))
}

// SubmitDocuments handles POST /v1/drivers/:id/submit-documents
func (h *DriverHandler) SubmitDocuments(c *gin.Context) {
	h.simpleAction(c, h.driverService.SubmitDocuments)
}

// StartReview handles POST /v1/drivers/:id/start-review
func (h *DriverHandler) StartReview(c *gin.Context) {
	h.simpleAction(c, h.driverService.StartReview)
}

// ApproveDriver handles POST /v1/drivers/:id/approve
func (h *DriverHandler) ApproveDriver(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Approve(c.Request.Context(), c.Param("id"), req.AdminID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, driverResponse(driver))
}

// RejectDriver handles POST /v1/drivers/:id/reject
func (h *DriverHandler) RejectDriver(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Reject(c.Request.Context(), c.Param("id"), req.AdminID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, driverResponse(driver))
}

// SuspendDriver handles POST /v1/drivers/:id/suspend
func (h *DriverHandler) SuspendDriver(c *gin.Context) {
	h.simpleAction(c, h.driverService.Suspend)
}

// GoOnline handles POST /v1/drivers/:id/online
func (h *DriverHandler) GoOnline(c *gin.Context) {
	h.simpleAction(c, h.driverService.GoOnline)
}

// GoOffline handles POST /v1/drivers/:id/offline
func (h *DriverHandler) GoOffline(c *gin.Context) {
	h.simpleAction(c, h.driverService.GoOffline)
}

// SetAvailable handles POST /v1/drivers/:id/available
func (h *DriverHandler) SetAvailable(c *gin.Context) {
	h.simpleAction(c, h.driverService.SetAvailable)
}

// UpdateLocation handles PUT /v1/drivers/:id/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.UpdateLocation(c.Request.Context(), c.Param("id"), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PendingReview handles GET /v1/drivers/pending-review
func (h *DriverHandler) PendingReview(c *gin.Context) {
	drivers, err := h.driverService.PendingReviewQueue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, driverResponse(d))
	}
	respondJSON(c, http.StatusOK, response)
}

// AddWindow handles POST /v1/drivers/:id/windows
func (h *DriverHandler) AddWindow(c *gin.Context) {
	var req WindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	start, err := domain.ParseTimeOfDay(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	end, err := domain.ParseTimeOfDay(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	window, err := h.driverService.AddWindow(c.Request.Context(), c.Param("id"), time.Weekday(req.Day), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, windowResponse(window))
}

// UpdateWindow handles PUT /v1/windows/:id
func (h *DriverHandler) UpdateWindow(c *gin.Context) {
	var req WindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	start, err := domain.ParseTimeOfDay(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	end, err := domain.ParseTimeOfDay(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	window, err := h.driverService.UpdateWindow(c.Request.Context(), c.Param("id"), start, end, active)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, windowResponse(window))
}

// ListWindows handles GET /v1/drivers/:id/windows
func (h *DriverHandler) ListWindows(c *gin.Context) {
	windows, err := h.driverService.ListWindows(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]WindowResponse, 0, len(windows))
	for _, w := range windows {
		response = append(response, windowResponse(w))
	}
	respondJSON(c, http.StatusOK, response)
}

// DeleteWindow handles DELETE /v1/windows/:id
func (h *DriverHandler) DeleteWindow(c *gin.Context) {
	if err := h.driverService.DeleteWindow(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchResponse is one search result entry.
type SearchResponse struct {
	Driver     DriverResponse `json:"driver"`
	DistanceKm *float64       `json:"distance_km,omitempty"`
}

// SearchDrivers handles GET /v1/drivers/search?pickup_time=&lat=&lng=&passengers=
func (h *DriverHandler) SearchDrivers(c *gin.Context) {
	pickupTime, err := time.Parse(time.RFC3339, c.Query("pickup_time"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pickup_time"})
		return
	}

	req := service.SearchRequest{PickupTime: pickupTime}
	// Coordinates are optional; without them results rank by rating.
	if lat, err := strconv.ParseFloat(c.Query("lat"), 64); err == nil {
		req.PickupLat = lat
	}
	if lng, err := strconv.ParseFloat(c.Query("lng"), 64); err == nil {
		req.PickupLng = lng
	}
	if n, err := strconv.Atoi(c.Query("passengers")); err == nil {
		req.PassengerCount = n
	}

	candidates, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]SearchResponse, 0, len(candidates))
	for _, cand := range candidates {
		response = append(response, SearchResponse{
			Driver:     driverResponse(cand.Driver),
			DistanceKm: cand.DistanceKm,
		})
	}
	respondJSON(c, http.StatusOK, response)
}

func (h *DriverHandler) simpleAction(c *gin.Context, op func(ctx context.Context, driverID string) (*domain.Driver, error)) {
	driver, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, driverResponse(driver))
}
