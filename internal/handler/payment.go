package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ProcessorCallbackRequest is the HTTP request body for processor outcomes.
type ProcessorCallbackRequest struct {
	IntentID string `json:"intent_id,omitempty"`
	ChargeID string `json:"charge_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID                string     `json:"id"`
	RideID            string     `json:"ride_id"`
	AmountCents       int64      `json:"amount_cents"`
	PlatformFeeCents  int64      `json:"platform_fee_cents"`
	DriverPayoutCents int64      `json:"driver_payout_cents"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	Method            string     `json:"method"`
	ProcessorIntentID string     `json:"processor_intent_id,omitempty"`
	ProcessorChargeID string     `json:"processor_charge_id,omitempty"`
	FailureReason     string     `json:"failure_reason,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty"`
}

func paymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		RideID:            p.RideID,
		AmountCents:       p.Amount.Cents,
		PlatformFeeCents:  p.PlatformFee.Cents,
		DriverPayoutCents: p.DriverPayout.Cents,
		Currency:          p.Amount.Currency,
		Status:            string(p.Status),
		Method:            string(p.Method),
		ProcessorIntentID: p.ProcessorIntentID,
		ProcessorChargeID: p.ProcessorChargeID,
		FailureReason:     p.FailureReason,
		PaidAt:            p.PaidAt,
		RefundedAt:        p.RefundedAt,
	}
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, paymentResponse(payment))
}

// GetRidePayment handles GET /v1/rides/:id/payment
func (h *PaymentHandler) GetRidePayment(c *gin.Context) {
	payment, err := h.paymentService.GetByRideID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, paymentResponse(payment))
}

// MarkProcessing handles POST /v1/payments/:id/processing
func (h *PaymentHandler) MarkProcessing(c *gin.Context) {
	var req ProcessorCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.MarkProcessing(c.Request.Context(), c.Param("id"), req.IntentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, paymentResponse(payment))
}

// MarkSucceeded handles POST /v1/payments/:id/succeeded
func (h *PaymentHandler) MarkSucceeded(c *gin.Context) {
	var req ProcessorCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.MarkSucceeded(c.Request.Context(), c.Param("id"), req.ChargeID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, paymentResponse(payment))
}

// MarkFailed handles POST /v1/payments/:id/failed
func (h *PaymentHandler) MarkFailed(c *gin.Context) {
	var req ProcessorCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.MarkFailed(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, paymentResponse(payment))
}

// RefundPayment handles POST /v1/payments/:id/refund
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	payment, err := h.paymentService.Refund(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, paymentResponse(payment))
}

// PayoutsResponse is the HTTP response for a driver payout listing.
type PayoutsResponse struct {
	Payments         []PaymentResponse `json:"payments"`
	TotalPayoutCents int64             `json:"total_payout_cents"`
	Currency         string            `json:"currency"`
}

// DriverPayouts handles GET /v1/drivers/:id/payouts?from=&to=
func (h *PaymentHandler) DriverPayouts(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from timestamp"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to timestamp"})
		return
	}

	payments, total, err := h.paymentService.DriverPayouts(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	response := PayoutsResponse{
		Payments:         make([]PaymentResponse, 0, len(payments)),
		TotalPayoutCents: total.Cents,
		Currency:         total.Currency,
	}
	for _, p := range payments {
		response.Payments = append(response.Payments, paymentResponse(p))
	}
	respondJSON(c, http.StatusOK, response)
}
