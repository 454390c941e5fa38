package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/auth"
	"github.com/goalline/pitch-booking-backend/internal/booking"
	"github.com/goalline/pitch-booking-backend/internal/payment"
	"github.com/goalline/pitch-booking-backend/internal/pkg/response"
	"github.com/goalline/pitch-booking-backend/internal/user"
)

// Stripe caps webhook payloads well below this.
const maxWebhookBody = 1 << 16

type Handler struct {
	service payment.Service
}

func NewHandler(service payment.Service) *Handler {
	return &Handler{service: service}
}

func actorFrom(c *gin.Context) booking.Actor {
	return booking.Actor{
		ID:   auth.GetUserID(c),
		Role: user.Role(auth.GetUserRole(c)),
	}
}

// CreateIntent opens a payment intent for a booking and hands the client
// secret back to the frontend.
func (h *Handler) CreateIntent(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	session, err := h.service.CreateIntent(c.Request.Context(), bookingID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, CheckoutResponse{
		Payment:      NewPaymentResponse(session.Payment),
		ClientSecret: session.ClientSecret,
	})
}

func (h *Handler) Get(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	p, err := h.service.GetByBookingID(c.Request.Context(), bookingID, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaymentResponse(p))
}

func (h *Handler) Confirm(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	p, err := h.service.ConfirmPayment(c.Request.Context(), bookingID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaymentResponse(p))
}

func (h *Handler) Refund(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body RefundRequest
	if err := c.ShouldBindJSON(&body); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	amount := decimal.Zero
	if body.Amount != nil {
		amount = *body.Amount
	}

	p, err := h.service.Refund(c.Request.Context(), bookingID, actorFrom(c), amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaymentResponse(p))
}

// Webhook receives provider callbacks. The signature check inside the
// service is the only authentication.
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read payload"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.service.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		// Webhook errors surface as 400 so the provider retries.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}
