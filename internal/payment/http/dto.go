package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/payment"
)

type PaymentResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`

	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`

	Status string `json:"status"`

	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	FailureMessage *string         `json:"failure_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		BookingID:      p.BookingID,
		UserID:         p.UserID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Status:         string(p.Status),
		RefundedAmount: p.RefundedAmount,
		FailureMessage: p.FailureMessage,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type CheckoutResponse struct {
	Payment      PaymentResponse `json:"payment"`
	ClientSecret string          `json:"client_secret"`
}

type RefundRequest struct {
	// Amount in major units; omit for a full refund.
	Amount *decimal.Decimal `json:"amount"`
}
