package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/booking"
)

type BookingResponse struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	PitchID string `json:"pitch_id"`

	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	DurationHours float64 `json:"duration_hours"`

	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`

	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`

	Notes           *string `json:"notes,omitempty"`
	NumberOfPlayers *int    `json:"number_of_players,omitempty"`

	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`

	RefundAmount *decimal.Decimal `json:"refund_amount,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		PitchID:            b.PitchID,
		Date:               b.Date.Format("2006-01-02"),
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		DurationHours:      b.DurationHours,
		TotalAmount:        b.TotalAmount,
		Currency:           b.Currency,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		Notes:              b.Notes,
		NumberOfPlayers:    b.NumberOfPlayers,
		CancelledAt:        b.CancelledAt,
		CancellationReason: b.CancellationReason,
		RefundAmount:       b.RefundAmount,
		ConfirmedAt:        b.ConfirmedAt,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

type CreateBookingRequest struct {
	PitchID         string  `json:"pitch_id" binding:"required,uuid"`
	Date            string  `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime       string  `json:"start_time" binding:"required"`
	EndTime         string  `json:"end_time" binding:"required"`
	Notes           *string `json:"notes"`
	NumberOfPlayers *int    `json:"number_of_players"`
}

type UpdateBookingRequest struct {
	Notes           *string `json:"notes"`
	NumberOfPlayers *int    `json:"number_of_players"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type ListBookingsRequest struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	PitchID       string `form:"pitch_id"`
	FromDate      string `form:"from_date"`
	ToDate        string `form:"to_date"`
	Page          int    `form:"page,default=1"`
	PageSize      int    `form:"page_size,default=20"`
}

type AvailabilityRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

type SlotResponse struct {
	StartTime string          `json:"start_time"`
	EndTime   string          `json:"end_time"`
	Available bool            `json:"available"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
}

type AvailabilityResponse struct {
	PitchID string         `json:"pitch_id"`
	Date    string         `json:"date"`
	Slots   []SlotResponse `json:"slots"`
}
