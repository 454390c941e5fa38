package payment

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "payment not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "you do not have permission to access this payment")
	ErrAlreadyPaid      = apperror.New(http.StatusBadRequest, "booking is already paid")
	ErrNotSucceeded     = apperror.New(http.StatusBadRequest, "payment has not succeeded yet")
	ErrNotRefundable    = apperror.New(http.StatusBadRequest, "only succeeded payments can be refunded")
	ErrRefundTooLarge   = apperror.New(http.StatusBadRequest, "refund exceeds the remaining paid amount")
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusSucceeded         Status = "succeeded"
	StatusFailed            Status = "failed"
	StatusPartiallyRefunded Status = "partially_refunded"
	StatusRefunded          Status = "refunded"
)

// Payment tracks the money side of a single booking. Amount is copied from
// the booking at intent time; RefundedAmount accumulates across refunds and
// never exceeds Amount.
type Payment struct {
	ID        string
	BookingID string
	UserID    string

	Amount   decimal.Decimal
	Currency string

	Status Status

	ProviderIntentID string
	RefundedAmount   decimal.Decimal
	LastRefundID     *string

	FailureMessage *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining is the paid amount not yet refunded.
func (p *Payment) Remaining() decimal.Decimal {
	return p.Amount.Sub(p.RefundedAmount)
}
