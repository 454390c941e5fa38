package booking

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrPitchNotFound    = apperror.New(http.StatusNotFound, "pitch not found")
	ErrSlotConflict     = apperror.New(http.StatusConflict, "this time slot is already booked")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "you do not have permission to access this booking")
	ErrInvalidState     = apperror.New(http.StatusBadRequest, "booking is not in a valid state for this operation")
	ErrAlreadyCancelled = apperror.New(http.StatusBadRequest, "booking is already cancelled")
	ErrCompletedBooking = apperror.New(http.StatusBadRequest, "completed bookings cannot be cancelled")
	ErrCancelTooLate    = apperror.New(http.StatusBadRequest, "cancellation notice period has passed")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	// StatusNoShow is terminal and only ever set externally; no operation
	// here transitions into it, but conflict checks must ignore it.
	StatusNoShow Status = "no_show"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Booking reserves a [StartTime, EndTime) slot on a pitch for a calendar date.
// Start and end are zero-padded 24-hour "HH:mm" strings; the pair never spans
// midnight. User, pitch, date and times are immutable after creation:
// rescheduling is cancel-and-recreate.
type Booking struct {
	ID      string
	UserID  string
	PitchID string

	Date      time.Time // calendar date, midnight UTC
	StartTime string
	EndTime   string

	DurationHours float64
	TotalAmount   decimal.Decimal
	Currency      string // copied from the pitch at creation time

	Status        Status
	PaymentStatus PaymentStatus

	Notes           *string
	NumberOfPlayers *int

	CancelledAt        *time.Time
	CancelledBy        *string
	CancellationReason *string

	PaymentIntentID *string
	RefundID        *string
	RefundAmount    *decimal.Decimal

	ConfirmedAt *time.Time
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID        string
	PitchOwnerID  string
	PitchID       string
	Status        string
	PaymentStatus string
	FromDate      *time.Time
	ToDate        *time.Time
	Page          int
	PageSize      int
}
