package notification

import (
	"net/http"
	"time"

	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "notification not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "you do not have permission to access this notification")
)

type Type string

const (
	TypeBookingRequested Type = "booking_requested"
	TypeBookingConfirmed Type = "booking_confirmed"
	TypeBookingCompleted Type = "booking_completed"
	TypeBookingCancelled Type = "booking_cancelled"
	TypePaymentSuccess   Type = "payment_success"
	TypeMatchInvitation  Type = "match_invitation"
	TypeMatchCancelled   Type = "match_cancelled"
	TypeReviewReceived   Type = "review_received"
)

// Notification is an in-app message for a single user. Data carries the
// related entity IDs so the client can deep-link.
type Notification struct {
	ID     string
	UserID string

	Type    Type
	Title   string
	Message string

	Data      map[string]string
	ActionURL *string

	Read   bool
	ReadAt *time.Time

	CreatedAt time.Time
}

// Filter defines parameters for listing notifications.
type Filter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	PageSize   int
}
