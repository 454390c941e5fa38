package review

import (
	"net/http"
	"time"

	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "review not found")
	ErrAlreadyReviewed  = apperror.New(http.StatusConflict, "you already reviewed this pitch")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "you do not have permission to modify this review")
	ErrNotPitchOwner    = apperror.New(http.StatusForbidden, "only the pitch owner can respond to reviews")
	ErrInvalidRating    = apperror.New(http.StatusBadRequest, "rating must be between 1 and 5")
	ErrEmptyComment     = apperror.New(http.StatusBadRequest, "comment cannot be empty")
)

// Review is a player's rating of a pitch. Verified reviews are backed by a
// completed booking of the reviewer on that pitch.
type Review struct {
	ID        string
	UserID    string
	PitchID   string
	BookingID *string

	Rating  int // 1..5 overall
	Comment string

	// Optional sub-ratings, 1..5 when set.
	RatingSurface    *int
	RatingFacilities *int
	RatingLocation   *int
	RatingValue      *int

	Verified bool

	OwnerResponse    *string
	OwnerRespondedAt *time.Time

	HelpfulCount int
	Flagged      bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Filter defines parameters for listing reviews.
type Filter struct {
	PitchID  string
	UserID   string
	Verified *bool
	Flagged  *bool
	Page     int
	PageSize int
}
