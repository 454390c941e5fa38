package http

import (
	"time"

	"github.com/goalline/pitch-booking-backend/internal/review"
)

type ReviewResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	PitchID   string  `json:"pitch_id"`
	BookingID *string `json:"booking_id,omitempty"`

	Rating  int    `json:"rating"`
	Comment string `json:"comment"`

	RatingSurface    *int `json:"rating_surface,omitempty"`
	RatingFacilities *int `json:"rating_facilities,omitempty"`
	RatingLocation   *int `json:"rating_location,omitempty"`
	RatingValue      *int `json:"rating_value,omitempty"`

	Verified bool `json:"verified"`

	OwnerResponse    *string    `json:"owner_response,omitempty"`
	OwnerRespondedAt *time.Time `json:"owner_responded_at,omitempty"`

	HelpfulCount int `json:"helpful_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewReviewResponse(rv *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:               rv.ID,
		UserID:           rv.UserID,
		PitchID:          rv.PitchID,
		BookingID:        rv.BookingID,
		Rating:           rv.Rating,
		Comment:          rv.Comment,
		RatingSurface:    rv.RatingSurface,
		RatingFacilities: rv.RatingFacilities,
		RatingLocation:   rv.RatingLocation,
		RatingValue:      rv.RatingValue,
		Verified:         rv.Verified,
		OwnerResponse:    rv.OwnerResponse,
		OwnerRespondedAt: rv.OwnerRespondedAt,
		HelpfulCount:     rv.HelpfulCount,
		CreatedAt:        rv.CreatedAt,
		UpdatedAt:        rv.UpdatedAt,
	}
}

type CreateReviewRequest struct {
	PitchID   string  `json:"pitch_id" binding:"required,uuid"`
	BookingID *string `json:"booking_id" binding:"omitempty,uuid"`

	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`

	RatingSurface    *int `json:"rating_surface" binding:"omitempty,min=1,max=5"`
	RatingFacilities *int `json:"rating_facilities" binding:"omitempty,min=1,max=5"`
	RatingLocation   *int `json:"rating_location" binding:"omitempty,min=1,max=5"`
	RatingValue      *int `json:"rating_value" binding:"omitempty,min=1,max=5"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`

	RatingSurface    *int `json:"rating_surface" binding:"omitempty,min=1,max=5"`
	RatingFacilities *int `json:"rating_facilities" binding:"omitempty,min=1,max=5"`
	RatingLocation   *int `json:"rating_location" binding:"omitempty,min=1,max=5"`
	RatingValue      *int `json:"rating_value" binding:"omitempty,min=1,max=5"`
}

type RespondReviewRequest struct {
	Response string `json:"response" binding:"required"`
}

type VoteReviewRequest struct {
	Helpful bool `json:"helpful"`
}

type ListReviewsRequest struct {
	PitchID  string `form:"pitch_id"`
	UserID   string `form:"user_id"`
	Verified *bool  `form:"verified"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
