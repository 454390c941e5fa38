package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/pitch"
	"github.com/goalline/pitch-booking-backend/internal/pkg/request"
)

// PitchTag is the compact representation embedded in other modules' responses.
type PitchTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PitchResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	PostalCode  *string `json:"postal_code,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`

	SurfaceType string   `json:"surface_type"`
	Capacity    int      `json:"capacity"`
	Length      float64  `json:"length"`
	Width       float64  `json:"width"`
	Indoor      bool     `json:"indoor"`
	Lighting    bool     `json:"lighting"`
	Amenities   []string `json:"amenities"`

	HourlyRate   decimal.Decimal  `json:"hourly_rate"`
	PeakHourRate *decimal.Decimal `json:"peak_hour_rate,omitempty"`
	Currency     string           `json:"currency"`

	BusinessHours map[string]pitch.DayHours `json:"business_hours,omitempty"`

	Rules                *string `json:"rules,omitempty"`
	CancellationPolicy   *string `json:"cancellation_policy,omitempty"`
	MinCancellationHours int     `json:"min_cancellation_hours"`

	Images   []string `json:"images"`
	VideoURL *string  `json:"video_url,omitempty"`

	AverageRating decimal.Decimal `json:"average_rating"`
	TotalReviews  int             `json:"total_reviews"`
	TotalBookings int             `json:"total_bookings"`

	Status         string    `json:"status"`
	Verified       bool      `json:"verified"`
	InstantBooking bool      `json:"instant_booking"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewPitchResponse(p *pitch.Pitch) PitchResponse {
	amenities := p.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return PitchResponse{
		ID:                   p.ID,
		OwnerID:              p.OwnerID,
		Name:                 p.Name,
		Description:          p.Description,
		Address:              p.Address,
		City:                 p.City,
		Country:              p.Country,
		PostalCode:           p.PostalCode,
		Latitude:             p.Latitude,
		Longitude:            p.Longitude,
		SurfaceType:          string(p.SurfaceType),
		Capacity:             p.Capacity,
		Length:               p.Length,
		Width:                p.Width,
		Indoor:               p.Indoor,
		Lighting:             p.Lighting,
		Amenities:            amenities,
		HourlyRate:           p.HourlyRate,
		PeakHourRate:         p.PeakHourRate,
		Currency:             p.Currency,
		BusinessHours:        p.BusinessHours,
		Rules:                p.Rules,
		CancellationPolicy:   p.CancellationPolicy,
		MinCancellationHours: p.MinCancellationHours,
		Images:               images,
		VideoURL:             p.VideoURL,
		AverageRating:        p.AverageRating,
		TotalReviews:         p.TotalReviews,
		TotalBookings:        p.TotalBookings,
		Status:               string(p.Status),
		Verified:             p.Verified,
		InstantBooking:       p.InstantBooking,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

type CreatePitchRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Address     string  `json:"address" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Country     string  `json:"country" binding:"required"`
	PostalCode  *string `json:"postal_code"`
	Latitude    float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" binding:"min=-180,max=180"`

	SurfaceType string   `json:"surface_type" binding:"required,oneof=natural_grass artificial_turf indoor hybrid"`
	Capacity    int      `json:"capacity" binding:"required,min=2"`
	Length      float64  `json:"length"`
	Width       float64  `json:"width"`
	Indoor      bool     `json:"indoor"`
	Lighting    bool     `json:"lighting"`
	Amenities   []string `json:"amenities"`

	HourlyRate   decimal.Decimal  `json:"hourly_rate" binding:"required"`
	PeakHourRate *decimal.Decimal `json:"peak_hour_rate"`
	Currency     string           `json:"currency"`

	BusinessHours map[string]pitch.DayHours `json:"business_hours"`

	Rules                *string `json:"rules"`
	CancellationPolicy   *string `json:"cancellation_policy"`
	MinCancellationHours int     `json:"min_cancellation_hours" binding:"omitempty,min=0"`

	Images         []string `json:"images"`
	VideoURL       *string  `json:"video_url"`
	InstantBooking bool     `json:"instant_booking"`
}

type UpdatePitchRequest struct {
	Name                 *string                   `json:"name"`
	Description          *string                   `json:"description"`
	HourlyRate           *decimal.Decimal          `json:"hourly_rate"`
	PeakHourRate         *decimal.Decimal          `json:"peak_hour_rate"`
	Amenities            []string                  `json:"amenities"`
	BusinessHours        map[string]pitch.DayHours `json:"business_hours"`
	Rules                *string                   `json:"rules"`
	CancellationPolicy   *string                   `json:"cancellation_policy"`
	MinCancellationHours *int                      `json:"min_cancellation_hours" binding:"omitempty,min=1"`
	Images               []string                  `json:"images"`
	VideoURL             *string                   `json:"video_url"`
	InstantBooking       *bool                     `json:"instant_booking"`
}

type UpdatePitchStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive maintenance"`
}

type ListPitchesRequest struct {
	request.ListParams
	City        string   `form:"city"`
	Country     string   `form:"country"`
	Latitude    *float64 `form:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `form:"longitude" binding:"omitempty,min=-180,max=180"`
	RadiusKm    *float64 `form:"radius_km" binding:"omitempty,gt=0"`
	SurfaceType string   `form:"surface_type" binding:"omitempty,oneof=natural_grass artificial_turf indoor hybrid"`
	MinCapacity int      `form:"min_capacity" binding:"omitempty,min=0"`
	MinPrice    *float64 `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice    *float64 `form:"max_price" binding:"omitempty,min=0"`
	Indoor      *bool    `form:"indoor"`
	Lighting    *bool    `form:"lighting"`
	Amenities   string   `form:"amenities"` // comma-separated
	SortBy      string   `form:"sort_by" binding:"omitempty,oneof=name hourly_rate average_rating created_at"`
	SortOrder   string   `form:"sort_order" binding:"omitempty,oneof=ASC DESC asc desc"`
}
