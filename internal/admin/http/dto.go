package http

import (
	"github.com/goalline/pitch-booking-backend/internal/admin"
	"github.com/goalline/pitch-booking-backend/internal/pkg/request"
)

type ListUsersRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=active suspended deleted"`
	Role   string `form:"role" binding:"omitempty,oneof=player owner admin"`
	request.ListParams
}

type SetUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended"`
}

type SetUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=player owner admin"`
}

type ListPitchesRequest struct {
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
	Status  string `form:"status" binding:"omitempty,oneof=active inactive maintenance"`
	request.ListParams
}

type SetPitchVerifiedRequest struct {
	Verified bool `json:"verified"`
}

type SetReviewFlaggedRequest struct {
	Flagged bool `json:"flagged"`
}

type PlatformStatsResponse struct {
	TotalUsers         int    `json:"total_users"`
	TotalPitches       int    `json:"total_pitches"`
	TotalBookings      int    `json:"total_bookings"`
	TotalMatches       int    `json:"total_matches"`
	TotalReviews       int    `json:"total_reviews"`
	BookingsLast30Days int    `json:"bookings_last_30_days"`
	Revenue            string `json:"revenue"`
	RefundedTotal      string `json:"refunded_total"`
	AverageRating      string `json:"average_rating"`
}

func NewPlatformStatsResponse(stats *admin.PlatformStats) PlatformStatsResponse {
	return PlatformStatsResponse{
		TotalUsers:         stats.TotalUsers,
		TotalPitches:       stats.TotalPitches,
		TotalBookings:      stats.TotalBookings,
		TotalMatches:       stats.TotalMatches,
		TotalReviews:       stats.TotalReviews,
		BookingsLast30Days: stats.BookingsLast30Days,
		Revenue:            stats.Revenue.StringFixed(2),
		RefundedTotal:      stats.RefundedTotal.StringFixed(2),
		AverageRating:      stats.AverageRating.StringFixed(2),
	}
}
