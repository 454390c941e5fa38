package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goalline/pitch-booking-backend/internal/admin"
	"github.com/goalline/pitch-booking-backend/internal/auth"
	"github.com/goalline/pitch-booking-backend/internal/pitch"
	pitchhttp "github.com/goalline/pitch-booking-backend/internal/pitch/http"
	"github.com/goalline/pitch-booking-backend/internal/pkg/request"
	"github.com/goalline/pitch-booking-backend/internal/pkg/response"
	reviewhttp "github.com/goalline/pitch-booking-backend/internal/review/http"
	"github.com/goalline/pitch-booking-backend/internal/user"
	userhttp "github.com/goalline/pitch-booking-backend/internal/user/http"
)

type Handler struct {
	service admin.Service
}

func NewHandler(service admin.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListUsers(c *gin.Context) {
	var q ListUsersRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), user.Filter{
		Status:   q.Status,
		Role:     q.Role,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]userhttp.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, userhttp.NewUserResponse(u))
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

func (h *Handler) SetUserStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body SetUserStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	u, err := h.service.SetUserStatus(c.Request.Context(), id, user.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttp.NewUserResponse(u))
}

func (h *Handler) SetUserRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body SetUserRoleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	u, err := h.service.SetUserRole(c.Request.Context(), id, user.Role(body.Role))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttp.NewUserResponse(u))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListPitches(c *gin.Context) {
	var q ListPitchesRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	pitches, total, err := h.service.ListPitches(c.Request.Context(), pitch.Filter{
		OwnerID:  q.OwnerID,
		Status:   pitch.Status(q.Status),
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]pitchhttp.PitchResponse, 0, len(pitches))
	for _, p := range pitches {
		items = append(items, pitchhttp.NewPitchResponse(p))
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

func (h *Handler) SetPitchVerified(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body SetPitchVerifiedRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.SetPitchVerified(c.Request.Context(), id, body.Verified)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pitchhttp.NewPitchResponse(p))
}

func (h *Handler) ListFlaggedReviews(c *gin.Context) {
	var q request.ListParams
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	reviews, total, err := h.service.ListFlaggedReviews(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]reviewhttp.ReviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		items = append(items, reviewhttp.NewReviewResponse(rv))
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

func (h *Handler) SetReviewFlagged(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body SetReviewFlaggedRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	rv, err := h.service.SetReviewFlagged(c.Request.Context(), id, body.Flagged)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewhttp.NewReviewResponse(rv))
}

func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteReview(c.Request.Context(), id, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPlatformStatsResponse(stats))
}

func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return "", false
	}
	return id, true
}
