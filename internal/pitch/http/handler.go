package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/auth"
	"github.com/goalline/pitch-booking-backend/internal/pitch"
	"github.com/goalline/pitch-booking-backend/internal/pkg/response"
)

type Handler struct {
	service pitch.Service
}

func NewHandler(service pitch.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var q ListPitchesRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := pitch.Filter{
		City:        q.City,
		Country:     q.Country,
		Latitude:    q.Latitude,
		Longitude:   q.Longitude,
		RadiusKm:    q.RadiusKm,
		SurfaceType: q.SurfaceType,
		MinCapacity: q.MinCapacity,
		Indoor:      q.Indoor,
		Lighting:    q.Lighting,
		Page:        q.Page,
		PageSize:    q.PageSize,
		SortBy:      q.SortBy,
		SortOrder:   q.SortOrder,
	}
	if q.MinPrice != nil {
		min := decimal.NewFromFloat(*q.MinPrice)
		filter.MinPrice = &min
	}
	if q.MaxPrice != nil {
		max := decimal.NewFromFloat(*q.MaxPrice)
		filter.MaxPrice = &max
	}
	if q.Amenities != "" {
		for _, a := range strings.Split(q.Amenities, ",") {
			if a = strings.TrimSpace(a); a != "" {
				filter.Amenities = append(filter.Amenities, a)
			}
		}
	}

	pitches, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PitchResponse, len(pitches))
	for i, p := range pitches {
		items[i] = NewPitchResponse(p)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) ListMine(c *gin.Context) {
	var q ListPitchesRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := pitch.Filter{
		OwnerID:  auth.GetUserID(c),
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	pitches, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PitchResponse, len(pitches))
	for i, p := range pitches {
		items[i] = NewPitchResponse(p)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPitchResponse(p))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreatePitchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), pitch.CreateRequest{
		Name:                 body.Name,
		Description:          body.Description,
		Address:              body.Address,
		City:                 body.City,
		Country:              body.Country,
		PostalCode:           body.PostalCode,
		Latitude:             body.Latitude,
		Longitude:            body.Longitude,
		SurfaceType:          body.SurfaceType,
		Capacity:             body.Capacity,
		Length:               body.Length,
		Width:                body.Width,
		Indoor:               body.Indoor,
		Lighting:             body.Lighting,
		Amenities:            body.Amenities,
		HourlyRate:           body.HourlyRate,
		PeakHourRate:         body.PeakHourRate,
		Currency:             body.Currency,
		BusinessHours:        body.BusinessHours,
		Rules:                body.Rules,
		CancellationPolicy:   body.CancellationPolicy,
		MinCancellationHours: body.MinCancellationHours,
		Images:               body.Images,
		VideoURL:             body.VideoURL,
		InstantBooking:       body.InstantBooking,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewPitchResponse(p))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdatePitchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, auth.GetUserID(c), pitch.UpdateRequest{
		Name:                 body.Name,
		Description:          body.Description,
		HourlyRate:           body.HourlyRate,
		PeakHourRate:         body.PeakHourRate,
		Amenities:            body.Amenities,
		BusinessHours:        body.BusinessHours,
		Rules:                body.Rules,
		CancellationPolicy:   body.CancellationPolicy,
		MinCancellationHours: body.MinCancellationHours,
		Images:               body.Images,
		VideoURL:             body.VideoURL,
		InstantBooking:       body.InstantBooking,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPitchResponse(p))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdatePitchStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.SetStatus(c.Request.Context(), id, auth.GetUserID(c), pitch.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPitchResponse(p))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
