package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goalline/pitch-booking-backend/internal/assistant"
	"github.com/goalline/pitch-booking-backend/internal/auth"
	"github.com/goalline/pitch-booking-backend/internal/pkg/response"
)

type Handler struct {
	service assistant.Service
}

func NewHandler(service assistant.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SendMessage(c *gin.Context) {
	var body SendMessageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	thread, err := h.service.SendMessage(c.Request.Context(), auth.GetUserID(c), assistant.SendMessageRequest{
		Message:        body.Message,
		PitchID:        body.PitchID,
		ConversationID: body.ConversationID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewThreadResponse(thread))
}

func (h *Handler) ListConversations(c *gin.Context) {
	conversations, err := h.service.ListConversations(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		out = append(out, NewConversationResponse(conv))
	}
	c.JSON(http.StatusOK, gin.H{"conversations": out})
}

func (h *Handler) GetConversation(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	thread, err := h.service.GetConversation(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewThreadResponse(thread))
}

func (h *Handler) Resolve(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	conv, err := h.service.Resolve(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewConversationResponse(conv))
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var body CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	report, err := h.service.CheckAvailability(c.Request.Context(), body.PitchID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAvailabilityReportResponse(report))
}
