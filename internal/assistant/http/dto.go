package http

import (
	"time"

	"github.com/goalline/pitch-booking-backend/internal/assistant"
	"github.com/goalline/pitch-booking-backend/internal/booking"
)

type SendMessageRequest struct {
	Message        string  `json:"message" binding:"required"`
	PitchID        *string `json:"pitch_id" binding:"omitempty,uuid"`
	ConversationID *string `json:"conversation_id" binding:"omitempty,uuid"`
}

type CheckAvailabilityRequest struct {
	PitchID string `json:"pitch_id" binding:"required,uuid"`
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
}

type ConversationResponse struct {
	ID            string     `json:"id"`
	PitchID       *string    `json:"pitch_id,omitempty"`
	Status        string     `json:"status"`
	Title         string     `json:"title"`
	MessageCount  int        `json:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewConversationResponse(conv *assistant.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:            conv.ID,
		PitchID:       conv.PitchID,
		Status:        string(conv.Status),
		Title:         conv.Title,
		MessageCount:  conv.MessageCount,
		LastMessageAt: conv.LastMessageAt,
		ResolvedAt:    conv.ResolvedAt,
		CreatedAt:     conv.CreatedAt,
	}
}

type MessageResponse struct {
	ID        string            `json:"id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewMessageResponse(msg *assistant.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		Metadata:  msg.Metadata,
		CreatedAt: msg.CreatedAt,
	}
}

type ThreadResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Messages     []MessageResponse    `json:"messages"`
}

func NewThreadResponse(thread *assistant.Thread) ThreadResponse {
	messages := make([]MessageResponse, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		messages = append(messages, NewMessageResponse(msg))
	}
	return ThreadResponse{
		Conversation: NewConversationResponse(thread.Conversation),
		Messages:     messages,
	}
}

type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
	Price     string `json:"price"`
	Currency  string `json:"currency"`
}

type AvailabilityReportResponse struct {
	PitchID   string         `json:"pitch_id"`
	PitchName string         `json:"pitch_name"`
	Date      string         `json:"date"`
	Slots     []SlotResponse `json:"slots"`
	Message   string         `json:"message"`
}

func NewAvailabilityReportResponse(report *assistant.AvailabilityReport) AvailabilityReportResponse {
	slots := make([]SlotResponse, 0, len(report.Slots))
	for _, s := range report.Slots {
		slots = append(slots, newSlotResponse(s))
	}
	return AvailabilityReportResponse{
		PitchID:   report.Pitch.ID,
		PitchName: report.Pitch.Name,
		Date:      report.Date.Format("2006-01-02"),
		Slots:     slots,
		Message:   report.Message,
	}
}

func newSlotResponse(s booking.Slot) SlotResponse {
	return SlotResponse{
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Available: s.Available,
		Price:     s.Price.StringFixed(2),
		Currency:  s.Currency,
	}
}
