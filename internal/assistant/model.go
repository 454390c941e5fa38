package assistant

import (
	"net/http"
	"time"

	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "conversation not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "you do not have permission to access this conversation")
	ErrEmptyMessage     = apperror.New(http.StatusBadRequest, "message must not be empty")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type ConversationStatus string

const (
	StatusActive    ConversationStatus = "active"
	StatusResolved  ConversationStatus = "resolved"
	StatusEscalated ConversationStatus = "escalated"
)

type Conversation struct {
	ID      string
	UserID  string
	PitchID *string

	Status ConversationStatus
	Title  string

	MessageCount  int
	LastMessageAt *time.Time
	ResolvedAt    *time.Time

	CreatedAt time.Time
}

type Message struct {
	ID             string
	ConversationID string

	Role    Role
	Content string

	// Metadata carries the detected intent and related entity IDs.
	Metadata map[string]string

	CreatedAt time.Time
}
