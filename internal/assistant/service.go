package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goalline/pitch-booking-backend/internal/booking"
	"github.com/goalline/pitch-booking-backend/internal/pitch"
)

const titleMaxLen = 50

type SendMessageRequest struct {
	Message        string
	PitchID        *string
	ConversationID *string
}

// Thread is a conversation together with its full message history.
type Thread struct {
	Conversation *Conversation
	Messages     []*Message
}

// AvailabilityReport is the assistant's rendering of a day's slot grid.
type AvailabilityReport struct {
	Pitch   *pitch.Pitch
	Date    time.Time
	Slots   []booking.Slot
	Message string
}

type Service interface {
	SendMessage(ctx context.Context, userID string, req SendMessageRequest) (*Thread, error)
	GetConversation(ctx context.Context, userID, conversationID string) (*Thread, error)
	ListConversations(ctx context.Context, userID string) ([]*Conversation, error)
	Resolve(ctx context.Context, userID, conversationID string) (*Conversation, error)
	CheckAvailability(ctx context.Context, pitchID string, date time.Time) (*AvailabilityReport, error)
}

type service struct {
	repo     Repository
	pitches  pitch.Service
	bookings booking.Service
	now      func() time.Time
}

func NewService(repo Repository, pitches pitch.Service, bookings booking.Service) Service {
	return &service{
		repo:     repo,
		pitches:  pitches,
		bookings: bookings,
		now:      time.Now,
	}
}

func (s *service) SendMessage(ctx context.Context, userID string, req SendMessageRequest) (*Thread, error) {
	content := strings.TrimSpace(req.Message)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.getOrCreateConversation(ctx, userID, req, content)
	if err != nil {
		return nil, err
	}

	userMsg := &Message{
		ConversationID: conv.ID,
		Role:           RoleUser,
		Content:        content,
	}
	if err := s.repo.CreateMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	intent := detectIntent(content)
	metadata := map[string]string{"intent": string(intent)}

	var p *pitch.Pitch
	if conv.PitchID != nil {
		// Pitch context is optional help for the reply, not a hard
		// dependency; a dangling reference degrades to the generic answer.
		if found, err := s.pitches.GetByID(ctx, *conv.PitchID); err == nil {
			p = found
			metadata["pitch_id"] = p.ID
		}
	}

	reply := &Message{
		ConversationID: conv.ID,
		Role:           RoleAssistant,
		Content:        renderReply(intent, p),
		Metadata:       metadata,
	}
	if err := s.repo.CreateMessage(ctx, reply); err != nil {
		return nil, err
	}

	now := s.now()
	conv.MessageCount += 2
	conv.LastMessageAt = &now
	if err := s.repo.UpdateConversation(ctx, conv); err != nil {
		return nil, err
	}

	return s.thread(ctx, conv)
}

func (s *service) GetConversation(ctx context.Context, userID, conversationID string) (*Thread, error) {
	conv, err := s.owned(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	return s.thread(ctx, conv)
}

func (s *service) ListConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

func (s *service) Resolve(ctx context.Context, userID, conversationID string) (*Conversation, error) {
	conv, err := s.owned(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	conv.Status = StatusResolved
	conv.ResolvedAt = &now
	if err := s.repo.UpdateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *service) CheckAvailability(ctx context.Context, pitchID string, date time.Time) (*AvailabilityReport, error) {
	p, err := s.pitches.GetByID(ctx, pitchID)
	if err != nil {
		return nil, err
	}

	slots, err := s.bookings.Availability(ctx, pitchID, date)
	if err != nil {
		return nil, err
	}

	return &AvailabilityReport{
		Pitch:   p,
		Date:    date,
		Slots:   slots,
		Message: renderAvailability(p, date, slots),
	}, nil
}

func renderAvailability(p *pitch.Pitch, date time.Time, slots []booking.Slot) string {
	day := date.Format("2006-01-02")

	var lines []string
	for _, slot := range slots {
		if slot.Available {
			lines = append(lines, fmt.Sprintf("%s - %s (%s %s)", slot.StartTime, slot.EndTime, slot.Currency, slot.Price.StringFixed(2)))
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("Unfortunately, %s is fully booked on %s. Try another date or check our other pitches.", p.Name, day)
	}
	return fmt.Sprintf("For %s on %s there are %d available time slots:\n%s", p.Name, day, len(lines), strings.Join(lines, "\n"))
}

func (s *service) getOrCreateConversation(ctx context.Context, userID string, req SendMessageRequest, content string) (*Conversation, error) {
	if req.ConversationID != nil {
		return s.owned(ctx, userID, *req.ConversationID)
	}

	title := content
	if len(title) > titleMaxLen {
		title = title[:titleMaxLen]
	}
	conv := &Conversation{
		UserID:  userID,
		PitchID: req.PitchID,
		Status:  StatusActive,
		Title:   title,
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *service) owned(ctx context.Context, userID, conversationID string) (*Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, ErrPermissionDenied
	}
	return conv, nil
}

func (s *service) thread(ctx context.Context, conv *Conversation) (*Thread, error) {
	messages, err := s.repo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	return &Thread{Conversation: conv, Messages: messages}, nil
}
