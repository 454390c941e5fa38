package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/goalline/pitch-booking-backend/internal/booking"
	"github.com/goalline/pitch-booking-backend/internal/match"
	"github.com/goalline/pitch-booking-backend/internal/payment"
	"github.com/goalline/pitch-booking-backend/internal/pitch"
	"github.com/goalline/pitch-booking-backend/internal/review"
)

// Events fans notifications out from the domain services. Every method is
// best-effort: delivery failures are logged and never bubble up to the
// operation that triggered them.
type Events struct {
	svc     Service
	pitches pitch.Service
}

func NewEvents(svc Service, pitches pitch.Service) *Events {
	return &Events{svc: svc, pitches: pitches}
}

var (
	_ booking.Notifier = (*Events)(nil)
	_ match.Notifier   = (*Events)(nil)
	_ review.Notifier  = (*Events)(nil)
	_ payment.Notifier = (*Events)(nil)
)

func (e *Events) BookingCreated(ctx context.Context, b *booking.Booking) {
	p := e.pitch(ctx, b.PitchID)
	if p == nil {
		return
	}
	e.deliver(ctx, &Notification{
		UserID:    p.OwnerID,
		Type:      TypeBookingRequested,
		Title:     "New booking request",
		Message:   fmt.Sprintf("%s has a new booking on %s from %s to %s.", p.Name, b.Date.Format("2006-01-02"), b.StartTime, b.EndTime),
		Data:      map[string]string{"booking_id": b.ID, "pitch_id": b.PitchID},
		ActionURL: strPtr("/bookings/" + b.ID),
	})
}

func (e *Events) BookingConfirmed(ctx context.Context, b *booking.Booking) {
	e.deliver(ctx, &Notification{
		UserID:    b.UserID,
		Type:      TypeBookingConfirmed,
		Title:     "Booking confirmed",
		Message:   fmt.Sprintf("Your booking on %s from %s to %s is confirmed.", b.Date.Format("2006-01-02"), b.StartTime, b.EndTime),
		Data:      map[string]string{"booking_id": b.ID, "pitch_id": b.PitchID},
		ActionURL: strPtr("/bookings/" + b.ID),
	})
}

// BookingCancelled notifies the counterpart of whoever cancelled: the pitch
// owner when the player cancels, the player otherwise.
func (e *Events) BookingCancelled(ctx context.Context, b *booking.Booking) {
	recipient := b.UserID
	if b.CancelledBy != nil && *b.CancelledBy == b.UserID {
		p := e.pitch(ctx, b.PitchID)
		if p == nil {
			return
		}
		recipient = p.OwnerID
	}
	msg := fmt.Sprintf("The booking on %s from %s to %s was cancelled.", b.Date.Format("2006-01-02"), b.StartTime, b.EndTime)
	if b.CancellationReason != nil && *b.CancellationReason != "" {
		msg += " Reason: " + *b.CancellationReason
	}
	e.deliver(ctx, &Notification{
		UserID:  recipient,
		Type:    TypeBookingCancelled,
		Title:   "Booking cancelled",
		Message: msg,
		Data:    map[string]string{"booking_id": b.ID, "pitch_id": b.PitchID},
	})
}

func (e *Events) BookingCompleted(ctx context.Context, b *booking.Booking) {
	e.deliver(ctx, &Notification{
		UserID:    b.UserID,
		Type:      TypeBookingCompleted,
		Title:     "How was your game?",
		Message:   "Your booking is complete. Leave a review to help other players.",
		Data:      map[string]string{"booking_id": b.ID, "pitch_id": b.PitchID},
		ActionURL: strPtr("/pitches/" + b.PitchID + "/reviews"),
	})
}

func (e *Events) MatchInvitation(ctx context.Context, m *match.Match, inviteeID string) {
	e.deliver(ctx, &Notification{
		UserID:    inviteeID,
		Type:      TypeMatchInvitation,
		Title:     "Match invitation",
		Message:   fmt.Sprintf("You have been invited to %q on %s at %s.", m.Title, m.Date.Format("2006-01-02"), m.StartTime),
		Data:      map[string]string{"match_id": m.ID},
		ActionURL: strPtr("/matches/" + m.ID),
	})
}

func (e *Events) MatchCancelled(ctx context.Context, m *match.Match, participantIDs []string) {
	for _, userID := range participantIDs {
		e.deliver(ctx, &Notification{
			UserID:  userID,
			Type:    TypeMatchCancelled,
			Title:   "Match cancelled",
			Message: fmt.Sprintf("%q on %s at %s has been cancelled.", m.Title, m.Date.Format("2006-01-02"), m.StartTime),
			Data:    map[string]string{"match_id": m.ID},
		})
	}
}

func (e *Events) ReviewReceived(ctx context.Context, rv *review.Review, pitchOwnerID string) {
	e.deliver(ctx, &Notification{
		UserID:    pitchOwnerID,
		Type:      TypeReviewReceived,
		Title:     "New review",
		Message:   fmt.Sprintf("Your pitch received a new %d-star review.", rv.Rating),
		Data:      map[string]string{"review_id": rv.ID, "pitch_id": rv.PitchID},
		ActionURL: strPtr("/reviews/" + rv.ID),
	})
}

func (e *Events) PaymentSucceeded(ctx context.Context, p *payment.Payment) {
	e.deliver(ctx, &Notification{
		UserID:  p.UserID,
		Type:    TypePaymentSuccess,
		Title:   "Payment received",
		Message: fmt.Sprintf("Your payment of %s %s was successful.", p.Amount.StringFixed(2), p.Currency),
		Data:    map[string]string{"payment_id": p.ID, "booking_id": p.BookingID},
	})
}

func (e *Events) deliver(ctx context.Context, n *Notification) {
	if err := e.svc.Notify(ctx, n); err != nil {
		log.Warn().Err(err).Str("user_id", n.UserID).Str("type", string(n.Type)).Msg("notification delivery failed")
	}
}

func (e *Events) pitch(ctx context.Context, id string) *pitch.Pitch {
	p, err := e.pitches.GetByID(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("pitch_id", id).Msg("notification pitch lookup failed")
		return nil
	}
	return p
}

func strPtr(s string) *string { return &s }
