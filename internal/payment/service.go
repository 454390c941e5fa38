package payment

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/booking"
	"github.com/goalline/pitch-booking-backend/internal/metrics"
)

// CheckoutSession is what the client needs to complete a payment.
type CheckoutSession struct {
	Payment      *Payment
	ClientSecret string
}

// Notifier receives payment events. Delivery is best effort.
type Notifier interface {
	PaymentSucceeded(ctx context.Context, p *Payment)
}

type Service interface {
	// CreateIntent opens (or refreshes) a payment intent for a booking.
	// Only the booker can pay for their booking.
	CreateIntent(ctx context.Context, bookingID, actorID string) (*CheckoutSession, error)
	GetByBookingID(ctx context.Context, bookingID string, actor booking.Actor) (*Payment, error)
	// ConfirmPayment re-checks the intent with the provider and, if it
	// succeeded, settles the payment and the booking.
	ConfirmPayment(ctx context.Context, bookingID, actorID string) (*Payment, error)
	// Refund returns part or all of a succeeded payment. A zero amount
	// means the full remaining amount.
	Refund(ctx context.Context, bookingID string, actor booking.Actor, amount decimal.Decimal) (*Payment, error)
	// HandleWebhook processes a verified provider callback.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type service struct {
	repo      Repository
	processor Processor
	bookings  booking.Service
	notifier  Notifier
}

func NewService(repo Repository, processor Processor, bookings booking.Service, notifier Notifier) Service {
	return &service{
		repo:      repo,
		processor: processor,
		bookings:  bookings,
		notifier:  notifier,
	}
}

func (s *service) CreateIntent(ctx context.Context, bookingID, actorID string) (*CheckoutSession, error) {
	b, err := s.bookings.GetByID(ctx, bookingID, booking.Actor{ID: actorID})
	if err != nil {
		return nil, err
	}
	if b.UserID != actorID {
		return nil, ErrPermissionDenied
	}
	if b.PaymentStatus == booking.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	existing, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status == StatusSucceeded {
		return nil, ErrAlreadyPaid
	}

	intent, err := s.processor.CreateIntent(ctx, b.TotalAmount, b.Currency, b.ID)
	if err != nil {
		return nil, err
	}

	p := existing
	if p == nil {
		p = &Payment{
			BookingID:      b.ID,
			UserID:         b.UserID,
			Amount:         b.TotalAmount,
			Currency:       b.Currency,
			Status:         StatusPending,
			RefundedAmount: decimal.Zero,
		}
		p.ProviderIntentID = intent.ID
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, err
		}
	} else {
		p.Status = StatusPending
		p.ProviderIntentID = intent.ID
		p.FailureMessage = nil
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, err
		}
	}

	if err := s.bookings.AttachPaymentIntent(ctx, b.ID, intent.ID); err != nil {
		return nil, err
	}
	return &CheckoutSession{Payment: p, ClientSecret: intent.ClientSecret}, nil
}

func (s *service) GetByBookingID(ctx context.Context, bookingID string, actor booking.Actor) (*Payment, error) {
	// Booking visibility rules carry over to its payment.
	if _, err := s.bookings.GetByID(ctx, bookingID, actor); err != nil {
		return nil, err
	}
	return s.repo.GetByBookingID(ctx, bookingID)
}

func (s *service) ConfirmPayment(ctx context.Context, bookingID, actorID string) (*Payment, error) {
	b, err := s.bookings.GetByID(ctx, bookingID, booking.Actor{ID: actorID})
	if err != nil {
		return nil, err
	}
	if b.UserID != actorID {
		return nil, ErrPermissionDenied
	}

	p, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if p.Status == StatusSucceeded {
		return p, nil
	}

	intent, err := s.processor.RetrieveIntent(ctx, p.ProviderIntentID)
	if err != nil {
		return nil, err
	}
	if !intent.Succeeded {
		return nil, ErrNotSucceeded
	}

	if err := s.settle(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Refund(ctx context.Context, bookingID string, actor booking.Actor, amount decimal.Decimal) (*Payment, error) {
	// GetByID admits the booker, the pitch owner and admins.
	if _, err := s.bookings.GetByID(ctx, bookingID, actor); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusSucceeded && p.Status != StatusPartiallyRefunded {
		return nil, ErrNotRefundable
	}

	remaining := p.Remaining()
	if amount.IsZero() {
		amount = remaining
	}
	if amount.GreaterThan(remaining) {
		return nil, ErrRefundTooLarge
	}

	refundID, err := s.processor.CreateRefund(ctx, p.ProviderIntentID, amount)
	if err != nil {
		return nil, err
	}

	p.RefundedAmount = p.RefundedAmount.Add(amount)
	p.LastRefundID = &refundID
	if p.Remaining().IsZero() {
		p.Status = StatusRefunded
	} else {
		p.Status = StatusPartiallyRefunded
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// The booking flips to refunded only once the full amount is back.
	if p.Status == StatusRefunded {
		if _, err := s.bookings.MarkRefunded(ctx, bookingID, refundID, p.RefundedAmount); err != nil {
			return nil, err
		}
	}

	metrics.IncPaymentOutcome(string(StatusRefunded))
	return p, nil
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.processor.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}
	if ev.IntentID == "" {
		log.Debug().Str("type", ev.Type).Msg("ignoring webhook event without intent")
		return nil
	}

	p, err := s.repo.GetByIntentID(ctx, ev.IntentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Str("intent_id", ev.IntentID).Str("type", ev.Type).Msg("webhook for unknown payment")
			return nil
		}
		return err
	}

	switch ev.Type {
	case EventPaymentSucceeded:
		if p.Status == StatusSucceeded {
			return nil
		}
		return s.settle(ctx, p)

	case EventPaymentFailed:
		p.Status = StatusFailed
		if ev.FailureMessage != "" {
			p.FailureMessage = &ev.FailureMessage
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		if _, err := s.bookings.MarkPaymentFailed(ctx, p.BookingID); err != nil {
			return err
		}
		metrics.IncPaymentOutcome(string(StatusFailed))
		return nil

	case EventChargeRefunded:
		// The provider reports the cumulative refunded amount.
		p.RefundedAmount = ev.AmountRefunded
		if p.Remaining().IsPositive() {
			p.Status = StatusPartiallyRefunded
		} else {
			p.Status = StatusRefunded
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		if p.Status == StatusRefunded {
			refundID := ""
			if p.LastRefundID != nil {
				refundID = *p.LastRefundID
			}
			if _, err := s.bookings.MarkRefunded(ctx, p.BookingID, refundID, p.RefundedAmount); err != nil {
				return err
			}
		}
		metrics.IncPaymentOutcome(string(StatusRefunded))
		return nil

	default:
		log.Debug().Str("type", ev.Type).Msg("ignoring unhandled webhook event")
		return nil
	}
}

// settle marks the payment succeeded and settles the booking.
func (s *service) settle(ctx context.Context, p *Payment) error {
	p.Status = StatusSucceeded
	p.FailureMessage = nil
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	if _, err := s.bookings.MarkPaid(ctx, p.BookingID); err != nil {
		return err
	}
	metrics.IncPaymentOutcome(string(StatusSucceeded))
	if s.notifier != nil {
		s.notifier.PaymentSucceeded(ctx, p)
	}
	return nil
}
