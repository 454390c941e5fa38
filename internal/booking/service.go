package booking

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/metrics"
	"github.com/goalline/pitch-booking-backend/internal/pitch"
	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
	"github.com/goalline/pitch-booking-backend/internal/pricing"
	"github.com/goalline/pitch-booking-backend/internal/timeslot"
	"github.com/goalline/pitch-booking-backend/internal/user"
)

// Default availability window when a pitch has no business hours configured.
const (
	defaultOpen      = "08:00"
	defaultClose     = "22:00"
	defaultSlotHours = 2
)

var (
	ErrPitchUnavailable = apperror.New(http.StatusBadRequest, "pitch is not available for booking")
	ErrPastSlot         = apperror.New(http.StatusBadRequest, "cannot book a time slot in the past")
	ErrInvalidPlayers   = apperror.New(http.StatusBadRequest, "number of players must be positive")
)

// Actor identifies who is performing a booking operation. Role decides
// whether ownership checks can be bypassed.
type Actor struct {
	ID   string
	Role user.Role
}

type CreateRequest struct {
	PitchID         string
	Date            time.Time
	StartTime       string
	EndTime         string
	Notes           *string
	NumberOfPlayers *int
}

type UpdateRequest struct {
	Notes           *string
	NumberOfPlayers *int
}

// Slot is one bookable window in a pitch's daily availability.
type Slot struct {
	StartTime string
	EndTime   string
	Available bool
	Price     decimal.Decimal
	Currency  string
}

// Notifier receives booking lifecycle events. Delivery is best effort and
// must never fail the triggering operation.
type Notifier interface {
	BookingCreated(ctx context.Context, b *Booking)
	BookingConfirmed(ctx context.Context, b *Booking)
	BookingCancelled(ctx context.Context, b *Booking)
	BookingCompleted(ctx context.Context, b *Booking)
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string, actor Actor) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, id string, actor Actor, req UpdateRequest) (*Booking, error)
	Cancel(ctx context.Context, id string, actor Actor, reason string) (*Booking, error)
	Confirm(ctx context.Context, id string, actor Actor) (*Booking, error)
	Complete(ctx context.Context, id string, actor Actor) (*Booking, error)

	// Availability returns the day's slot grid for a pitch, marking slots
	// taken by active bookings.
	Availability(ctx context.Context, pitchID string, date time.Time) ([]Slot, error)

	// Payment module commands. They move the payment axis only; the booking
	// status axis is touched solely by MarkPaid's pending auto-confirm.
	AttachPaymentIntent(ctx context.Context, id, intentID string) error
	MarkPaid(ctx context.Context, id string) (*Booking, error)
	MarkPaymentFailed(ctx context.Context, id string) (*Booking, error)
	MarkRefunded(ctx context.Context, id, refundID string, amount decimal.Decimal) (*Booking, error)
}

type service struct {
	repo     Repository
	pitches  pitch.Service
	notifier Notifier
	slots    *slotLocker
	now      func() time.Time
}

func NewService(repo Repository, pitches pitch.Service, notifier Notifier) Service {
	return &service{
		repo:     repo,
		pitches:  pitches,
		notifier: notifier,
		slots:    newSlotLocker(),
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*Booking, error) {
	p, err := s.pitches.GetByID(ctx, req.PitchID)
	if err != nil {
		if errors.Is(err, pitch.ErrNotFound) {
			return nil, ErrPitchNotFound
		}
		return nil, err
	}
	if p.Status != pitch.StatusActive {
		return nil, ErrPitchUnavailable
	}

	interval, err := timeslot.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if !interval.Valid() {
		return nil, ErrInvalidTimeRange
	}

	date := truncateToDate(req.Date)
	if interval.Start.At(date).Before(s.now()) {
		return nil, ErrPastSlot
	}
	if req.NumberOfPlayers != nil && *req.NumberOfPlayers < 1 {
		return nil, ErrInvalidPlayers
	}

	// Serialize the conflict check and insert per (pitch, date) so two
	// overlapping requests cannot both observe a free slot.
	unlock := s.slots.lock(p.ID, date)
	defer unlock()

	conflict, err := s.repo.HasConflict(ctx, p.ID, date, interval, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		metrics.IncBookingConflict()
		return nil, ErrSlotConflict
	}

	b := &Booking{
		UserID:          userID,
		PitchID:         p.ID,
		Date:            date,
		StartTime:       interval.Start.String(),
		EndTime:         interval.End.String(),
		DurationHours:   interval.Hours(),
		TotalAmount:     pricing.Amount(p.HourlyRate, interval.Hours()),
		Currency:        p.Currency,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		Notes:           req.Notes,
		NumberOfPlayers: req.NumberOfPlayers,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, b)
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, b, actor); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, actor Actor, req UpdateRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.ID && actor.Role != user.RoleAdmin {
		return nil, ErrPermissionDenied
	}
	if b.Status != StatusPending {
		return nil, apperror.WithDetail(ErrInvalidState, "only pending bookings can be edited, current status is %s", b.Status)
	}

	if req.Notes != nil {
		b.Notes = req.Notes
	}
	if req.NumberOfPlayers != nil {
		if *req.NumberOfPlayers < 1 {
			return nil, ErrInvalidPlayers
		}
		b.NumberOfPlayers = req.NumberOfPlayers
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string, actor Actor, reason string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, b, actor); err != nil {
		return nil, err
	}

	switch b.Status {
	case StatusCancelled:
		return nil, ErrAlreadyCancelled
	case StatusCompleted:
		return nil, ErrCompletedBooking
	case StatusNoShow:
		return nil, apperror.WithDetail(ErrInvalidState, "no-show bookings cannot be cancelled")
	}

	// The pitch's notice period binds every actor, the owner included.
	// The boundary is inclusive: cancelling with exactly the required
	// notice remaining succeeds.
	p, err := s.pitches.GetByID(ctx, b.PitchID)
	if err != nil && !errors.Is(err, pitch.ErrNotFound) {
		return nil, err
	}
	if p != nil && p.MinCancellationHours > 0 {
		start, err := timeslot.ParseClock(b.StartTime)
		if err != nil {
			return nil, err
		}
		hoursUntil := start.At(b.Date).Sub(s.now()).Hours()
		if hoursUntil < float64(p.MinCancellationHours) {
			return nil, apperror.WithDetail(ErrCancelTooLate,
				"cancellation requires at least %d hours notice", p.MinCancellationHours)
		}
	}

	now := s.now()
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.CancelledBy = &actor.ID
	if reason = strings.TrimSpace(reason); reason != "" {
		b.CancellationReason = &reason
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	metrics.IncBookingTransition(string(StatusCancelled))
	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, b)
	}
	return b, nil
}

func (s *service) Confirm(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManager(ctx, b, actor); err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, apperror.WithDetail(ErrInvalidState, "only pending bookings can be confirmed, current status is %s", b.Status)
	}

	now := s.now()
	b.Status = StatusConfirmed
	b.ConfirmedAt = &now

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	metrics.IncBookingTransition(string(StatusConfirmed))
	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, b)
	}
	return b, nil
}

func (s *service) Complete(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManager(ctx, b, actor); err != nil {
		return nil, err
	}
	if b.Status != StatusConfirmed {
		return nil, apperror.WithDetail(ErrInvalidState, "only confirmed bookings can be completed, current status is %s", b.Status)
	}

	now := s.now()
	b.Status = StatusCompleted
	b.CompletedAt = &now

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	// The pitch owns its lifetime booking counter.
	if err := s.pitches.IncrementTotalBookings(ctx, b.PitchID); err != nil && !errors.Is(err, pitch.ErrNotFound) {
		return nil, err
	}

	metrics.IncBookingTransition(string(StatusCompleted))
	if s.notifier != nil {
		s.notifier.BookingCompleted(ctx, b)
	}
	return b, nil
}

func (s *service) Availability(ctx context.Context, pitchID string, date time.Time) ([]Slot, error) {
	p, err := s.pitches.GetByID(ctx, pitchID)
	if err != nil {
		if errors.Is(err, pitch.ErrNotFound) {
			return nil, ErrPitchNotFound
		}
		return nil, err
	}

	date = truncateToDate(date)
	open, close, closed, err := dayWindow(p, date)
	if err != nil {
		return nil, err
	}
	if closed {
		return []Slot{}, nil
	}

	taken, err := s.repo.ListForPitchDate(ctx, pitchID, date)
	if err != nil {
		return nil, err
	}
	intervals := make([]timeslot.Interval, 0, len(taken))
	for _, b := range taken {
		iv, err := timeslot.ParseInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}

	price := pricing.Amount(p.HourlyRate, defaultSlotHours)
	var slots []Slot
	for start := open; start+defaultSlotHours*60 <= close; start += defaultSlotHours * 60 {
		slot := timeslot.Interval{Start: start, End: start + defaultSlotHours*60}
		available := true
		for _, iv := range intervals {
			if slot.Overlaps(iv) {
				available = false
				break
			}
		}
		slots = append(slots, Slot{
			StartTime: slot.Start.String(),
			EndTime:   slot.End.String(),
			Available: available,
			Price:     price,
			Currency:  p.Currency,
		})
	}
	return slots, nil
}

func (s *service) AttachPaymentIntent(ctx context.Context, id, intentID string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	b.PaymentIntentID = &intentID
	return s.repo.Update(ctx, b)
}

func (s *service) MarkPaid(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.PaymentStatus = PaymentPaid
	if b.Status == StatusPending {
		now := s.now()
		b.Status = StatusConfirmed
		b.ConfirmedAt = &now
		metrics.IncBookingTransition(string(StatusConfirmed))
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, b)
	}
	return b, nil
}

func (s *service) MarkPaymentFailed(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.PaymentStatus = PaymentFailed
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) MarkRefunded(ctx context.Context, id, refundID string, amount decimal.Decimal) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.PaymentStatus = PaymentRefunded
	b.RefundID = &refundID
	b.RefundAmount = &amount
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// authorize admits the booking's user, the pitch's owner, and admins.
func (s *service) authorize(ctx context.Context, b *Booking, actor Actor) error {
	if actor.Role == user.RoleAdmin || b.UserID == actor.ID {
		return nil
	}
	p, err := s.pitches.GetByID(ctx, b.PitchID)
	if err != nil {
		if errors.Is(err, pitch.ErrNotFound) {
			return ErrPermissionDenied
		}
		return err
	}
	if p.OwnerID != actor.ID {
		return ErrPermissionDenied
	}
	return nil
}

// authorizeManager admits only the pitch's owner and admins.
func (s *service) authorizeManager(ctx context.Context, b *Booking, actor Actor) error {
	if actor.Role == user.RoleAdmin {
		return nil
	}
	p, err := s.pitches.GetByID(ctx, b.PitchID)
	if err != nil {
		if errors.Is(err, pitch.ErrNotFound) {
			return ErrPermissionDenied
		}
		return err
	}
	if p.OwnerID != actor.ID {
		return ErrPermissionDenied
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dayWindow resolves the bookable window for a date from the pitch's
// business hours, falling back to the platform default.
func dayWindow(p *pitch.Pitch, date time.Time) (open, close timeslot.Clock, closedDay bool, err error) {
	openStr, closeStr := defaultOpen, defaultClose
	if p.BusinessHours != nil {
		day := strings.ToLower(date.Weekday().String())
		if h, ok := p.BusinessHours[day]; ok {
			if h.Closed {
				return 0, 0, true, nil
			}
			if h.Open != "" && h.Close != "" {
				openStr, closeStr = h.Open, h.Close
			}
		}
	}

	iv, err := timeslot.ParseInterval(openStr, closeStr)
	if err != nil {
		return 0, 0, false, err
	}
	return iv.Start, iv.End, false, nil
}
