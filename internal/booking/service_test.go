package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalline/pitch-booking-backend/internal/pitch"
	"github.com/goalline/pitch-booking-backend/internal/timeslot"
	"github.com/goalline/pitch-booking-backend/internal/user"
)

// --- fakes ---

type memRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*Booking
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]*Booking)}
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	b.ID = fmt.Sprintf("booking-%d", r.seq)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.byID[b.ID] = &clone
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *memRepo) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.byID {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.PitchID != "" && b.PitchID != filter.PitchID {
			continue
		}
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *memRepo) Update(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; !ok {
		return ErrNotFound
	}
	clone := *b
	r.byID[b.ID] = &clone
	return nil
}

func (r *memRepo) HasConflict(_ context.Context, pitchID string, date time.Time, interval timeslot.Interval, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byID {
		if b.PitchID != pitchID || !b.Date.Equal(date) || b.ID == excludeID {
			continue
		}
		if b.Status == StatusCancelled || b.Status == StatusNoShow {
			continue
		}
		iv, err := timeslot.ParseInterval(b.StartTime, b.EndTime)
		if err != nil {
			return false, err
		}
		if iv.Overlaps(interval) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) ListForPitchDate(_ context.Context, pitchID string, date time.Time) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.byID {
		if b.PitchID != pitchID || !b.Date.Equal(date) {
			continue
		}
		if b.Status == StatusCancelled || b.Status == StatusNoShow {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

type stubPitches struct {
	pitch.Service
	mu        sync.Mutex
	pitches   map[string]*pitch.Pitch
	completed []string
}

func newStubPitches(pitches ...*pitch.Pitch) *stubPitches {
	byID := make(map[string]*pitch.Pitch)
	for _, p := range pitches {
		byID[p.ID] = p
	}
	return &stubPitches{pitches: byID}
}

func (s *stubPitches) GetByID(_ context.Context, id string) (*pitch.Pitch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pitches[id]
	if !ok {
		return nil, pitch.ErrNotFound
	}
	return p, nil
}

func (s *stubPitches) IncrementTotalBookings(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, id)
	return nil
}

type stubNotifier struct {
	mu        sync.Mutex
	created   int
	confirmed int
	cancelled int
	completed int
}

func (n *stubNotifier) BookingCreated(context.Context, *Booking)   { n.bump(&n.created) }
func (n *stubNotifier) BookingConfirmed(context.Context, *Booking) { n.bump(&n.confirmed) }
func (n *stubNotifier) BookingCancelled(context.Context, *Booking) { n.bump(&n.cancelled) }
func (n *stubNotifier) BookingCompleted(context.Context, *Booking) { n.bump(&n.completed) }

func (n *stubNotifier) bump(counter *int) {
	n.mu.Lock()
	*counter++
	n.mu.Unlock()
}

// --- fixtures ---

var fixedNow = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func testPitch() *pitch.Pitch {
	return &pitch.Pitch{
		ID:                   "pitch-1",
		OwnerID:              "owner-1",
		Name:                 "Camp Nou Five-a-Side",
		HourlyRate:           decimal.NewFromInt(40),
		Currency:             "EUR",
		MinCancellationHours: 24,
		Status:               pitch.StatusActive,
	}
}

func newTestService(t *testing.T, pitches ...*pitch.Pitch) (*service, *memRepo, *stubPitches, *stubNotifier) {
	t.Helper()
	if len(pitches) == 0 {
		pitches = []*pitch.Pitch{testPitch()}
	}
	repo := newMemRepo()
	ps := newStubPitches(pitches...)
	notifier := &stubNotifier{}
	svc := NewService(repo, ps, notifier).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, ps, notifier
}

func createReq(start, end string) CreateRequest {
	return CreateRequest{
		PitchID:   "pitch-1",
		Date:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		EndTime:   end,
	}
}

var (
	playerActor = Actor{ID: "user-1", Role: user.RolePlayer}
	ownerActor  = Actor{ID: "owner-1", Role: user.RoleOwner}
	adminActor  = Actor{ID: "admin-1", Role: user.RoleAdmin}
)

// --- creation and conflicts ---

func TestCreateBooking(t *testing.T) {
	svc, _, _, notifier := newTestService(t)

	b, err := svc.Create(context.Background(), "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, PaymentPending, b.PaymentStatus)
	assert.Equal(t, "18:00", b.StartTime)
	assert.Equal(t, "20:00", b.EndTime)
	assert.Equal(t, 2.0, b.DurationHours)
	assert.Equal(t, "80.00", b.TotalAmount.StringFixed(2))
	assert.Equal(t, "EUR", b.Currency)
	assert.Equal(t, 1, notifier.created)
}

func TestCreateBookingNormalizesTimes(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	b, err := svc.Create(context.Background(), "user-1", createReq("9:00", "10:30"))
	require.NoError(t, err)

	assert.Equal(t, "09:00", b.StartTime)
	assert.Equal(t, 1.5, b.DurationHours)
	assert.Equal(t, "60.00", b.TotalAmount.StringFixed(2))
}

func TestCreateBookingInvalidTimes(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", createReq("25:00", "26:00"))
	assert.ErrorIs(t, err, timeslot.ErrMalformedTime)

	_, err = svc.Create(ctx, "user-1", createReq("18:00", "18:00"))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.Create(ctx, "user-1", createReq("20:00", "18:00"))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateBookingInPast(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	req := createReq("18:00", "20:00")
	req.Date = time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, ErrPastSlot)
}

func TestCreateBookingUnknownPitch(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	req := createReq("18:00", "20:00")
	req.PitchID = "nope"
	_, err := svc.Create(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, ErrPitchNotFound)
}

func TestCreateBookingInactivePitch(t *testing.T) {
	p := testPitch()
	p.Status = pitch.StatusMaintenance
	svc, _, _, _ := newTestService(t, p)

	_, err := svc.Create(context.Background(), "user-1", createReq("18:00", "20:00"))
	assert.ErrorIs(t, err, ErrPitchUnavailable)
}

func TestOverlappingBookingRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	cases := []struct{ start, end string }{
		{"18:00", "20:00"}, // exact duplicate
		{"19:00", "21:00"}, // tail overlap
		{"17:00", "19:00"}, // head overlap
		{"18:30", "19:30"}, // contained
		{"17:00", "21:00"}, // containing
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, "user-2", createReq(tc.start, tc.end))
		assert.ErrorIs(t, err, ErrSlotConflict, "%s-%s should conflict", tc.start, tc.end)
	}
}

func TestBackToBackBookingsAllowed(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-2", createReq("20:00", "22:00"))
	assert.NoError(t, err)

	_, err = svc.Create(ctx, "user-3", createReq("16:00", "18:00"))
	assert.NoError(t, err)
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, playerActor, "change of plans")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-2", createReq("18:00", "20:00"))
	assert.NoError(t, err)
}

func TestSameSlotDifferentDate(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	req := createReq("18:00", "20:00")
	req.Date = time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, "user-2", req)
	assert.NoError(t, err)
}

func TestConcurrentCreateSameSlot(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, fmt.Sprintf("user-%d", i), createReq("18:00", "20:00"))
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrSlotConflict)
		}
	}
	assert.Equal(t, 1, ok, "exactly one concurrent request should win the slot")

	bookings, _, err := repo.List(ctx, Filter{PitchID: "pitch-1"})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestCreateStaysPendingOnInstantBookingPitch(t *testing.T) {
	p := testPitch()
	p.InstantBooking = true
	svc, _, _, _ := newTestService(t, p)

	b, err := svc.Create(context.Background(), "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	// Pitch marketing flags never short-circuit the owner's confirmation.
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, PaymentPending, b.PaymentStatus)
	assert.Nil(t, b.ConfirmedAt)
}

// --- cancellation policy ---

func TestCancelWithinNoticePeriod(t *testing.T) {
	svc, _, _, notifier := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, b.ID, playerActor, "rain forecast")
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "user-1", *cancelled.CancelledBy)
	assert.Equal(t, "rain forecast", *cancelled.CancellationReason)
	assert.Equal(t, 1, notifier.cancelled)
}

func TestCancelAtExactBoundarySucceeds(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	// Exactly 24 hours before an 18:00 start on the 15th.
	svc.now = func() time.Time { return time.Date(2026, 1, 14, 18, 0, 0, 0, time.UTC) }

	_, err = svc.Cancel(ctx, b.ID, playerActor, "")
	assert.NoError(t, err)
}

func TestCancelTooLateRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	// One minute inside the notice period.
	svc.now = func() time.Time { return time.Date(2026, 1, 14, 18, 1, 0, 0, time.UTC) }

	_, err = svc.Cancel(ctx, b.ID, playerActor, "")
	assert.ErrorIs(t, err, ErrCancelTooLate)
}

func TestNoticePeriodBindsOwnerToo(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	// Nine hours before an 18:00 start on a 24h-notice pitch.
	svc.now = func() time.Time { return time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC) }

	_, err = svc.Cancel(ctx, b.ID, ownerActor, "pitch flooded")
	assert.ErrorIs(t, err, ErrCancelTooLate)

	// With enough notice the owner cancels like anyone else.
	svc.now = func() time.Time { return time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC) }

	cancelled, err := svc.Cancel(ctx, b.ID, ownerActor, "pitch flooded")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", *cancelled.CancelledBy)
}

func TestCancelTerminalStates(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, playerActor, "")
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, b.ID, playerActor, "")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	b2, err := svc.Create(ctx, "user-1", createReq("10:00", "12:00"))
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, b2.ID, ownerActor)
	require.NoError(t, err)
	_, err = svc.Complete(ctx, b2.ID, ownerActor)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, b2.ID, playerActor, "")
	assert.ErrorIs(t, err, ErrCompletedBooking)

	stored, err := repo.GetByID(ctx, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
}

// --- lifecycle ---

func TestConfirmBooking(t *testing.T) {
	svc, _, _, notifier := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, b.ID, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, 1, notifier.confirmed)

	_, err = svc.Confirm(ctx, b.ID, ownerActor)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfirmRequiresPitchOwner(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, b.ID, playerActor)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Confirm(ctx, b.ID, adminActor)
	assert.NoError(t, err)
}

func TestCompleteBooking(t *testing.T) {
	svc, _, ps, notifier := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	// Completing straight from pending is not allowed.
	_, err = svc.Complete(ctx, b.ID, ownerActor)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Confirm(ctx, b.ID, ownerActor)
	require.NoError(t, err)

	completed, err := svc.Complete(ctx, b.ID, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, []string{"pitch-1"}, ps.completed)
	assert.Equal(t, 1, notifier.completed)
}

func TestUpdateBooking(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	notes := "bring own bibs"
	players := 10
	updated, err := svc.Update(ctx, b.ID, playerActor, UpdateRequest{Notes: &notes, NumberOfPlayers: &players})
	require.NoError(t, err)
	assert.Equal(t, "bring own bibs", *updated.Notes)
	assert.Equal(t, 10, *updated.NumberOfPlayers)

	_, err = svc.Update(ctx, b.ID, Actor{ID: "user-2", Role: user.RolePlayer}, UpdateRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Confirm(ctx, b.ID, ownerActor)
	require.NoError(t, err)
	_, err = svc.Update(ctx, b.ID, playerActor, UpdateRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGetBookingVisibility(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	for _, actor := range []Actor{playerActor, ownerActor, adminActor} {
		_, err := svc.GetByID(ctx, b.ID, actor)
		assert.NoError(t, err, "actor %s should see the booking", actor.ID)
	}

	_, err = svc.GetByID(ctx, b.ID, Actor{ID: "stranger", Role: user.RolePlayer})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

// --- payments ---

func TestMarkPaidAutoConfirms(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, StatusConfirmed, paid.Status)
	require.NotNil(t, paid.ConfirmedAt)
}

func TestMarkRefunded(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "user-1", createReq("18:00", "20:00"))
	require.NoError(t, err)
	_, err = svc.MarkPaid(ctx, b.ID)
	require.NoError(t, err)

	refunded, err := svc.MarkRefunded(ctx, b.ID, "re_123", decimal.NewFromInt(80))
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, refunded.PaymentStatus)
	assert.Equal(t, "re_123", *refunded.RefundID)
	assert.Equal(t, "80.00", refunded.RefundAmount.StringFixed(2))
	// Refund only moves the payment axis.
	assert.Equal(t, StatusConfirmed, refunded.Status)
}

// --- availability ---

func TestAvailabilityDefaultWindow(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	slots, err := svc.Availability(ctx, "pitch-1", date)
	require.NoError(t, err)

	// 08:00 to 22:00 in two-hour steps.
	require.Len(t, slots, 7)
	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, "10:00", slots[0].EndTime)
	assert.Equal(t, "20:00", slots[6].StartTime)
	assert.Equal(t, "22:00", slots[6].EndTime)
	for _, s := range slots {
		assert.True(t, s.Available)
		assert.Equal(t, "80.00", s.Price.StringFixed(2))
		assert.Equal(t, "EUR", s.Currency)
	}
}

func TestAvailabilityMarksTakenSlots(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	// 11:00-13:00 straddles the 10:00-12:00 and 12:00-14:00 grid slots.
	_, err := svc.Create(ctx, "user-1", createReq("11:00", "13:00"))
	require.NoError(t, err)

	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	slots, err := svc.Availability(ctx, "pitch-1", date)
	require.NoError(t, err)
	require.Len(t, slots, 7)

	byStart := make(map[string]Slot)
	for _, s := range slots {
		byStart[s.StartTime] = s
	}
	assert.False(t, byStart["10:00"].Available)
	assert.False(t, byStart["12:00"].Available)
	assert.True(t, byStart["08:00"].Available)
	assert.True(t, byStart["14:00"].Available)
}

func TestAvailabilityRespectsBusinessHours(t *testing.T) {
	p := testPitch()
	p.BusinessHours = map[string]pitch.DayHours{
		"thursday": {Open: "10:00", Close: "16:00"},
		"friday":   {Closed: true},
	}
	svc, _, _, _ := newTestService(t, p)
	ctx := context.Background()

	// 2026-01-15 is a Thursday.
	slots, err := svc.Availability(ctx, "pitch-1", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "10:00", slots[0].StartTime)
	assert.Equal(t, "14:00", slots[2].StartTime)

	slots, err = svc.Availability(ctx, "pitch-1", time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, slots)
}
