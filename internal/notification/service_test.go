package notification

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalline/pitch-booking-backend/internal/booking"
	"github.com/goalline/pitch-booking-backend/internal/match"
	"github.com/goalline/pitch-booking-backend/internal/payment"
	"github.com/goalline/pitch-booking-backend/internal/pitch"
)

// --- fakes ---

type memRepo struct {
	seq   int
	items map[string]*Notification
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]*Notification)}
}

func (r *memRepo) Create(_ context.Context, n *Notification) error {
	r.seq++
	n.ID = fmt.Sprintf("ntf-%d", r.seq)
	n.CreatedAt = time.Now()
	clone := *n
	r.items[n.ID] = &clone
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Notification, error) {
	n, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *memRepo) List(_ context.Context, filter Filter) ([]*Notification, int, error) {
	var out []*Notification
	for _, n := range r.items {
		if n.UserID != filter.UserID {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		clone := *n
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *memRepo) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *memRepo) MarkRead(_ context.Context, id string) error {
	n, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	return nil
}

func (r *memRepo) MarkAllRead(_ context.Context, userID string) error {
	now := time.Now()
	for _, n := range r.items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memRepo) DeleteAll(_ context.Context, userID string) error {
	for id, n := range r.items {
		if n.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}

type stubPitches struct {
	pitch.Service
	pitches map[string]*pitch.Pitch
}

func (s *stubPitches) GetByID(_ context.Context, id string) (*pitch.Pitch, error) {
	p, ok := s.pitches[id]
	if !ok {
		return nil, pitch.ErrNotFound
	}
	return p, nil
}

func seed(t *testing.T, svc Service, userID string, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ntf := &Notification{
			UserID:  userID,
			Type:    TypeBookingConfirmed,
			Title:   "Booking confirmed",
			Message: fmt.Sprintf("booking %d", i),
		}
		require.NoError(t, svc.Notify(context.Background(), ntf))
		ids = append(ids, ntf.ID)
	}
	return ids
}

// --- tests ---

func TestListWithUnreadCount(t *testing.T) {
	svc := NewService(newMemRepo())
	ids := seed(t, svc, "user-1", 3)
	seed(t, svc, "user-2", 2)

	require.NoError(t, svc.MarkRead(context.Background(), ids[0], "user-1"))

	inbox, err := svc.List(context.Background(), Filter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 3, inbox.Total)
	assert.Equal(t, 2, inbox.Unread)

	unread, err := svc.List(context.Background(), Filter{UserID: "user-1", UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread.Items, 2)
}

func TestMarkReadOwnership(t *testing.T) {
	svc := NewService(newMemRepo())
	ids := seed(t, svc, "user-1", 1)

	err := svc.MarkRead(context.Background(), ids[0], "user-2")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.MarkRead(context.Background(), ids[0], "user-1"))

	inbox, err := svc.List(context.Background(), Filter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, inbox.Items, 1)
	assert.True(t, inbox.Items[0].Read)
	assert.NotNil(t, inbox.Items[0].ReadAt)
}

func TestMarkAllRead(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "user-1", 3)
	seed(t, svc, "user-2", 1)

	require.NoError(t, svc.MarkAllRead(context.Background(), "user-1"))

	inbox, err := svc.List(context.Background(), Filter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, inbox.Unread)

	other, err := svc.List(context.Background(), Filter{UserID: "user-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, other.Unread)
}

func TestDeleteOwnership(t *testing.T) {
	svc := NewService(newMemRepo())
	ids := seed(t, svc, "user-1", 2)

	err := svc.Delete(context.Background(), ids[0], "user-2")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.Delete(context.Background(), ids[0], "user-1"))
	require.NoError(t, svc.DeleteAll(context.Background(), "user-1"))

	inbox, err := svc.List(context.Background(), Filter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, inbox.Items)
}

func testEvents() (*Events, Service) {
	svc := NewService(newMemRepo())
	pitches := &stubPitches{pitches: map[string]*pitch.Pitch{
		"pitch-1": {ID: "pitch-1", OwnerID: "owner-1", Name: "Camp Nou Five"},
	}}
	return NewEvents(svc, pitches), svc
}

func listFor(t *testing.T, svc Service, userID string) []*Notification {
	t.Helper()
	inbox, err := svc.List(context.Background(), Filter{UserID: userID})
	require.NoError(t, err)
	return inbox.Items
}

func TestBookingEventsFanOut(t *testing.T) {
	events, svc := testEvents()
	b := &booking.Booking{
		ID:        "booking-1",
		UserID:    "player-1",
		PitchID:   "pitch-1",
		Date:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "12:00",
	}

	events.BookingCreated(context.Background(), b)
	owner := listFor(t, svc, "owner-1")
	require.Len(t, owner, 1)
	assert.Equal(t, TypeBookingRequested, owner[0].Type)
	assert.Contains(t, owner[0].Message, "Camp Nou Five")
	assert.Equal(t, "booking-1", owner[0].Data["booking_id"])

	events.BookingConfirmed(context.Background(), b)
	events.BookingCompleted(context.Background(), b)
	player := listFor(t, svc, "player-1")
	require.Len(t, player, 2)
	assert.Equal(t, TypeBookingConfirmed, player[0].Type)
	assert.Equal(t, TypeBookingCompleted, player[1].Type)
}

func TestBookingCancelledNotifiesCounterpart(t *testing.T) {
	events, svc := testEvents()
	byPlayer := "player-1"
	reason := "rained out"
	b := &booking.Booking{
		ID:                 "booking-1",
		UserID:             "player-1",
		PitchID:            "pitch-1",
		Date:               time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		StartTime:          "10:00",
		EndTime:            "12:00",
		CancelledBy:        &byPlayer,
		CancellationReason: &reason,
	}

	// Player cancels, the owner hears about it.
	events.BookingCancelled(context.Background(), b)
	owner := listFor(t, svc, "owner-1")
	require.Len(t, owner, 1)
	assert.Equal(t, TypeBookingCancelled, owner[0].Type)
	assert.Contains(t, owner[0].Message, "rained out")
	assert.Empty(t, listFor(t, svc, "player-1"))

	// Owner cancels, the player hears about it.
	byOwner := "owner-1"
	b.CancelledBy = &byOwner
	events.BookingCancelled(context.Background(), b)
	player := listFor(t, svc, "player-1")
	require.Len(t, player, 1)
	assert.Equal(t, TypeBookingCancelled, player[0].Type)
}

func TestMatchEvents(t *testing.T) {
	events, svc := testEvents()
	m := &match.Match{
		ID:        "match-1",
		Title:     "Thursday kickabout",
		Date:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		StartTime: "18:00",
	}

	events.MatchInvitation(context.Background(), m, "player-2")
	invited := listFor(t, svc, "player-2")
	require.Len(t, invited, 1)
	assert.Equal(t, TypeMatchInvitation, invited[0].Type)
	assert.Equal(t, "match-1", invited[0].Data["match_id"])

	events.MatchCancelled(context.Background(), m, []string{"player-2", "player-3"})
	assert.Len(t, listFor(t, svc, "player-2"), 2)
	assert.Len(t, listFor(t, svc, "player-3"), 1)
}

func TestPaymentSucceededEvent(t *testing.T) {
	events, svc := testEvents()
	events.PaymentSucceeded(context.Background(), &payment.Payment{
		ID:        "pay-1",
		BookingID: "booking-1",
		UserID:    "player-1",
		Amount:    decimal.RequireFromString("80"),
		Currency:  "EUR",
	})

	got := listFor(t, svc, "player-1")
	require.Len(t, got, 1)
	assert.Equal(t, TypePaymentSuccess, got[0].Type)
	assert.Contains(t, got[0].Message, "80.00 EUR")
}
