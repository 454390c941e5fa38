package review

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalline/pitch-booking-backend/internal/booking"
	"github.com/goalline/pitch-booking-backend/internal/pitch"
	"github.com/goalline/pitch-booking-backend/internal/user"
)

// --- fakes ---

type memRepo struct {
	seq     int
	reviews map[string]*Review
	votes   map[string]bool // reviewID|userID -> helpful
}

func newMemRepo() *memRepo {
	return &memRepo{
		reviews: make(map[string]*Review),
		votes:   make(map[string]bool),
	}
}

func (r *memRepo) Create(_ context.Context, rv *Review) error {
	r.seq++
	rv.ID = fmt.Sprintf("review-%d", r.seq)
	rv.CreatedAt = time.Now()
	rv.UpdatedAt = rv.CreatedAt
	clone := *rv
	r.reviews[rv.ID] = &clone
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Review, error) {
	rv, ok := r.reviews[id]
	if !ok || rv.DeletedAt != nil {
		return nil, ErrNotFound
	}
	clone := *rv
	return &clone, nil
}

func (r *memRepo) GetByUserAndPitch(_ context.Context, userID, pitchID string) (*Review, error) {
	for _, rv := range r.reviews {
		if rv.UserID == userID && rv.PitchID == pitchID && rv.DeletedAt == nil {
			clone := *rv
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) List(_ context.Context, filter Filter) ([]*Review, int, error) {
	var out []*Review
	for _, rv := range r.reviews {
		if rv.DeletedAt != nil {
			continue
		}
		if filter.PitchID != "" && rv.PitchID != filter.PitchID {
			continue
		}
		clone := *rv
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *memRepo) Update(_ context.Context, rv *Review) error {
	stored, ok := r.reviews[rv.ID]
	if !ok || stored.DeletedAt != nil {
		return ErrNotFound
	}
	clone := *rv
	r.reviews[rv.ID] = &clone
	return nil
}

func (r *memRepo) SoftDelete(_ context.Context, id string) error {
	rv, ok := r.reviews[id]
	if !ok || rv.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now()
	rv.DeletedAt = &now
	return nil
}

func (r *memRepo) UpsertHelpfulVote(_ context.Context, reviewID, userID string, helpful bool) error {
	r.votes[reviewID+"|"+userID] = helpful
	return nil
}

func (r *memRepo) CountHelpfulVotes(_ context.Context, reviewID string) (int, error) {
	count := 0
	for key, helpful := range r.votes {
		if helpful && len(key) > len(reviewID) && key[:len(reviewID)+1] == reviewID+"|" {
			count++
		}
	}
	return count, nil
}

func (r *memRepo) RatingStats(_ context.Context, pitchID string) (decimal.Decimal, int, error) {
	sum, count := 0, 0
	for _, rv := range r.reviews {
		if rv.PitchID == pitchID && rv.DeletedAt == nil {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return decimal.Zero, 0, nil
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count))).Round(2)
	return avg, count, nil
}

type stubBookings struct {
	booking.Service
	bookings map[string]*booking.Booking
}

func (s *stubBookings) GetByID(_ context.Context, id string, actor booking.Actor) (*booking.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	if b.UserID != actor.ID {
		return nil, booking.ErrPermissionDenied
	}
	return b, nil
}

type stubPitches struct {
	pitch.Service
	pitches     map[string]*pitch.Pitch
	ratingCalls []ratingCall
}

type ratingCall struct {
	pitchID string
	average decimal.Decimal
	total   int
}

func (s *stubPitches) GetByID(_ context.Context, id string) (*pitch.Pitch, error) {
	p, ok := s.pitches[id]
	if !ok {
		return nil, pitch.ErrNotFound
	}
	return p, nil
}

func (s *stubPitches) SetRatingStats(_ context.Context, id string, avg decimal.Decimal, total int) error {
	s.ratingCalls = append(s.ratingCalls, ratingCall{pitchID: id, average: avg, total: total})
	return nil
}

type stubNotifier struct {
	received []string // pitch owner IDs
}

func (n *stubNotifier) ReviewReceived(_ context.Context, _ *Review, ownerID string) {
	n.received = append(n.received, ownerID)
}

// --- fixtures ---

func newTestService(t *testing.T) (Service, *memRepo, *stubBookings, *stubPitches, *stubNotifier) {
	t.Helper()
	repo := newMemRepo()
	bookings := &stubBookings{bookings: make(map[string]*booking.Booking)}
	pitches := &stubPitches{pitches: map[string]*pitch.Pitch{
		"pitch-1": {ID: "pitch-1", OwnerID: "owner-1"},
	}}
	notifier := &stubNotifier{}
	return NewService(repo, bookings, pitches, notifier), repo, bookings, pitches, notifier
}

func createReq(rating int) CreateRequest {
	return CreateRequest{
		PitchID: "pitch-1",
		Rating:  rating,
		Comment: "great surface, floodlights could be brighter",
	}
}

func strptr(s string) *string { return &s }

// --- tests ---

func TestCreateReview(t *testing.T) {
	svc, _, _, pitches, notifier := newTestService(t)

	rv, err := svc.Create(context.Background(), "user-1", createReq(4))
	require.NoError(t, err)

	assert.Equal(t, 4, rv.Rating)
	assert.False(t, rv.Verified, "review without a booking is unverified")
	assert.Equal(t, []string{"owner-1"}, notifier.received)

	require.Len(t, pitches.ratingCalls, 1)
	assert.Equal(t, "4", pitches.ratingCalls[0].average.String())
	assert.Equal(t, 1, pitches.ratingCalls[0].total)
}

func TestCreateReviewValidation(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", createReq(0))
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Create(ctx, "user-1", createReq(6))
	assert.ErrorIs(t, err, ErrInvalidRating)

	req := createReq(4)
	req.Comment = "   "
	_, err = svc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, ErrEmptyComment)

	req = createReq(4)
	bad := 7
	req.RatingSurface = &bad
	_, err = svc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestOneReviewPerUserPerPitch(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", createReq(4))
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-1", createReq(5))
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	// A different user can still review the same pitch.
	_, err = svc.Create(ctx, "user-2", createReq(5))
	assert.NoError(t, err)
}

func TestReviewVerification(t *testing.T) {
	svc, _, bookings, _, _ := newTestService(t)
	ctx := context.Background()

	bookings.bookings["booking-1"] = &booking.Booking{
		ID: "booking-1", UserID: "user-1", PitchID: "pitch-1", Status: booking.StatusCompleted,
	}
	bookings.bookings["booking-2"] = &booking.Booking{
		ID: "booking-2", UserID: "user-2", PitchID: "pitch-1", Status: booking.StatusPending,
	}
	bookings.bookings["booking-3"] = &booking.Booking{
		ID: "booking-3", UserID: "user-3", PitchID: "pitch-1", Status: booking.StatusCompleted,
	}

	req := createReq(5)
	req.BookingID = strptr("booking-1")
	rv, err := svc.Create(ctx, "user-1", req)
	require.NoError(t, err)
	assert.True(t, rv.Verified, "own completed booking verifies the review")

	req = createReq(3)
	req.BookingID = strptr("booking-2")
	rv, err = svc.Create(ctx, "user-2", req)
	require.NoError(t, err)
	assert.False(t, rv.Verified, "booking not completed")

	// Referencing someone else's booking never verifies.
	req = createReq(3)
	req.BookingID = strptr("booking-3")
	rv, err = svc.Create(ctx, "user-4", req)
	require.NoError(t, err)
	assert.False(t, rv.Verified)
	assert.Nil(t, rv.BookingID)
}

func TestRatingRecompute(t *testing.T) {
	svc, _, _, pitches, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", createReq(5))
	require.NoError(t, err)
	rv2, err := svc.Create(ctx, "user-2", createReq(4))
	require.NoError(t, err)

	last := pitches.ratingCalls[len(pitches.ratingCalls)-1]
	assert.Equal(t, "4.5", last.average.String())
	assert.Equal(t, 2, last.total)

	// Deleting a review refreshes the aggregate again.
	require.NoError(t, svc.Delete(ctx, rv2.ID, "user-2", user.RolePlayer))
	last = pitches.ratingCalls[len(pitches.ratingCalls)-1]
	assert.Equal(t, "5", last.average.String())
	assert.Equal(t, 1, last.total)
}

func TestUpdateReview(t *testing.T) {
	svc, _, _, pitches, _ := newTestService(t)
	ctx := context.Background()

	rv, err := svc.Create(ctx, "user-1", createReq(2))
	require.NoError(t, err)

	rating := 4
	updated, err := svc.Update(ctx, rv.ID, "user-1", UpdateRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	last := pitches.ratingCalls[len(pitches.ratingCalls)-1]
	assert.Equal(t, "4", last.average.String())

	_, err = svc.Update(ctx, rv.ID, "user-2", UpdateRequest{Rating: &rating})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDeleteReviewPermissions(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	rv, err := svc.Create(ctx, "user-1", createReq(4))
	require.NoError(t, err)

	err = svc.Delete(ctx, rv.ID, "user-2", user.RolePlayer)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.Delete(ctx, rv.ID, "admin", user.RoleAdmin))

	_, err = svc.GetByID(ctx, rv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwnerResponse(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	rv, err := svc.Create(ctx, "user-1", createReq(4))
	require.NoError(t, err)

	_, err = svc.Respond(ctx, rv.ID, "user-2", "thanks!")
	assert.ErrorIs(t, err, ErrNotPitchOwner)

	responded, err := svc.Respond(ctx, rv.ID, "owner-1", "thanks, new floodlights coming next month")
	require.NoError(t, err)
	require.NotNil(t, responded.OwnerResponse)
	assert.Equal(t, "thanks, new floodlights coming next month", *responded.OwnerResponse)
	assert.NotNil(t, responded.OwnerRespondedAt)
}

func TestHelpfulVotes(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	rv, err := svc.Create(ctx, "user-1", createReq(4))
	require.NoError(t, err)

	voted, err := svc.Vote(ctx, rv.ID, "user-2", true)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.HelpfulCount)

	// Voting again replaces the previous vote instead of stacking.
	voted, err = svc.Vote(ctx, rv.ID, "user-2", true)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.HelpfulCount)

	voted, err = svc.Vote(ctx, rv.ID, "user-3", true)
	require.NoError(t, err)
	assert.Equal(t, 2, voted.HelpfulCount)

	voted, err = svc.Vote(ctx, rv.ID, "user-2", false)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.HelpfulCount)
}
