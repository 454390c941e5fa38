package payment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalline/pitch-booking-backend/internal/booking"
)

// --- fakes ---

type memRepo struct {
	seq      int
	payments map[string]*Payment
}

func newMemRepo() *memRepo {
	return &memRepo{payments: make(map[string]*Payment)}
}

func (r *memRepo) Create(_ context.Context, p *Payment) error {
	r.seq++
	p.ID = fmt.Sprintf("payment-%d", r.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	r.payments[p.ID] = &clone
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memRepo) GetByBookingID(_ context.Context, bookingID string) (*Payment, error) {
	for _, p := range r.payments {
		if p.BookingID == bookingID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) GetByIntentID(_ context.Context, intentID string) (*Payment, error) {
	for _, p := range r.payments {
		if p.ProviderIntentID == intentID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) Update(_ context.Context, p *Payment) error {
	if _, ok := r.payments[p.ID]; !ok {
		return ErrNotFound
	}
	clone := *p
	r.payments[p.ID] = &clone
	return nil
}

type fakeProcessor struct {
	intentSeq int
	refundSeq int
	succeeded map[string]bool
	lastEvent *WebhookEvent
	refunds   []decimal.Decimal
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{succeeded: make(map[string]bool)}
}

func (f *fakeProcessor) CreateIntent(_ context.Context, _ decimal.Decimal, _, _ string) (*Intent, error) {
	f.intentSeq++
	id := fmt.Sprintf("pi_%d", f.intentSeq)
	return &Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (f *fakeProcessor) RetrieveIntent(_ context.Context, intentID string) (*Intent, error) {
	return &Intent{ID: intentID, Succeeded: f.succeeded[intentID]}, nil
}

func (f *fakeProcessor) CreateRefund(_ context.Context, _ string, amount decimal.Decimal) (string, error) {
	f.refundSeq++
	f.refunds = append(f.refunds, amount)
	return fmt.Sprintf("re_%d", f.refundSeq), nil
}

func (f *fakeProcessor) VerifyWebhook(_ []byte, _ string) (*WebhookEvent, error) {
	return f.lastEvent, nil
}

// stubBookings tracks the payment-axis commands the service issues.
type stubBookings struct {
	booking.Service
	bookings map[string]*booking.Booking
}

func (s *stubBookings) GetByID(_ context.Context, id string, actor booking.Actor) (*booking.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return b, nil
}

func (s *stubBookings) AttachPaymentIntent(_ context.Context, id, intentID string) error {
	s.bookings[id].PaymentIntentID = &intentID
	return nil
}

func (s *stubBookings) MarkPaid(_ context.Context, id string) (*booking.Booking, error) {
	b := s.bookings[id]
	b.PaymentStatus = booking.PaymentPaid
	b.Status = booking.StatusConfirmed
	return b, nil
}

func (s *stubBookings) MarkPaymentFailed(_ context.Context, id string) (*booking.Booking, error) {
	b := s.bookings[id]
	b.PaymentStatus = booking.PaymentFailed
	return b, nil
}

func (s *stubBookings) MarkRefunded(_ context.Context, id, refundID string, amount decimal.Decimal) (*booking.Booking, error) {
	b := s.bookings[id]
	b.PaymentStatus = booking.PaymentRefunded
	b.RefundID = &refundID
	b.RefundAmount = &amount
	return b, nil
}

type stubNotifier struct {
	succeeded int
}

func (n *stubNotifier) PaymentSucceeded(context.Context, *Payment) { n.succeeded++ }

// --- fixtures ---

func newTestService(t *testing.T) (Service, *memRepo, *fakeProcessor, *stubBookings, *stubNotifier) {
	t.Helper()
	repo := newMemRepo()
	processor := newFakeProcessor()
	bookings := &stubBookings{bookings: map[string]*booking.Booking{
		"booking-1": {
			ID:            "booking-1",
			UserID:        "user-1",
			PitchID:       "pitch-1",
			TotalAmount:   decimal.RequireFromString("80.00"),
			Currency:      "EUR",
			Status:        booking.StatusPending,
			PaymentStatus: booking.PaymentPending,
		},
	}}
	notifier := &stubNotifier{}
	return NewService(repo, processor, bookings, notifier), repo, processor, bookings, notifier
}

var booker = booking.Actor{ID: "user-1"}

// --- tests ---

func TestCreateIntent(t *testing.T) {
	svc, _, _, bookings, _ := newTestService(t)

	session, err := svc.CreateIntent(context.Background(), "booking-1", "user-1")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, session.Payment.Status)
	assert.Equal(t, "80.00", session.Payment.Amount.StringFixed(2))
	assert.Equal(t, "EUR", session.Payment.Currency)
	assert.Equal(t, "pi_1_secret", session.ClientSecret)

	require.NotNil(t, bookings.bookings["booking-1"].PaymentIntentID)
	assert.Equal(t, "pi_1", *bookings.bookings["booking-1"].PaymentIntentID)
}

func TestCreateIntentOnlyBooker(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.CreateIntent(context.Background(), "booking-1", "someone-else")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreateIntentAlreadyPaid(t *testing.T) {
	svc, _, _, bookings, _ := newTestService(t)

	bookings.bookings["booking-1"].PaymentStatus = booking.PaymentPaid
	_, err := svc.CreateIntent(context.Background(), "booking-1", "user-1")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestCreateIntentRetryAfterFailure(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateIntent(ctx, "booking-1", "user-1")
	require.NoError(t, err)

	// Simulate a failed attempt, then retry.
	stored, err := repo.GetByBookingID(ctx, "booking-1")
	require.NoError(t, err)
	stored.Status = StatusFailed
	require.NoError(t, repo.Update(ctx, stored))

	second, err := svc.CreateIntent(ctx, "booking-1", "user-1")
	require.NoError(t, err)

	assert.Equal(t, first.Payment.ID, second.Payment.ID, "the payment record is reused")
	assert.Equal(t, StatusPending, second.Payment.Status)
	assert.Equal(t, "pi_2", second.Payment.ProviderIntentID)
}

func TestConfirmPayment(t *testing.T) {
	svc, _, processor, bookings, notifier := newTestService(t)
	ctx := context.Background()

	session, err := svc.CreateIntent(ctx, "booking-1", "user-1")
	require.NoError(t, err)

	// Not settled on the provider side yet.
	_, err = svc.ConfirmPayment(ctx, "booking-1", "user-1")
	assert.ErrorIs(t, err, ErrNotSucceeded)

	processor.succeeded[session.Payment.ProviderIntentID] = true
	p, err := svc.ConfirmPayment(ctx, "booking-1", "user-1")
	require.NoError(t, err)

	assert.Equal(t, StatusSucceeded, p.Status)
	assert.Equal(t, booking.PaymentPaid, bookings.bookings["booking-1"].PaymentStatus)
	assert.Equal(t, booking.StatusConfirmed, bookings.bookings["booking-1"].Status)
	assert.Equal(t, 1, notifier.succeeded)

	// Confirming again is a no-op.
	_, err = svc.ConfirmPayment(ctx, "booking-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.succeeded)
}

func payAndSettle(t *testing.T, svc Service, processor *fakeProcessor) {
	t.Helper()
	ctx := context.Background()
	session, err := svc.CreateIntent(ctx, "booking-1", "user-1")
	require.NoError(t, err)
	processor.succeeded[session.Payment.ProviderIntentID] = true
	_, err = svc.ConfirmPayment(ctx, "booking-1", "user-1")
	require.NoError(t, err)
}

func TestFullRefund(t *testing.T) {
	svc, _, processor, bookings, _ := newTestService(t)
	ctx := context.Background()

	payAndSettle(t, svc, processor)

	p, err := svc.Refund(ctx, "booking-1", booker, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, StatusRefunded, p.Status)
	assert.Equal(t, "80.00", p.RefundedAmount.StringFixed(2))
	assert.Equal(t, booking.PaymentRefunded, bookings.bookings["booking-1"].PaymentStatus)
}

func TestPartialRefund(t *testing.T) {
	svc, _, processor, bookings, _ := newTestService(t)
	ctx := context.Background()

	payAndSettle(t, svc, processor)

	p, err := svc.Refund(ctx, "booking-1", booker, decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyRefunded, p.Status)
	assert.Equal(t, "50.00", p.Remaining().StringFixed(2))
	// A partial refund leaves the booking paid.
	assert.Equal(t, booking.PaymentPaid, bookings.bookings["booking-1"].PaymentStatus)

	// Refunds cannot exceed what is left.
	_, err = svc.Refund(ctx, "booking-1", booker, decimal.RequireFromString("60.00"))
	assert.ErrorIs(t, err, ErrRefundTooLarge)

	// The remainder completes the refund.
	p, err = svc.Refund(ctx, "booking-1", booker, decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, p.Status)
	assert.Equal(t, booking.PaymentRefunded, bookings.bookings["booking-1"].PaymentStatus)
}

func TestRefundRequiresSucceededPayment(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateIntent(ctx, "booking-1", "user-1")
	require.NoError(t, err)

	_, err = svc.Refund(ctx, "booking-1", booker, decimal.Zero)
	assert.ErrorIs(t, err, ErrNotRefundable)
}

func TestWebhookPaymentSucceeded(t *testing.T) {
	svc, repo, processor, bookings, notifier := newTestService(t)
	ctx := context.Background()

	session, err := svc.CreateIntent(ctx, "booking-1", "user-1")
	require.NoError(t, err)

	processor.lastEvent = &WebhookEvent{
		Type:     EventPaymentSucceeded,
		IntentID: session.Payment.ProviderIntentID,
	}
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))

	p, err := repo.GetByBookingID(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, p.Status)
	assert.Equal(t, booking.PaymentPaid, bookings.bookings["booking-1"].PaymentStatus)
	assert.Equal(t, 1, notifier.succeeded)

	// Redelivery is idempotent.
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
	assert.Equal(t, 1, notifier.succeeded)
}

func TestWebhookPaymentFailed(t *testing.T) {
	svc, repo, processor, bookings, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.CreateIntent(ctx, "booking-1", "user-1")
	require.NoError(t, err)

	processor.lastEvent = &WebhookEvent{
		Type:           EventPaymentFailed,
		IntentID:       session.Payment.ProviderIntentID,
		FailureMessage: "card declined",
	}
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))

	p, err := repo.GetByBookingID(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, p.Status)
	assert.Equal(t, "card declined", *p.FailureMessage)
	assert.Equal(t, booking.PaymentFailed, bookings.bookings["booking-1"].PaymentStatus)
}

func TestWebhookChargeRefunded(t *testing.T) {
	svc, repo, processor, bookings, _ := newTestService(t)
	ctx := context.Background()

	payAndSettle(t, svc, processor)

	p, err := repo.GetByBookingID(ctx, "booking-1")
	require.NoError(t, err)

	processor.lastEvent = &WebhookEvent{
		Type:           EventChargeRefunded,
		IntentID:       p.ProviderIntentID,
		AmountRefunded: decimal.RequireFromString("80.00"),
	}
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))

	p, err = repo.GetByBookingID(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, p.Status)
	assert.Equal(t, booking.PaymentRefunded, bookings.bookings["booking-1"].PaymentStatus)
}

func TestWebhookUnknownIntentIgnored(t *testing.T) {
	svc, _, processor, _, _ := newTestService(t)

	processor.lastEvent = &WebhookEvent{Type: EventPaymentSucceeded, IntentID: "pi_unknown"}
	assert.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
}
