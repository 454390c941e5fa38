package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/refund"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Intent is the provider-neutral view of a payment intent.
type Intent struct {
	ID           string
	ClientSecret string
	Succeeded    bool
}

// Webhook event types the service reacts to. They mirror Stripe's names so
// other providers only need to translate.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventChargeRefunded   = "charge.refunded"
)

// WebhookEvent is a verified, decoded provider callback.
type WebhookEvent struct {
	Type     string
	IntentID string
	// AmountRefunded is the charge's cumulative refunded amount in major
	// units, set for EventChargeRefunded.
	AmountRefunded decimal.Decimal
	FailureMessage string
}

// Processor abstracts the payment provider.
type Processor interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency, bookingID string) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
	// CreateRefund refunds part of an intent and returns the provider's
	// refund ID. Amount is in major units.
	CreateRefund(ctx context.Context, intentID string, amount decimal.Decimal) (string, error)
	// VerifyWebhook checks the callback signature and decodes the event.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type stripeProcessor struct {
	webhookSecret string
}

// NewStripeProcessor configures the global Stripe client and returns a
// Processor backed by it.
func NewStripeProcessor(secretKey, webhookSecret string) Processor {
	stripe.Key = secretKey
	return &stripeProcessor{webhookSecret: webhookSecret}
}

// minorUnits converts a major-unit decimal amount to the provider's integer
// minor units (cents).
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func majorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100))
}

func (s *stripeProcessor) CreateIntent(_ context.Context, amount decimal.Decimal, currency, bookingID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", bookingID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent failed: %w", err)
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Succeeded:    pi.Status == stripe.PaymentIntentStatusSucceeded,
	}, nil
}

func (s *stripeProcessor) RetrieveIntent(_ context.Context, intentID string) (*Intent, error) {
	pi, err := paymentintent.Get(intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent failed: %w", err)
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Succeeded:    pi.Status == stripe.PaymentIntentStatusSucceeded,
	}, nil
}

func (s *stripeProcessor) CreateRefund(_ context.Context, intentID string, amount decimal.Decimal) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Amount:        stripe.Int64(minorUnits(amount)),
	}
	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("create refund failed: %w", err)
	}
	return r.ID, nil
}

func (s *stripeProcessor) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	ev := &WebhookEvent{Type: string(event.Type)}
	switch ev.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent event failed: %w", err)
		}
		ev.IntentID = pi.ID
		if pi.LastPaymentError != nil {
			ev.FailureMessage = pi.LastPaymentError.Msg
		}
	case EventChargeRefunded:
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			return nil, fmt.Errorf("decode charge event failed: %w", err)
		}
		if ch.PaymentIntent != nil {
			ev.IntentID = ch.PaymentIntent.ID
		}
		ev.AmountRefunded = majorUnits(ch.AmountRefunded)
	}
	return ev, nil
}
