package assistant

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/pitch"
)

type Intent string

const (
	IntentAvailability Intent = "availability_check"
	IntentPricing      Intent = "pricing_query"
	IntentFacilities   Intent = "facilities_query"
	IntentPolicy       Intent = "policy_query"
	IntentGreeting     Intent = "greeting"
	IntentGeneral      Intent = "general"
)

// intentKeywords are checked in order; the first intent with a matching
// keyword wins, so availability beats pricing for "how much to book".
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentAvailability, []string{"available", "availability", "free", "book"}},
	{IntentPricing, []string{"price", "cost", "fee", "how much"}},
	{IntentFacilities, []string{"facilities", "amenities", "features"}},
	{IntentPolicy, []string{"cancel", "policy", "refund"}},
	{IntentGreeting, []string{"hello", "hi", "help"}},
}

func detectIntent(message string) Intent {
	lower := strings.ToLower(message)
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.intent
			}
		}
	}
	return IntentGeneral
}

// renderReply produces the canned response for an intent. p is nil when the
// conversation is not tied to a pitch; every intent has a generic fallback.
func renderReply(intent Intent, p *pitch.Pitch) string {
	switch intent {
	case IntentAvailability:
		if p == nil {
			return "I can help you check pitch availability. Let me know which pitch you are interested in and I will show you the open time slots for any date."
		}
		return fmt.Sprintf(
			"Happy to check availability for %s. Tell me which date you are interested in and I will list the open slots.\n\n"+
				"%s at a glance:\n"+
				"- Location: %s, %s\n"+
				"- Hourly rate: %s %s\n"+
				"- Surface: %s\n"+
				"- Capacity: %d players",
			p.Name, p.Name, p.City, p.Country,
			p.Currency, p.HourlyRate.StringFixed(2), p.SurfaceType, p.Capacity,
		)
	case IntentPricing:
		if p == nil {
			return "Every pitch sets its own hourly rate. Pick a pitch and I will break down the cost for the duration you have in mind."
		}
		twoHours := p.HourlyRate.Mul(decimal.NewFromInt(2))
		threeHours := p.HourlyRate.Mul(decimal.NewFromInt(3))
		return fmt.Sprintf(
			"Pricing for %s:\n"+
				"- Hourly rate: %s %s\n"+
				"- 2 hours: %s %s\n"+
				"- 3 hours: %s %s\n"+
				"- Free cancellation up to %d hours before kick-off",
			p.Name,
			p.Currency, p.HourlyRate.StringFixed(2),
			p.Currency, twoHours.StringFixed(2),
			p.Currency, threeHours.StringFixed(2),
			p.MinCancellationHours,
		)
	case IntentFacilities:
		if p == nil {
			return "Our pitches list their amenities on the pitch page, covering changing rooms, parking, showers and more. Pick a pitch and I will list what it offers."
		}
		amenities := "Standard facilities"
		if len(p.Amenities) > 0 {
			amenities = "- " + strings.Join(p.Amenities, "\n- ")
		}
		setting := "Outdoor pitch"
		if p.Indoor {
			setting = "Indoor pitch"
		}
		reply := fmt.Sprintf(
			"%s facilities:\n%s\n\nSurface: %s\n%s",
			p.Name, amenities, p.SurfaceType, setting,
		)
		if p.Lighting {
			reply += "\nFloodlit for evening games"
		}
		return reply
	case IntentPolicy:
		if p == nil {
			return "Bookings can be cancelled free of charge with enough notice; the required notice varies per pitch. Eligible cancellations are refunded in full. Ask about a specific pitch for its exact policy."
		}
		return fmt.Sprintf(
			"Booking policy for %s:\n"+
				"- Free cancellation up to %d hours before your slot\n"+
				"- Cancellations inside %d hours are non-refundable\n"+
				"- Refunds are processed within 5-7 business days\n"+
				"- Payment is handled securely at booking time",
			p.Name, p.MinCancellationHours, p.MinCancellationHours,
		)
	case IntentGreeting:
		return "Hello! I can help you check availability, compare prices, look up facilities and explain booking policies. What would you like to know?"
	default:
		return "I can help with checking availability, pricing, facilities and booking policies. Tell me what you are looking for, or pick a pitch to get started."
	}
}
