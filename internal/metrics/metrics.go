package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "goalline",
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "goalline",
			Name:      "booking_conflict_total",
			Help:      "Count of booking attempts rejected due to a slot conflict.",
		},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goalline",
			Name:      "booking_transition_total",
			Help:      "Count of booking lifecycle transitions by target status.",
		},
		[]string{"status"},
	)

	paymentOutcome = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goalline",
			Name:      "payment_outcome_total",
			Help:      "Count of payment outcomes by status.",
		},
		[]string{"status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingConflict, bookingTransition, paymentOutcome)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingConflict() {
	bookingConflict.Inc()
}

func IncBookingTransition(status string) {
	bookingTransition.WithLabelValues(status).Inc()
}

func IncPaymentOutcome(status string) {
	paymentOutcome.WithLabelValues(status).Inc()
}
