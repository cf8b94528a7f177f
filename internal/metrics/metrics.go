package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prenota",
			Name:      "booking_created_total",
			Help:      "Count of bookings accepted for approval.",
		},
	)

	validationRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prenota",
			Name:      "validation_rejected_total",
			Help:      "Count of booking candidates rejected by validation, by reason.",
		},
		[]string{"reason"},
	)

	bookingDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prenota",
			Name:      "booking_decision_total",
			Help:      "Count of administrator decisions over pending bookings.",
		},
		[]string{"decision"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prenota",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, validationRejected, bookingDecision, httpRequests)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncValidationRejected(reason string) {
	validationRejected.WithLabelValues(reason).Inc()
}

func IncBookingDecision(decision string) {
	bookingDecision.WithLabelValues(decision).Inc()
}

func IncHTTPRequest(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
