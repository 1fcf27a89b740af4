package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fastboat_bookings_created_total",
		Help: "Bookings persisted, by bookable type.",
	}, []string{"bookable_type"})

	BookingNumberCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fastboat_booking_number_collisions_total",
		Help: "Generated booking numbers rejected by the unique constraint.",
	})

	PaymentsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fastboat_payments_resolved_total",
		Help: "Payment resolutions, by method and outcome.",
	}, []string{"method", "outcome"})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fastboat_bookings_cancelled_total",
		Help: "Bookings cancelled by an administrator.",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fastboat_notifications_total",
		Help: "Booking events handled by the worker, by event type.",
	}, []string{"event"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fastboat_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
