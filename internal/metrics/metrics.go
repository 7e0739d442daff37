package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_rejections_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	// Domain Metrics
	RegistrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_registration_attempts_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"}, // "confirmed", "full", "duplicate", "closed", "not_found", "error"
	)

	RegistrationCancellations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_registration_cancellations_total",
			Help: "Registrations cancelled by participants",
		},
	)

	CertificatesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificates_issued_total",
			Help: "Certificates issued",
		},
		[]string{"mode"}, // "bulk", "single"
	)

	CertificateRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "certificate_render_duration_seconds",
			Help:    "Time spent rendering certificate images",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// Notification Metrics
	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Notifications handed to the broker by outcome",
		},
		[]string{"type", "outcome"},
	)

	NotificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_delivered_total",
			Help: "Notifications consumed and delivered by outcome",
		},
		[]string{"type", "outcome"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
