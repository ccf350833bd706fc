package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumapi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forumapi_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumapi_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "entity"},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forumapi_database_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "entity"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumapi_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	UploadsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumapi_uploads_rejected_total",
			Help: "Image uploads rejected by reason",
		},
		[]string{"reason"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forumapi_active_sessions",
			Help: "Number of live sessions",
		},
	)
)

func RecordHttpRequest(method, endpoint, status string, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordDatabaseOperation(operation, entity string, duration time.Duration) {
	DatabaseOperationsTotal.WithLabelValues(operation, entity).Inc()
	DatabaseOperationDuration.WithLabelValues(operation, entity).Observe(duration.Seconds())
}

func RecordLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

func RecordUploadRejected(reason string) {
	UploadsRejected.WithLabelValues(reason).Inc()
}

func SessionOpened() {
	ActiveSessions.Inc()
}

func SessionClosed() {
	ActiveSessions.Dec()
}
