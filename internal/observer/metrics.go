package observer

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsEnabled = true // Flag to control metric collection

	// Labels for HTTP request metrics
	httpRequestLabels = []string{"method", "route", "status"}

	// HTTP request counter and duration
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_dashboard_http_requests_total",
			Help: "Total number of HTTP requests handled, labeled by method, route and status code.",
		},
		httpRequestLabels,
	)
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messaging_dashboard_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		httpRequestLabels,
	)
)

// Webhook ingestion metrics
var (
	webhookLabels = []string{"platform", "outcome"}

	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_dashboard_webhook_events_total",
			Help: "Total number of webhook deliveries received, labeled by platform and outcome.",
		},
		webhookLabels,
	)
)

// Labels for database operations
var (
	dbOperationLabels = []string{"operation", "entity", "status"}

	DatabaseOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messaging_dashboard_db_operation_duration_seconds",
			Help:    "Histogram of database operation durations.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
		},
		dbOperationLabels,
	)
)

// Buffer publisher pool metrics
var (
	bufferStatusLabels = []string{"status"}

	bufferTasksSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messaging_dashboard_buffer_tasks_submitted_total",
		Help: "Total number of buffer publish tasks submitted to the worker pool.",
	})
	bufferTasksProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_dashboard_buffer_tasks_processed_total",
			Help: "Total number of buffer publish tasks processed, labeled by final status.",
		},
		bufferStatusLabels,
	)
	bufferQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "messaging_dashboard_buffer_queue_length",
		Help: "Approximate number of tasks waiting in the buffer publisher queue.",
	})
)

// InitMetrics initializes metric collection. Call during application startup.
func InitMetrics(enabled bool) {
	metricsEnabled = enabled
}

// ObserveHTTPRequest records one handled HTTP request.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if !metricsEnabled {
		return
	}
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// IncWebhookEvent increments the webhook delivery counter.
func IncWebhookEvent(platform, outcome string) {
	if !metricsEnabled {
		return
	}
	WebhookEventsTotal.WithLabelValues(platform, outcome).Inc()
}

// ObserveDbOperationDuration records the duration for a database operation.
func ObserveDbOperationDuration(operation, entity string, duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseOperationDurationSeconds.WithLabelValues(operation, entity, status).Observe(duration.Seconds())
}

// IncBufferTasksSubmitted increments the buffer submit counter.
func IncBufferTasksSubmitted() {
	if !metricsEnabled {
		return
	}
	bufferTasksSubmittedTotal.Inc()
}

// IncBufferTasksProcessed increments the buffer processed counter with a final status.
func IncBufferTasksProcessed(status string) {
	if !metricsEnabled {
		return
	}
	bufferTasksProcessedTotal.WithLabelValues(status).Inc()
}

// SetBufferQueueLength records the approximate publisher queue length.
func SetBufferQueueLength(length int) {
	if !metricsEnabled {
		return
	}
	bufferQueueLength.Set(float64(length))
}
