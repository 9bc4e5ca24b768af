// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "submissions_received_total",
			Help: "Total number of submissions received on the API",
		},
	)

	SubmissionsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "submissions_completed_total",
			Help: "Total number of submissions fully forwarded to the sink",
		},
	)

	SubmissionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_failed_total",
			Help: "Total number of submissions that failed, by error code",
		},
		[]string{"error_code"},
	)

	SubmissionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "submissions_active",
			Help: "Number of submissions currently being processed",
		},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "submission_duration_seconds",
			Help: "Duration of submission processing in seconds",
		},
	)

	RowsForwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rows_forwarded_total",
			Help: "Total number of business rows delivered to the sink",
		},
	)

	WebhookDeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "webhook_delivery_duration_seconds",
			Help: "Duration of individual webhook calls in seconds",
		},
		[]string{"status"},
	)
)
