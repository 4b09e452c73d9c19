package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload-Gateway Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upload",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "upload",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Direct upload counters
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upload",
			Subsystem: "gateway",
			Name:      "uploads_total",
			Help:      "Total direct file uploads",
		},
		[]string{"content_type", "status"},
	)

	// Direct upload bytes counter
	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upload",
			Subsystem: "gateway",
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded through the gateway",
		},
		[]string{"content_type"},
	)

	// Signed URL issuance counter
	SignedURLsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upload",
			Subsystem: "gateway",
			Name:      "signed_urls_total",
			Help:      "Total signed upload URLs issued",
		},
		[]string{"action", "status"},
	)

	// Push notification outcomes
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upload",
			Subsystem: "gateway",
			Name:      "notifications_total",
			Help:      "Total upload notifications received",
		},
		[]string{"outcome"},
	)

	// Cloud Tasks submissions
	TaskSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upload",
			Subsystem: "gateway",
			Name:      "task_submissions_total",
			Help:      "Total Cloud Tasks submissions",
		},
		[]string{"status"},
	)

	// Cloud Tasks submission duration
	TaskSubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "upload",
			Subsystem: "gateway",
			Name:      "task_submission_duration_seconds",
			Help:      "Cloud Tasks submission duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records a direct file upload
func RecordUpload(contentType, status string, bytes int64) {
	UploadsTotal.WithLabelValues(contentType, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(contentType).Add(float64(bytes))
	}
}

// RecordSignedURL records a signed URL issuance
func RecordSignedURL(action, status string) {
	SignedURLsTotal.WithLabelValues(action, status).Inc()
}

// RecordNotification records a push notification outcome
func RecordNotification(outcome string) {
	NotificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordTaskSubmission records a Cloud Tasks submission
func RecordTaskSubmission(status string, durationSec float64) {
	TaskSubmissionsTotal.WithLabelValues(status).Inc()
	TaskSubmissionDuration.Observe(durationSec)
}
