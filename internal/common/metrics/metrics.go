// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approval_backend_requests_total",
			Help: "Total number of requests sent to the approval backend",
		},
		[]string{"endpoint", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "approval_backend_request_duration_seconds",
			Help:    "Duration of approval backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	BackendRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "approval_backend_requests_in_flight",
			Help: "Number of approval backend requests currently in flight",
		},
		[]string{"endpoint"},
	)

	ReportBytesDownloaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "approval_report_bytes_downloaded_total",
			Help: "Total bytes of PDF reports written to disk",
		},
	)
)
