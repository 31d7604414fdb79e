package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "photomind",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests, labeled by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "photomind",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, labeled by route.",
		// Uploads and model calls take seconds, keep the tail wide.
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"route"})

	UploadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "photomind",
		Subsystem: "upload",
		Name:      "total",
		Help:      "Upload pipeline runs, labeled by result.",
	}, []string{"result"})

	TagMatchAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "photomind",
		Subsystem: "tag_match",
		Name:      "attempts_total",
		Help:      "Language model round trips made by tag matching, labeled by outcome.",
	}, []string{"outcome"})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			UploadTotal,
			TagMatchAttemptsTotal,
		)
	})
}
