package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search engine Prometheus metrics.
var (
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esbridge",
			Name:      "engine_requests_total",
			Help:      "Total number of search engine requests",
		},
		[]string{"op", "status"},
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "esbridge",
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)

	BulkItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esbridge",
			Name:      "bulk_items_total",
			Help:      "Bulk items by outcome",
		},
		[]string{"result"}, // "ok" / "error"
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers Prometheus engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EngineRequestsTotal)
	prometheus.MustRegister(EngineRequestDuration)
	prometheus.MustRegister(BulkItemsTotal)
	engineMetricsRegistered = true
}

// ObserveEngine records one engine call. status is the HTTP status code or "transport_error".
func ObserveEngine(op, status string, start time.Time) {
	EngineRequestsTotal.WithLabelValues(op, status).Inc()
	EngineRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
