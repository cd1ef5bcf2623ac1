package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the sync backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Sync Metrics
	SyncRunsTotal        prometheus.CounterVec
	SyncRunDuration      prometheus.HistogramVec
	SyncRecordsProcessed prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proctorate_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proctorate_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "proctorate_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		SyncRunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proctorate_sync_runs_total",
				Help: "Total sync runs by type and final ledger status",
			},
			[]string{"sync_type", "status"},
		),
		SyncRunDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proctorate_sync_run_duration_seconds",
				Help:    "Wall time of sync runs by type",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"sync_type"},
		),
		SyncRecordsProcessed: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proctorate_sync_records_processed_total",
				Help: "Records seen by reconciliation, by type and outcome",
			},
			[]string{"sync_type", "outcome"},
		),
	}
}

// RecordSyncRun folds one closed run into the sync metrics.
func (m *MetricsRegistry) RecordSyncRun(syncType, status string, durationSeconds float64, created, updated, errored int) {
	m.SyncRunsTotal.WithLabelValues(syncType, status).Inc()
	m.SyncRunDuration.WithLabelValues(syncType).Observe(durationSeconds)
	m.SyncRecordsProcessed.WithLabelValues(syncType, "created").Add(float64(created))
	m.SyncRecordsProcessed.WithLabelValues(syncType, "updated").Add(float64(updated))
	m.SyncRecordsProcessed.WithLabelValues(syncType, "errored").Add(float64(errored))
}
