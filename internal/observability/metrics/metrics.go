package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "console_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	actionTotal   *prometheus.CounterVec
	actionLatency *prometheus.HistogramVec

	csrfRejections prometheus.Counter

	exportTotal *prometheus.CounterVec
)

// Init registers console metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		actionTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "maintenance_actions_total",
				Help: "Total maintenance page actions by action and result",
			},
			[]string{"action", "result"},
		)
		actionLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "maintenance_action_latency_seconds",
				Help:    "Maintenance action latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action", "result"},
		)
		csrfRejections = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "csrf_rejections_total",
				Help: "Total form submissions rejected by the CSRF check",
			},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "maintenance_export_total",
				Help: "Total malfunction list exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			actionTotal,
			actionLatency,
			csrfRejections,
			exportTotal,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveAction records a maintenance action outcome and duration.
func ObserveAction(action, result string, duration time.Duration) {
	if action == "" {
		action = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if actionTotal != nil {
		actionTotal.WithLabelValues(action, result).Inc()
	}
	if actionLatency != nil {
		actionLatency.WithLabelValues(action, result).Observe(duration.Seconds())
	}
}

// IncCSRFRejection increments the CSRF rejection counter.
func IncCSRFRejection() {
	if csrfRejections != nil {
		csrfRejections.Inc()
	}
}

// IncExport increments the export counter.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}

// ResultOf maps an error to a result label.
func ResultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
