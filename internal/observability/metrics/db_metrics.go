package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

var malfunctionStates = []string{"reported", "in_progress", "resolved"}

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	for _, state := range malfunctionStates {
		state := state
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        metricPrefix + "malfunctions",
				Help:        "Malfunction records by state",
				ConstLabels: prometheus.Labels{"state": state},
			},
			func() float64 {
				return queryCount(db, logger, "SELECT COUNT(*) FROM Malfunctions WHERE state = $1", state)
			},
		))
	}

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "orphaned_reports",
			Help: "Reports no longer referenced by any malfunction",
		},
		func() float64 {
			return queryCount(db, logger, `
SELECT COUNT(*) FROM Reports r
WHERE NOT EXISTS (SELECT 1 FROM Malfunctions m WHERE m.report_id = r.report_id)`)
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string, args ...any) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
