package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initReportMetrics() {
	r.ReportRowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "watergrid_report_rows_total",
			Help: "Registry report rows by metric and disposition (written, suppressed)",
		},
		[]string{"metric", "disposition"},
	)

	r.CommandDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "watergrid_command_duration_seconds",
			Help:    "Duration of each command, by mode",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"mode"},
	)
}
