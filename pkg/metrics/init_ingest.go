package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initIngestMetrics() {
	r.RowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "watergrid_rows_total",
			Help: "Rows read during registry construction, by record kind",
		},
		[]string{"kind"},
	)

	r.FactoriesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "watergrid_factories_total",
			Help: "Number of factories held in the registry",
		},
	)

	r.IndexRotations = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "watergrid_index_rotations_total",
			Help: "Single rotations performed while rebalancing an ordered index",
		},
		[]string{"index"},
	)

	r.IngestDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "watergrid_ingest_duration_seconds",
			Help:    "Time spent building the factory registry",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
	)

	r.InputScansTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "watergrid_input_scans_total",
			Help: "Full scans of the input, including every discovery pass",
		},
	)
}
