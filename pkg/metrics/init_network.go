package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNetworkMetrics() {
	r.DiscoveryPasses = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "watergrid_discovery_passes",
			Help:    "Input passes needed to discover a factory network",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100},
		},
	)

	r.DiscoveryOutcomes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "watergrid_discovery_outcomes_total",
			Help: "Discovery runs by final state (converged, aborted)",
		},
		[]string{"state"},
	)

	r.NetworkNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "watergrid_network_nodes",
			Help: "Nodes in the most recently discovered network, root included",
		},
	)

	r.LeakQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "watergrid_leak_queries_total",
			Help: "Leak queries by outcome (computed, unknown)",
		},
		[]string{"outcome"},
	)

	r.LeakVolumeLost = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "watergrid_leak_volume_lost",
			Help: "Volume lost in the distribution network of a factory, in input units",
		},
		[]string{"factory"},
	)
}
