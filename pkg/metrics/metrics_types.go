package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for one watergrid process.
// Recording methods are no-ops on a nil *Registry, so callers that do not
// export metrics can pass nil.
type Registry struct {
	// Ingestion Metrics
	RowsTotal       *prometheus.CounterVec
	FactoriesTotal  prometheus.Gauge
	IndexRotations  *prometheus.CounterVec
	IngestDuration  prometheus.Histogram
	InputScansTotal prometheus.Counter

	// Discovery Metrics
	DiscoveryPasses   prometheus.Histogram
	DiscoveryOutcomes *prometheus.CounterVec
	NetworkNodes      prometheus.Gauge
	LeakQueriesTotal  *prometheus.CounterVec
	LeakVolumeLost    *prometheus.GaugeVec

	// Report Metrics
	ReportRowsTotal *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initIngestMetrics()
	r.initNetworkMetrics()
	r.initReportMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
