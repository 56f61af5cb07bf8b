package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordRow counts one input row of the given kind
func (r *Registry) RecordRow(kind string) {
	if r == nil {
		return
	}
	r.RowsTotal.WithLabelValues(kind).Inc()
}

// RecordIngest records a completed registry build
func (r *Registry) RecordIngest(factories int, rotations uint64, duration time.Duration) {
	if r == nil {
		return
	}
	r.FactoriesTotal.Set(float64(factories))
	r.IndexRotations.WithLabelValues("registry").Add(float64(rotations))
	r.IngestDuration.Observe(duration.Seconds())
}

// RecordScan counts one full read of the input
func (r *Registry) RecordScan() {
	if r == nil {
		return
	}
	r.InputScansTotal.Inc()
}

// RecordDiscovery records a finished network discovery
func (r *Registry) RecordDiscovery(state string, passes, nodes int, rotations uint64) {
	if r == nil {
		return
	}
	r.DiscoveryPasses.Observe(float64(passes))
	r.DiscoveryOutcomes.WithLabelValues(state).Inc()
	r.NetworkNodes.Set(float64(nodes))
	r.IndexRotations.WithLabelValues("lookup").Add(float64(rotations))
}

// RecordLeak records a computed loss for a factory
func (r *Registry) RecordLeak(factory string, lost float64) {
	if r == nil {
		return
	}
	r.LeakQueriesTotal.WithLabelValues("computed").Inc()
	r.LeakVolumeLost.WithLabelValues(factory).Set(lost)
}

// RecordUnknownFactory records a leak query for a factory absent from the registry
func (r *Registry) RecordUnknownFactory() {
	if r == nil {
		return
	}
	r.LeakQueriesTotal.WithLabelValues("unknown").Inc()
}

// RecordReportRows records how many registry rows a report wrote and suppressed
func (r *Registry) RecordReportRows(metric string, written, suppressed int) {
	if r == nil {
		return
	}
	r.ReportRowsTotal.WithLabelValues(metric, "written").Add(float64(written))
	r.ReportRowsTotal.WithLabelValues(metric, "suppressed").Add(float64(suppressed))
}

// RecordCommand records the duration of one command
func (r *Registry) RecordCommand(mode string, duration time.Duration) {
	if r == nil {
		return
	}
	r.CommandDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// WriteTextfile writes every metric to path in the Prometheus text format,
// suitable for the node_exporter textfile collector
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
