// Package report writes the per-factory volume reports and the leak report.
//
// Registry reports are rewritten on every run and list factories in
// descending identifier order, one "<id>;<value>" line each under a header.
// The leak report is appended to, one line per leaks query.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dd0wney/cluso-watergrid/pkg/metrics"
	"github.com/dd0wney/cluso-watergrid/pkg/registry"
)

// DefaultThreshold is the value a factory must exceed to be listed under
// ThresholdFiltered.
const DefaultThreshold = 0.001

var (
	ErrOutput        = errors.New("report: cannot write output")
	ErrUnknownMetric = errors.New("report: unknown metric")
	ErrUnknownFilter = errors.New("report: unknown filter")
)

// Metric selects which factory volume a registry report lists.
type Metric int

const (
	Max Metric = iota
	Source
	Real
)

// ParseMetric maps a command mode (max, src, real) to a Metric.
func ParseMetric(mode string) (Metric, error) {
	switch mode {
	case "max":
		return Max, nil
	case "src":
		return Source, nil
	case "real":
		return Real, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, mode)
}

// String returns the command mode for the metric.
func (m Metric) String() string {
	switch m {
	case Max:
		return "max"
	case Source:
		return "src"
	case Real:
		return "real"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Header returns the first line of the report, without the newline.
func (m Metric) Header() string {
	switch m {
	case Source:
		return "identifier;source volume (k.m3.year-1)"
	case Real:
		return "identifier;real volume (k.m3.year-1)"
	default:
		return "identifier;max volume (k.m3.year-1)"
	}
}

// Value extracts the metric from a factory.
func (m Metric) Value(f *registry.Factory) float64 {
	switch m {
	case Source:
		return f.SourceVolume
	case Real:
		return f.RealVolume
	default:
		return f.MaxVolume
	}
}

// Filter decides which factories appear in a registry report.
type Filter int

const (
	// ThresholdFiltered lists only factories whose value exceeds the threshold.
	ThresholdFiltered Filter = iota

	// AlwaysEmit lists every factory in the registry.
	AlwaysEmit
)

// ParseFilter accepts "threshold" and "always".
func ParseFilter(s string) (Filter, error) {
	switch s {
	case "threshold", "":
		return ThresholdFiltered, nil
	case "always":
		return AlwaysEmit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

func (f Filter) String() string {
	if f == AlwaysEmit {
		return "always"
	}
	return "threshold"
}

// Policy is a filter together with its threshold.
type Policy struct {
	Filter    Filter
	Threshold float64
}

// DefaultPolicy lists factories above DefaultThreshold.
func DefaultPolicy() Policy {
	return Policy{Filter: ThresholdFiltered, Threshold: DefaultThreshold}
}

func (p Policy) admits(v float64) bool {
	return p.Filter == AlwaysEmit || v > p.Threshold
}

// Summary counts the factories a report listed and left out.
type Summary struct {
	Written    int
	Suppressed int
}

// WriteRegistry writes the header and one line per admitted factory, in
// descending identifier order.
func WriteRegistry(w io.Writer, reg *registry.Registry, metric Metric, policy Policy) (Summary, error) {
	var sum Summary
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, metric.Header()); err != nil {
		return sum, err
	}

	var werr error
	reg.Descend(func(f *registry.Factory) bool {
		v := metric.Value(f)
		if !policy.admits(v) {
			sum.Suppressed++
			return true
		}
		if _, werr = fmt.Fprintf(bw, "%s;%.3f\n", f.ID, v); werr != nil {
			return false
		}
		sum.Written++
		return true
	})
	if werr != nil {
		return sum, werr
	}
	return sum, bw.Flush()
}

// WriteRegistryFile truncates path and writes the report into it. Failures to
// create or write the file wrap ErrOutput.
func WriteRegistryFile(path string, reg *registry.Registry, metric Metric, policy Policy, m *metrics.Registry) (Summary, error) {
	f, err := os.Create(path)
	if err != nil {
		return Summary{}, outputError(path, err)
	}

	sum, err := WriteRegistry(f, reg, metric, policy)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return sum, outputError(path, err)
	}

	m.RecordReportRows(metric.String(), sum.Written, sum.Suppressed)
	return sum, nil
}

func outputError(path string, err error) error {
	return fmt.Errorf("%w %s: %w", ErrOutput, path, err)
}
