// Package registry aggregates capacity and capture rows into per-factory
// volumes held in an ordered index keyed by factory id.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dd0wney/cluso-watergrid/pkg/avl"
	"github.com/dd0wney/cluso-watergrid/pkg/input"
	"github.com/dd0wney/cluso-watergrid/pkg/logging"
	"github.com/dd0wney/cluso-watergrid/pkg/metrics"
	"github.com/dd0wney/cluso-watergrid/pkg/records"
)

// ErrInputUnavailable is returned when the registry input cannot be read.
var ErrInputUnavailable = errors.New("registry: input unavailable")

// Factory is a treatment plant and its aggregated volumes, in the input's
// volume unit (thousands of cubic metres per year for standard datasets).
type Factory struct {
	ID string

	// MaxVolume is the declared capacity; the last capacity row wins.
	MaxVolume float64

	// SourceVolume is the sum of all captured volumes.
	SourceVolume float64

	// RealVolume is the captured volume left after source-side leakage.
	RealVolume float64
}

// Stats counts the rows seen while building a registry.
type Stats struct {
	Rows     int
	Capacity int
	Capture  int
	Skipped  int
}

// Registry owns every Factory through an ordered index.
type Registry struct {
	index *avl.Tree[string, *Factory]
	stats Stats
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{index: avl.New[string, *Factory](strings.Compare)}
}

type buildOptions struct {
	logger  logging.Logger
	metrics *metrics.Registry
}

// Option configures Build.
type Option func(*buildOptions)

// WithLogger sets the logger used during the build.
func WithLogger(logger logging.Logger) Option {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// WithMetrics records row and index counters into m.
func WithMetrics(m *metrics.Registry) Option {
	return func(o *buildOptions) {
		o.metrics = m
	}
}

// Build streams every row of src through the classifier and returns the
// resulting registry. On failure nothing is returned and any partially built
// state is released.
func Build(ctx context.Context, src input.Source, opts ...Option) (*Registry, error) {
	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrNop(o.logger).With(logging.Component("registry"))

	start := time.Now()
	reg := New()
	err := src.Scan(ctx, func(_ int, fields []string) error {
		rec := records.Classify(fields)
		o.metrics.RecordRow(rec.Kind.String())
		reg.Apply(rec)
		return nil
	})
	o.metrics.RecordScan()
	if err != nil {
		reg.Close()
		logger.Error("registry build failed", logging.Error(err))
		if errors.Is(err, input.ErrOpen) {
			return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
		}
		return nil, fmt.Errorf("build registry: %w", err)
	}

	elapsed := time.Since(start)
	o.metrics.RecordIngest(reg.Len(), reg.index.Rotations(), elapsed)
	logger.Debug("rows classified",
		logging.Rows(reg.stats.Rows),
		logging.Int("capacity_rows", reg.stats.Capacity),
		logging.Int("capture_rows", reg.stats.Capture),
		logging.Int("skipped_rows", reg.stats.Skipped),
	)
	logger.Info("registry built", logging.Count(reg.Len()), logging.Latency(elapsed))
	return reg, nil
}

// Apply folds one classified record into the registry. Unclassified records
// are counted and otherwise ignored.
func (r *Registry) Apply(rec records.Record) {
	r.stats.Rows++

	switch rec.Kind {
	case records.Capacity:
		r.stats.Capacity++
		r.findOrCreate(rec.FactoryID).MaxVolume = rec.Volume
	case records.Capture:
		r.stats.Capture++
		f := r.findOrCreate(rec.FactoryID)
		f.SourceVolume += rec.Volume
		f.RealVolume += rec.Volume * (1 - rec.LeakPercent/100)
	default:
		r.stats.Skipped++
	}
}

// findOrCreate returns the factory for id, inserting a zero-valued one first
// when it is not yet known.
func (r *Registry) findOrCreate(id string) *Factory {
	if f, ok := r.index.Search(id); ok {
		return f
	}
	f := &Factory{ID: id}
	r.index.Insert(id, f)
	return f
}

// Lookup returns the factory registered under id.
func (r *Registry) Lookup(id string) (*Factory, bool) {
	return r.index.Search(id)
}

// Len returns the number of factories.
func (r *Registry) Len() int {
	return r.index.Len()
}

// Stats returns the row counters accumulated by Apply.
func (r *Registry) Stats() Stats {
	return r.stats
}

// Ascend visits factories in increasing id order until visit returns false.
func (r *Registry) Ascend(visit func(*Factory) bool) {
	r.index.Ascend(func(_ string, f *Factory) bool {
		return visit(f)
	})
}

// Descend visits factories in decreasing id order until visit returns false.
func (r *Registry) Descend(visit func(*Factory) bool) {
	r.index.Descend(func(_ string, f *Factory) bool {
		return visit(f)
	})
}

// Validate checks the balance and ordering invariants of the underlying index.
func (r *Registry) Validate() error {
	return r.index.Validate()
}

// Close tears the index down. The registry is empty afterwards.
func (r *Registry) Close() {
	r.index.Destroy(nil)
}
