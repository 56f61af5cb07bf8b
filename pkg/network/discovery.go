package network

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-watergrid/pkg/avl"
	"github.com/dd0wney/cluso-watergrid/pkg/input"
	"github.com/dd0wney/cluso-watergrid/pkg/logging"
	"github.com/dd0wney/cluso-watergrid/pkg/metrics"
	"github.com/dd0wney/cluso-watergrid/pkg/records"
)

// DefaultMaxPasses bounds the number of scans of the input per discovery.
const DefaultMaxPasses = 100

var (
	ErrEmptyRoot     = errors.New("network: root id is empty")
	ErrInvalidPasses = errors.New("network: max passes must be positive")
)

// State is the phase of a discovery run.
type State int

const (
	Seed State = iota
	Scanning
	Converged
	Aborted
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case Seed:
		return "seed"
	case Scanning:
		return "scanning"
	case Converged:
		return "converged"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result describes how a discovery run ended.
type Result struct {
	State State

	// Passes is the number of full scans performed.
	Passes int

	// Nodes counts the discovered nodes, root included.
	Nodes int
}

type options struct {
	maxPasses int
	logger    logging.Logger
	metrics   *metrics.Registry
}

// Option configures Discover.
type Option func(*options)

// WithMaxPasses overrides DefaultMaxPasses.
func WithMaxPasses(n int) Option {
	return func(o *options) {
		o.maxPasses = n
	}
}

// WithLogger sets the logger used for per-pass diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records scan and outcome counters into m.
func WithMetrics(m *metrics.Registry) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// discovery holds the state of one run. The lookup index maps ids to nodes
// already in the tree; it never owns them.
type discovery struct {
	rootID string
	src    input.Source
	opts   options
	logger logging.Logger

	state  State
	root   *Node
	lookup *avl.Tree[string, *Node]
	passes int
}

// Discover builds the distribution tree rooted at rootID from the edge rows of
// src. Reaching the pass cap is not an error: the partial tree is returned
// with Result.State set to Aborted.
func Discover(ctx context.Context, rootID string, src input.Source, opts ...Option) (*Node, Result, error) {
	o := options{maxPasses: DefaultMaxPasses}
	for _, opt := range opts {
		opt(&o)
	}
	if rootID == "" {
		return nil, Result{}, ErrEmptyRoot
	}
	if o.maxPasses <= 0 {
		return nil, Result{}, fmt.Errorf("%w: %d", ErrInvalidPasses, o.maxPasses)
	}

	d := &discovery{
		rootID: rootID,
		src:    src,
		opts:   o,
		logger: logging.OrNop(o.logger).With(logging.Component("discovery"), logging.FactoryID(rootID)),
	}
	d.seed()
	defer d.lookup.Destroy(nil)

	if err := d.run(ctx); err != nil {
		Release(d.root)
		return nil, d.result(), err
	}

	res := d.result()
	o.metrics.RecordDiscovery(res.State.String(), res.Passes, res.Nodes, d.lookup.Rotations())
	if res.State == Aborted {
		d.logger.Warn("discovery stopped at pass cap", logging.Pass(res.Passes), logging.Count(res.Nodes))
	} else {
		d.logger.Info("network discovered", logging.Pass(res.Passes), logging.Count(res.Nodes))
	}
	return d.root, res, nil
}

func (d *discovery) seed() {
	d.state = Seed
	d.root = &Node{ID: d.rootID}
	d.lookup = avl.New[string, *Node](strings.Compare)
	d.lookup.Insert(d.rootID, d.root)
}

func (d *discovery) run(ctx context.Context) error {
	d.state = Scanning
	for d.state == Scanning {
		attached, err := d.pass(ctx)
		if err != nil {
			return fmt.Errorf("discovery pass %d for %s: %w", d.passes, d.rootID, err)
		}
		d.logger.Debug("pass complete", logging.Pass(d.passes), logging.Int("attached", attached))

		switch {
		case attached == 0:
			d.state = Converged
		case d.passes >= d.opts.maxPasses:
			d.state = Aborted
		}
	}
	return nil
}

// pass scans the whole input once and attaches every edge whose parent is
// already known and whose child is not.
func (d *discovery) pass(ctx context.Context) (int, error) {
	d.passes++
	d.opts.metrics.RecordScan()

	attached := 0
	err := d.src.Scan(ctx, func(_ int, fields []string) error {
		edge, ok := records.IsEdge(fields, d.rootID)
		if !ok || d.lookup.Contains(edge.ChildID) {
			return nil
		}
		parent, ok := d.lookup.Search(edge.ParentID)
		if !ok {
			return nil
		}
		child := parent.AddChild(edge.ChildID, edge.LeakPercent)
		d.lookup.Insert(child.ID, child)
		attached++
		return nil
	})
	return attached, err
}

func (d *discovery) result() Result {
	return Result{State: d.state, Passes: d.passes, Nodes: d.lookup.Len()}
}
