package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-watergrid/pkg/config"
	"github.com/dd0wney/cluso-watergrid/pkg/input"
	"github.com/dd0wney/cluso-watergrid/pkg/logging"
	"github.com/dd0wney/cluso-watergrid/pkg/metrics"
	"github.com/dd0wney/cluso-watergrid/pkg/network"
	"github.com/dd0wney/cluso-watergrid/pkg/registry"
	"github.com/dd0wney/cluso-watergrid/pkg/report"
)

// Runner executes commands against one input. The zero value is not usable;
// Config must be set, Logger and Metrics are optional.
type Runner struct {
	Config  config.Config
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Outcome is the result of one command.
type Outcome struct {
	Command Command

	// Summary is set for report modes.
	Summary report.Summary

	// Known, Loss and Discovery are set for leaks. Loss is in input units,
	// before the report divisor is applied.
	Known     bool
	Loss      float64
	Discovery network.Result
}

// Run builds the registry from src once and then executes cmds left to
// right, stopping at the first failure. Outcomes of the commands that
// completed are returned alongside the error.
func (r *Runner) Run(ctx context.Context, src input.Source, cmds []Command) ([]Outcome, error) {
	runID := uuid.NewString()
	logger := logging.OrNop(r.Logger).With(logging.RunID(runID))

	timer := logging.StartTimer(logger, "registry ready")
	reg, err := registry.Build(ctx, src,
		registry.WithLogger(logger),
		registry.WithMetrics(r.Metrics),
	)
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	defer reg.Close()
	timer.End(logging.Count(reg.Len()))

	outcomes := make([]Outcome, 0, len(cmds))
	for _, cmd := range cmds {
		start := time.Now()
		out, err := r.execute(ctx, logger.With(logging.Mode(string(cmd.Mode))), src, reg, cmd)
		r.Metrics.RecordCommand(string(cmd.Mode), time.Since(start))
		if err != nil {
			return outcomes, fmt.Errorf("%s: %w", cmd, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func (r *Runner) execute(ctx context.Context, logger logging.Logger, src input.Source, reg *registry.Registry, cmd Command) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{Command: cmd}, err
	}
	if cmd.Mode == ModeLeaks {
		return r.leaks(ctx, logger, src, reg, cmd)
	}
	return r.report(logger, reg, cmd)
}

func (r *Runner) report(logger logging.Logger, reg *registry.Registry, cmd Command) (Outcome, error) {
	out := Outcome{Command: cmd}

	metric, err := report.ParseMetric(string(cmd.Mode))
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	out.Summary, err = report.WriteRegistryFile(cmd.Arg, reg, metric, r.Config.ReportPolicy(), r.Metrics)
	if err != nil {
		return out, err
	}

	logger.Info("report written",
		logging.Path(cmd.Arg),
		logging.Count(out.Summary.Written),
		logging.Int("suppressed", out.Summary.Suppressed),
	)
	return out, nil
}

func (r *Runner) leaks(ctx context.Context, logger logging.Logger, src input.Source, reg *registry.Registry, cmd Command) (Outcome, error) {
	out := Outcome{Command: cmd}
	logger = logger.With(logging.FactoryID(cmd.Arg))

	// The leak report is opened first so an unwritable file fails the
	// command before any discovery work.
	leakFile, err := report.OpenLeaks(r.Config.Leaks.Output, r.Config.Leaks.Divisor)
	if err != nil {
		return out, err
	}

	factory, ok := reg.Lookup(cmd.Arg)
	if !ok {
		r.Metrics.RecordUnknownFactory()
		logger.Warn("factory not in registry")
		if err := leakFile.Unknown(cmd.Arg); err != nil {
			leakFile.Close()
			return out, err
		}
		return out, leakFile.Close()
	}
	out.Known = true

	root, res, err := network.Discover(ctx, cmd.Arg, src,
		network.WithMaxPasses(r.Config.Discovery.MaxPasses),
		network.WithLogger(logger),
		network.WithMetrics(r.Metrics),
	)
	out.Discovery = res
	if err != nil {
		leakFile.Close()
		return out, fmt.Errorf("%w: %w", ErrInput, err)
	}

	out.Loss = network.Loss(root, factory.RealVolume)
	shape := network.Measure(root)
	network.Release(root)

	r.Metrics.RecordLeak(cmd.Arg, out.Loss)
	logger.Info("leaks computed",
		logging.Float64("entering", factory.RealVolume),
		logging.Float64("lost", out.Loss),
		logging.Count(shape.Edges),
		logging.Int("depth", shape.Depth),
		logging.String("state", res.State.String()),
	)

	if err := leakFile.Loss(cmd.Arg, out.Loss); err != nil {
		leakFile.Close()
		return out, err
	}
	return out, leakFile.Close()
}
