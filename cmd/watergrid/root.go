package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-watergrid/pkg/config"
	"github.com/dd0wney/cluso-watergrid/pkg/input"
	"github.com/dd0wney/cluso-watergrid/pkg/logging"
	"github.com/dd0wney/cluso-watergrid/pkg/metrics"
	"github.com/dd0wney/cluso-watergrid/pkg/pipeline"
	"github.com/dd0wney/cluso-watergrid/pkg/report"
)

type rootFlags struct {
	configPath  string
	logLevel    string
	metricsFile string
	leaksFile   string
	maxPasses   int
	policy      string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "watergrid [flags] <input> <mode> <argument> [<mode> <argument>...]",
		Short: "Water network volume reports and leak analysis",
		Long: `watergrid reads a semicolon-delimited water network file and runs each
(mode, argument) pair in order:

  max  <file>     maximum treatment capacity per factory
  src  <file>     volume captured from sources per factory
  real <file>     captured volume after source leaks per factory
  leaks <id>      volume lost in the distribution network of factory <id>,
                  appended to the leak report (default leaks.dat)`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return fmt.Errorf("%w: expected <input> <mode> <argument>, got %d arguments", pipeline.ErrUsage, len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := pipeline.ParseCommands(args[1:])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			logger := logging.NewJSONLogger(stderr, logging.ParseLevel(cfg.Log.Level)).
				With(logging.Component("watergrid"))
			var m *metrics.Registry
			if flags.metricsFile != "" {
				m = metrics.NewRegistry()
			}

			runner := &pipeline.Runner{Config: cfg, Logger: logger, Metrics: m}
			src := input.NewFileSource(args[0], cfg.InputOptions())

			start := time.Now()
			_, runErr := runner.Run(cmd.Context(), src, cmds)
			m.RecordCommand("total", time.Since(start))

			if m != nil {
				if err := m.WriteTextfile(flags.metricsFile); err != nil {
					logger.Error("metrics not written", logging.Error(err))
					if runErr == nil {
						runErr = fmt.Errorf("%w: %w", pipeline.ErrOutput, err)
					}
				}
			}
			return runErr
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
	})

	f := cmd.PersistentFlags()
	f.StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML configuration file")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	cmd.Flags().StringVar(&flags.leaksFile, "leaks-file", "", "Leak report to append to (default leaks.dat)")
	cmd.Flags().IntVar(&flags.maxPasses, "max-passes", 0, "Maximum discovery passes over the input")
	cmd.Flags().StringVar(&flags.policy, "policy", "", "Report policy: threshold or always")

	cmd.AddCommand(newFindCmd(stdout))
	return cmd
}

// loadConfig reads the configuration file and applies the flags that were set.
func loadConfig(cmd *cobra.Command, flags rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
	}

	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("leaks-file") {
		cfg.Leaks.Output = flags.leaksFile
	}
	if changed("max-passes") {
		cfg.Discovery.MaxPasses = flags.maxPasses
	}
	if changed("policy") {
		if _, err := report.ParseFilter(flags.policy); err != nil {
			return cfg, fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
		}
		cfg.Report.Policy = flags.policy
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
	}
	return cfg, nil
}
