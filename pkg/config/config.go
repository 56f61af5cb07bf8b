// Package config loads watergrid settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-watergrid/pkg/input"
	"github.com/dd0wney/cluso-watergrid/pkg/network"
	"github.com/dd0wney/cluso-watergrid/pkg/report"
	"github.com/dd0wney/cluso-watergrid/pkg/validation"
)

var ErrInvalid = errors.New("config: invalid configuration")

// Config holds every tunable of a run.
type Config struct {
	// HeaderMarker skips line 1 when it contains this token. An empty
	// marker reads line 1 as data.
	HeaderMarker string `yaml:"header_marker"`
	MaxLineBytes int    `yaml:"max_line_bytes" validate:"min=64"`

	Discovery DiscoveryConfig `yaml:"discovery"`
	Report    ReportConfig    `yaml:"report"`
	Leaks     LeaksConfig     `yaml:"leaks"`
	Log       LogConfig       `yaml:"log"`
}

type DiscoveryConfig struct {
	MaxPasses int `yaml:"max_passes" validate:"min=1,max=100000"`
}

type ReportConfig struct {
	Policy    string  `yaml:"policy" validate:"oneof=threshold always"`
	Threshold float64 `yaml:"threshold" validate:"gte=0"`
}

type LeaksConfig struct {
	Output  string  `yaml:"output" validate:"required"`
	Divisor float64 `yaml:"divisor" validate:"gt=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		HeaderMarker: input.DefaultHeaderMarker,
		MaxLineBytes: input.DefaultMaxLineBytes,
		Discovery: DiscoveryConfig{
			MaxPasses: network.DefaultMaxPasses,
		},
		Report: ReportConfig{
			Policy:    report.ThresholdFiltered.String(),
			Threshold: report.DefaultThreshold,
		},
		Leaks: LeaksConfig{
			Output:  report.DefaultLeakFile,
			Divisor: report.DefaultLeakDivisor,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// InputOptions converts the ingestion settings.
func (c *Config) InputOptions() input.Options {
	return input.Options{
		HeaderMarker: c.HeaderMarker,
		MaxLineBytes: c.MaxLineBytes,
	}
}

// ReportPolicy converts the report settings. The policy string has already
// been validated.
func (c *Config) ReportPolicy() report.Policy {
	filter, err := report.ParseFilter(c.Report.Policy)
	if err != nil {
		filter = report.ThresholdFiltered
	}
	return report.Policy{Filter: filter, Threshold: c.Report.Threshold}
}
