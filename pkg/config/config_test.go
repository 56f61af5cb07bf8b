package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-watergrid/pkg/input"
	"github.com/dd0wney/cluso-watergrid/pkg/registry"
	"github.com/dd0wney/cluso-watergrid/pkg/report"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Factory_ID", cfg.HeaderMarker)
	assert.Equal(t, 100, cfg.Discovery.MaxPasses)
	assert.Equal(t, "leaks.dat", cfg.Leaks.Output)
	assert.Equal(t, 1000.0, cfg.Leaks.Divisor)
	assert.Equal(t, report.DefaultPolicy(), cfg.ReportPolicy())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watergrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
discovery:
  max_passes: 250
report:
  policy: always
leaks:
  output: out/leaks.dat
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Discovery.MaxPasses)
	assert.Equal(t, "out/leaks.dat", cfg.Leaks.Output)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Factory_ID", cfg.HeaderMarker)
	assert.Equal(t, report.Policy{Filter: report.AlwaysEmit, Threshold: report.DefaultThreshold}, cfg.ReportPolicy())

	opts := cfg.InputOptions()
	assert.Equal(t, "Factory_ID", opts.HeaderMarker)
	assert.Equal(t, input.DefaultMaxLineBytes, opts.MaxLineBytes)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"zero passes", "discovery:\n  max_passes: 0\n", "discovery.max_passes: must be at least 1"},
		{"short lines", "max_line_bytes: 10\n", "max_line_bytes: must be at least 64"},
		{"bad policy", "report:\n  policy: sometimes\n", "report.policy"},
		{"zero divisor", "leaks:\n  divisor: 0\n", "leaks.divisor: must be greater than 0"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_FieldCountIsNotConfigurable(t *testing.T) {
	for _, doc := range []string{"max_fields: 4\n", "max_fields: 5\n"} {
		_, err := Parse([]byte(doc))
		assert.ErrorContains(t, err, "max_fields")
	}
}

func TestParse_DefaultsKeepCaptureRows(t *testing.T) {
	cfg, err := Parse([]byte("log:\n  level: warn\n"))
	require.NoError(t, err)

	src := input.NewMemorySource("-;F1;-;500;-", "-;S1;F1;100;10")
	src.Options = cfg.InputOptions()
	reg, err := registry.Build(context.Background(), src)
	require.NoError(t, err)
	defer reg.Close()

	f, ok := reg.Lookup("F1")
	require.True(t, ok)
	assert.InDelta(t, 500, f.MaxVolume, 1e-9)
	assert.InDelta(t, 100, f.SourceVolume, 1e-9)
	assert.InDelta(t, 90, f.RealVolume, 1e-9)
}

func TestParse_EmptyHeaderMarker(t *testing.T) {
	cfg, err := Parse([]byte("header_marker: \"\"\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.InputOptions().HeaderMarker)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("discovery:\n  passes: 3\n"))
	assert.ErrorContains(t, err, "passes")
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
