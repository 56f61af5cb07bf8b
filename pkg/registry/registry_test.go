package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-watergrid/pkg/input"
	"github.com/dd0wney/cluso-watergrid/pkg/metrics"
	"github.com/dd0wney/cluso-watergrid/pkg/records"
)

func build(t *testing.T, lines ...string) *Registry {
	t.Helper()
	reg, err := Build(context.Background(), input.NewMemorySource(lines...))
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	return reg
}

func TestBuild_EndToEnd(t *testing.T) {
	reg := build(t,
		"-;F1;-;500;-",
		"-;S1;F1;100;10",
	)

	f, ok := reg.Lookup("F1")
	require.True(t, ok)
	assert.Equal(t, "F1", f.ID)
	assert.InDelta(t, 500, f.MaxVolume, 1e-9)
	assert.InDelta(t, 100, f.SourceVolume, 1e-9)
	assert.InDelta(t, 90, f.RealVolume, 1e-9)
	assert.Equal(t, 1, reg.Len())
}

func TestBuild_CapacityOverwrites(t *testing.T) {
	reg := build(t,
		"-;F1;-;500;-",
		"-;F1;-;300;-",
	)

	f, ok := reg.Lookup("F1")
	require.True(t, ok)
	assert.InDelta(t, 300, f.MaxVolume, 1e-9)
	assert.Zero(t, f.SourceVolume)
}

func TestBuild_CaptureAccumulates(t *testing.T) {
	reg := build(t,
		"-;S1;F1;100;10",
		"-;S2;F1;50;0",
		"-;S3;F1;40;50",
	)

	f, ok := reg.Lookup("F1")
	require.True(t, ok)
	assert.InDelta(t, 190, f.SourceVolume, 1e-9)
	assert.InDelta(t, 90+50+20, f.RealVolume, 1e-9)
	assert.Zero(t, f.MaxVolume)
}

func TestBuild_CaptureBeforeCapacity(t *testing.T) {
	reg := build(t,
		"-;S1;F1;100;10",
		"-;F1;-;500;-",
	)

	f, ok := reg.Lookup("F1")
	require.True(t, ok)
	assert.InDelta(t, 500, f.MaxVolume, 1e-9)
	assert.InDelta(t, 90, f.RealVolume, 1e-9)
}

func TestBuild_SkipsHeaderAndUnclassified(t *testing.T) {
	reg := build(t,
		"Factory_ID;Upstream;Downstream;Volume;Leak",
		"-;F1;-;500;-",
		"F1;Storage #1;Junction #2;-;3",
		"-;F2",
		"",
		"-;S1;F1;100;-",
	)

	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, Stats{Rows: 5, Capacity: 1, Capture: 0, Skipped: 4}, reg.Stats())
}

func TestBuild_UnknownFactory(t *testing.T) {
	reg := build(t, "-;F1;-;500;-")

	_, ok := reg.Lookup("F9")
	assert.False(t, ok)
}

func TestBuild_DescendingOrder(t *testing.T) {
	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, fmt.Sprintf("-;Plant #%02d;-;%d;-", (i*17)%50, i))
	}
	reg := build(t, lines...)

	require.NoError(t, reg.Validate())
	assert.Equal(t, 50, reg.Len())

	var ids []string
	reg.Descend(func(f *Factory) bool {
		ids = append(ids, f.ID)
		return true
	})
	require.Len(t, ids, 50)
	assert.Equal(t, "Plant #49", ids[0])
	assert.Equal(t, "Plant #00", ids[49])

	var first string
	reg.Ascend(func(f *Factory) bool {
		first = f.ID
		return false
	})
	assert.Equal(t, "Plant #00", first)
}

func TestBuild_MissingInput(t *testing.T) {
	src := input.NewFileSource(filepath.Join(t.TempDir(), "absent.csv"), input.DefaultOptions())

	reg, err := Build(context.Background(), src)
	assert.Nil(t, reg)
	assert.ErrorIs(t, err, ErrInputUnavailable)
	assert.ErrorIs(t, err, input.ErrOpen)
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reg, err := Build(ctx, input.NewMemorySource("-;F1;-;500;-"))
	assert.Nil(t, reg)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrInputUnavailable)
}

func TestBuild_RecordsMetrics(t *testing.T) {
	m := metrics.NewRegistry()
	reg, err := Build(context.Background(),
		input.NewMemorySource("-;F1;-;500;-", "-;S1;F1;100;10", "-;S2;F2;10;0", "junk"),
		WithMetrics(m),
	)
	require.NoError(t, err)
	defer reg.Close()

	families, err := m.GetPrometheusRegistry().Gather()
	require.NoError(t, err)

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
		if mf.GetName() == "watergrid_factories_total" {
			assert.Equal(t, 2.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found["watergrid_rows_total"])
	assert.True(t, found["watergrid_input_scans_total"])
}

func TestApply_Direct(t *testing.T) {
	reg := New()
	defer reg.Close()

	reg.Apply(records.Record{Kind: records.Capture, UpstreamID: "S1", FactoryID: "F1", Volume: 80, LeakPercent: 25})
	reg.Apply(records.Record{Kind: records.Unclassified})

	f, ok := reg.Lookup("F1")
	require.True(t, ok)
	assert.InDelta(t, 60, f.RealVolume, 1e-9)
	assert.Equal(t, 1, reg.Stats().Skipped)
}

func TestClose_EmptiesRegistry(t *testing.T) {
	reg, err := Build(context.Background(), input.NewMemorySource("-;F1;-;500;-"))
	require.NoError(t, err)

	reg.Close()
	assert.Equal(t, 0, reg.Len())
	_, ok := reg.Lookup("F1")
	assert.False(t, ok)
}
