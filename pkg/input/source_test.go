package input

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleData = `Factory_ID;Upstream_ID;Downstream_ID;Volume;Leak
-;F1;-;500;-
-;S1;F1;100;10
F1;Storage #1;Junction #2;-;1.5
`

type row struct {
	line   int
	fields []string
}

func collect(t *testing.T, src Source) []row {
	t.Helper()
	var rows []row
	err := src.Scan(context.Background(), func(line int, fields []string) error {
		rows = append(rows, row{line, fields})
		return nil
	})
	require.NoError(t, err)
	return rows
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFileSource_SkipsHeader(t *testing.T) {
	path := writeFile(t, "network.csv", []byte(sampleData))

	rows := collect(t, NewFileSource(path, DefaultOptions()))

	require.Len(t, rows, 3)
	assert.Equal(t, 2, rows[0].line)
	assert.Equal(t, []string{"-", "F1", "-", "500", "-"}, rows[0].fields)
	assert.Equal(t, []string{"F1", "Storage #1", "Junction #2", "-", "1.5"}, rows[2].fields)
}

func TestFileSource_EmptyMarkerKeepsFirstLine(t *testing.T) {
	path := writeFile(t, "network.csv", []byte(sampleData))
	opts := DefaultOptions()
	opts.HeaderMarker = ""

	rows := collect(t, NewFileSource(path, opts))

	require.Len(t, rows, 4)
	assert.Equal(t, 1, rows[0].line)
	assert.Equal(t, "Factory_ID", rows[0].fields[0])
}

func TestFileSource_HeaderOnlyOnFirstLine(t *testing.T) {
	data := "-;F1;-;500;-\nFactory_ID;x;y;z;w\n"
	path := writeFile(t, "network.csv", []byte(data))

	rows := collect(t, NewFileSource(path, DefaultOptions()))
	require.Len(t, rows, 2)
	assert.Equal(t, "Factory_ID", rows[1].fields[0])
}

func TestFileSource_RescanReopens(t *testing.T) {
	path := writeFile(t, "network.csv", []byte(sampleData))
	src := NewFileSource(path, DefaultOptions())

	first := collect(t, src)
	second := collect(t, src)
	assert.Equal(t, first, second)
}

func TestFileSource_Snappy(t *testing.T) {
	var compressed strings.Builder
	w := snappy.NewBufferedWriter(&compressed)
	_, err := w.Write([]byte(sampleData))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	plain := writeFile(t, "network.csv", []byte(sampleData))
	packed := writeFile(t, "network.csv"+SnappySuffix, []byte(compressed.String()))

	assert.Equal(t,
		collect(t, NewFileSource(plain, DefaultOptions())),
		collect(t, NewFileSource(packed, DefaultOptions())))
}

func TestFileSource_CorruptSnappy(t *testing.T) {
	path := writeFile(t, "broken"+SnappySuffix, []byte("not snappy at all"))

	err := NewFileSource(path, DefaultOptions()).Scan(context.Background(), func(int, []string) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRead)
}

func TestFileSource_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", nil)
	assert.Empty(t, collect(t, NewFileSource(path, DefaultOptions())))
}

func TestFileSource_Missing(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())

	err := src.Check()
	assert.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "open", srcErr.Op)

	err = src.Scan(context.Background(), func(int, []string) error { return nil })
	assert.ErrorIs(t, err, ErrOpen)
}

func TestScan_LineTooLong(t *testing.T) {
	src := NewMemorySource("-;F1;-;500;-", "-;"+strings.Repeat("x", 200)+";-;1;-")
	src.Options.MaxLineBytes = 64

	err := src.Scan(context.Background(), func(int, []string) error { return nil })
	assert.ErrorIs(t, err, ErrLineTooLong)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, 2, srcErr.Line)
}

func TestScan_CallbackErrorStops(t *testing.T) {
	stop := errors.New("stop")
	src := NewMemorySource("a;b;c;d", "e;f;g;h", "i;j;k;l")

	calls := 0
	err := src.Scan(context.Background(), func(int, []string) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestScan_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemorySource("a;b;c;d").Scan(ctx, func(int, []string) error {
		t.Fatal("callback must not run after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySource_CountsScans(t *testing.T) {
	src := NewMemorySource("-;F1;-;500;-")
	collect(t, src)
	collect(t, src)
	assert.Equal(t, 2, src.Scans())
}

func TestSourceError_Format(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		err  *SourceError
		want string
	}{
		{&SourceError{Op: "scan", Path: "a.csv", Line: 3, Cause: cause}, "scan a.csv line 3: boom"},
		{&SourceError{Op: "open", Path: "a.csv", Cause: cause}, "open a.csv: boom"},
		{&SourceError{Op: "scan", Line: 2, Cause: cause}, "scan line 2: boom"},
		{&SourceError{Op: "scan", Cause: cause}, "scan: boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}
