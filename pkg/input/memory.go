package input

import (
	"context"
	"strings"
)

// MemorySource serves rows from an in-memory slice of lines.
type MemorySource struct {
	Lines   []string
	Options Options

	scans int
}

// NewMemorySource creates a MemorySource using DefaultOptions.
func NewMemorySource(lines ...string) *MemorySource {
	return &MemorySource{Lines: lines, Options: DefaultOptions()}
}

// Scan implements Source.
func (s *MemorySource) Scan(ctx context.Context, fn RowFunc) error {
	s.scans++
	return scanLines(ctx, strings.NewReader(strings.Join(s.Lines, "\n")), "", s.Options, fn)
}

// Scans returns how many times the source has been read from the start.
func (s *MemorySource) Scans() int {
	return s.scans
}
