// Package input provides re-scannable row sources for network data files.
//
// Every call to Scan opens the underlying data, streams it line by line and
// releases it before returning. Network discovery relies on this: each of its
// passes is a fresh Scan that owns exactly one handle.
package input

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dd0wney/cluso-watergrid/pkg/records"
)

const (
	// DefaultHeaderMarker identifies the optional header row.
	DefaultHeaderMarker = "Factory_ID"

	// DefaultMaxLineBytes bounds the length of a single row.
	DefaultMaxLineBytes = 64 * 1024
)

// RowFunc receives the 1-based line number and the split fields of a row.
// Returning an error stops the scan and the error is returned from Scan.
type RowFunc func(line int, fields []string) error

// Source is a stream of rows that can be read from the beginning any number
// of times.
type Source interface {
	Scan(ctx context.Context, fn RowFunc) error
}

// Options controls how lines become rows.
type Options struct {
	// HeaderMarker skips line 1 when it contains this token. Empty disables
	// header detection.
	HeaderMarker string

	// MaxLineBytes bounds a single line; longer lines fail the scan.
	MaxLineBytes int
}

// DefaultOptions returns the options matching the standard file layout.
func DefaultOptions() Options {
	return Options{
		HeaderMarker: DefaultHeaderMarker,
		MaxLineBytes: DefaultMaxLineBytes,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxLineBytes <= 0 {
		o.MaxLineBytes = DefaultMaxLineBytes
	}
	return o
}

// scanLines drives fn over every line of r.
func scanLines(ctx context.Context, r io.Reader, path string, opts Options, fn RowFunc) error {
	opts = opts.withDefaults()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(opts.MaxLineBytes, 4096)), opts.MaxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}

		text := scanner.Text()
		if line == 1 && opts.HeaderMarker != "" && strings.Contains(text, opts.HeaderMarker) {
			continue
		}

		if err := fn(line, records.Split(text, records.MaxFields)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return scanError(path, line+1, ErrLineTooLong)
		}
		return scanError(path, line+1, errors.Join(ErrRead, err))
	}
	return nil
}
