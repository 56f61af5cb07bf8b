package report

import (
	"fmt"
	"os"
)

const (
	// DefaultLeakFile is the leak report appended to by every leaks query.
	DefaultLeakFile = "leaks.dat"

	// DefaultLeakDivisor converts thousands of cubic metres to millions.
	DefaultLeakDivisor = 1000.0

	// UnknownMarker is written in place of a loss for absent factories.
	UnknownMarker = "-1"
)

// LeakFile is an open leak report. Lines are appended; existing content is
// never rewritten.
type LeakFile struct {
	path    string
	divisor float64
	f       *os.File
}

// OpenLeaks opens path for appending, creating it if needed. A divisor of zero
// or less selects DefaultLeakDivisor.
func OpenLeaks(path string, divisor float64) (*LeakFile, error) {
	if divisor <= 0 {
		divisor = DefaultLeakDivisor
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, outputError(path, err)
	}
	return &LeakFile{path: path, divisor: divisor, f: f}, nil
}

// Loss appends "<id>;<loss/divisor>".
func (l *LeakFile) Loss(id string, loss float64) error {
	return l.line(fmt.Sprintf("%s;%.3f\n", id, loss/l.divisor))
}

// Unknown appends "<id>;-1".
func (l *LeakFile) Unknown(id string) error {
	return l.line(id + ";" + UnknownMarker + "\n")
}

func (l *LeakFile) line(s string) error {
	if _, err := l.f.WriteString(s); err != nil {
		return outputError(l.path, err)
	}
	return nil
}

// Close closes the underlying file.
func (l *LeakFile) Close() error {
	if err := l.f.Close(); err != nil {
		return outputError(l.path, err)
	}
	return nil
}

// AppendLeak opens path, appends one loss line and closes it again.
func AppendLeak(path, id string, loss, divisor float64) error {
	l, err := OpenLeaks(path, divisor)
	if err != nil {
		return err
	}
	if err := l.Loss(id, loss); err != nil {
		l.Close()
		return err
	}
	return l.Close()
}

// AppendUnknown opens path, appends the unknown-factory line and closes it.
func AppendUnknown(path, id string) error {
	l, err := OpenLeaks(path, 0)
	if err != nil {
		return err
	}
	if err := l.Unknown(id); err != nil {
		l.Close()
		return err
	}
	return l.Close()
}
