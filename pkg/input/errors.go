package input

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrOpen        = errors.New("input cannot be opened")
	ErrRead        = errors.New("input read failed")
	ErrLineTooLong = errors.New("input line exceeds maximum length")
)

// SourceError provides structured error information for input operations.
type SourceError struct {
	Op    string // Operation that failed (e.g., "open", "scan")
	Path  string // Input path, empty for in-memory sources
	Line  int    // Line number being read when the error occurred, 0 if none
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s %s line %d: %v", e.Op, e.Path, e.Line, e.Cause)
	case e.Path != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
	case e.Line > 0:
		return fmt.Sprintf("%s line %d: %v", e.Op, e.Line, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

func openError(path string, err error) error {
	return &SourceError{Op: "open", Path: path, Cause: fmt.Errorf("%w: %w", ErrOpen, err)}
}

func scanError(path string, line int, err error) error {
	return &SourceError{Op: "scan", Path: path, Line: line, Cause: err}
}
