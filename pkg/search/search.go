// Package search looks up single lines in an input file.
package search

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-watergrid/pkg/input"
)

var ErrEmptyTarget = errors.New("search: target is empty")

// FindLine returns the first line of path containing target, without its line
// terminator. Snappy-compressed inputs are searched after decoding.
func FindLine(path, target string) (string, bool, error) {
	_, line, ok, err := FindLineNumber(path, target)
	return line, ok, err
}

// FindLineNumber is FindLine that also reports the 1-based line number of the
// match.
func FindLineNumber(path, target string) (int, string, bool, error) {
	if target == "" {
		return 0, "", false, ErrEmptyTarget
	}

	r, err := input.Open(path)
	if err != nil {
		return 0, "", false, err
	}
	defer func() { _ = r.Close() }()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), input.DefaultMaxLineBytes)

	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.Contains(line, target) {
			return n, line, true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, "", false, fmt.Errorf("search %s: %w", path, err)
	}
	return 0, "", false, nil
}
