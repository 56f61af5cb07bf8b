package main

import (
	"errors"

	"github.com/dd0wney/cluso-watergrid/pkg/pipeline"
)

const (
	exitUsage  = 1
	exitInput  = 2
	exitOutput = 3
)

// errNoMatch is returned by find when no line contains the text.
var errNoMatch = errors.New("no matching line")

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, pipeline.ErrUsage), errors.Is(err, errNoMatch):
		return exitUsage
	case errors.Is(err, pipeline.ErrOutput):
		return exitOutput
	default:
		return exitInput
	}
}
