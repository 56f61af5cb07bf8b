// Package pipeline turns command-line (mode, argument) pairs into work over a
// factory registry built once per run.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-watergrid/pkg/report"
	"github.com/dd0wney/cluso-watergrid/pkg/validation"
)

var (
	ErrUsage = errors.New("pipeline: invalid usage")
	ErrInput = errors.New("pipeline: input failure")

	// ErrOutput is returned when a report file cannot be written.
	ErrOutput = report.ErrOutput
)

// Mode names a command.
type Mode string

const (
	ModeMax    Mode = "max"
	ModeSource Mode = "src"
	ModeReal   Mode = "real"
	ModeLeaks  Mode = "leaks"
)

// IsReport reports whether the mode writes a registry report.
func (m Mode) IsReport() bool {
	return m == ModeMax || m == ModeSource || m == ModeReal
}

// Command is one mode with its argument: an output path for report modes, a
// factory identifier for leaks.
type Command struct {
	Mode Mode
	Arg  string
}

func (c Command) String() string {
	return string(c.Mode) + " " + c.Arg
}

// ParseCommands reads args as consecutive (mode, argument) pairs. At least one
// pair is required.
func ParseCommands(args []string) ([]Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: expected <mode> <argument> pairs", ErrUsage)
	}

	cmds := make([]Command, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		mode := Mode(args[i])
		if !mode.IsReport() && mode != ModeLeaks {
			return nil, fmt.Errorf("%w: unknown mode %q", ErrUsage, args[i])
		}
		if i+1 >= len(args) {
			return nil, fmt.Errorf("%w: mode %q needs an argument", ErrUsage, args[i])
		}
		arg := args[i+1]
		if mode == ModeLeaks {
			if err := validation.ValidateIdentifier(arg); err != nil {
				return nil, fmt.Errorf("%w: leaks: %w", ErrUsage, err)
			}
		} else if arg == "" {
			return nil, fmt.Errorf("%w: mode %q needs an output file", ErrUsage, args[i])
		}
		cmds = append(cmds, Command{Mode: mode, Arg: arg})
	}
	return cmds, nil
}
