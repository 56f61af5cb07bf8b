package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-watergrid/pkg/pipeline"
	"github.com/dd0wney/cluso-watergrid/pkg/search"
)

func newFindCmd(stdout io.Writer) *cobra.Command {
	var withNumber bool

	cmd := &cobra.Command{
		Use:   "find <input> <text>",
		Short: "Print the first line of the input containing text",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("%w: find expects <input> <text>", pipeline.ErrUsage)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, line, ok, err := search.FindLineNumber(args[0], args[1])
			if errors.Is(err, search.ErrEmptyTarget) {
				return fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
			}
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w for %q in %s", errNoMatch, args[1], args[0])
			}
			if withNumber {
				_, err = fmt.Fprintf(stdout, "%d:%s\n", n, line)
			} else {
				_, err = fmt.Fprintln(stdout, line)
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&withNumber, "line-number", "n", false, "Prefix the line with its line number")
	return cmd
}
