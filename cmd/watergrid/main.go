// Command watergrid computes per-factory volume reports and distribution
// network leak losses from a semicolon-delimited water network file.
//
// Usage:
//
//	watergrid [flags] <input> <mode> <argument> [<mode> <argument>...]
//	watergrid find <input> <text>
//
// Modes are max, src and real (argument: output file) and leaks (argument:
// factory identifier, result appended to leaks.dat).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
