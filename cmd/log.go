package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/jensroland/git-linelog/internal/debug"
	"github.com/jensroland/git-linelog/internal/format"
)

// RunLog prints the most recent entries of the operations log.
func RunLog(args []string) {
	flags := flag.NewFlagSet("log", flag.ExitOnError)
	n := flags.Int("n", 20, "Number of entries to show")
	run(flags, args, func(ctx context.Context, e *env) error {
		return cmdLog(e, *n, os.Stdout)
	})
}

func cmdLog(e *env, n int, w io.Writer) error {
	logFile := debug.Path(e.paths.DataDir, debug.OperationsLog)
	entries, err := debug.Tail(e.paths.DataDir, debug.OperationsLog, n)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "No log file at %s\n", logFile)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s--- %s (last %d entries) ---%s\n\n", format.Dim, logFile, len(entries), format.Reset)
	for _, entry := range entries {
		fmt.Fprintln(w, entry)
		fmt.Fprintln(w)
	}
	return nil
}
