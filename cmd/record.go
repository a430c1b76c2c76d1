package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jensroland/git-linelog/internal/format"
	"github.com/jensroland/git-linelog/internal/linelog"
)

// RunRecord records the current content of a file as a revision.
func RunRecord(args []string) {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	rev := fs.Int("rev", -1, "Revision to record (default: next revision)")
	name := fs.String("name", "", "History name (default: path relative to the repo root)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: git-linelog record <file> [-rev N] [-name NAME]")
		fs.PrintDefaults()
	}
	run(fs, args, func(ctx context.Context, e *env) error {
		return cmdRecord(ctx, e, fs.Arg(0), *name, *rev, os.Stdout)
	})
}

func cmdRecord(ctx context.Context, e *env, file, name string, rev int, w io.Writer) error {
	if file == "" {
		return fmt.Errorf("missing <file> argument")
	}
	name, err := e.historyName(file, name)
	if err != nil {
		return err
	}
	text, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	log, err := e.loadOrNew(ctx, name)
	if err != nil {
		return err
	}

	target := log.MaxRev() + 1
	if rev >= 0 {
		target = linelog.Rev(rev)
	}
	next, err := log.RecordTextAt(target, string(text), nil)
	if err != nil {
		return err
	}
	if err := e.save(ctx, "record", name, next, map[string]any{"rev": target}); err != nil {
		return err
	}

	fmt.Fprintf(w, "Recorded %s%s%s as revision %s%d%s (max %d)\n",
		format.Bold, name, format.Reset, format.RevColor(target), target, format.Reset, next.MaxRev())
	return nil
}
