package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jensroland/git-linelog/internal/format"
	"github.com/jensroland/git-linelog/internal/gitimport"
	"github.com/jensroland/git-linelog/internal/linelog"
)

// RunImport replays the git history of a file into its linelog.
func RunImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	ref := fs.String("ref", "HEAD", "Commit to walk back from")
	limit := fs.Int("max", 0, "Import only the newest N commits (0 = all)")
	replace := fs.Bool("replace", false, "Discard the existing history first")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: git-linelog import <file> [-ref R] [-max N] [-replace]")
		fs.PrintDefaults()
	}
	run(fs, args, func(ctx context.Context, e *env) error {
		opts := importOpts{ref: *ref, limit: *limit, replace: *replace}
		return cmdImport(ctx, e, fs.Arg(0), opts, os.Stdout)
	})
}

type importOpts struct {
	ref     string
	limit   int
	replace bool
}

func cmdImport(ctx context.Context, e *env, file string, opts importOpts, w io.Writer) error {
	name, err := e.historyName(file, "")
	if err != nil {
		return err
	}

	revs, err := gitimport.Revisions(e.paths.Root, name, opts.ref, opts.limit)
	if err != nil {
		return err
	}
	if len(revs) == 0 {
		return fmt.Errorf("no commits touch %s at %s", name, opts.ref)
	}

	log := linelog.New(linelog.WithCache(e.cache))
	if !opts.replace {
		if log, err = e.loadOrNew(ctx, name); err != nil {
			return err
		}
	}
	first := log.MaxRev() + 1

	next, err := gitimport.Replay(log, revs)
	if err != nil {
		return err
	}
	data := map[string]any{"ref": opts.ref, "commits": len(revs), "first_rev": first}
	if err := e.save(ctx, "import", name, next, data); err != nil {
		return err
	}

	var sb strings.Builder
	for i, r := range revs {
		fmt.Fprintf(&sb, "r%-3d %s %s  %s\n", first+linelog.Rev(i), r.Hash, r.When.Format("2006-01-02"), r.Summary)
	}
	title := fmt.Sprintf("Imported %d commits into %s", len(revs), name)
	fmt.Fprintln(w, format.Box(sb.String(), title, min(format.TermWidth(), 100), false))
	return nil
}
