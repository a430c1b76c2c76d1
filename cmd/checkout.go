package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jensroland/git-linelog/internal/format"
	"github.com/jensroland/git-linelog/internal/linelog"
)

// RunCheckout prints the content of a revision, or the lines changed
// between two revisions.
func RunCheckout(args []string) {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	rev := fs.Int("rev", -1, "Revision to check out (default: latest)")
	from := fs.Int("from", -1, "Show every line visible since this revision")
	side := fs.Bool("side", false, "With -from: side-by-side view of the two revisions")
	name := fs.String("name", "", "History name (default: path relative to the repo root)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: git-linelog checkout <file> [-rev N] [-from M [-side]] [-name NAME]")
		fs.PrintDefaults()
	}
	run(fs, args, func(ctx context.Context, e *env) error {
		opts := checkoutOpts{rev: *rev, from: *from, side: *side}
		return cmdCheckout(ctx, e, fs.Arg(0), *name, opts, os.Stdout)
	})
}

type checkoutOpts struct {
	rev, from int
	side      bool
}

func cmdCheckout(ctx context.Context, e *env, file, name string, opts checkoutOpts, w io.Writer) error {
	name, err := e.historyName(file, name)
	if err != nil {
		return err
	}
	log, err := e.load(ctx, name)
	if err != nil {
		return err
	}
	rev := resolveRev(opts.rev, log)

	if opts.from < 0 {
		text, err := log.Checkout(rev)
		if err != nil {
			return err
		}
		fmt.Fprint(w, text)
		return nil
	}

	start := linelog.Rev(opts.from)
	if opts.side {
		oldText, err := log.Checkout(start)
		if err != nil {
			return err
		}
		newText, err := log.Checkout(rev)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, format.SideBySide(oldText, newText,
			fmt.Sprintf("r%d", start), fmt.Sprintf("r%d", rev), format.TermWidth()))
		return nil
	}

	lines, err := log.CheckoutRange(rev, start)
	if err != nil {
		return err
	}
	fmt.Fprint(w, format.Range(lines, start))
	return nil
}

// RunAnnotate prints each line of a revision with the revision that
// introduced it.
func RunAnnotate(args []string) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	rev := fs.Int("rev", -1, "Revision to annotate (default: latest)")
	all := fs.Bool("all", false, "Every line ever present, with the revisions it is visible in")
	jsonOut := fs.Bool("json", false, "Output JSON")
	name := fs.String("name", "", "History name (default: path relative to the repo root)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: git-linelog annotate <file> [-rev N] [-all] [-json] [-name NAME]")
		fs.PrintDefaults()
	}
	run(fs, args, func(ctx context.Context, e *env) error {
		return cmdAnnotate(ctx, e, fs.Arg(0), *name, *rev, *all, *jsonOut, os.Stdout)
	})
}

func cmdAnnotate(ctx context.Context, e *env, file, name string, rev int, all, jsonOut bool, w io.Writer) error {
	name, err := e.historyName(file, name)
	if err != nil {
		return err
	}
	log, err := e.load(ctx, name)
	if err != nil {
		return err
	}

	if all {
		flat, err := log.Flatten()
		if err != nil {
			return err
		}
		if jsonOut {
			return writeJSON(w, flat)
		}
		fmt.Fprint(w, format.Flat(flat))
		return nil
	}

	lines, err := log.CheckoutLines(resolveRev(rev, log))
	if err != nil {
		return err
	}
	if jsonOut {
		// Drop the END sentinel.
		return writeJSON(w, lines[:len(lines)-1])
	}
	fmt.Fprint(w, format.Annotate(lines))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
