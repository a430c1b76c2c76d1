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

// RunStats prints summary statistics over every stored history.
func RunStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output JSON")
	run(fs, args, func(ctx context.Context, e *env) error {
		return cmdStats(ctx, e, *jsonOut, os.Stdout)
	})
}

type stats struct {
	Histories    int           `json:"histories"`
	Revisions    int           `json:"revisions"`
	Instructions int           `json:"instructions"`
	Lines        int           `json:"lines_ever"`
	Largest      string        `json:"largest,omitempty"`
	Cache        linelog.Stats `json:"cache"`
}

func cmdStats(ctx context.Context, e *env, jsonOut bool, w io.Writer) error {
	histories, err := e.store.List(ctx)
	if err != nil {
		return err
	}

	var s stats
	largest := -1
	for _, h := range histories {
		log, err := e.load(ctx, h.Name)
		if err != nil {
			return err
		}
		flat, err := log.Flatten()
		if err != nil {
			return fmt.Errorf("%s: %w", h.Name, err)
		}
		s.Histories++
		s.Revisions += int(h.MaxRev) + 1
		s.Instructions += h.Instructions
		s.Lines += len(flat)
		if h.Instructions > largest {
			largest, s.Largest = h.Instructions, h.Name
		}
	}
	s.Cache = e.cache.Stats()

	if jsonOut {
		return writeJSON(w, s)
	}

	fmt.Fprintf(w, "%slinelog statistics%s\n\n", format.Bold, format.Reset)
	fmt.Fprintf(w, "  Histories:     %d\n", s.Histories)
	fmt.Fprintf(w, "  Revisions:     %d\n", s.Revisions)
	fmt.Fprintf(w, "  Instructions:  %d\n", s.Instructions)
	fmt.Fprintf(w, "  Lines ever:    %d\n", s.Lines)
	if s.Largest != "" {
		fmt.Fprintf(w, "  Largest:       %s\n", s.Largest)
	}
	fmt.Fprintf(w, "  Cache:         %d hits, %d misses\n", s.Cache.Hits, s.Cache.Misses)
	return nil
}

// RunList prints every stored history.
func RunList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output JSON")
	run(fs, args, func(ctx context.Context, e *env) error {
		return cmdList(ctx, e, *jsonOut, os.Stdout)
	})
}

func cmdList(ctx context.Context, e *env, jsonOut bool, w io.Writer) error {
	histories, err := e.store.List(ctx)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, histories)
	}
	if len(histories) == 0 {
		fmt.Fprintf(w, "%sNo histories recorded yet%s\n", format.Dim, format.Reset)
		return nil
	}
	for _, h := range histories {
		fmt.Fprintln(w, format.History(h))
	}
	return nil
}

// RunForget deletes a stored history.
func RunForget(args []string) {
	fs := flag.NewFlagSet("forget", flag.ExitOnError)
	name := fs.String("name", "", "History name (default: path relative to the repo root)")
	run(fs, args, func(ctx context.Context, e *env) error {
		return cmdForget(ctx, e, fs.Arg(0), *name, os.Stdout)
	})
}

func cmdForget(ctx context.Context, e *env, file, name string, w io.Writer) error {
	name, err := e.historyName(file, name)
	if err != nil {
		return err
	}
	if err := e.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("forget %s: %w", name, err)
	}
	fmt.Fprintf(w, "Forgot %s%s%s\n", format.Bold, name, format.Reset)
	return nil
}
