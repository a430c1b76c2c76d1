package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jensroland/git-linelog/internal/format"
	"github.com/jensroland/git-linelog/internal/linelog"
	"github.com/jensroland/git-linelog/internal/revset"
)

// RunDeps prints which earlier revisions each revision depends on.
func RunDeps(args []string) {
	fs := flag.NewFlagSet("deps", flag.ExitOnError)
	adjacency := fs.Bool("adjacency", false, "Only count deleted lines, or the nearest neighbour for insertions")
	jsonOut := fs.Bool("json", false, "Output JSON")
	name := fs.String("name", "", "History name (default: path relative to the repo root)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: git-linelog deps <file> [-adjacency] [-json] [-name NAME]")
		fs.PrintDefaults()
	}
	run(fs, args, func(ctx context.Context, e *env) error {
		return cmdDeps(ctx, e, fs.Arg(0), *name, *adjacency, *jsonOut, os.Stdout)
	})
}

func cmdDeps(ctx context.Context, e *env, file, name string, adjacency, jsonOut bool, w io.Writer) error {
	name, err := e.historyName(file, name)
	if err != nil {
		return err
	}
	log, err := e.load(ctx, name)
	if err != nil {
		return err
	}

	var deps map[linelog.Rev]revset.Set
	if adjacency {
		deps, err = log.AdjacencyDepMap()
	} else {
		deps, err = log.DepMap()
	}
	if err != nil {
		return err
	}

	if jsonOut {
		// JSON object keys are strings.
		out := make(map[string]revset.Set, len(deps))
		for rev, parents := range deps {
			out[strconv.Itoa(int(rev))] = parents
		}
		return writeJSON(w, out)
	}
	if len(deps) == 0 {
		fmt.Fprintf(w, "%sNo revisions changed %s%s\n", format.Dim, name, format.Reset)
		return nil
	}
	fmt.Fprint(w, format.Deps(deps))
	return nil
}
