package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jensroland/git-linelog/internal/config"
	"github.com/jensroland/git-linelog/internal/debug"
	"github.com/jensroland/git-linelog/internal/linelog"
	"github.com/jensroland/git-linelog/internal/project"
	"github.com/jensroland/git-linelog/internal/store"
)

// Usage prints the top-level help.
func Usage(w io.Writer) {
	fmt.Fprint(w, `linelog: revision-indexed line history for files in a git repository.

Usage:
    git-linelog record <file> [-rev N]              # record the file as a new revision
    git-linelog checkout <file> [-rev N]            # print a revision
    git-linelog checkout <file> -rev N -from M      # lines changed between M and N
    git-linelog checkout <file> -rev N -from M -side # side-by-side view
    git-linelog annotate <file> [-rev N] [-all]     # introducing revision per line
    git-linelog deps <file> [-adjacency]            # revision dependencies
    git-linelog remap <file> <from=to>[,...]        # renumber revisions
    git-linelog import <file> [-ref R] [-max N]     # replay the file's git history
    git-linelog forget <file>                       # delete a history
    git-linelog list                                # tracked histories
    git-linelog stats                               # summary statistics
    git-linelog log [-n N]                          # recent operations
    git-linelog --version

File commands accept -name to address a history by name instead of path
and -json for machine-readable output where it applies.
`)
}

// env is what every subcommand works against.
type env struct {
	paths project.Paths
	store *store.Store
	cache *linelog.Cache
}

func openEnv() (*env, error) {
	cfg := config.Load()
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := project.FindRoot(wd, cfg.Root)
	if err != nil {
		return nil, err
	}
	return newEnv(cfg.Paths(root), cfg.CacheSize)
}

func newEnv(paths project.Paths, cacheSize int) (*env, error) {
	cache, err := linelog.NewCache(cacheSize)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(paths.DB)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", paths.DB, err)
	}
	return &env{paths: paths, store: s, cache: cache}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// historyName resolves the name a command operates on.
func (e *env) historyName(file, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if file == "" {
		return "", errors.New("missing <file> argument")
	}
	return e.paths.HistoryName(file)
}

// load reads an existing history.
func (e *env) load(ctx context.Context, name string) (linelog.LineLog, error) {
	log, err := e.store.Load(ctx, name, linelog.WithCache(e.cache))
	if errors.Is(err, store.ErrNotFound) {
		return linelog.LineLog{}, fmt.Errorf("no history for %s; run 'git-linelog record' first", name)
	}
	return log, err
}

// loadOrNew reads a history, starting an empty one if there is none.
func (e *env) loadOrNew(ctx context.Context, name string) (linelog.LineLog, error) {
	log, err := e.store.Load(ctx, name, linelog.WithCache(e.cache))
	if errors.Is(err, store.ErrNotFound) {
		return linelog.New(linelog.WithCache(e.cache)), nil
	}
	return log, err
}

// save stores log and appends the operation to the operations log.
func (e *env) save(ctx context.Context, op, name string, log linelog.LineLog, data map[string]any) error {
	if err := e.store.Save(ctx, name, log); err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	data["max_rev"] = log.MaxRev()
	data["instructions"] = log.Program().Len()
	debug.Log(e.paths.DataDir, debug.OperationsLog, op+" "+name, data)
	return nil
}

// resolveRev maps the -rev default of -1 to the latest revision.
func resolveRev(rev int, log linelog.LineLog) linelog.Rev {
	if rev < 0 {
		return log.MaxRev()
	}
	return linelog.Rev(rev)
}

// run parses args with fs, opens the environment and runs fn, exiting with
// status 1 on error.
func run(fs *flag.FlagSet, args []string, fn func(ctx context.Context, e *env) error) {
	// Go's flag package stops at the first non-flag arg.
	// Reorder so flags come before positional args, allowing
	// both "record -rev 3 file" and "record file -rev 3".
	fs.Parse(reorderArgs(fs, args))

	e, err := openEnv()
	if err != nil {
		fatal(err)
	}
	defer e.Close()

	if err := fn(context.Background(), e); err != nil {
		e.Close()
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

// reorderArgs moves flags before positional args so flag.Parse works
// regardless of argument order (e.g. "file -rev 3" → "-rev 3 file").
// Whether a flag consumes the next argument is looked up in fs.
func reorderArgs(fs *flag.FlagSet, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(a) < 2 || a[0] != '-' {
			positional = append(positional, a)
			continue
		}
		flags = append(flags, a)

		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		f := fs.Lookup(name)
		if f == nil || isBoolFlag(f) {
			continue
		}
		if i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(flags, positional...)
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
