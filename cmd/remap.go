package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jensroland/git-linelog/internal/format"
	"github.com/jensroland/git-linelog/internal/linelog"
)

// RunRemap renumbers the revisions of a history.
func RunRemap(args []string) {
	fs := flag.NewFlagSet("remap", flag.ExitOnError)
	name := fs.String("name", "", "History name (default: path relative to the repo root)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: git-linelog remap <file> <from=to>[,<from=to>...] [-name NAME]")
		fmt.Fprintln(os.Stderr, "       git-linelog remap -name NAME <from=to>[,...]")
		fs.PrintDefaults()
	}
	run(fs, args, func(ctx context.Context, e *env) error {
		file, spec := fs.Arg(0), fs.Arg(1)
		if *name != "" && fs.NArg() == 1 {
			file, spec = "", fs.Arg(0)
		}
		mapping, err := parseMapping(spec)
		if err != nil {
			return err
		}
		return cmdRemap(ctx, e, file, *name, mapping, os.Stdout)
	})
}

// parseMapping parses "1=3,2=1" into a revision mapping.
func parseMapping(s string) (map[linelog.Rev]linelog.Rev, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("missing mapping, expected <from=to>[,<from=to>...]")
	}
	mapping := make(map[linelog.Rev]linelog.Rev)
	for _, pair := range strings.Split(s, ",") {
		from, to, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("invalid mapping %q, expected from=to", pair)
		}
		f, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("invalid revision %q in %q", from, pair)
		}
		t, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("invalid revision %q in %q", to, pair)
		}
		if _, dup := mapping[linelog.Rev(f)]; dup {
			return nil, fmt.Errorf("revision %d mapped twice", f)
		}
		mapping[linelog.Rev(f)] = linelog.Rev(t)
	}
	return mapping, nil
}

func cmdRemap(ctx context.Context, e *env, file, name string, mapping map[linelog.Rev]linelog.Rev, w io.Writer) error {
	name, err := e.historyName(file, name)
	if err != nil {
		return err
	}
	log, err := e.load(ctx, name)
	if err != nil {
		return err
	}
	next, err := log.RemapRevs(mapping)
	if err != nil {
		return err
	}

	data := make(map[string]any, len(mapping))
	for from, to := range mapping {
		data[strconv.Itoa(int(from))] = to
	}
	if err := e.save(ctx, "remap", name, next, map[string]any{"mapping": data}); err != nil {
		return err
	}
	fmt.Fprintf(w, "Remapped %s%s%s: max revision %d → %d\n",
		format.Bold, name, format.Reset, log.MaxRev(), next.MaxRev())
	return nil
}
