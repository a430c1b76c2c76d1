package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jensroland/git-linelog/internal/format"
	"github.com/jensroland/git-linelog/internal/project"
)

func TestMain(m *testing.M) {
	format.DisableColors()
	os.Exit(m.Run())
}

// newTestEnv opens an environment rooted at root with its own database.
func newTestEnv(t *testing.T, root string) *env {
	t.Helper()
	e, err := newEnv(project.NewPaths(root), 64)
	if err != nil {
		t.Fatalf("newEnv: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestReorderArgs(t *testing.T) {
	newFlags := func() *flag.FlagSet {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.Int("rev", -1, "")
		fs.String("name", "", "")
		fs.Bool("json", false, "")
		return fs
	}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"flags first", []string{"-rev", "3", "a.txt"}, []string{"-rev", "3", "a.txt"}},
		{"flags last", []string{"a.txt", "-rev", "3"}, []string{"-rev", "3", "a.txt"}},
		{"bool flag", []string{"a.txt", "-json", "b.txt"}, []string{"-json", "a.txt", "b.txt"}},
		{"mixed", []string{"a.txt", "-json", "-name", "x"}, []string{"-json", "-name", "x", "a.txt"}},
		{"equals", []string{"a.txt", "-rev=2"}, []string{"-rev=2", "a.txt"}},
		{"double dash flag", []string{"a.txt", "--rev", "4"}, []string{"--rev", "4", "a.txt"}},
		{"terminator", []string{"-json", "--", "-odd"}, []string{"-json", "-odd"}},
		{"no args", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reorderArgs(newFlags(), tt.args)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("reorderArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReorderArgsParses(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	rev := fs.Int("rev", -1, "")
	if err := fs.Parse(reorderArgs(fs, []string{"a.txt", "-rev", "7"})); err != nil {
		t.Fatal(err)
	}
	if *rev != 7 || fs.Arg(0) != "a.txt" {
		t.Errorf("rev=%d arg=%q, want 7 a.txt", *rev, fs.Arg(0))
	}
}

func TestHistoryName(t *testing.T) {
	root := t.TempDir()
	e := newTestEnv(t, root)

	got, err := e.historyName(filepath.Join(root, "src", "a.go"), "")
	if err != nil || got != "src/a.go" {
		t.Errorf("historyName(path) = %q, %v; want src/a.go", got, err)
	}
	if got, _ := e.historyName("ignored", "custom"); got != "custom" {
		t.Errorf("historyName with name = %q, want custom", got)
	}
	if _, err := e.historyName("", ""); err == nil {
		t.Error("expected error without file or name")
	}
}
