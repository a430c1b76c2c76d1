package gitimport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jensroland/git-linelog/internal/linelog"
)

type testRepo struct {
	t    *testing.T
	dir  string
	wt   *git.Worktree
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	return &testRepo{t: t, dir: dir, wt: wt, when: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *testRepo) commit(file, text, message string) {
	r.t.Helper()
	path := filepath.Join(r.dir, file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		r.t.Fatal(err)
	}
	if _, err := r.wt.Add(file); err != nil {
		r.t.Fatalf("git add %s: %v", file, err)
	}
	r.when = r.when.Add(time.Minute)
	_, err := r.wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Avery", Email: "avery@example.com", When: r.when},
	})
	if err != nil {
		r.t.Fatalf("commit: %v", err)
	}
}

func TestRevisions(t *testing.T) {
	r := newTestRepo(t)
	r.commit("src/a.txt", "c\nd\ne\n", "Add a\n\nWith a body.")
	r.commit("other.txt", "x\n", "Unrelated")
	r.commit("src/a.txt", "d\ne\nf\n", "Edit a")
	r.commit("src/a.txt", "e\ng\nf\n", "Edit a again")

	revs, err := Revisions(r.dir, "src/a.txt", "", 0)
	if err != nil {
		t.Fatalf("Revisions: %v", err)
	}
	want := []struct{ text, summary string }{
		{"c\nd\ne\n", "Add a"},
		{"d\ne\nf\n", "Edit a"},
		{"e\ng\nf\n", "Edit a again"},
	}
	if len(revs) != len(want) {
		t.Fatalf("got %d revisions, want %d", len(revs), len(want))
	}
	for i, w := range want {
		if revs[i].Text != w.text || revs[i].Summary != w.summary {
			t.Errorf("rev %d = {%q, %q}, want {%q, %q}", i, revs[i].Text, revs[i].Summary, w.text, w.summary)
		}
		if revs[i].Author != "Avery" || len(revs[i].Hash) != 7 {
			t.Errorf("rev %d metadata = %+v", i, revs[i])
		}
	}
	if !revs[0].When.Before(revs[2].When) {
		t.Error("revisions are not oldest first")
	}

	limited, err := Revisions(r.dir, "src/a.txt", "HEAD", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[0].Summary != "Edit a" || limited[1].Summary != "Edit a again" {
		t.Errorf("limit 2 = %+v, want the newest two", limited)
	}
}

func TestRevisionsErrors(t *testing.T) {
	if _, err := Revisions(t.TempDir(), "a.txt", "", 0); err == nil {
		t.Error("expected error for a directory without a repository")
	}
	r := newTestRepo(t)
	r.commit("a.txt", "a\n", "Add")
	if _, err := Revisions(r.dir, "a.txt", "no-such-branch", 0); err == nil {
		t.Error("expected error for an unknown ref")
	}
}

func TestReplay(t *testing.T) {
	r := newTestRepo(t)
	r.commit("a.txt", "c\nd\ne\n", "one")
	r.commit("a.txt", "d\ne\nf\n", "two")
	r.commit("a.txt", "e\ng\nf\n", "three")

	revs, err := Revisions(r.dir, "a.txt", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	log, err := Replay(linelog.New(), revs)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if log.MaxRev() != 3 {
		t.Fatalf("MaxRev = %d, want 3", log.MaxRev())
	}
	for i, rev := range revs {
		text, err := log.Checkout(linelog.Rev(i + 1))
		if err != nil {
			t.Fatal(err)
		}
		if text != rev.Text {
			t.Errorf("Checkout(%d) = %q, want %q", i+1, text, rev.Text)
		}
	}
}
