// Package gitimport replays the history of one file in a git repository as
// linelog revisions.
package gitimport

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jensroland/git-linelog/internal/linelog"
)

// Revision is the content of the file at one commit.
type Revision struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	When    time.Time `json:"when"`
	Summary string    `json:"summary"`
	// Text is empty when the commit deleted the file.
	Text string `json:"-"`
}

// Revisions returns the commits reachable from ref that touched file, oldest
// first. file is relative to the repository root. limit > 0 keeps only the
// newest limit commits.
func Revisions(repoDir, file, ref string, limit int) ([]Revision, error) {
	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	if ref == "" {
		ref = "HEAD"
	}
	from, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}

	file = filepath.ToSlash(file)
	iter, err := repo.Log(&git.LogOptions{From: *from, FileName: &file})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	var revs []Revision
	err = iter.ForEach(func(c *object.Commit) error {
		text, err := fileText(c, file)
		if err != nil {
			return err
		}
		revs = append(revs, Revision{
			Hash:    c.Hash.String()[:7],
			Author:  c.Author.Name,
			When:    c.Author.When,
			Summary: summary(c.Message),
			Text:    text,
		})
		if limit > 0 && len(revs) >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}

	slices.Reverse(revs)
	return revs, nil
}

// Replay records each revision's text on top of log, in order. Revision i
// of revs becomes log.MaxRev()+1+i.
func Replay(log linelog.LineLog, revs []Revision) (linelog.LineLog, error) {
	for _, rev := range revs {
		var err error
		if log, err = log.RecordText(rev.Text); err != nil {
			return linelog.LineLog{}, fmt.Errorf("replay %s: %w", rev.Hash, err)
		}
	}
	return log, nil
}

func fileText(c *object.Commit, path string) (string, error) {
	f, err := c.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s from %s: %w", path, c.Hash, err)
	}
	text, err := f.Contents()
	if err != nil {
		return "", fmt.Errorf("read %s from %s: %w", path, c.Hash, err)
	}
	return text, nil
}

func summary(message string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return first
}
