package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Paths holds all relevant locations for a repository tracked by linelog.
type Paths struct {
	Root    string // git repo root
	GitDir  string // .git/ (or the worktree's gitdir)
	DataDir string // .git/linelog/
	DB      string // .git/linelog/linelog.db
}

// FindRoot returns the root of the git repository containing dir. A
// non-empty override is returned as is.
func FindRoot(dir, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("not inside a git repository")
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("bare repositories are not supported: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// NewPaths constructs all path constants from a project root.
func NewPaths(root string) Paths {
	gitDir := resolveGitDir(root)
	dataDir := filepath.Join(gitDir, "linelog")
	return Paths{
		Root:    root,
		GitDir:  gitDir,
		DataDir: dataDir,
		DB:      filepath.Join(dataDir, "linelog.db"),
	}
}

// resolveGitDir follows a "gitdir: <path>" pointer file as used by
// worktrees and falls back to <root>/.git.
func resolveGitDir(root string) string {
	dotGit := filepath.Join(root, ".git")
	info, err := os.Stat(dotGit)
	if err != nil || info.IsDir() {
		return dotGit
	}
	data, err := os.ReadFile(dotGit)
	if err != nil {
		return dotGit
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir: ")
	if !ok {
		return dotGit
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	return target
}

// HistoryName returns the name a file's history is stored under: its path
// relative to the root, with forward slashes.
func (p Paths) HistoryName(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs(p.Root)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository %s", file, p.Root)
	}
	return filepath.ToSlash(rel), nil
}
