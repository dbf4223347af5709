// Package project finds the working directory a run should use.
package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Root returns the root of the git worktree containing path, searching
// parent directories. It returns "" when path is not inside a repository.
func Root(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(abs); err == nil && !fi.IsDir() {
		abs = filepath.Dir(abs)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// WorkDir picks the first available root: the explicit override, then the
// repository containing doc. Empty means "inherit".
func WorkDir(override, doc string) string {
	if override != "" {
		return override
	}
	if doc == "" {
		return ""
	}
	root, err := Root(doc)
	if err != nil {
		return ""
	}
	return root
}
