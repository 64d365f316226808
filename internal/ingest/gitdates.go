package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
)

// DateResolver supplies a publication date for articles whose front matter
// has none.
type DateResolver interface {
	LastModified(path string) (time.Time, error)
}

var errNoHistory = errors.New("no commits touch file")

// GitDates resolves dates from the newest commit touching a file.
type GitDates struct {
	mu   sync.Mutex // guards log walks
	repo *gogit.Repository
	root string
}

// OpenGitDates opens the repository containing dir, searching parent
// directories for .git.
func OpenGitDates(dir string) (*GitDates, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repo at %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("git worktree: %w", err)
	}
	return &GitDates{repo: repo, root: wt.Filesystem.Root()}, nil
}

func (g *GitDates) LastModified(path string) (time.Time, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, err
	}
	rel, err := filepath.Rel(g.root, abs)
	if err != nil {
		return time.Time{}, err
	}
	rel = filepath.ToSlash(rel)

	g.mu.Lock()
	defer g.mu.Unlock()

	iter, err := g.repo.Log(&gogit.LogOptions{FileName: &rel})
	if err != nil {
		return time.Time{}, fmt.Errorf("git log %s: %w", rel, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, errNoHistory
	}
	return commit.Author.When, nil
}
