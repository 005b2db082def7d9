// Package gitrepo reads tag history and HEAD metadata from the local
// repository. It backs the tag resolver and the build-arg values
// (branch, short commit) without shelling out to git.
package gitrepo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

type Repo struct {
	r *git.Repository
}

// Open locates the repository containing path, walking up to the
// nearest .git directory.
func Open(path string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open git repository at %q: %w", path, err)
	}
	return &Repo{r: r}, nil
}

// VersionTags returns the names of all tags in the repository.
// Semver filtering and ordering is the resolver's job, not ours.
func (r *Repo) VersionTags() ([]string, error) {
	iter, err := r.r.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk tags: %w", err)
	}
	return names, nil
}

// Head returns the current branch name and commit hash.
func (r *Repo) Head() (branch, commit string, err error) {
	head, err := r.r.Head()
	if err != nil {
		return "", "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Name().Short(), head.Hash().String(), nil
}

// ShortCommit returns the abbreviated commit hash for HEAD.
func (r *Repo) ShortCommit() (string, error) {
	_, commit, err := r.Head()
	if err != nil {
		return "", err
	}
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return commit, nil
}
