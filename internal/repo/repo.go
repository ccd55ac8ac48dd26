// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repo is the hosting-platform side of the bots: listing what the
// target repository already holds, committing generated posts to a run
// branch, and opening the pull request for it.
package repo

import (
	"context"
	"fmt"
	"strings"
)

// Repository is the set of hosting-platform calls the bots make. GitHub
// implements it; tests use repotest.Fake.
type Repository interface {
	// DefaultBranch returns the repository's default branch name.
	DefaultBranch(ctx context.Context) (string, error)

	// OpenPullRequestFiles returns the changed file paths of every open
	// pull request.
	OpenPullRequestFiles(ctx context.Context) ([]string, error)

	// TreePaths returns every blob path reachable from ref.
	TreePaths(ctx context.Context, ref string) ([]string, error)

	// BranchSHA returns the commit SHA at the tip of branch.
	BranchSHA(ctx context.Context, branch string) (string, error)

	// CreateBranch creates branch pointing at sha.
	CreateBranch(ctx context.Context, branch, sha string) error

	// CreateFile commits a new file to branch in a single commit.
	CreateFile(ctx context.Context, branch, path, message string, content []byte) error

	// CommitsBetween returns how many commits head has that base does not.
	CommitsBetween(ctx context.Context, base, head string) (int, error)

	// CreatePullRequest opens a pull request.
	CreatePullRequest(ctx context.Context, in PullRequestInput) (*PullRequest, error)

	// DeleteBranch removes branch.
	DeleteBranch(ctx context.Context, branch string) error
}

// PullRequestInput contains the data needed to open a pull request.
type PullRequestInput struct {
	Title        string
	Body         string
	SourceBranch string
	TargetBranch string
}

// PullRequest is a pull request returned by the platform.
type PullRequest struct {
	Number int
	Title  string
	URL    string
}

// PlatformError is a request the platform rejected (validation failure,
// missing permission, conflicting ref).
type PlatformError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Message, e.Status)
}

func (e *PlatformError) Unwrap() error { return e.Err }

// FileSet is a set of repository paths.
type FileSet map[string]struct{}

// Has reports whether p is in the set.
func (s FileSet) Has(p string) bool {
	_, ok := s[p]
	return ok
}

// Add inserts p.
func (s FileSet) Add(p string) { s[p] = struct{}{} }

// ExistingFiles collects the paths under prefix that are already taken:
// files changed by open pull requests, plus Markdown files on the default
// branch.
func ExistingFiles(ctx context.Context, r Repository, prefix string) (FileSet, error) {
	set := make(FileSet)

	prFiles, err := r.OpenPullRequestFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing open pull request files: %w", err)
	}
	for _, p := range prFiles {
		if strings.HasPrefix(p, prefix) {
			set.Add(p)
		}
	}

	branch, err := r.DefaultBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving default branch: %w", err)
	}
	paths, err := r.TreePaths(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("listing %s tree: %w", branch, err)
	}
	for _, p := range paths {
		if strings.HasPrefix(p, prefix) && strings.HasSuffix(p, ".md") {
			set.Add(p)
		}
	}
	return set, nil
}

// BulletList renders items as a Markdown list for pull request bodies. An
// empty list renders a lone "- ".
func BulletList(items []string) string {
	return "- " + strings.Join(items, "\n- ")
}
