// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repotest provides an in-memory repo.Repository for tests.
package repotest

import (
	"context"
	"fmt"

	"github.com/pdiddy/social-bots/internal/repo"
)

// FileCommit records one CreateFile call.
type FileCommit struct {
	Branch  string
	Path    string
	Message string
	Content string
}

// Fake is an in-memory repository. Branches map to a SHA; every SHA carries
// the number of commits it is ahead of the initial base commit.
type Fake struct {
	Default string

	// PRFiles are the changed files of the open pull requests.
	PRFiles []string
	// Tree is the blob listing of the default branch.
	Tree []string

	Branches     map[string]string
	Commits      []FileCommit
	PullRequests []repo.PullRequestInput
	Deleted      []string

	// Err, when set for an operation name ("CreatePullRequest",
	// "CreateFile", "TreePaths", ...), is returned by that operation.
	Err map[string]error

	depth map[string]int
}

var _ repo.Repository = (*Fake)(nil)

// New returns a fake whose default branch is "main" at SHA "base".
func New() *Fake {
	return &Fake{
		Default:  "main",
		Branches: map[string]string{"main": "base"},
		Err:      map[string]error{},
		depth:    map[string]int{"base": 0},
	}
}

// FilesOn returns the paths committed to branch, in commit order.
func (f *Fake) FilesOn(branch string) []string {
	var paths []string
	for _, c := range f.Commits {
		if c.Branch == branch {
			paths = append(paths, c.Path)
		}
	}
	return paths
}

// HasBranch reports whether branch currently exists.
func (f *Fake) HasBranch(branch string) bool {
	_, ok := f.Branches[branch]
	return ok
}

func (f *Fake) DefaultBranch(context.Context) (string, error) {
	if err := f.Err["DefaultBranch"]; err != nil {
		return "", err
	}
	return f.Default, nil
}

func (f *Fake) OpenPullRequestFiles(context.Context) ([]string, error) {
	if err := f.Err["OpenPullRequestFiles"]; err != nil {
		return nil, err
	}
	return f.PRFiles, nil
}

func (f *Fake) TreePaths(_ context.Context, ref string) ([]string, error) {
	if err := f.Err["TreePaths"]; err != nil {
		return nil, err
	}
	if ref != f.Default {
		return nil, fmt.Errorf("unknown ref %q", ref)
	}
	return f.Tree, nil
}

func (f *Fake) BranchSHA(_ context.Context, branch string) (string, error) {
	sha, ok := f.Branches[branch]
	if !ok {
		return "", fmt.Errorf("branch %q not found", branch)
	}
	return sha, nil
}

func (f *Fake) CreateBranch(_ context.Context, branch, sha string) error {
	if err := f.Err["CreateBranch"]; err != nil {
		return err
	}
	if _, ok := f.Branches[branch]; ok {
		return &repo.PlatformError{Op: "create branch", Status: 422, Message: "Reference already exists"}
	}
	f.Branches[branch] = sha
	return nil
}

func (f *Fake) CreateFile(_ context.Context, branch, path, message string, content []byte) error {
	if err := f.Err["CreateFile"]; err != nil {
		return err
	}
	sha, ok := f.Branches[branch]
	if !ok {
		return fmt.Errorf("branch %q not found", branch)
	}
	f.Commits = append(f.Commits, FileCommit{Branch: branch, Path: path, Message: message, Content: string(content)})
	next := fmt.Sprintf("%s-%d", branch, len(f.Commits))
	f.depth[next] = f.depth[sha] + 1
	f.Branches[branch] = next
	return nil
}

func (f *Fake) CommitsBetween(_ context.Context, base, head string) (int, error) {
	if err := f.Err["CommitsBetween"]; err != nil {
		return 0, err
	}
	return f.depth[head] - f.depth[base], nil
}

func (f *Fake) CreatePullRequest(_ context.Context, in repo.PullRequestInput) (*repo.PullRequest, error) {
	if err := f.Err["CreatePullRequest"]; err != nil {
		return nil, err
	}
	f.PullRequests = append(f.PullRequests, in)
	n := len(f.PullRequests)
	return &repo.PullRequest{Number: n, Title: in.Title, URL: fmt.Sprintf("https://example.test/pull/%d", n)}, nil
}

func (f *Fake) DeleteBranch(_ context.Context, branch string) error {
	if err := f.Err["DeleteBranch"]; err != nil {
		return err
	}
	if _, ok := f.Branches[branch]; !ok {
		return fmt.Errorf("branch %q not found", branch)
	}
	delete(f.Branches, branch)
	f.Deleted = append(f.Deleted, branch)
	return nil
}
