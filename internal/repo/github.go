// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const listPageSize = 100

// GitHub implements Repository against the GitHub REST API.
type GitHub struct {
	client *github.Client
	owner  string
	name   string
}

var _ Repository = (*GitHub)(nil)

// NewGitHub returns a client for the repository fullName ("owner/name")
// authenticated with token. base supplies the transport and timeout.
func NewGitHub(ctx context.Context, base *http.Client, token, fullName string) (*GitHub, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("repository %q is not in owner/name form", fullName)
	}
	if base == nil {
		base = http.DefaultClient
	}

	httpClient := base
	if token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		httpClient.Timeout = base.Timeout
	}
	return &GitHub{client: github.NewClient(httpClient), owner: owner, name: name}, nil
}

// FullName returns owner/name.
func (g *GitHub) FullName() string { return g.owner + "/" + g.name }

func (g *GitHub) DefaultBranch(ctx context.Context) (string, error) {
	r, _, err := g.client.Repositories.Get(ctx, g.owner, g.name)
	if err != nil {
		return "", wrapErr("get repository", err)
	}
	return r.GetDefaultBranch(), nil
}

func (g *GitHub) OpenPullRequestFiles(ctx context.Context) ([]string, error) {
	var files []string
	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}
	for {
		prs, resp, err := g.client.PullRequests.List(ctx, g.owner, g.name, opts)
		if err != nil {
			return nil, wrapErr("list pull requests", err)
		}
		for _, pr := range prs {
			prFiles, err := g.pullRequestFiles(ctx, pr.GetNumber())
			if err != nil {
				return nil, err
			}
			files = append(files, prFiles...)
		}
		if resp.NextPage == 0 {
			return files, nil
		}
		opts.Page = resp.NextPage
	}
}

func (g *GitHub) pullRequestFiles(ctx context.Context, number int) ([]string, error) {
	var files []string
	opts := &github.ListOptions{PerPage: listPageSize}
	for {
		page, resp, err := g.client.PullRequests.ListFiles(ctx, g.owner, g.name, number, opts)
		if err != nil {
			return nil, wrapErr(fmt.Sprintf("list files of pull request #%d", number), err)
		}
		for _, f := range page {
			files = append(files, f.GetFilename())
		}
		if resp.NextPage == 0 {
			return files, nil
		}
		opts.Page = resp.NextPage
	}
}

func (g *GitHub) TreePaths(ctx context.Context, ref string) ([]string, error) {
	tree, _, err := g.client.Git.GetTree(ctx, g.owner, g.name, ref, true)
	if err != nil {
		return nil, wrapErr("get tree "+ref, err)
	}
	paths := make([]string, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		if e.GetType() == "blob" {
			paths = append(paths, e.GetPath())
		}
	}
	return paths, nil
}

// BranchSHA reports a missing branch as a plain error, not a *PlatformError.
func (g *GitHub) BranchSHA(ctx context.Context, branch string) (string, error) {
	b, _, err := g.client.Repositories.GetBranch(ctx, g.owner, g.name, branch, 1)
	if err != nil {
		return "", wrapErr("get branch "+branch, err)
	}
	return b.GetCommit().GetSHA(), nil
}

func (g *GitHub) CreateBranch(ctx context.Context, branch, sha string) error {
	ref := &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(sha)},
	}
	if _, _, err := g.client.Git.CreateRef(ctx, g.owner, g.name, ref); err != nil {
		return wrapErr("create branch "+branch, err)
	}
	return nil
}

func (g *GitHub) CreateFile(ctx context.Context, branch, path, message string, content []byte) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(branch),
	}
	if _, _, err := g.client.Repositories.CreateFile(ctx, g.owner, g.name, path, opts); err != nil {
		return wrapErr("create file "+path, err)
	}
	return nil
}

func (g *GitHub) CommitsBetween(ctx context.Context, base, head string) (int, error) {
	cmp, _, err := g.client.Repositories.CompareCommits(ctx, g.owner, g.name, base, head, nil)
	if err != nil {
		return 0, wrapErr("compare "+base+"..."+head, err)
	}
	return cmp.GetTotalCommits(), nil
}

func (g *GitHub) CreatePullRequest(ctx context.Context, in PullRequestInput) (*PullRequest, error) {
	pr, _, err := g.client.PullRequests.Create(ctx, g.owner, g.name, &github.NewPullRequest{
		Title: github.String(in.Title),
		Body:  github.String(in.Body),
		Head:  github.String(in.SourceBranch),
		Base:  github.String(in.TargetBranch),
	})
	if err != nil {
		return nil, wrapErr("create pull request", err)
	}
	return &PullRequest{Number: pr.GetNumber(), Title: pr.GetTitle(), URL: pr.GetHTMLURL()}, nil
}

func (g *GitHub) DeleteBranch(ctx context.Context, branch string) error {
	if _, err := g.client.Git.DeleteRef(ctx, g.owner, g.name, "heads/"+branch); err != nil {
		return wrapErr("delete branch "+branch, err)
	}
	return nil
}

// wrapErr turns API rejections into *PlatformError carrying the first
// detailed message GitHub reported.
func wrapErr(op string, err error) error {
	var er *github.ErrorResponse
	if !errors.As(err, &er) {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := er.Message
	for _, e := range er.Errors {
		if e.Message != "" {
			msg = e.Message
			break
		}
	}
	status := 0
	if er.Response != nil {
		status = er.Response.StatusCode
	}
	return &PlatformError{Op: op, Status: status, Message: msg, Err: err}
}
