// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// BranchTimeLayout is the timestamp suffix of run branch names.
const BranchTimeLayout = "20060102150405"

// BranchName returns "<prefix>-<timestamp>" for a run started at now.
func BranchName(prefix string, now time.Time) string {
	return prefix + "-" + now.Format(BranchTimeLayout)
}

// RunBranch is the short-lived branch one bot run commits to. It ends either
// deleted or as the head of a pull request.
type RunBranch struct {
	Name string
	Base string

	repo    Repository
	logger  *slog.Logger
	commits int
}

// StartRunBranch creates branch name from the tip of base.
func StartRunBranch(ctx context.Context, r Repository, base, name string, logger *slog.Logger) (*RunBranch, error) {
	sha, err := r.BranchSHA(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", base, err)
	}
	if err := r.CreateBranch(ctx, name, sha); err != nil {
		return nil, fmt.Errorf("creating run branch: %w", err)
	}
	logger.Info("created run branch", "branch", name, "base", base, "sha", sha)
	return &RunBranch{Name: name, Base: base, repo: r, logger: logger}, nil
}

// Commit adds one file to the branch as its own commit.
func (b *RunBranch) Commit(ctx context.Context, path, message string, content []byte) error {
	if err := b.repo.CreateFile(ctx, b.Name, path, message, content); err != nil {
		return err
	}
	b.commits++
	return nil
}

// Commits returns the number of files committed through b in this run.
func (b *RunBranch) Commits() int { return b.commits }

// Delete removes the branch.
func (b *RunBranch) Delete(ctx context.Context) error {
	if err := b.repo.DeleteBranch(ctx, b.Name); err != nil {
		return fmt.Errorf("removing branch %s: %w", b.Name, err)
	}
	return nil
}

// Finish opens a pull request from the branch into its base. When the branch
// has no commits beyond base it is deleted and no pull request is opened.
// When the platform rejects the pull request the branch is deleted, the
// platform message is logged, and Finish returns (nil, nil).
func (b *RunBranch) Finish(ctx context.Context, title, body string) (*PullRequest, error) {
	baseSHA, err := b.repo.BranchSHA(ctx, b.Base)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", b.Base, err)
	}
	headSHA, err := b.repo.BranchSHA(ctx, b.Name)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", b.Name, err)
	}
	ahead, err := b.repo.CommitsBetween(ctx, baseSHA, headSHA)
	if err != nil {
		return nil, err
	}
	if ahead == 0 {
		b.logger.Info("no new commits, removing branch", "branch", b.Name)
		return nil, b.Delete(ctx)
	}

	pr, err := b.repo.CreatePullRequest(ctx, PullRequestInput{
		Title:        title,
		Body:         body,
		SourceBranch: b.Name,
		TargetBranch: b.Base,
	})
	if err != nil {
		var pe *PlatformError
		if !errors.As(err, &pe) {
			return nil, err
		}
		b.logger.Error("creating pull request failed, removing branch",
			"branch", b.Name, "message", pe.Message)
		return nil, b.Delete(ctx)
	}
	b.logger.Info("opened pull request", "number", pr.Number, "url", pr.URL, "commits", ahead)
	return pr, nil
}
