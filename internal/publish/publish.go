// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish turns rendered citation entries into files on a run branch
// and opens the pull request for them.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/social-bots/internal/config"
	"github.com/pdiddy/social-bots/internal/repo"
	"github.com/pdiddy/social-bots/pkg/types"
)

// BranchPrefix prefixes every run branch of the citation bot.
const BranchPrefix = "citation-update"

// Options configures a Publisher.
type Options struct {
	// BotPath is the folder entries are written under.
	BotPath string
	// BaseBranch is the branch the run branch starts from (default "main").
	BaseBranch string
	// ConfigFile lists the citation sources.
	ConfigFile string
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Publisher writes entries for one citation bot run.
type Publisher struct {
	repo      repo.Repository
	opts      Options
	sources   []types.CitationSource
	startDate time.Time
	started   time.Time
	existing  repo.FileSet
	written   repo.FileSet
	branch    *repo.RunBranch
}

// New loads the citation sources and collects the paths already taken under
// opts.BotPath.
func New(ctx context.Context, r repo.Repository, opts Options) (*Publisher, error) {
	if opts.BaseBranch == "" {
		opts.BaseBranch = "main"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	file, err := config.ReadCitationFile(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	existing, err := repo.ExistingFiles(ctx, r, opts.BotPath)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("collected existing posts", "path", opts.BotPath, "count", len(existing))

	now := opts.Now()
	y, m, d := now.Date()
	return &Publisher{
		repo:      r,
		opts:      opts,
		sources:   file.Citations,
		startDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1),
		started:   now,
		existing:  existing,
		written:   make(repo.FileSet),
	}, nil
}

// Sources returns the configured citation sources in file order.
func (p *Publisher) Sources() []types.CitationSource { return p.sources }

// StartDate is the oldest date still published: yesterday.
func (p *Publisher) StartDate() time.Time { return p.startDate }

// ProcessEntry commits e under the bot path and reports whether it was
// written. Entries older than StartDate and entries whose file already
// exists are skipped.
func (p *Publisher) ProcessEntry(ctx context.Context, e types.Entry) (bool, error) {
	log := p.opts.Logger
	path := p.opts.BotPath + "/" + e.RelFilePath

	if !e.Date.IsZero() && e.Date.Before(p.startDate) {
		log.Debug("skipping as it is older", "title", e.Title, "date", e.Date.Format("2006-01-02"))
		return false, nil
	}
	if p.existing.Has(path) || p.written.Has(path) {
		log.Info("skipping as file already exists", "path", path)
		return false, nil
	}

	if p.branch == nil {
		branch, err := repo.StartRunBranch(ctx, p.repo, p.opts.BaseBranch, repo.BranchName(BranchPrefix, p.started), log)
		if err != nil {
			return false, err
		}
		p.branch = branch
	}

	log.Info("processing entry", "title", e.Title, "path", path)
	if err := p.branch.Commit(ctx, path, fmt.Sprintf("Add %s to citations", e.Title), []byte(e.FormattedText)); err != nil {
		return false, fmt.Errorf("committing %s: %w", path, err)
	}
	p.written.Add(path)
	return true, nil
}

// CreatePullRequest opens the pull request for everything written in this
// run. Without any write there is no branch and nothing is opened.
func (p *Publisher) CreatePullRequest(ctx context.Context, title, body string) (*repo.PullRequest, error) {
	if p.branch == nil {
		p.opts.Logger.Info("nothing to publish")
		return nil, nil
	}
	return p.branch.Finish(ctx, title, body)
}
