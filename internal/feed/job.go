// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed mirrors new RSS/Atom entries into Markdown posts and opens a
// pull request with them.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/social-bots/internal/repo"
	"github.com/pdiddy/social-bots/pkg/types"
)

// BranchPrefix prefixes every run branch of the feed bot.
const BranchPrefix = "feed-update"

// Options configures a Job.
type Options struct {
	// BotPath is the folder posts are written under.
	BotPath string
	// BaseBranch is the branch run branches start from (default "main").
	BaseBranch string
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Job is one feed bot run. Construct it with New, call CreatePR once.
type Job struct {
	sources  []types.FeedSource
	repo     repo.Repository
	fetcher  Fetcher
	existing repo.FileSet
	opts     Options
}

// New prepares a run: it records the feed sources and collects the post
// paths the repository already holds under opts.BotPath.
func New(ctx context.Context, sources []types.FeedSource, r repo.Repository, fetcher Fetcher, opts Options) (*Job, error) {
	if opts.BaseBranch == "" {
		opts.BaseBranch = "main"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	existing, err := repo.ExistingFiles(ctx, r, opts.BotPath)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("collected existing posts", "path", opts.BotPath, "count", len(existing))

	return &Job{sources: sources, repo: r, fetcher: fetcher, existing: existing, opts: opts}, nil
}

// run carries the state of one CreatePR call.
type run struct {
	branch    *repo.RunBranch
	startDate time.Time
	written   repo.FileSet
	processed []string
}

// CreatePR commits a post for every entry published since yesterday that is
// not in the repository yet, then opens a pull request for them. It returns
// nil when no pull request was opened.
func (j *Job) CreatePR(ctx context.Context) (*repo.PullRequest, error) {
	log := j.opts.Logger
	now := j.opts.Now()
	r := &run{
		startDate: day(now).AddDate(0, 0, -1),
		written:   make(repo.FileSet),
	}

	branch, err := repo.StartRunBranch(ctx, j.repo, j.opts.BaseBranch, repo.BranchName(BranchPrefix, now), log)
	if err != nil {
		return nil, err
	}
	r.branch = branch

	for _, src := range j.sources {
		feed, err := j.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			log.Error("fetching feed failed", "feed", src.URL, "err", err)
			continue
		}
		if feed.Title == "" {
			log.Error("feed has no title, cannot name its folder", "feed", src.URL)
			continue
		}
		folder := FolderName(feed.Title)
		for _, item := range feed.Items {
			if err := j.processItem(ctx, r, src, folder, item); err != nil {
				return nil, err
			}
		}
	}

	title := fmt.Sprintf("Update from feeds input bot since %s", r.startDate.Format("2006-01-02"))
	body := "This PR created automatically by feed bot.\n\nFeeds processed:\n" + repo.BulletList(r.processed)
	return branch.Finish(ctx, title, body)
}

func (j *Job) processItem(ctx context.Context, r *run, src types.FeedSource, folder string, item *gofeed.Item) error {
	log := j.opts.Logger

	published, ok := publishedDate(item)
	if !ok {
		log.Info("no publication date found", "title", item.Title)
		return nil
	}
	if item.Link == "" {
		log.Info("no link found", "title", item.Title)
		return nil
	}

	name := fileName(item.Link)
	path := fmt.Sprintf("%s/%s/%s.md", j.opts.BotPath, folder, name)

	if published.Before(r.startDate) {
		log.Debug("skipping as it is older", "link", item.Link)
		return nil
	}
	if j.existing.Has(path) || r.written.Has(path) {
		log.Info("skipping as file already exists", "path", path, "link", item.Link)
		return nil
	}

	log.Info("processing entry", "file", name, "link", item.Link)
	doc, err := Render(src, entryFields(item), item.Title, log)
	if err != nil {
		return err
	}
	if err := r.branch.Commit(ctx, path, fmt.Sprintf("Add %s to feed", item.Title), []byte(doc)); err != nil {
		return fmt.Errorf("committing %s: %w", path, err)
	}
	r.written.Add(path)
	r.processed = append(r.processed, item.Title)
	return nil
}
