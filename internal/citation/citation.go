// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation mirrors Zotero group items into Markdown posts.
package citation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/pdiddy/social-bots/internal/fields"
	"github.com/pdiddy/social-bots/internal/repo"
	"github.com/pdiddy/social-bots/internal/zotero"
	"github.com/pdiddy/social-bots/pkg/types"
)

// ItemLister lists the top-level items of a Zotero group.
type ItemLister interface {
	TopItems(ctx context.Context, groupID, tag string) ([]zotero.Item, error)
}

// Publisher receives rendered entries and opens the pull request.
type Publisher interface {
	Sources() []types.CitationSource
	StartDate() time.Time
	ProcessEntry(ctx context.Context, e types.Entry) (bool, error)
	CreatePullRequest(ctx context.Context, title, body string) (*repo.PullRequest, error)
}

// Run renders every item of every configured source, hands the entries to
// pub and finally asks it for a pull request. A source whose listing fails
// is logged and skipped; a template error aborts the run.
func Run(ctx context.Context, items ItemLister, pub Publisher, logger *slog.Logger) (*repo.PullRequest, error) {
	var processed []string

	for _, src := range pub.Sources() {
		group := string(src.GroupID)
		list, err := items.TopItems(ctx, group, src.Tag)
		if err != nil {
			logger.Error("listing zotero group failed", "group", group, "err", err)
			continue
		}
		logger.Info("listed zotero group", "group", group, "tag", src.Tag, "items", len(list))

		for _, item := range list {
			entry, err := render(src, item)
			if err != nil {
				return nil, err
			}
			if entry.Title == "" {
				logger.Warn("zotero item has no title", "group", group, "key", item.Key)
			}
			added, err := pub.ProcessEntry(ctx, entry)
			if err != nil {
				return nil, err
			}
			if added {
				processed = append(processed, entry.Title)
			}
		}
	}

	title := fmt.Sprintf("Update from citation input bot since %s", pub.StartDate().Format("2006-01-02"))
	body := "This PR created automatically by citation bot.\n\nCitations processed:\n" + repo.BulletList(processed)
	return pub.CreatePullRequest(ctx, title, body)
}

// render formats one item with its source's template.
func render(src types.CitationSource, item zotero.Item) (types.Entry, error) {
	f := itemFields(item)
	text, err := fields.Format(src.Format, f)
	if err != nil {
		return types.Entry{}, fmt.Errorf("formatting item %s of group %s: %w", item.Key, src.GroupID, err)
	}

	e := types.Entry{
		Title:         f["title"].String(),
		Source:        src,
		RelFilePath:   fmt.Sprintf("%s/%s.md", src.GroupID, item.Key),
		FormattedText: text,
	}
	if d, ok := f["dateAdded"].Time(); ok {
		e.Date = d
	}
	return e, nil
}

// itemFields exposes the item's data, with creators collapsed into a
// comma-separated list of last names and dateAdded reduced to a date. Both
// are always set, empty when the item lacks them.
func itemFields(item zotero.Item) fields.Fields {
	f := make(fields.Fields, len(item.Data))
	for k, v := range item.Data {
		f[k] = fields.FromAny(v)
	}
	f["creators"] = fields.Text(creatorNames(item.Data["creators"]))
	f["dateAdded"] = addedDate(item.Data["dateAdded"])
	return f
}

func creatorNames(v any) string {
	list, _ := v.([]any)
	names := make([]string, 0, len(list))
	for _, c := range list {
		m, _ := c.(map[string]any)
		last, _ := m["lastName"].(string)
		names = append(names, last)
	}
	return strings.Join(names, ", ")
}

func addedDate(v any) fields.Value {
	s, _ := v.(string)
	if s == "" {
		return fields.Text("")
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return fields.Text(s)
	}
	return fields.Date(t)
}
