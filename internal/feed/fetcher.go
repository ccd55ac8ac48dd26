// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"
)

// Fetcher retrieves and parses one feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

// GofeedFetcher fetches RSS, Atom and JSON feeds with gofeed.
type GofeedFetcher struct {
	parser *gofeed.Parser
}

// NewFetcher returns a fetcher issuing requests through client.
func NewFetcher(client *http.Client, userAgent string) *GofeedFetcher {
	p := gofeed.NewParser()
	p.Client = client
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &GofeedFetcher{parser: p}
}

// Fetch downloads url and parses it.
func (f *GofeedFetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", url, err)
	}
	return feed, nil
}
