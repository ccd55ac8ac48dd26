// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/social-bots/pkg/types"
)

// ReadFeedFile loads and validates the feed list.
func ReadFeedFile(path string) (types.FeedFile, error) {
	var f types.FeedFile
	if err := readYAML(path, &f); err != nil {
		return f, err
	}
	if f.Feeds == nil {
		return f, fmt.Errorf("no feeds found in %s", path)
	}
	for i, feed := range f.Feeds {
		if err := validateFeed(feed); err != nil {
			return f, fmt.Errorf("%s: feed %d: %w", path, i, err)
		}
	}
	return f, nil
}

// validateFeed checks the keys every feed must carry.
func validateFeed(feed types.FeedSource) error {
	for _, key := range []string{"url", "media", "format"} {
		if !feed.Has(key) {
			return fmt.Errorf("no %s found for feed %s", key, feed)
		}
	}
	if feed.URL == "" {
		return fmt.Errorf("url must be a string for feed %s", feed)
	}
	if feed.Format == "" {
		return fmt.Errorf("format must be a string for feed %s", feed)
	}
	return nil
}

// ReadCitationFile loads and validates the citation source list.
func ReadCitationFile(path string) (types.CitationFile, error) {
	var f types.CitationFile
	if err := readYAML(path, &f); err != nil {
		return f, err
	}
	if f.Citations == nil {
		return f, fmt.Errorf("no citations found in %s", path)
	}
	for i, c := range f.Citations {
		if c.GroupID == "" {
			return f, fmt.Errorf("%s: citation %d: no zotero group id found for citation %+v", path, i, c)
		}
		if c.Format == "" {
			return f, fmt.Errorf("%s: citation %d: no format found for citation %+v", path, i, c)
		}
	}
	return f, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
