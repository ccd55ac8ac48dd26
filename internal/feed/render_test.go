// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/social-bots/internal/fields"
	"github.com/pdiddy/social-bots/internal/logging"
	"github.com/pdiddy/social-bots/pkg/types"
)

func TestRender(t *testing.T) {
	src := types.FeedSource{
		URL:    "https://example.com/feed",
		Format: "{title}: {summary}",
		Meta:   map[string]any{"media": "twitter"},
	}
	entry := fields.Fields{
		"title":   fields.Text("Hi"),
		"summary": fields.Text("<p>Hello world</p>"),
	}

	got, err := Render(src, entry, "Hi", logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "---\nmedia: twitter\n---\nHi: Hello world", got)
}

func TestRender_RawValueWithoutParagraph(t *testing.T) {
	src := types.FeedSource{Format: "{title} {link}", Meta: map[string]any{"media": "x"}}
	entry := fields.Fields{
		"title": fields.Text("<b>bold</b>"),
		"link":  fields.Text("https://example.com/a"),
	}
	got, err := Render(src, entry, "bold", logging.Discard())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "---\n<b>bold</b> https://example.com/a"))
}

func TestRender_FrontMatterKeys(t *testing.T) {
	src := types.FeedSource{
		Format: "{title}",
		Meta: map[string]any{
			"media":    []any{"bluesky", "mastodon"},
			"hashtags": []any{"UseGalaxy"},
			"mentions": map[string]any{"bluesky": []any{"galaxyproject.bsky.social"}},
		},
	}
	got, err := Render(src, fields.Fields{"title": fields.Text("T")}, "T", logging.Discard())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(got, "---\n"))
	fm := strings.TrimPrefix(got, "---\n")
	fm, body, ok := strings.Cut(fm, "---\n")
	require.True(t, ok)
	assert.Equal(t, "T", body)

	// Keys come out sorted.
	h := strings.Index(fm, "hashtags:")
	m := strings.Index(fm, "media:")
	n := strings.Index(fm, "mentions:")
	assert.True(t, h >= 0 && h < m && m < n, fm)
	assert.Contains(t, fm, "- UseGalaxy")
	assert.Contains(t, fm, "- galaxyproject.bsky.social")
}

func TestRender_MissingPlaceholderIsFatal(t *testing.T) {
	src := types.FeedSource{Format: "{title}: {summary}", Meta: map[string]any{"media": "x"}}
	_, err := Render(src, fields.Fields{"title": fields.Text("Hi")}, "Hi", logging.Discard())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fields.ErrPlaceholderNotFound))
}
