// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/social-bots/internal/fields"
	"github.com/pdiddy/social-bots/internal/logging"
	"github.com/pdiddy/social-bots/internal/repo"
	"github.com/pdiddy/social-bots/internal/zotero"
	"github.com/pdiddy/social-bots/pkg/types"
)

type stubLister struct {
	items map[string][]zotero.Item
	calls []string
}

func (s *stubLister) TopItems(_ context.Context, groupID, tag string) ([]zotero.Item, error) {
	s.calls = append(s.calls, groupID+"|"+tag)
	items, ok := s.items[groupID]
	if !ok {
		return nil, errors.New("zotero: 404 Not Found")
	}
	return items, nil
}

// recordingPublisher accepts every entry whose title is not in reject.
type recordingPublisher struct {
	sources []types.CitationSource
	reject  map[string]bool
	entries []types.Entry
	title   string
	body    string
	calls   int
}

func (p *recordingPublisher) Sources() []types.CitationSource { return p.sources }

func (p *recordingPublisher) StartDate() time.Time { return time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC) }

func (p *recordingPublisher) ProcessEntry(_ context.Context, e types.Entry) (bool, error) {
	p.entries = append(p.entries, e)
	return !p.reject[e.Title], nil
}

func (p *recordingPublisher) CreatePullRequest(_ context.Context, title, body string) (*repo.PullRequest, error) {
	p.calls++
	p.title, p.body = title, body
	return &repo.PullRequest{Number: 1, Title: title}, nil
}

func paperX() zotero.Item {
	return zotero.Item{Key: "ABCD1234", Data: map[string]any{
		"title": "Paper X",
		"creators": []any{
			map[string]any{"creatorType": "author", "firstName": "Ann", "lastName": "Smith"},
			map[string]any{"creatorType": "author", "firstName": "Bo", "lastName": "Lee"},
		},
		"dateAdded": "2024-01-05T10:00:00Z",
	}}
}

func TestRun(t *testing.T) {
	lister := &stubLister{items: map[string][]zotero.Item{
		"1732893": {paperX(), {Key: "OLD1", Data: map[string]any{"title": "Seen", "dateAdded": "2023-01-01T00:00:00Z"}}},
		"42":      {{Key: "K2", Data: map[string]any{"title": "Other"}}},
	}}
	pub := &recordingPublisher{
		sources: []types.CitationSource{
			{GroupID: "1732893", Tag: "galaxy", Format: "{title} by {creators} ({dateAdded})"},
			{GroupID: "missing", Format: "{title}"},
			{GroupID: "42", Format: "{title}|{creators}|{dateAdded}"},
		},
		reject: map[string]bool{"Seen": true},
	}

	pr, err := Run(context.Background(), lister, pub, logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, pr)

	assert.Equal(t, []string{"1732893|galaxy", "missing|", "42|"}, lister.calls)
	require.Len(t, pub.entries, 3)

	first := pub.entries[0]
	assert.Equal(t, "Paper X", first.Title)
	assert.Equal(t, "Paper X by Smith, Lee (2024-01-05)", first.FormattedText)
	assert.Equal(t, "1732893/ABCD1234.md", first.RelFilePath)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, types.GroupID("1732893"), first.Source.GroupID)

	last := pub.entries[2]
	assert.Equal(t, "Other||", last.FormattedText)
	assert.True(t, last.Date.IsZero())

	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, "Update from citation input bot since 2024-01-05", pub.title)
	assert.Equal(t, "This PR created automatically by citation bot.\n\nCitations processed:\n- Paper X\n- Other", pub.body)
}

func TestRun_NothingProcessedStillCallsPublisher(t *testing.T) {
	pub := &recordingPublisher{sources: []types.CitationSource{{GroupID: "1", Format: "{title}"}}}
	_, err := Run(context.Background(), &stubLister{items: map[string][]zotero.Item{"1": nil}}, pub, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, "This PR created automatically by citation bot.\n\nCitations processed:\n- ", pub.body)
}

func TestRun_TemplateErrorIsFatal(t *testing.T) {
	lister := &stubLister{items: map[string][]zotero.Item{"1": {paperX()}}}
	pub := &recordingPublisher{sources: []types.CitationSource{{GroupID: "1", Format: "{title} {publisher}"}}}

	_, err := Run(context.Background(), lister, pub, logging.Discard())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fields.ErrPlaceholderNotFound))
	assert.Equal(t, 0, pub.calls)
	assert.Empty(t, pub.entries)
}

func TestItemFields(t *testing.T) {
	f := itemFields(zotero.Item{Key: "K", Data: map[string]any{
		"title":    "T",
		"numPages": float64(12),
		"tags":     []any{map[string]any{"tag": "galaxy"}},
		"creators": []any{
			map[string]any{"name": "Galaxy Team"},
			map[string]any{"lastName": "Doe"},
		},
	}})

	assert.Equal(t, "T", f["title"].String())
	assert.Equal(t, "12", f["numPages"].String())
	assert.Equal(t, fields.KindNested, f["tags"].Kind())
	assert.Equal(t, ", Doe", f["creators"].String())
	assert.Equal(t, "", f["dateAdded"].String())
	assert.Equal(t, fields.KindText, f["dateAdded"].Kind())
}

func TestAddedDate(t *testing.T) {
	d, ok := addedDate("2024-03-09T23:59:00Z").Time()
	require.True(t, ok)
	assert.Equal(t, "2024-03-09", d.Format("2006-01-02"))

	assert.Equal(t, fields.Text(""), addedDate(nil))
	assert.Equal(t, "garbage", addedDate("garbage").String())
}

func TestRun_UntitledItemIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "info", "text")
	require.NoError(t, err)

	lister := &stubLister{items: map[string][]zotero.Item{"1": {{Key: "NOTITLE", Data: map[string]any{"url": "https://example.com"}}}}}
	pub := &recordingPublisher{sources: []types.CitationSource{{GroupID: "1", Format: "{url}"}}}

	_, err = Run(context.Background(), lister, pub, logger)
	require.NoError(t, err)
	require.Len(t, pub.entries, 1)
	assert.Equal(t, "", pub.entries[0].Title)
	assert.Contains(t, buf.String(), "zotero item has no title")
	assert.Contains(t, buf.String(), "key=NOTITLE")
}
