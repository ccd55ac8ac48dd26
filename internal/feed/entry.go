// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/social-bots/internal/fields"
)

// entryFields exposes an item under the field names feed templates use.
// Only fields the item actually carries are set.
func entryFields(item *gofeed.Item) fields.Fields {
	f := make(fields.Fields)
	set := func(name, value string) {
		if value != "" && !f.Has(name) {
			f[name] = fields.Text(value)
		}
	}

	set("title", item.Title)
	set("link", item.Link)
	set("summary", item.Description)
	set("description", item.Description)
	set("content", item.Content)
	set("id", item.GUID)
	set("guid", item.GUID)
	set("published", item.Published)
	set("updated", item.Updated)
	if item.Author != nil {
		set("author", item.Author.Name)
	}
	if item.Image != nil {
		set("image", item.Image.URL)
	}
	if len(item.Categories) > 0 {
		f["tags"] = fields.Nested(item.Categories)
	}
	for k, v := range item.Custom {
		set(k, v)
	}
	return f
}

// publishedDate returns the entry's calendar date from the first present of
// published, pubDate and updated.
func publishedDate(item *gofeed.Item) (time.Time, bool) {
	for _, raw := range []string{item.Published, item.Custom["pubDate"], item.Updated} {
		if raw == "" {
			continue
		}
		if t, err := dateparse.ParseAny(raw); err == nil {
			return day(t), true
		}
		break
	}
	for _, t := range []*time.Time{item.PublishedParsed, item.UpdatedParsed} {
		if t != nil {
			return day(*t), true
		}
	}
	return time.Time{}, false
}

// day truncates t to its calendar date in t's own zone, expressed in UTC so
// dates from different zones compare by date alone.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fileName derives a post file name from the last path segment of link,
// falling back to the one before it when link ends with a slash.
func fileName(link string) string {
	parts := strings.Split(link, "/")
	name := parts[len(parts)-1]
	if name == "" && len(parts) > 1 {
		name = parts[len(parts)-2]
	}
	return name
}

// FolderName turns a feed title into its output folder name.
func FolderName(title string) string {
	return cases.Lower(language.Und).String(strings.ReplaceAll(title, " ", "_"))
}

// firstParagraph returns the text of the first <p> element of html with
// newlines replaced by spaces.
func firstParagraph(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}
	p := doc.Find("p").First()
	if p.Length() == 0 {
		return "", false
	}
	return strings.ReplaceAll(p.Text(), "\n", " "), true
}
