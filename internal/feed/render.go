// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/social-bots/internal/fields"
	"github.com/pdiddy/social-bots/pkg/types"
)

// frontMatter serializes the feed's media, mentions and hashtags keys.
func frontMatter(meta map[string]any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	return buf.String(), nil
}

// placeholderValues picks the template's placeholders out of entry. Values
// holding a <p> element are reduced to the first paragraph's text. Missing
// fields are logged and left out, which makes formatting fail.
func placeholderValues(format string, entry fields.Fields, title string, logger *slog.Logger) fields.Fields {
	values := make(fields.Fields)
	for _, name := range fields.Placeholders(format) {
		v, ok := entry[name]
		if !ok {
			logger.Warn("placeholder not found in entry", "placeholder", name, "entry", title)
			continue
		}
		if v.Kind() == fields.KindText && strings.Contains(v.String(), "<p>") {
			if text, ok := firstParagraph(v.String()); ok {
				v = fields.Text(text)
			}
		}
		values[name] = v
	}
	return values
}

// Render builds the post for one entry: front matter followed by the
// formatted body.
func Render(src types.FeedSource, entry fields.Fields, title string, logger *slog.Logger) (string, error) {
	fm, err := frontMatter(src.Meta)
	if err != nil {
		return "", err
	}
	body, err := fields.Format(src.Format, placeholderValues(src.Format, entry, title, logger))
	if err != nil {
		return "", fmt.Errorf("formatting entry %q of %s: %w", title, src.URL, err)
	}
	return "---\n" + fm + "---\n" + body, nil
}
