// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"
)

// FrontMatterKeys are the feed config keys copied into each post's front
// matter, in the order they are looked up.
var FrontMatterKeys = []string{"media", "mentions", "hashtags"}

// FeedFile is the top-level shape of FEED_CONFIG_FILE.
type FeedFile struct {
	Feeds []FeedSource `yaml:"feeds"`
}

// FeedSource is one entry of the feeds list.
type FeedSource struct {
	// URL is the RSS or Atom feed location.
	URL string

	// Format is the post template with {field} placeholders.
	Format string

	// Meta holds the media, mentions and hashtags keys exactly as they
	// appear in the config. A key is present in the map only if it was
	// present in the file, even when its value is null.
	Meta map[string]any

	raw map[string]any
}

// UnmarshalYAML keeps the raw mapping so that key presence and arbitrary
// media shapes survive decoding.
func (f *FeedSource) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	f.raw = raw
	f.URL, _ = raw["url"].(string)
	f.Format, _ = raw["format"].(string)
	f.Meta = make(map[string]any)
	for _, k := range FrontMatterKeys {
		if v, ok := raw[k]; ok {
			f.Meta[k] = v
		}
	}
	return nil
}

// Has reports whether key was set to a non-null value in the config.
func (f FeedSource) Has(key string) bool {
	v, ok := f.raw[key]
	return ok && v != nil
}

// String renders the source the way it appeared in the config, for error
// messages.
func (f FeedSource) String() string {
	if f.raw != nil {
		return fmt.Sprintf("%v", f.raw)
	}
	return fmt.Sprintf("map[format:%s url:%s]", f.Format, f.URL)
}

// CitationFile is the top-level shape of CITATION_CONFIG_FILE.
type CitationFile struct {
	Citations []CitationSource `yaml:"citations"`
}

// CitationSource is one Zotero group to mirror.
type CitationSource struct {
	// GroupID is the Zotero group identifier. YAML may give it as an
	// integer or a string.
	GroupID GroupID `json:"zotero_group_id" yaml:"zotero_group_id"`

	// Tag optionally restricts the listing to items carrying this tag.
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`

	// Format is the post template with {field} placeholders.
	Format string `json:"format" yaml:"format"`
}

// GroupID accepts any YAML scalar.
type GroupID string

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *GroupID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: zotero_group_id must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*g = ""
		return nil
	}
	*g = GroupID(node.Value)
	return nil
}

// Entry is one rendered citation handed to the publisher.
type Entry struct {
	Title         string
	Source        CitationSource
	Date          time.Time // zero when the item carried no date
	RelFilePath   string
	FormattedText string
}
