// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every client that talks to a
// remote service (Zotero, feed hosts, GitHub).
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "social-bots/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RepoConfig identifies the GitHub repository the bots open pull requests
// against.
type RepoConfig struct {
	HTTPConfig `yaml:",inline"`

	// Repo is the repository in owner/name form.
	Repo string `json:"repo" yaml:"repo"`

	// Token authenticates against the GitHub API.
	Token string `json:"-" yaml:"-"`

	// BaseBranch is the branch run branches are created from and pull
	// requests target (default "main").
	BaseBranch string `json:"base_branch" yaml:"base_branch"`
}

// CitationBotConfig holds settings for the citation sync job.
type CitationBotConfig struct {
	RepoConfig `yaml:",inline"`

	// BotPath is the repository folder citation posts are written under
	// (default "posts/citation_bot").
	BotPath string `json:"bot_path" yaml:"bot_path"`

	// ConfigFile is the YAML file listing the citation sources.
	ConfigFile string `json:"config_file" yaml:"config_file"`

	// ZoteroAPIKey is optional; public groups need no key.
	ZoteroAPIKey string `json:"-" yaml:"-"`
}

// FeedBotConfig holds settings for the feed sync job.
type FeedBotConfig struct {
	RepoConfig `yaml:",inline"`

	// BotPath is the repository folder feed posts are written under
	// (default "posts/feed_bot").
	BotPath string `json:"bot_path" yaml:"bot_path"`

	// ConfigFile is the YAML file listing the feeds.
	ConfigFile string `json:"config_file" yaml:"config_file"`
}
