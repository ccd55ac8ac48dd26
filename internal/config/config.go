// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves bot settings from viper (flags, environment,
// optional config file) and reads the YAML source lists.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/social-bots/internal/secrets"
	"github.com/pdiddy/social-bots/pkg/types"
)

// Viper keys.
const (
	KeyRepo           = "repo"
	KeyToken          = "token"
	KeyBaseBranch     = "base_branch"
	KeyTimeout        = "timeout"
	KeyUserAgent      = "user_agent"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyCitationPath   = "citation_bot_path"
	KeyCitationConfig = "citation_config_file"
	KeyZoteroAPIKey   = "zotero_api_key"
	KeyFeedPath       = "feed_bot_path"
	KeyFeedConfig     = "feed_config_file"
)

// Defaults.
const (
	DefaultBaseBranch   = "main"
	DefaultCitationPath = "posts/citation_bot"
	DefaultFeedPath     = "posts/feed_bot"
)

// envNames maps viper keys to the environment variables the bots have
// always read. They carry no common prefix, so each is bound explicitly.
var envNames = map[string]string{
	KeyRepo:           "REPO",
	KeyToken:          "GALAXY_SOCIAL_BOT_TOKEN",
	KeyBaseBranch:     "BASE_BRANCH",
	KeyLogLevel:       "LOG_LEVEL",
	KeyCitationPath:   "CITATION_BOT_PATH",
	KeyCitationConfig: "CITATION_CONFIG_FILE",
	KeyZoteroAPIKey:   "ZOTERO_API_KEY",
	KeyFeedPath:       "FEED_BOT_PATH",
	KeyFeedConfig:     "FEED_CONFIG_FILE",
}

// Bind registers defaults and environment bindings on v.
func Bind(v *viper.Viper) error {
	v.SetDefault(KeyBaseBranch, DefaultBaseBranch)
	v.SetDefault(KeyCitationPath, DefaultCitationPath)
	v.SetDefault(KeyFeedPath, DefaultFeedPath)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s: %w", env, err)
		}
	}
	return nil
}

func repoConfig(v *viper.Viper, s secrets.Secrets) (types.RepoConfig, error) {
	cfg := types.RepoConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   v.GetDuration(KeyTimeout),
			UserAgent: v.GetString(KeyUserAgent),
		},
		Repo:       strings.TrimSpace(v.GetString(KeyRepo)),
		Token:      s.Or(v.GetString(KeyToken), secrets.GitHubToken),
		BaseBranch: v.GetString(KeyBaseBranch),
	}
	if cfg.Repo == "" {
		return cfg, fmt.Errorf("%s is required", envNames[KeyRepo])
	}
	if cfg.BaseBranch == "" {
		cfg.BaseBranch = DefaultBaseBranch
	}
	return cfg, nil
}

// Citation resolves the citation job settings.
func Citation(v *viper.Viper, s secrets.Secrets) (types.CitationBotConfig, error) {
	rc, err := repoConfig(v, s)
	if err != nil {
		return types.CitationBotConfig{}, err
	}
	cfg := types.CitationBotConfig{
		RepoConfig:   rc,
		BotPath:      strings.TrimSuffix(v.GetString(KeyCitationPath), "/"),
		ConfigFile:   v.GetString(KeyCitationConfig),
		ZoteroAPIKey: s.Or(v.GetString(KeyZoteroAPIKey), secrets.ZoteroAPIKey),
	}
	if cfg.ConfigFile == "" {
		return cfg, fmt.Errorf("%s is required", envNames[KeyCitationConfig])
	}
	return cfg, nil
}

// Feed resolves the feed job settings.
func Feed(v *viper.Viper, s secrets.Secrets) (types.FeedBotConfig, error) {
	rc, err := repoConfig(v, s)
	if err != nil {
		return types.FeedBotConfig{}, err
	}
	cfg := types.FeedBotConfig{
		RepoConfig: rc,
		BotPath:    strings.TrimSuffix(v.GetString(KeyFeedPath), "/"),
		ConfigFile: v.GetString(KeyFeedConfig),
	}
	if cfg.ConfigFile == "" {
		return cfg, fmt.Errorf("%s is required", envNames[KeyFeedConfig])
	}
	return cfg, nil
}
