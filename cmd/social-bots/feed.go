// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/social-bots/internal/config"
	"github.com/pdiddy/social-bots/internal/feed"
	"github.com/pdiddy/social-bots/internal/httputil"
	"github.com/pdiddy/social-bots/internal/repo"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Open a pull request with posts for new feed entries",
	Long: `Feed fetches every RSS/Atom feed in FEED_CONFIG_FILE and commits one post
per entry published since yesterday under FEED_BOT_PATH/<feed title>/.
Each post starts with front matter built from the feed's media, mentions and
hashtags settings, followed by the entry rendered with the feed's format
template. Entries whose post already exists are skipped. The run branch is
removed again when nothing new was found.`,
	Args: cobra.NoArgs,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().String("bot-path", "", "folder posts are written under (env FEED_BOT_PATH)")
	feedCmd.Flags().String("sources", "", "YAML file listing the feeds (env FEED_CONFIG_FILE)")
	_ = viper.BindPFlag(config.KeyFeedPath, feedCmd.Flags().Lookup("bot-path"))
	_ = viper.BindPFlag(config.KeyFeedConfig, feedCmd.Flags().Lookup("sources"))

	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Feed(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	sources, err := config.ReadFeedFile(cfg.ConfigFile)
	if err != nil {
		return err
	}
	client := httputil.NewClient(cfg.HTTPConfig)

	gh, err := repo.NewGitHub(ctx, client, cfg.Token, cfg.Repo)
	if err != nil {
		return err
	}
	job, err := feed.New(ctx, sources.Feeds, gh, feed.NewFetcher(client, httputil.UserAgent(cfg.HTTPConfig)), feed.Options{
		BotPath:    cfg.BotPath,
		BaseBranch: cfg.BaseBranch,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	pr, err := job.CreatePR(ctx)
	if err != nil {
		return err
	}
	if pr != nil {
		cmd.Printf("Opened pull request #%d: %s\n", pr.Number, pr.URL)
	}
	return nil
}
