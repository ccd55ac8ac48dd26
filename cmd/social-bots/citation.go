// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/social-bots/internal/citation"
	"github.com/pdiddy/social-bots/internal/config"
	"github.com/pdiddy/social-bots/internal/httputil"
	"github.com/pdiddy/social-bots/internal/publish"
	"github.com/pdiddy/social-bots/internal/repo"
	"github.com/pdiddy/social-bots/internal/zotero"
)

var citationCmd = &cobra.Command{
	Use:   "citation",
	Short: "Open a pull request with posts for new Zotero citations",
	Long: `Citation lists the top-level items of every Zotero group in
CITATION_CONFIG_FILE, renders each item with the group's format template,
and commits one post per item added since yesterday under CITATION_BOT_PATH.
Items whose post already exists on the default branch or in an open pull
request are skipped. A pull request is opened when at least one post was
written.`,
	Args: cobra.NoArgs,
	RunE: runCitation,
}

func init() {
	citationCmd.Flags().String("bot-path", "", "folder posts are written under (env CITATION_BOT_PATH)")
	citationCmd.Flags().String("sources", "", "YAML file listing the Zotero groups (env CITATION_CONFIG_FILE)")
	_ = viper.BindPFlag(config.KeyCitationPath, citationCmd.Flags().Lookup("bot-path"))
	_ = viper.BindPFlag(config.KeyCitationConfig, citationCmd.Flags().Lookup("sources"))

	rootCmd.AddCommand(citationCmd)
}

func runCitation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Citation(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	client := httputil.NewClient(cfg.HTTPConfig)

	gh, err := repo.NewGitHub(ctx, client, cfg.Token, cfg.Repo)
	if err != nil {
		return err
	}
	pub, err := publish.New(ctx, gh, publish.Options{
		BotPath:    cfg.BotPath,
		BaseBranch: cfg.BaseBranch,
		ConfigFile: cfg.ConfigFile,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	zot := &zotero.Client{Client: client, APIKey: cfg.ZoteroAPIKey}
	pr, err := citation.Run(ctx, zot, pub, logger)
	if err != nil {
		return err
	}
	if pr != nil {
		cmd.Printf("Opened pull request #%d: %s\n", pr.Number, pr.URL)
	}
	return nil
}
