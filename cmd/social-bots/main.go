// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the social-bots CLI. Each bot is a
// one-shot subcommand meant to run from a scheduled CI job.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/social-bots/internal/config"
	"github.com/pdiddy/social-bots/internal/logging"
	"github.com/pdiddy/social-bots/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds one file per credential, e.g. .secrets/github-token.
const secretsDir = ".secrets/"

var (
	// loadedSecrets holds credentials loaded from secretsDir at startup.
	loadedSecrets secrets.Secrets

	// logger is configured from --log-level and --log-format at startup.
	logger = slog.Default()
)

// rootCmd is the base command for the social-bots CLI.
var rootCmd = &cobra.Command{
	Use:   "social-bots",
	Short: "Turn citations and feed entries into social media post pull requests",
	Long: `social-bots mirrors new Zotero citations and RSS/Atom feed entries into
Markdown post files and opens a pull request with them against a GitHub
repository.

Each bot is a subcommand: citation and feed. Both read their settings from
the environment (REPO, GALAXY_SOCIAL_BOT_TOKEN, CITATION_CONFIG_FILE,
FEED_CONFIG_FILE, ...), an optional config file, or flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(os.Stderr, viper.GetString(config.KeyLogLevel), viper.GetString(config.KeyLogFormat))
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)

		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./social-bots.yaml or ~/.config/social-bots/config.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	pf.String("log-format", "", "log format: text or json")
	pf.String("repo", "", "target repository as owner/name (env REPO)")
	pf.String("base-branch", "", "branch run branches start from (env BASE_BRANCH, default main)")
	pf.Duration("timeout", 0, "HTTP request timeout (default 60s)")

	for key, flag := range map[string]string{
		config.KeyLogLevel:   "log-level",
		config.KeyLogFormat:  "log-format",
		config.KeyRepo:       "repo",
		config.KeyBaseBranch: "base-branch",
		config.KeyTimeout:    "timeout",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
	if err := config.Bind(viper.GetViper()); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("social-bots")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "social-bots"))
		}
	}

	// Settings without a historical variable name (timeout, user_agent,
	// log_format) are read as SOCIAL_BOTS_<KEY>.
	viper.SetEnvPrefix("SOCIAL_BOTS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
