//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Citation builds the CLI and runs the citation bot with the current
// environment (REPO, CITATION_CONFIG_FILE, ...).
func Citation() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "citation")
}

// Feed builds the CLI and runs the feed bot with the current environment
// (REPO, FEED_CONFIG_FILE, ...).
func Feed() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "feed")
}
