// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the trimmed file contents are the value.
//
// Recognized keys: github-token, zotero-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Key names looked up by the bots.
const (
	GitHubToken  = "github-token"
	ZoteroAPIKey = "zotero-api-key"
)

// Secrets maps a secret name to its value.
type Secrets map[string]string

// Or returns value when it is non-empty, otherwise the secret stored under
// key, otherwise "".
func (s Secrets) Or(value, key string) string {
	if value != "" {
		return value
	}
	return s[key]
}

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty set. Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "err", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
