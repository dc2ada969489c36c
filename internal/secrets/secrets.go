// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves credentials for the Semantic Scholar API.
//
// Keys come from a directory of plain-text files (the filename is the key
// name, the trimmed contents the value), from the process environment, or
// from a .env file loaded into the environment.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// SemanticScholarKeyFile is the secrets file holding the S2 API key.
	SemanticScholarKeyFile = "semantic-scholar-api-key"

	// SemanticScholarKeyEnv is the environment variable holding the S2 API key.
	SemanticScholarKeyEnv = "S2_API_KEY"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on w but do not abort.
func Load(dir string, w io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadEnv(files ...string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	return nil
}

// SemanticScholarKey returns the S2 API key: an explicit value first, then
// the secrets file, then the environment. It returns "" when none is set.
func SemanticScholarKey(explicit string, loaded map[string]string) string {
	if explicit != "" {
		return explicit
	}
	if v, ok := loaded[SemanticScholarKeyFile]; ok {
		return v
	}
	return strings.TrimSpace(os.Getenv(SemanticScholarKeyEnv))
}
