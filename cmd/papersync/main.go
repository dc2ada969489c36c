// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the papersync CLI, which keeps a
// personal website's publication list in step with Semantic Scholar.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papersync/internal/fetch"
	"github.com/pdiddy/papersync/internal/secrets"
	"github.com/pdiddy/papersync/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "papersync/0.1"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the papersync CLI.
var rootCmd = &cobra.Command{
	Use:   "papersync",
	Short: "Sync a publication list from Semantic Scholar into a website dataset",
	Long: `papersync fetches an author's papers from the Semantic Scholar Graph API,
normalizes venues and author names, removes duplicates, and writes the result
to a YAML file grouped by year for a static website.

Use "refresh" to rebuild the file from scratch and "merge" to add only papers
that are not already listed. Papers marked show: false are never re-added.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadEnv(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		s, err := secrets.Load(".secrets/", os.Stderr)
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
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./papersync.yaml or ~/.config/papersync/papersync.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("papersync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "papersync"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("PAPERSYNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("author_ids", []string{"2034613", "2302559920"})
	v.SetDefault("output", "_data/papers_copy.yml")
	v.SetDefault("venue_mapping", "_data/venue_mapping.yml")
	v.SetDefault("author_mapping", "_data/author_name_mapping.yml")
	v.SetDefault("api_base", fetch.DefaultAPIBase)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("requests_per_second", 1.0)
	v.SetDefault("history_db", ".papersync/history.db")
}

// syncConfig assembles the run configuration from v.
func syncConfig(v *viper.Viper) types.SyncConfig {
	timeout := v.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return types.SyncConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			APIBase:           v.GetString("api_base"),
			APIKey:            secrets.SemanticScholarKey(v.GetString("api_key"), loadedSecrets),
			RequestsPerSecond: v.GetFloat64("requests_per_second"),
		},
		AuthorIDs:     v.GetStringSlice("author_ids"),
		Output:        v.GetString("output"),
		VenueMapping:  v.GetString("venue_mapping"),
		AuthorMapping: v.GetString("author_mapping"),
		HistoryDB:     v.GetString("history_db"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
