// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the paper list from Semantic Scholar",
	Long: `Refresh fetches every paper for the configured author IDs, removes
duplicates (preferring published versions over arXiv preprints), and
overwrites the dataset file. Hand edits and show: false flags in the existing
file are not preserved; use merge to keep them.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().Int64("from-run", 0, "replay the papers recorded for a past run instead of fetching")
	refreshCmd.Flags().MarkHidden("from-run")

	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	fromRun, _ := cmd.Flags().GetInt64("from-run")
	s := newSyncer(syncConfig(viper.GetViper()), os.Stdout)
	return s.refresh(context.Background(), fromRun)
}
