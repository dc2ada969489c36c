// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Add new papers from Semantic Scholar to the existing list",
	Long: `Merge fetches papers for the configured author IDs and appends the ones
that are not already in the dataset file. Existing entries are never changed,
and papers marked show: false are never re-added.

Use --hide-paper to mark a single paper show: false without fetching:

  papersync merge --hide-paper "Paper Title Here"
  papersync merge --hide-paper "Paper Title Here" --author "Author Name"

Without --author, the first paper whose title (before any colon) matches,
ignoring case, is hidden regardless of its authors.`,
	Args: cobra.NoArgs,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("hide-paper", "", "title of a paper to mark show: false")
	mergeCmd.Flags().String("author", "", "first author of the paper to hide; without it the first title match is hidden")
	mergeCmd.Flags().String("output", "", "dataset file (default from config: _data/papers_copy.yml)")
	mergeCmd.Flags().Int64("from-run", 0, "replay the papers recorded for a past run instead of fetching")
	mergeCmd.Flags().MarkHidden("from-run")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	hideTitle, _ := cmd.Flags().GetString("hide-paper")
	author, _ := cmd.Flags().GetString("author")
	output, _ := cmd.Flags().GetString("output")
	fromRun, _ := cmd.Flags().GetInt64("from-run")

	if author != "" && hideTitle == "" {
		fmt.Fprintln(os.Stderr, "warning: --author is ignored without --hide-paper")
	}

	cfg := syncConfig(viper.GetViper())
	if output != "" {
		cfg.Output = output
	}
	s := newSyncer(cfg, os.Stdout)

	if hideTitle != "" {
		return s.hide(hideTitle, author)
	}
	return s.merge(context.Background(), fromRun)
}
