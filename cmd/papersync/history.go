// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papersync/internal/archive"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded refresh and merge runs",
	Long: `History lists past runs from the local run history database, most recent
first. Each run keeps the raw papers it fetched; pass a run ID to
"merge --from-run" to replay it without calling the API.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	path := viper.GetString("history_db")
	if path == "" {
		return fmt.Errorf("run history is disabled (history_db is empty)")
	}

	store, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}
	return formatHistory(cmd.OutOrStdout(), runs, jsonOutput)
}

func formatHistory(w io.Writer, runs []archive.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if runs == nil {
			runs = []archive.Run{}
		}
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-8s  %-7s  %-5s  %-5s  %s\n",
		"ID", "Started", "Mode", "Fetched", "Added", "Total", "Authors")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range runs {
		fmt.Fprintf(w, "%-5d  %-20s  %-8s  %-7d  %-5d  %-5d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Mode,
			r.Fetched, r.Added, r.Total, strings.Join(r.AuthorIDs, ","))
	}
	return nil
}
