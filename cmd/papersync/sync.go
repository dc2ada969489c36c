// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/papersync/internal/archive"
	"github.com/pdiddy/papersync/internal/dataset"
	"github.com/pdiddy/papersync/internal/dedupe"
	"github.com/pdiddy/papersync/internal/fetch"
	"github.com/pdiddy/papersync/internal/mapping"
	"github.com/pdiddy/papersync/pkg/types"
)

// errNoPapers is returned when neither the API nor the archive produced a
// single paper. The command exits non-zero.
var errNoPapers = errors.New("no papers found for these authors")

// syncer runs the refresh, merge, and hide operations against one
// configuration. Progress goes to out.
type syncer struct {
	cfg    types.SyncConfig
	client *http.Client
	out    io.Writer
}

func newSyncer(cfg types.SyncConfig, out io.Writer) *syncer {
	return &syncer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Fetch.Timeout},
		out:    out,
	}
}

// collect returns the raw papers for this run: replayed from the archive
// when fromRun is set, otherwise fetched from the API.
func (s *syncer) collect(ctx context.Context, fromRun int64) ([]types.RawPaper, error) {
	if fromRun > 0 {
		if s.cfg.HistoryDB == "" {
			return nil, fmt.Errorf("--from-run needs a history database (history_db is empty)")
		}
		store, err := archive.Open(s.cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		fmt.Fprintf(s.out, "Replaying papers from run %d\n", fromRun)
		return store.Papers(ctx, fromRun)
	}

	fmt.Fprintf(s.out, "Using author IDs: %s\n", strings.Join(s.cfg.AuthorIDs, ", "))
	fmt.Fprintln(s.out, "Fetching papers from API...")
	client := fetch.NewClient(s.client, s.cfg.Fetch)
	return client.FetchAll(ctx, s.cfg.AuthorIDs, s.out), nil
}

// record stores the run in the history database. Failures are warnings.
func (s *syncer) record(ctx context.Context, run archive.Run, raws []types.RawPaper) {
	if s.cfg.HistoryDB == "" {
		return
	}
	store, err := archive.Open(s.cfg.HistoryDB)
	if err != nil {
		fmt.Fprintf(s.out, "warning: run history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	run.AuthorIDs = s.cfg.AuthorIDs
	if _, err := store.Record(ctx, run, raws); err != nil {
		fmt.Fprintf(s.out, "warning: recording run history: %v\n", err)
	}
}

func (s *syncer) tables() mapping.Tables {
	fmt.Fprintln(s.out, "Loading venue and author name mappings...")
	return mapping.LoadTables(s.cfg.VenueMapping, s.cfg.AuthorMapping, s.out)
}

// save writes ds to the output file. A failed write is reported and the
// run still counts as complete.
func (s *syncer) save(ds types.Dataset) bool {
	if err := dataset.Save(s.cfg.Output, ds); err != nil {
		fmt.Fprintf(s.out, "error: saving papers to %s: %v\n", s.cfg.Output, err)
		return false
	}
	fmt.Fprintf(s.out, "Papers saved to %s\n", s.cfg.Output)
	return true
}

// refresh rebuilds the dataset from scratch.
func (s *syncer) refresh(ctx context.Context, fromRun int64) error {
	tables := s.tables()

	raws, err := s.collect(ctx, fromRun)
	if err != nil {
		return err
	}
	if len(raws) == 0 {
		return errNoPapers
	}
	fmt.Fprintf(s.out, "\nFound %d total papers\n", len(raws))

	fmt.Fprintln(s.out, "Removing duplicates...")
	unique := dedupe.RemoveDuplicates(raws)
	fmt.Fprintf(s.out, "After removing duplicates: %d papers\n", len(unique))

	fmt.Fprintln(s.out, "Formatting papers...")
	ds, _ := dataset.Build(unique, tables, s.out)
	s.save(ds)

	if fromRun == 0 {
		s.record(ctx, archive.Run{
			Mode:    archive.ModeRefresh,
			Fetched: len(raws),
			Added:   ds.Count(),
			Total:   ds.Count(),
		}, raws)
	}

	fmt.Fprintf(s.out, "\nSummary:\n")
	fmt.Fprintf(s.out, "Total papers: %d\n", ds.Count())
	fmt.Fprintf(s.out, "Years covered: %d\n", len(ds))
	for _, g := range ds {
		fmt.Fprintf(s.out, "  %d: %d papers\n", g.Year, len(g.Papers))
	}
	return nil
}

// merge adds papers that the dataset at cfg.Output does not already hold.
func (s *syncer) merge(ctx context.Context, fromRun int64) error {
	fmt.Fprintln(s.out, "Loading existing papers...")
	existing, err := dataset.Load(s.cfg.Output, s.out)
	if err != nil {
		return err
	}
	existingCount := existing.Count()
	fmt.Fprintf(s.out, "Found %d existing papers\n", existingCount)

	tables := s.tables()

	raws, err := s.collect(ctx, fromRun)
	if err != nil {
		return err
	}
	if len(raws) == 0 {
		return errNoPapers
	}
	fmt.Fprintf(s.out, "Fetched %d papers from API\n", len(raws))

	fmt.Fprintln(s.out, "Merging new papers...")
	merged, summary := dataset.Merge(existing, raws, tables, s.out)

	if fromRun == 0 {
		s.record(ctx, archive.Run{
			Mode:    archive.ModeMerge,
			Fetched: len(raws),
			Added:   summary.Added,
			Total:   merged.Count(),
		}, raws)
	}

	if summary.NoYear > 0 {
		fmt.Fprintf(s.out, "Note: %d papers were omitted due to missing publication year\n", summary.NoYear)
	}
	if summary.Added == 0 {
		fmt.Fprintln(s.out, "No new papers found. All papers are already up to date.")
		return nil
	}
	fmt.Fprintf(s.out, "Added %d new papers\n", summary.Added)

	s.save(merged)

	fmt.Fprintf(s.out, "\nSummary:\n")
	fmt.Fprintf(s.out, "Existing papers: %d\n", existingCount)
	fmt.Fprintf(s.out, "New papers added: %d\n", summary.Added)
	fmt.Fprintf(s.out, "Total papers: %d\n", merged.Count())
	fmt.Fprintf(s.out, "Years covered: %d\n", len(merged))
	return nil
}

// hide marks one paper show: false without fetching anything.
func (s *syncer) hide(title, author string) error {
	fmt.Fprintln(s.out, "Loading existing papers...")
	ds, err := dataset.Load(s.cfg.Output, s.out)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Found %d existing papers\n", ds.Count())

	if !dataset.MarkHidden(ds, title, author, s.out) {
		fmt.Fprintln(s.out, "No changes made")
		return nil
	}
	if s.save(ds) {
		fmt.Fprintf(s.out, "Updated %s - paper marked as hidden\n", s.cfg.Output)
	}
	return nil
}
