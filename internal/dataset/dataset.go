// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/papersync/internal/dedupe"
	"github.com/pdiddy/papersync/internal/mapping"
	"github.com/pdiddy/papersync/internal/normalize"
	"github.com/pdiddy/papersync/pkg/types"
)

// GroupSummary counts the outcome of building a dataset from raw papers.
type GroupSummary struct {
	Grouped int
	NoYear  int
}

// Build normalizes raws and groups them by year for a full refresh. Papers
// without a year are skipped with a warning and counted. Show is left unset.
func Build(raws []types.RawPaper, tables mapping.Tables, w io.Writer) (types.Dataset, GroupSummary) {
	var results []normalize.Result
	var summary GroupSummary
	for _, raw := range raws {
		res, err := normalize.Normalize(raw, tables)
		if errors.Is(err, normalize.ErrNoYear) {
			summary.NoYear++
			fmt.Fprintf(w, "warning: paper without year: '%s...'\n", truncate(raw.Title, 50))
			continue
		}
		results = append(results, res)
	}
	summary.Grouped = len(results)
	if summary.NoYear > 0 {
		fmt.Fprintf(w, "Note: %d papers were omitted due to missing publication year\n", summary.NoYear)
	}
	return Group(results), summary
}

// Group files results under their years. Years are sorted descending and
// papers keep their input order within a year.
func Group(results []normalize.Result) types.Dataset {
	byYear := make(map[int][]types.CanonicalPaper)
	for _, r := range results {
		byYear[r.Year] = append(byYear[r.Year], r.Paper)
	}
	return fromYears(byYear)
}

func fromYears(byYear map[int][]types.CanonicalPaper) types.Dataset {
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	ds := make(types.Dataset, 0, len(years))
	for _, y := range years {
		ds = append(ds, types.YearGroup{Year: y, Papers: byYear[y]})
	}
	return ds
}

// MergeSummary counts the outcome of a merge.
type MergeSummary struct {
	Added   int
	Skipped int
	NoYear  int
}

// Signatures returns the signatures of every paper in ds and, separately,
// of those marked hidden.
func Signatures(ds types.Dataset) (seen, hidden map[string]bool) {
	seen = make(map[string]bool)
	hidden = make(map[string]bool)
	for _, g := range ds {
		for _, p := range g.Papers {
			sig := dedupe.SignatureOf(p)
			seen[sig] = true
			if p.Hidden() {
				hidden[sig] = true
			}
		}
	}
	return seen, hidden
}

// Merge adds the papers in raws that existing does not already hold. A raw
// paper whose signature matches any stored paper, hidden or not, is
// skipped, so merge never re-adds a paper that was hidden or edited by
// hand. Added papers get show: true and are appended to their year. The
// result is a new dataset sorted by year descending; existing is not
// modified. Stored papers are never changed or removed.
func Merge(existing types.Dataset, raws []types.RawPaper, tables mapping.Tables, w io.Writer) (types.Dataset, MergeSummary) {
	seen, hidden := Signatures(existing)

	byYear := make(map[int][]types.CanonicalPaper)
	for _, g := range existing.Clone() {
		byYear[g.Year] = append(byYear[g.Year], g.Papers...)
	}

	var summary MergeSummary
	for _, raw := range raws {
		res, err := normalize.Normalize(raw, tables)
		if err != nil {
			summary.NoYear++
			continue
		}

		sig := dedupe.SignatureOf(res.Paper)
		if seen[sig] || hidden[sig] {
			summary.Skipped++
			continue
		}

		res.Paper.Show = types.Bool(true)
		byYear[res.Year] = append(byYear[res.Year], res.Paper)
		seen[sig] = true
		summary.Added++
		fmt.Fprintf(w, "Added new paper: %s... (%d)\n", truncate(res.Paper.Title, 50), res.Year)
	}

	return fromYears(byYear), summary
}

// MarkHidden sets show: false on the first paper matching title and author,
// in place, and reports whether one was found. Matching uses the signature
// of title and the first name in author. When author is empty only the
// normalized title is compared.
func MarkHidden(ds types.Dataset, title, author string, w io.Writer) bool {
	target := dedupe.Signature(title, types.FirstAuthor(author))
	targetTitle := strings.ToLower(dedupe.NormalizeTitle(title))

	for gi := range ds {
		g := &ds[gi]
		for pi := range g.Papers {
			p := &g.Papers[pi]
			var match bool
			if author == "" {
				match = strings.ToLower(dedupe.NormalizeTitle(p.Title)) == targetTitle
			} else {
				match = dedupe.SignatureOf(*p) == target
			}
			if match {
				p.Show = types.Bool(false)
				fmt.Fprintf(w, "Marked paper as hidden: '%s' (%d)\n", p.Title, g.Year)
				return true
			}
		}
	}

	fmt.Fprintf(w, "Paper not found: '%s'\n", title)
	return false
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
