// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts raw Semantic Scholar papers into the canonical
// shape written to the website dataset.
package normalize

import (
	"errors"
	"strings"
	"time"

	"github.com/pdiddy/papersync/internal/mapping"
	"github.com/pdiddy/papersync/pkg/types"
)

// ErrNoYear is returned for papers with neither a parsable publicationDate
// nor a year. Such papers cannot be placed in a YearGroup.
var ErrNoYear = errors.New("paper has no publication year")

// Result is a normalized paper together with the year it is filed under.
type Result struct {
	Year  int
	Paper types.CanonicalPaper
}

// dateLayouts are tried in order when parsing publicationDate.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalize maps raw into a CanonicalPaper using the venue and author tables.
// Show is left unset; callers that add papers to an existing dataset set it.
func Normalize(raw types.RawPaper, tables mapping.Tables) (Result, error) {
	year := Year(raw)
	if year == 0 {
		return Result{}, ErrNoYear
	}

	p := types.CanonicalPaper{
		Title:   raw.Title,
		Authors: Authors(raw.Authors, tables.Authors),
		Venue:   Venue(raw, tables.Venues),
		PDF:     PDF(raw),
	}
	return Result{Year: year, Paper: p}, nil
}

// Year resolves the publication year: publicationDate first, then the year
// field. It returns 0 when neither gives a year.
func Year(raw types.RawPaper) int {
	if raw.PublicationDate != "" {
		if t, ok := parseDate(raw.PublicationDate); ok && t.Year() != 0 {
			return t.Year()
		}
	}
	return raw.Year
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Venue returns the mapped venue, or "" when the paper has none worth
// showing. venue takes precedence over publicationVenue.
func Venue(raw types.RawPaper, venues mapping.Table) string {
	v := raw.Venue
	if v == "" {
		v = string(raw.PublicationVenue)
	}
	if v == "" || v == "null" {
		return ""
	}
	return venues.Lookup(v)
}

// Authors maps each author name through the table and joins the non-empty
// results with ", ".
func Authors(authors []types.RawAuthor, table mapping.Table) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.Name == "" {
			continue
		}
		if name := table.Lookup(a.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// PDF returns the open-access PDF link, falling back to the paper URL when
// it points at a PDF.
func PDF(raw types.RawPaper) string {
	if raw.OpenAccessPDF != nil && raw.OpenAccessPDF.URL != "" {
		return raw.OpenAccessPDF.URL
	}
	if u := raw.URL; strings.HasSuffix(u, ".pdf") || strings.Contains(u, "arxiv.org/pdf") {
		return u
	}
	return ""
}
