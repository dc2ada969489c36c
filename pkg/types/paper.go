// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the papersync stages:
// the raw Semantic Scholar paper shape, the canonical website shape, and the
// year-grouped dataset that is persisted to YAML.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// RawAuthor is one entry of a RawPaper author list. The API sends
// {"authorId": ..., "name": ...} objects; older payloads and hand-written
// fixtures use plain strings. Both decode into Name.
type RawAuthor struct {
	AuthorID string `json:"authorId,omitempty"`
	Name     string `json:"name"`
}

// UnmarshalJSON accepts either a JSON string or an object with a name field.
func (a *RawAuthor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*a = RawAuthor{Name: name}
		return nil
	}
	type plain RawAuthor
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding author: %w", err)
	}
	*a = RawAuthor(p)
	return nil
}

// RawVenue is the publicationVenue field. The live API returns an object
// ({"id", "name", "type", ...}); some payloads carry a bare string.
type RawVenue string

// UnmarshalJSON accepts null, a string, or an object with a name field.
func (v *RawVenue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = RawVenue(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding publicationVenue: %w", err)
	}
	*v = RawVenue(obj.Name)
	return nil
}

// OpenAccessPDF is the openAccessPdf object of a RawPaper.
type OpenAccessPDF struct {
	URL    string `json:"url"`
	Status string `json:"status,omitempty"`
}

// RawPaper is a paper as returned by the Semantic Scholar author-papers
// endpoint. It lives for one run and is never persisted to the dataset.
type RawPaper struct {
	PaperID          string         `json:"paperId,omitempty"`
	Title            string         `json:"title"`
	Year             int            `json:"year,omitempty"`
	Venue            string         `json:"venue,omitempty"`
	PublicationVenue RawVenue       `json:"publicationVenue,omitempty"`
	PublicationDate  string         `json:"publicationDate,omitempty"`
	Authors          []RawAuthor    `json:"authors"`
	URL              string         `json:"url,omitempty"`
	OpenAccessPDF    *OpenAccessPDF `json:"openAccessPdf,omitempty"`
	PublicationTypes []string       `json:"publicationTypes,omitempty"`
}

// PaperTitle returns the display title.
func (p RawPaper) PaperTitle() string { return p.Title }

// LeadAuthor returns the name of the first listed author, or "".
func (p RawPaper) LeadAuthor() string {
	if len(p.Authors) == 0 {
		return ""
	}
	return p.Authors[0].Name
}

// VenueName returns the raw venue field. publicationVenue is deliberately not
// consulted here; it only feeds normalization.
func (p RawPaper) VenueName() string { return p.Venue }

// CanonicalPaper is one publication in the persisted dataset.
type CanonicalPaper struct {
	// Title is the display title, never rewritten.
	Title string `json:"title" yaml:"title"`

	// Authors is the comma-joined author list ("A. Smith, B. Jones").
	Authors string `json:"authors" yaml:"authors"`

	// Venue is the canonical venue name; omitted when unknown.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// PDF is a link to a freely available PDF; omitted when unknown.
	PDF string `json:"pdf,omitempty" yaml:"pdf,omitempty"`

	// Show is nil or true for visible papers and false for hidden ones.
	// Hidden papers stay in the file but are never re-added by a merge.
	Show *bool `json:"show,omitempty" yaml:"show,omitempty"`
}

// UnmarshalYAML decodes a paper whose authors field is either the usual
// comma-joined text or a hand-written sequence of names. A sequence is joined
// with ", " so the first element stays the lead author.
func (p *CanonicalPaper) UnmarshalYAML(value *yaml.Node) error {
	var doc struct {
		Title   string    `yaml:"title"`
		Authors yaml.Node `yaml:"authors"`
		Venue   string    `yaml:"venue"`
		PDF     string    `yaml:"pdf"`
		Show    *bool     `yaml:"show"`
	}
	if err := value.Decode(&doc); err != nil {
		return err
	}

	var authors string
	switch doc.Authors.Kind {
	case 0:
	case yaml.ScalarNode:
		if err := doc.Authors.Decode(&authors); err != nil {
			return err
		}
	case yaml.SequenceNode:
		var names []string
		if err := doc.Authors.Decode(&names); err != nil {
			return err
		}
		authors = strings.Join(names, ", ")
	default:
		return fmt.Errorf("line %d: authors must be text or a list of names", doc.Authors.Line)
	}

	*p = CanonicalPaper{
		Title:   doc.Title,
		Authors: authors,
		Venue:   doc.Venue,
		PDF:     doc.PDF,
		Show:    doc.Show,
	}
	return nil
}

// PaperTitle returns the display title.
func (p CanonicalPaper) PaperTitle() string { return p.Title }

// LeadAuthor returns the first name of the comma-joined author field.
func (p CanonicalPaper) LeadAuthor() string { return FirstAuthor(p.Authors) }

// VenueName returns the canonical venue.
func (p CanonicalPaper) VenueName() string { return p.Venue }

// Hidden reports whether the paper carries an explicit show: false.
func (p CanonicalPaper) Hidden() bool { return p.Show != nil && !*p.Show }

// FirstAuthor returns the first entry of a comma-joined author list, trimmed.
func FirstAuthor(authors string) string {
	if authors == "" {
		return ""
	}
	first, _, _ := strings.Cut(authors, ",")
	return strings.TrimSpace(first)
}

// Bool returns a pointer to b, for populating CanonicalPaper.Show.
func Bool(b bool) *bool { return &b }

// YearGroup holds the papers published in one year.
type YearGroup struct {
	Year   int              `json:"year" yaml:"year"`
	Papers []CanonicalPaper `json:"papers" yaml:"papers"`
}

// Dataset is the persisted paper list: YearGroups ordered by year descending.
type Dataset []YearGroup

// Count returns the number of papers across all years.
func (d Dataset) Count() int {
	n := 0
	for _, g := range d {
		n += len(g.Papers)
	}
	return n
}

// Clone returns a deep copy so callers can modify the result without
// touching the receiver.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	for i, g := range d {
		papers := make([]CanonicalPaper, len(g.Papers))
		for j, p := range g.Papers {
			if p.Show != nil {
				p.Show = Bool(*p.Show)
			}
			papers[j] = p
		}
		out[i] = YearGroup{Year: g.Year, Papers: papers}
	}
	return out
}
