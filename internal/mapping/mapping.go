// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapping loads the optional name tables that canonicalize venue and
// author names before they are written to the dataset.
package mapping

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"
)

// Table is an immutable text-to-text lookup. The zero value is an empty table
// that maps every name to itself.
type Table struct {
	m map[string]string
}

// NewTable copies m into a Table.
func NewTable(m map[string]string) Table {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return Table{m: c}
}

// Lookup returns the canonical form of name, or name itself when the table
// has no entry for it.
func (t Table) Lookup(name string) string {
	if v, ok := t.m[name]; ok {
		return v
	}
	return name
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.m) }

// Tables bundles the venue and author tables passed to normalization.
type Tables struct {
	Venues  Table
	Authors Table
}

// Load reads a YAML mapping of strings to strings from path. A missing or
// unparsable file is not fatal: Load writes a warning to w and returns an
// empty table. label names the table in warnings (e.g. "venue mapping").
func Load(path, label string, w io.Writer) Table {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(w, "warning: %s not found at %s, using original names\n", label, path)
		} else {
			fmt.Fprintf(w, "warning: error loading %s: %v\n", label, err)
		}
		return Table{}
	}

	t, err := Parse(data)
	if err != nil {
		fmt.Fprintf(w, "warning: error loading %s: %v\n", label, err)
		return Table{}
	}
	return t
}

// Parse decodes a YAML document of string keys and values. An empty
// document yields an empty table.
func Parse(data []byte) (Table, error) {
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Table{}, fmt.Errorf("parsing mapping: %w", err)
	}
	return NewTable(m), nil
}

// LoadTables loads both tables. Either path may point at a missing file.
func LoadTables(venuePath, authorPath string, w io.Writer) Tables {
	return Tables{
		Venues:  Load(venuePath, "venue mapping", w),
		Authors: Load(authorPath, "author name mapping", w),
	}
}
