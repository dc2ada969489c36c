// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset reads and writes the year-grouped paper file and applies
// the operations that change it: full-refresh grouping, incremental merge,
// and hiding a paper.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/papersync/pkg/types"
)

// Load reads the dataset at path. A missing file yields an empty dataset and
// a warning on w, so a first run can start from nothing. A file that exists
// but cannot be read or parsed is an error: callers must not overwrite it.
func Load(path string, w io.Writer) (types.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(w, "warning: %s not found, starting with empty paper list\n", path)
			return types.Dataset{}, nil
		}
		return nil, fmt.Errorf("loading existing papers: %w", err)
	}

	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading existing papers from %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a YAML dataset. An empty document is an empty dataset.
func Parse(data []byte) (types.Dataset, error) {
	var ds types.Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	if ds == nil {
		ds = types.Dataset{}
	}
	return ds, nil
}

// Marshal encodes ds as YAML with two-space indentation.
func Marshal(ds types.Dataset) ([]byte, error) {
	if ds == nil {
		ds = types.Dataset{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return nil, fmt.Errorf("marshaling dataset: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshaling dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes ds to path by writing a temp file in the same directory and
// renaming it over the destination.
func Save(path string, ds types.Dataset) error {
	data, err := Marshal(ds)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".papers-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing dataset: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
