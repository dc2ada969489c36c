// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "papersync/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the Semantic Scholar fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIBase is the Graph API root (default https://api.semanticscholar.org/graph/v1).
	APIBase string `json:"api_base" yaml:"api_base"`

	// APIKey is an optional Semantic Scholar API key sent as x-api-key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RequestsPerSecond paces page requests; zero or negative disables pacing.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// SyncConfig groups everything a refresh or merge run needs.
type SyncConfig struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`

	// AuthorIDs are the Semantic Scholar author identifiers to fetch, in order.
	AuthorIDs []string `json:"author_ids" yaml:"author_ids"`

	// Output is the dataset file (e.g. "_data/papers_copy.yml").
	Output string `json:"output" yaml:"output"`

	// VenueMapping is the optional venue name table.
	VenueMapping string `json:"venue_mapping" yaml:"venue_mapping"`

	// AuthorMapping is the optional author name table.
	AuthorMapping string `json:"author_mapping" yaml:"author_mapping"`

	// HistoryDB is the SQLite run history path; empty disables recording.
	HistoryDB string `json:"history_db" yaml:"history_db"`
}
