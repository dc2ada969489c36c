// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch pages through the Semantic Scholar author-papers endpoint
// and collects the raw papers for one or more author identifiers.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/papersync/internal/httputil"
	"github.com/pdiddy/papersync/pkg/types"
)

// DefaultAPIBase is the Semantic Scholar Graph API root.
const DefaultAPIBase = "https://api.semanticscholar.org/graph/v1"

const (
	// PageSize is the number of papers requested per page.
	PageSize = 100

	// MaxAuthors is the author count at which a paper is treated as a
	// large collaboration and dropped.
	MaxAuthors = 50

	paperFields = "title,year,venue,publicationVenue,publicationDate,authors,url,openAccessPdf,publicationTypes"
)

// Page is one response of the author-papers endpoint. Papers holds the page
// as returned, before the collaboration filter. Err is set on the final page
// of a sequence that ended in failure.
type Page struct {
	AuthorID string
	Offset   int
	Papers   []types.RawPaper
	Err      error
}

// Client fetches author papers from the Graph API.
type Client struct {
	pacer *httputil.Pacer
	cfg   types.FetchConfig
}

// NewClient returns a Client using hc for transport. Requests are paced at
// cfg.RequestsPerSecond.
func NewClient(hc *http.Client, cfg types.FetchConfig) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	return &Client{
		pacer: httputil.NewPacer(hc, cfg.RequestsPerSecond),
		cfg:   cfg,
	}
}

// Pages returns the lazy page sequence for authorID. Each iteration starts
// again from offset 0. The sequence ends after a short or empty page, or
// after yielding a Page whose Err is set. Empty pages are not yielded.
func (c *Client) Pages(ctx context.Context, authorID string) iter.Seq[Page] {
	return func(yield func(Page) bool) {
		for offset := 0; ; offset += PageSize {
			papers, err := c.fetchPage(ctx, authorID, offset)
			if err != nil {
				yield(Page{AuthorID: authorID, Offset: offset, Err: err})
				return
			}
			if len(papers) == 0 {
				return
			}
			if !yield(Page{AuthorID: authorID, Offset: offset, Papers: papers}) {
				return
			}
			if len(papers) < PageSize {
				return
			}
		}
	}
}

// FetchAuthor collects every paper for authorID with fewer than MaxAuthors
// authors. A failed page stops the walk for this author; pages already
// fetched are kept.
func (c *Client) FetchAuthor(ctx context.Context, authorID string, w io.Writer) []types.RawPaper {
	var all []types.RawPaper
	for page := range c.Pages(ctx, authorID) {
		if page.Err != nil {
			fmt.Fprintf(w, "error fetching papers at offset %d: %v\n", page.Offset, page.Err)
			break
		}
		kept := FilterCollaborations(page.Papers, w)
		all = append(all, kept...)
		fmt.Fprintf(w, "Fetched %d papers, kept %d after filtering (offset: %d)\n",
			len(page.Papers), len(kept), page.Offset)
	}
	return all
}

// FetchAll fetches each author in order and concatenates the results. No
// deduplication happens across authors.
func (c *Client) FetchAll(ctx context.Context, authorIDs []string, w io.Writer) []types.RawPaper {
	var all []types.RawPaper
	for _, id := range authorIDs {
		fmt.Fprintf(w, "\nFetching papers for author ID: %s\n", id)
		all = append(all, c.FetchAuthor(ctx, id, w)...)
		fmt.Fprintf(w, "Total papers so far: %d\n", len(all))
	}
	return all
}

// FilterCollaborations drops papers with MaxAuthors or more authors and
// writes a notice for each one.
func FilterCollaborations(papers []types.RawPaper, w io.Writer) []types.RawPaper {
	kept := make([]types.RawPaper, 0, len(papers))
	for _, p := range papers {
		if n := len(p.Authors); n >= MaxAuthors {
			fmt.Fprintf(w, "Filtered out paper with %d authors: '%s...'\n", n, truncate(p.Title, 50))
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func (c *Client) fetchPage(ctx context.Context, authorID string, offset int) ([]types.RawPaper, error) {
	params := url.Values{
		"fields": {paperFields},
		"limit":  {strconv.Itoa(PageSize)},
		"offset": {strconv.Itoa(offset)},
	}
	reqURL := fmt.Sprintf("%s/author/%s/papers?%s", c.cfg.APIBase, url.PathEscape(authorID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	resp, err := c.pacer.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	var pr pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return pr.Data, nil
}

// Semantic Scholar author-papers JSON envelope.
type pageResponse struct {
	Offset int              `json:"offset"`
	Next   int              `json:"next,omitempty"`
	Data   []types.RawPaper `json:"data"`
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
