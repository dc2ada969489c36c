// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe decides when two paper records describe the same
// publication and picks which one to keep.
//
// Matching is heuristic. Titles are compared after dropping any subtitle
// after the first colon, and first authors are compared case-insensitively.
// The predicate is not transitive, so RemoveDuplicates is order-dependent.
package dedupe

import (
	"regexp"
	"strings"
)

// Record is the view of a paper that matching needs. Both raw API papers
// and canonical dataset papers implement it.
type Record interface {
	PaperTitle() string
	LeadAuthor() string
	VenueName() string
}

// leadingLabel matches a "Label: " prefix up to the first colon.
var leadingLabel = regexp.MustCompile(`^[^:]+:\s*`)

// NormalizeTitle keeps the text before the first colon, trimmed. Titles
// without a colon are only trimmed.
func NormalizeTitle(title string) string {
	if before, _, ok := strings.Cut(title, ":"); ok {
		return strings.TrimSpace(before)
	}
	return strings.TrimSpace(title)
}

// Signature is the matching key lower(NormalizeTitle(title)) + "_" + lower(firstAuthor).
func Signature(title, firstAuthor string) string {
	return strings.ToLower(NormalizeTitle(title)) + "_" + strings.ToLower(firstAuthor)
}

// SignatureOf returns the signature of r.
func SignatureOf(r Record) string {
	return Signature(r.PaperTitle(), r.LeadAuthor())
}

// IsDuplicate reports whether a and b look like the same publication:
// equal normalized titles, equal titles once a leading "Label:" is
// stripped, or the same first author with one title containing the other.
func IsDuplicate(a, b Record) bool {
	t1 := strings.ToLower(NormalizeTitle(a.PaperTitle()))
	t2 := strings.ToLower(NormalizeTitle(b.PaperTitle()))

	if t1 == t2 {
		return true
	}

	if t1 != "" && t2 != "" {
		c1 := strings.TrimSpace(leadingLabel.ReplaceAllString(t1, ""))
		c2 := strings.TrimSpace(leadingLabel.ReplaceAllString(t2, ""))
		if c1 == c2 {
			return true
		}
	}

	a1, a2 := a.LeadAuthor(), b.LeadAuthor()
	if a1 != "" && a2 != "" && strings.EqualFold(a1, a2) {
		if strings.Contains(t2, t1) || strings.Contains(t1, t2) {
			return true
		}
	}
	return false
}

// IsPreprint reports whether venue names arXiv or a preprint server.
func IsPreprint(venue string) bool {
	v := strings.ToLower(venue)
	return strings.Contains(v, "arxiv") || strings.Contains(v, "preprint")
}

// SelectBest returns the first candidate not published as a preprint, or
// the first candidate when all of them are. ok is false for an empty slice.
func SelectBest[T Record](candidates []T) (best T, ok bool) {
	if len(candidates) == 0 {
		return best, false
	}
	for _, c := range candidates {
		if !IsPreprint(c.VenueName()) {
			return c, true
		}
	}
	return candidates[0], true
}

// RemoveDuplicates keeps one representative per duplicate cluster.
//
// Papers are visited in order. A paper whose signature has already been
// handled is skipped; otherwise it and every later paper that IsDuplicate
// of it form a cluster, and SelectBest picks the survivor. Only the
// leader's signature is marked handled, so a clustered paper with a
// different signature is visited again later and may survive on its own.
func RemoveDuplicates[T Record](papers []T) []T {
	var unique []T
	processed := make(map[string]bool)

	for i, p := range papers {
		key := SignatureOf(p)
		if processed[key] {
			continue
		}

		cluster := []T{p}
		for _, other := range papers[i+1:] {
			if IsDuplicate(p, other) {
				cluster = append(cluster, other)
			}
		}

		best, _ := SelectBest(cluster)
		unique = append(unique, best)
		processed[key] = true
	}
	return unique
}
