// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papersync/pkg/types"
)

func raw(title, venue string, authors ...string) types.RawPaper {
	p := types.RawPaper{Title: title, Venue: venue, Year: 2021}
	for _, a := range authors {
		p.Authors = append(p.Authors, types.RawAuthor{Name: a})
	}
	return p
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Event Extraction: A New Benchmark", "Event Extraction"},
		{"  Plain Title  ", "Plain Title"},
		{"A: B: C", "A"},
		{": leading colon", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeTitle(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeTitle(got), "normalization must be idempotent")
		})
	}
}

func TestSignature(t *testing.T) {
	assert.Equal(t, "event extraction_a. smith", Signature("Event Extraction: A New Benchmark", "A. Smith"))
	assert.Equal(t, "untitled_", Signature("Untitled", ""))

	canon := types.CanonicalPaper{Title: "Gender Bias: Coreference", Authors: "Rachel Rudinger, Jason Naradowsky"}
	assert.Equal(t, "gender bias_rachel rudinger", SignatureOf(canon))

	r := raw("Gender Bias", "", "Rachel Rudinger", "Jason Naradowsky")
	assert.Equal(t, SignatureOf(canon), SignatureOf(r))
}

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name string
		a, b types.RawPaper
		want bool
	}{
		{
			"same title different case, same author",
			raw("Lexical Inference", "", "A. Smith"),
			raw("LEXICAL INFERENCE", "", "a. smith"),
			true,
		},
		{
			"same title, different first author",
			raw("Lexical Inference", "", "A. Smith"),
			raw("lexical inference", "", "B. Jones"),
			true,
		},
		{
			"subtitle dropped",
			raw("Event Extraction: A New Benchmark", "", "A. Smith"),
			raw("Event Extraction", "arXiv", "A. Smith"),
			true,
		},
		{
			"containment with same first author",
			raw("Neural Coreference", "", "A. Smith"),
			raw("Neural Coreference Resolution Revisited", "", "a. smith"),
			true,
		},
		{
			"containment with different first author",
			raw("Neural Coreference", "", "A. Smith"),
			raw("Neural Coreference Resolution Revisited", "", "B. Jones"),
			false,
		},
		{
			"containment needs both authors present",
			raw("Neural Coreference", ""),
			raw("Neural Coreference Resolution Revisited", ""),
			false,
		},
		{
			"unrelated",
			raw("Hypothesis Only Baselines", "", "A. Smith"),
			raw("Social Bias Frames", "", "A. Smith"),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicate(tt.a, tt.b))
			assert.Equal(t, tt.want, IsDuplicate(tt.b, tt.a))
		})
	}
}

func TestIsDuplicateAcrossRecordTypes(t *testing.T) {
	r := raw("Event Extraction: A New Benchmark", "", "A. Smith")
	c := types.CanonicalPaper{Title: "event extraction", Authors: "A. Smith, B. Jones"}
	assert.True(t, IsDuplicate(r, c))
}

func TestSelectBest(t *testing.T) {
	t.Run("prefers first non-preprint", func(t *testing.T) {
		cands := []types.RawPaper{
			raw("X", "arXiv", "A"),
			raw("X", "bioRxiv Preprint", "A"),
			raw("X", "ACL", "A"),
			raw("X", "EMNLP", "A"),
		}
		best, ok := SelectBest(cands)
		require.True(t, ok)
		assert.Equal(t, "ACL", best.Venue)
	})

	t.Run("empty venue is not a preprint", func(t *testing.T) {
		best, ok := SelectBest([]types.RawPaper{raw("X", "ArXiv", "A"), raw("X", "", "A")})
		require.True(t, ok)
		assert.Equal(t, "", best.Venue)
	})

	t.Run("all preprints keeps first", func(t *testing.T) {
		best, ok := SelectBest([]types.RawPaper{raw("first", "arXiv.org", "A"), raw("second", "ArXiv", "A")})
		require.True(t, ok)
		assert.Equal(t, "first", best.Title)
	})

	t.Run("empty input", func(t *testing.T) {
		_, ok := SelectBest([]types.RawPaper{})
		assert.False(t, ok)
	})
}

func TestRemoveDuplicatesPrefersPublishedVersion(t *testing.T) {
	papers := []types.RawPaper{
		raw("Event Extraction", "arXiv", "A. Smith"),
		raw("Event Extraction: A New Benchmark", "", "A. Smith"),
		raw("Unrelated Work", "ACL", "C. Lee"),
	}

	got := RemoveDuplicates(papers)

	require.Len(t, got, 2)
	assert.Equal(t, "Event Extraction: A New Benchmark", got[0].Title)
	assert.Equal(t, "Unrelated Work", got[1].Title)
}

func TestRemoveDuplicatesKeepsFirstOfPreprints(t *testing.T) {
	papers := []types.RawPaper{
		raw("Paper A", "arXiv", "A. Smith"),
		raw("paper a", "ArXiv", "a. smith"),
	}
	got := RemoveDuplicates(papers)

	require.Len(t, got, 1)
	assert.Equal(t, "Paper A", got[0].Title)
}

// A member absorbed into an earlier cluster with a different signature is
// revisited and can survive on its own.
func TestRemoveDuplicatesIsOrderDependent(t *testing.T) {
	short := raw("Coreference", "", "A. Smith")
	long := raw("Coreference Resolution", "", "A. Smith")
	longer := raw("Coreference Resolution at Scale", "", "B. Jones")

	got := RemoveDuplicates([]types.RawPaper{short, long, longer})

	// short clusters with long (containment, same author) and keeps short;
	// long's signature differs, so long is visited again and clusters with
	// nothing new (longer has another first author).
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Coreference", "Coreference Resolution", "Coreference Resolution at Scale"},
		titles(got))

	reordered := RemoveDuplicates([]types.RawPaper{long, short, longer})
	assert.Equal(t, []string{"Coreference Resolution", "Coreference", "Coreference Resolution at Scale"},
		titles(reordered))
}

func TestRemoveDuplicatesSkipsProcessedSignature(t *testing.T) {
	papers := []types.RawPaper{
		raw("Same Title", "arXiv", "A. Smith"),
		raw("Same Title: Extended", "TACL", "A. Smith"),
		raw("same title", "EMNLP", "a. smith"),
	}

	got := RemoveDuplicates(papers)

	// All three share the leader's signature, so only one survives: the
	// first non-preprint in the cluster.
	require.Len(t, got, 1)
	assert.Equal(t, "TACL", got[0].Venue)
}

func TestRemoveDuplicatesEmpty(t *testing.T) {
	assert.Empty(t, RemoveDuplicates([]types.RawPaper(nil)))
}

func titles(papers []types.RawPaper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.Title
	}
	return out
}
