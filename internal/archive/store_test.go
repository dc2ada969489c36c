// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papersync/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndPapers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	papers := []types.RawPaper{
		{
			Title:            "Gender Bias in Coreference Resolution",
			Year:             2018,
			PublicationVenue: "NAACL",
			Authors:          []types.RawAuthor{{Name: "Rachel Rudinger"}},
			OpenAccessPDF:    &types.OpenAccessPDF{URL: "https://aclanthology.org/N18-2002.pdf"},
		},
		{Title: "Second", PublicationDate: "2020-01-01"},
	}

	id, err := s.Record(ctx, Run{Mode: ModeMerge, AuthorIDs: []string{"1", "2"}, Fetched: 2, Added: 1, Total: 10}, papers)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.Papers(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, papers, got)
}

func TestPapersUnknownRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Papers(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRunsMostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, mode := range []Mode{ModeRefresh, ModeMerge, ModeMerge} {
		_, err := s.Record(ctx, Run{
			StartedAt: start.Add(time.Duration(i) * time.Hour),
			Mode:      mode,
			AuthorIDs: []string{"2034613"},
			Fetched:   10 + i,
		}, nil)
		require.NoError(t, err)
	}

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 12, runs[0].Fetched)
	assert.Equal(t, ModeRefresh, runs[2].Mode)
	assert.True(t, runs[2].StartedAt.Equal(start))
	assert.Equal(t, []string{"2034613"}, runs[0].AuthorIDs)

	limited, err := s.Runs(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, Run{Mode: ModeRefresh}, []types.RawPaper{{Title: "Kept"}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	papers, err := s.Papers(ctx, runs[0].ID)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Kept", papers[0].Title)
}
