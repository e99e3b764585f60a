// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/quotes-scraper/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.ArchiveConfig{Path: filepath.Join(t.TempDir(), "db", "archive.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun() Run {
	return Run{
		BaseURL:   "https://quotes.toscrape.com/",
		ScrapedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Pages:     2,
		Stop:      "not_found",
		Quotes: []types.Quote{
			{Text: "a1", Author: "A", Tags: []string{"x", "y"}},
			{Text: "b1", Author: "B", Tags: []string{}},
			{Text: "a2", Author: "A", Tags: nil},
		},
		Authors: []types.AuthorBio{
			{Author: "A", Biography: "Bio A"},
			{Author: "B", Biography: types.BiographyUnavailable},
		},
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(types.ArchiveConfig{})
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)

	run, err := s.Load(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, run.ID)
	assert.Equal(t, "https://quotes.toscrape.com/", run.BaseURL)
	assert.True(t, run.ScrapedAt.Equal(sampleRun().ScrapedAt))
	assert.Equal(t, 2, run.Pages)
	assert.Equal(t, "not_found", run.Stop)
	assert.False(t, run.Truncated)

	assert.Equal(t, []types.Quote{
		{Text: "a1", Author: "A", Tags: []string{"x", "y"}},
		{Text: "b1", Author: "B", Tags: []string{}},
		{Text: "a2", Author: "A", Tags: []string{}},
	}, run.Quotes)
	assert.Equal(t, sampleRun().Authors, run.Authors)
}

func TestLatestRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrNoRuns)

	first, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, Run{BaseURL: "http://x/", Stop: "page_limit", Truncated: true})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, latest)

	run, err := s.Load(ctx, second)
	require.NoError(t, err)
	assert.True(t, run.Truncated)
	assert.Empty(t, run.Quotes)
	assert.Empty(t, run.Authors)
}

func TestSaveRun_DuplicateAuthorRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := sampleRun()
	run.Authors = append(run.Authors, types.AuthorBio{Author: "A", Biography: "again"})
	_, err := s.SaveRun(ctx, run)
	require.Error(t, err)

	_, err = s.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestLoad_Missing(t *testing.T) {
	_, err := openTestStore(t).Load(context.Background(), 42)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "run.yaml")
		require.NoError(t, s.Export(ctx, id, FormatYAML, path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got Run
		require.NoError(t, yaml.Unmarshal(data, &got))
		assert.Equal(t, id, got.ID)
		assert.Len(t, got.Quotes, 3)
		assert.Equal(t, sampleRun().Authors, got.Authors)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "run.json")
		require.NoError(t, s.Export(ctx, id, FormatJSON, path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got Run
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, []string{"x", "y"}, got.Quotes[0].Tags)
		assert.Equal(t, "Bio A", got.Authors[0].Biography)
	})

	t.Run("unsupported", func(t *testing.T) {
		err := s.Export(ctx, id, Format("xml"), filepath.Join(dir, "run.xml"))
		assert.Error(t, err)
	})
}
