// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quotes-scraper/pkg/types"
)

func TestCache_FetchesOncePerKey(t *testing.T) {
	c := NewCache()
	calls := map[string]int{}
	fetch := func(key, value string) func() (string, error) {
		return func() (string, error) {
			calls[key]++
			return value, nil
		}
	}

	v, err := c.GetOrFetch("A", fetch("A", "bio A"))
	require.NoError(t, err)
	assert.Equal(t, "bio A", v)

	v, err = c.GetOrFetch("B", fetch("B", "bio B"))
	require.NoError(t, err)
	assert.Equal(t, "bio B", v)

	v, err = c.GetOrFetch("A", fetch("A", "different"))
	require.NoError(t, err)
	assert.Equal(t, "bio A", v, "cached value wins")

	assert.Equal(t, map[string]int{"A": 1, "B": 1}, calls)
	assert.Equal(t, 2, c.Len())
}

func TestCache_ErrorIsNotCached(t *testing.T) {
	c := NewCache()
	boom := errors.New("boom")

	_, err := c.GetOrFetch("A", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get("A")
	assert.False(t, ok)
	assert.Zero(t, c.Len())

	v, err := c.GetOrFetch("A", func() (string, error) { return "bio A", nil })
	require.NoError(t, err)
	assert.Equal(t, "bio A", v)
}

func TestCache_EntriesKeepFirstSeenOrder(t *testing.T) {
	c := NewCache()
	for _, k := range []string{"Zed", "Amy", "Zed", "Mo", "Amy"} {
		_, err := c.GetOrFetch(k, func() (string, error) { return "bio " + k, nil })
		require.NoError(t, err)
	}

	assert.Equal(t, []types.AuthorBio{
		{Author: "Zed", Biography: "bio Zed"},
		{Author: "Amy", Biography: "bio Amy"},
		{Author: "Mo", Biography: "bio Mo"},
	}, c.Entries())
}

func TestCache_EmptyEntries(t *testing.T) {
	entries := NewCache().Entries()
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
