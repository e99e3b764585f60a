// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bio resolves author biographies, fetching each author's detail
// page at most once per run.
package bio

import "github.com/pdiddy/quotes-scraper/pkg/types"

// Cache memoizes biographies by author name and remembers the order in
// which authors were first resolved. GetOrFetch is its only mutation.
// A Cache is not safe for concurrent use.
type Cache struct {
	values map[string]string
	order  []string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{values: make(map[string]string)}
}

// GetOrFetch returns the cached value for key. On a miss it calls fetch,
// stores the result, and returns it. When fetch fails nothing is stored
// and the error is returned, so a later call fetches again.
func (c *Cache) GetOrFetch(key string, fetch func() (string, error)) (string, error) {
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	v, err := fetch()
	if err != nil {
		return "", err
	}
	c.values[key] = v
	c.order = append(c.order, key)
	return v, nil
}

// Get returns the cached value for key without fetching.
func (c *Cache) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Len returns the number of cached authors.
func (c *Cache) Len() int { return len(c.order) }

// Entries returns the cached biographies in first-resolved order.
func (c *Cache) Entries() []types.AuthorBio {
	out := make([]types.AuthorBio, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, types.AuthorBio{Author: k, Biography: c.values[k]})
	}
	return out
}
