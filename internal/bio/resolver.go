// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bio

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/pdiddy/quotes-scraper/internal/extract"
	"github.com/pdiddy/quotes-scraper/internal/httputil"
	"github.com/pdiddy/quotes-scraper/pkg/types"
)

// PageFetcher is the part of fetch.Fetcher the resolver needs.
type PageFetcher interface {
	Resolve(ref string) (string, error)
	Detail(ctx context.Context, detailURL string) (int, []byte, error)
}

// Resolver looks up author biographies through a Cache.
type Resolver struct {
	fetcher PageFetcher
	cache   *Cache
	logger  *slog.Logger
}

// NewResolver returns a Resolver backed by cache. A nil cache gets a fresh
// one; a nil logger uses slog.Default().
func NewResolver(fetcher PageFetcher, cache *Cache, logger *slog.Logger) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{fetcher: fetcher, cache: cache, logger: logger}
}

// Cache returns the resolver's cache.
func (r *Resolver) Cache() *Cache { return r.cache }

// Entries returns every biography resolved so far in first-resolved order.
func (r *Resolver) Entries() []types.AuthorBio { return r.cache.Entries() }

// Resolve returns the biography for author, fetching the page linked by
// href only if the author is not cached yet. Retrieval problems yield
// types.BiographyUnavailable. The only error returned is the context's,
// when the run is being cancelled; nothing is cached in that case.
func (r *Resolver) Resolve(ctx context.Context, author, href string) (string, error) {
	return r.cache.GetOrFetch(author, func() (string, error) {
		return r.fetch(ctx, author, href)
	})
}

func (r *Resolver) fetch(ctx context.Context, author, href string) (string, error) {
	log := r.logger.With("author", author)

	detailURL, err := r.fetcher.Resolve(href)
	if err != nil {
		log.WarnContext(ctx, "biography unavailable", "reason", "bad link", "href", href, "err", err)
		return types.BiographyUnavailable, nil
	}

	status, body, err := r.fetcher.Detail(ctx, detailURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		log.WarnContext(ctx, "biography unavailable", "reason", "request failed", "url", detailURL, "err", err)
		return types.BiographyUnavailable, nil
	}
	if !httputil.IsSuccess(status) {
		log.WarnContext(ctx, "biography unavailable", "reason", "HTTP status", "url", detailURL, "status", status)
		return types.BiographyUnavailable, nil
	}

	text, ok, err := extract.Biography(bytes.NewReader(body))
	if err != nil || !ok {
		log.WarnContext(ctx, "biography unavailable", "reason", "no description element", "url", detailURL)
		return types.BiographyUnavailable, nil
	}

	log.DebugContext(ctx, "biography resolved", "url", detailURL, "chars", len(text))
	return text, nil
}
