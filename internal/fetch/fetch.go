// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves listing pages and author detail pages from the
// quotes site. It owns URL construction; interpretation of the markup is
// left to the extract package.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/quotes-scraper/internal/httputil"
	"github.com/pdiddy/quotes-scraper/pkg/types"
)

// ErrUnexpectedStatus is returned when a listing page answers with a
// status other than 2xx or 404.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// Fetcher issues GET requests against one site root.
type Fetcher struct {
	client *http.Client
	base   *url.URL
	opts   httputil.Options
	logger *slog.Logger
}

// New returns a Fetcher rooted at baseURL. A trailing slash is added to
// the base path so that page/{n}/ and relative author links resolve
// beneath it. A nil logger uses slog.Default().
func New(client *http.Client, cfg types.HTTPConfig, baseURL string, logger *slog.Logger) (*Fetcher, error) {
	if client == nil {
		return nil, fmt.Errorf("fetch: nil HTTP client")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: client,
		base:   base,
		opts:   httputil.Options{Timeout: cfg.Timeout, UserAgent: cfg.UserAgent},
		logger: logger,
	}, nil
}

// BaseURL returns the normalized site root.
func (f *Fetcher) BaseURL() string { return f.base.String() }

// PageURL returns the listing URL for page n: {base}page/{n}/.
func (f *Fetcher) PageURL(n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("page index %d: must be >= 1", n)
	}
	return f.base.ResolveReference(&url.URL{Path: fmt.Sprintf("page/%d/", n)}).String(), nil
}

// Listing fetches listing page n. A 404 reports found=false with a nil
// error, which marks the end of pagination. Any other non-2xx status is
// an error wrapping ErrUnexpectedStatus.
func (f *Fetcher) Listing(ctx context.Context, n int) (body []byte, found bool, err error) {
	pageURL, err := f.PageURL(n)
	if err != nil {
		return nil, false, err
	}

	f.logger.DebugContext(ctx, "fetching listing page", "page", n, "url", pageURL)
	status, body, err := httputil.Get(ctx, f.client, pageURL, f.opts)
	if err != nil {
		return nil, false, err
	}

	switch {
	case status == http.StatusNotFound:
		f.logger.DebugContext(ctx, "listing page not found", "page", n)
		return nil, false, nil
	case !httputil.IsSuccess(status):
		return nil, false, fmt.Errorf("%w: HTTP %d from %s", ErrUnexpectedStatus, status, pageURL)
	}
	return body, true, nil
}

// Resolve turns a link found on a listing page (e.g. "/author/Jane-Austen")
// into an absolute URL on the same site.
func (f *Fetcher) Resolve(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parsing link %q: %w", ref, err)
	}
	return f.base.ResolveReference(u).String(), nil
}

// Detail fetches an author detail page and returns its status and body
// without interpreting the status.
func (f *Fetcher) Detail(ctx context.Context, detailURL string) (int, []byte, error) {
	f.logger.DebugContext(ctx, "fetching author page", "url", detailURL)
	return httputil.Get(ctx, f.client, detailURL, f.opts)
}
