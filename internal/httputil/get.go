// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxBodyBytes caps how much of a response body Get reads. Listing and
// author pages are a few tens of kilobytes.
const MaxBodyBytes = 8 << 20

// ErrBodyTooLarge is returned when a response body exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// Options controls a single request.
type Options struct {
	// Timeout bounds the request including the body read. Zero means no
	// per-request deadline beyond the caller's context.
	Timeout time.Duration

	// UserAgent is sent as the User-Agent header when non-empty.
	UserAgent string
}

// Get issues one GET request and returns the status code and the full
// body. The request is never retried. Transport failures, deadline
// expiry, read errors and oversized bodies are returned as errors; any
// HTTP status, including 4xx and 5xx, is returned to the caller to
// interpret.
func Get(ctx context.Context, client *http.Client, url string, opts Options) (int, []byte, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	if len(body) > MaxBodyBytes {
		return resp.StatusCode, nil, fmt.Errorf("reading response from %s: %w (limit %d bytes)", url, ErrBodyTooLarge, MaxBodyBytes)
	}
	return resp.StatusCode, body, nil
}

// IsSuccess reports whether status is a 2xx code.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
