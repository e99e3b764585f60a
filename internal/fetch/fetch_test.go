// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quotes-scraper/internal/httputil"
	"github.com/pdiddy/quotes-scraper/internal/logging"
	"github.com/pdiddy/quotes-scraper/pkg/types"
)

func testCfg() types.HTTPConfig {
	return types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"}
}

func newFetcher(t *testing.T, baseURL string) *Fetcher {
	t.Helper()
	f, err := New(http.DefaultClient, testCfg(), baseURL, logging.Discard())
	require.NoError(t, err)
	return f
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	tests := []struct {
		name string
		base string
	}{
		{"no scheme", "quotes.toscrape.com"},
		{"ftp", "ftp://quotes.toscrape.com/"},
		{"unparsable", "http://[::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(http.DefaultClient, testCfg(), tt.base, nil)
			assert.Error(t, err)
		})
	}
}

func TestNew_NilClient(t *testing.T) {
	_, err := New(nil, testCfg(), types.DefaultBaseURL, nil)
	assert.Error(t, err)
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		page int
		want string
	}{
		{"root with slash", "https://quotes.toscrape.com/", 1, "https://quotes.toscrape.com/page/1/"},
		{"root without slash", "https://quotes.toscrape.com", 3, "https://quotes.toscrape.com/page/3/"},
		{"sub path", "http://127.0.0.1:8080/fixtures", 10, "http://127.0.0.1:8080/fixtures/page/10/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newFetcher(t, tt.base).PageURL(tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageURL_RejectsNonPositive(t *testing.T) {
	f := newFetcher(t, types.DefaultBaseURL)
	for _, n := range []int{0, -1} {
		_, err := f.PageURL(n)
		assert.Error(t, err, "page %d", n)
	}
}

func TestResolve(t *testing.T) {
	f := newFetcher(t, "http://example.test/site/")

	got, err := f.Resolve("/author/Jane-Austen")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/author/Jane-Austen", got)

	got, err = f.Resolve("author/Jane-Austen/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/site/author/Jane-Austen/", got)

	got, err = f.Resolve("https://other.test/x")
	require.NoError(t, err)
	assert.Equal(t, "https://other.test/x", got)
}

func TestListing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page/1/":
			fmt.Fprint(w, "<html>page one</html>")
		case "/page/2/":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	f := newFetcher(t, ts.URL)
	ctx := context.Background()

	body, found, err := f.Listing(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "<html>page one</html>", string(body))

	_, found, err = f.Listing(ctx, 2)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.False(t, found)

	body, found, err = f.Listing(ctx, 3)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, body)
}

func TestListing_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := ts.URL
	ts.Close()

	_, _, err := newFetcher(t, base).Listing(context.Background(), 1)
	assert.Error(t, err)
}

func TestListing_OversizedPageIsAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(bytes.Repeat([]byte("<p>x</p>"), httputil.MaxBodyBytes/8+1))
	}))
	defer ts.Close()

	body, found, err := newFetcher(t, ts.URL).Listing(context.Background(), 1)
	assert.ErrorIs(t, err, httputil.ErrBodyTooLarge)
	assert.False(t, found)
	assert.Nil(t, body)
}

func TestDetail_ReturnsStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
		fmt.Fprint(w, "gone")
	}))
	defer ts.Close()

	status, body, err := newFetcher(t, ts.URL).Detail(context.Background(), ts.URL+"/author/x")
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, status)
	assert.Equal(t, "gone", string(body))
}
