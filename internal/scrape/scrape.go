// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape drives pagination over the listing pages, accumulating
// quotes and, when enabled, resolving each author's biography.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/pdiddy/quotes-scraper/internal/extract"
	"github.com/pdiddy/quotes-scraper/pkg/types"
)

// DefaultMaxPages is the page ceiling used when none is configured.
const DefaultMaxPages = 1000

// StopReason records why pagination ended.
type StopReason string

const (
	StopNotFound  StopReason = "not_found"
	StopEmptyPage StopReason = "empty_page"
	StopPageLimit StopReason = "page_limit"
)

// ListingFetcher is the part of fetch.Fetcher the driver needs.
type ListingFetcher interface {
	Listing(ctx context.Context, n int) (body []byte, found bool, err error)
}

// BioResolver is the part of bio.Resolver the driver needs. Entries
// reports every resolved author in first-resolved order; the driver
// reads it once pagination is done.
type BioResolver interface {
	Resolve(ctx context.Context, author, href string) (string, error)
	Entries() []types.AuthorBio
}

// Result is the outcome of a completed run.
type Result struct {
	// Quotes holds every quote in page order, document order within a page.
	Quotes []types.Quote

	// Authors is the resolver's cache contents at the end of the run:
	// one entry per distinct author in first-seen order. It is empty when
	// biographies are not resolved.
	Authors []types.AuthorBio

	// Pages is the number of listing pages that contributed quotes.
	Pages int

	// Stop is the reason pagination ended.
	Stop StopReason

	// Truncated is set when the page ceiling ended the run.
	Truncated bool
}

// Scraper runs one pagination pass.
type Scraper struct {
	fetcher  ListingFetcher
	resolver BioResolver
	maxPages int
	logger   *slog.Logger
}

// New returns a Scraper. resolver may be nil, in which case biographies
// are not resolved and author links are not required. cfg.MaxPages <= 0
// selects DefaultMaxPages.
func New(fetcher ListingFetcher, resolver BioResolver, cfg types.ScrapeConfig, logger *slog.Logger) *Scraper {
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		fetcher:  fetcher,
		resolver: resolver,
		maxPages: maxPages,
		logger:   logger,
	}
}

type state int

const (
	stateRunning state = iota
	stateDone
)

// Run fetches listing pages 1, 2, ... until a page is not found or has
// no quotes, or the page ceiling is reached. Fetch, extraction, and
// context errors abort the run.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	res := &Result{Quotes: []types.Quote{}, Authors: []types.AuthorBio{}}
	opts := extract.Options{RequireAuthorLink: s.resolver != nil}

	st, page := stateRunning, 1
	for st == stateRunning {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if page > s.maxPages {
			s.logger.WarnContext(ctx, "page limit reached, stopping", "max_pages", s.maxPages)
			res.Stop, res.Truncated = StopPageLimit, true
			st = stateDone
			continue
		}

		body, found, err := s.fetcher.Listing(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}
		if !found {
			s.logger.InfoContext(ctx, "no more pages", "page", page, "reason", StopNotFound)
			res.Stop, st = StopNotFound, stateDone
			continue
		}

		blocks, err := extract.Quotes(bytes.NewReader(body), opts)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d: %w", page, err)
		}
		if len(blocks) == 0 {
			s.logger.InfoContext(ctx, "no more pages", "page", page, "reason", StopEmptyPage)
			res.Stop, st = StopEmptyPage, stateDone
			continue
		}

		for _, b := range blocks {
			if s.resolver != nil {
				if _, err := s.resolver.Resolve(ctx, b.Quote.Author, b.AuthorHref); err != nil {
					return nil, fmt.Errorf("resolving biography for %q: %w", b.Quote.Author, err)
				}
			}
			res.Quotes = append(res.Quotes, b.Quote)
		}
		res.Pages++
		s.logger.InfoContext(ctx, "page scraped", "page", page, "quotes", len(blocks), "total", len(res.Quotes))
		page++
	}
	if s.resolver != nil {
		res.Authors = s.resolver.Entries()
	}
	return res, nil
}
