// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns listing and author page markup into records.
// Selectors follow the quotes.toscrape.com layout.
package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/quotes-scraper/pkg/types"
)

// ErrMarkupContract is returned when a quote block lacks a required
// element or attribute. It is never recovered from by skipping the block.
var ErrMarkupContract = errors.New("markup contract violation")

const (
	selQuote      = ".quote"
	selText       = ".text"
	selAuthor     = ".author"
	selTags       = ".tags .tag"
	selAuthorLink = ".author + a"
	selBiography  = ".author-details .author-description"
)

// Options controls which fields a quote block must carry.
type Options struct {
	// RequireAuthorLink makes the author detail link mandatory. Set it
	// when biographies are being resolved.
	RequireAuthorLink bool
}

// Block is one extracted quote block.
type Block struct {
	Quote types.Quote

	// AuthorHref is the href of the link following the author name, as
	// written in the page (usually relative). Empty when absent and not
	// required.
	AuthorHref string
}

// Quotes parses a listing page and returns its quote blocks in document
// order. A page without quote blocks yields an empty slice and no error.
func Quotes(r io.Reader, opts Options) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing listing page: %w", err)
	}

	var blocks []Block
	var firstErr error
	doc.Find(selQuote).EachWithBreak(func(i int, s *goquery.Selection) bool {
		b, err := quoteBlock(s, opts)
		if err != nil {
			firstErr = fmt.Errorf("quote block %d: %w", i, err)
			return false
		}
		blocks = append(blocks, b)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return blocks, nil
}

func quoteBlock(s *goquery.Selection, opts Options) (Block, error) {
	text, err := requiredText(s, selText)
	if err != nil {
		return Block{}, err
	}
	author, err := requiredText(s, selAuthor)
	if err != nil {
		return Block{}, err
	}

	tags := []string{}
	s.Find(selTags).Each(func(_ int, t *goquery.Selection) {
		tags = append(tags, strings.TrimSpace(t.Text()))
	})

	var href string
	link := s.Find(selAuthorLink).First()
	if v, ok := link.Attr("href"); ok && strings.TrimSpace(v) != "" {
		href = strings.TrimSpace(v)
	} else if opts.RequireAuthorLink {
		return Block{}, fmt.Errorf("%w: missing %s[href]", ErrMarkupContract, selAuthorLink)
	}

	return Block{
		Quote:      types.Quote{Text: text, Author: author, Tags: tags},
		AuthorHref: href,
	}, nil
}

func requiredText(s *goquery.Selection, selector string) (string, error) {
	el := s.Find(selector).First()
	if el.Length() == 0 {
		return "", fmt.Errorf("%w: missing %s", ErrMarkupContract, selector)
	}
	return strings.TrimSpace(el.Text()), nil
}

// Biography returns the trimmed author description from an author detail
// page. ok is false when the page has no description element.
func Biography(r io.Reader) (bio string, ok bool, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", false, fmt.Errorf("parsing author page: %w", err)
	}
	el := doc.Find(selBiography).First()
	if el.Length() == 0 {
		return "", false, nil
	}
	return strings.TrimSpace(el.Text()), true, nil
}
