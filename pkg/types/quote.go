// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records and configuration shared across the
// quotes-scraper pipeline: quotes, resolved author biographies, and the
// settings each stage reads.
package types

import "fmt"

// BiographyUnavailable is stored in place of a biography that could not be
// retrieved from the author detail page.
const BiographyUnavailable = "Biography not available."

// Quote is one quote block from a listing page. Quotes are built by the
// extractor and never modified afterwards.
type Quote struct {
	// Text is the quote text as shown on the page.
	Text string `json:"text" yaml:"text"`

	// Author is the author name. It is the join key into the biography cache.
	Author string `json:"author" yaml:"author"`

	// Tags lists the quote's tags in document order. It may be empty.
	Tags []string `json:"tags" yaml:"tags"`
}

// AuthorBio pairs an author with the biography resolved for them.
type AuthorBio struct {
	Author    string `json:"author" yaml:"author"`
	Biography string `json:"biography" yaml:"biography"`
}

// TagFormat selects how a quote's tag list is flattened into a single CSV field.
type TagFormat string

const (
	// TagsJoined joins tags with ", " (e.g. "love, life"). This is the default.
	TagsJoined TagFormat = "joined"

	// TagsList renders tags as a JSON array literal (e.g. ["love","life"]).
	TagsList TagFormat = "list"
)

// ParseTagFormat validates a tag format name. An empty name selects TagsJoined.
func ParseTagFormat(s string) (TagFormat, error) {
	switch TagFormat(s) {
	case "", TagsJoined:
		return TagsJoined, nil
	case TagsList:
		return TagsList, nil
	default:
		return "", fmt.Errorf("unsupported tag format %q: use %s or %s", s, TagsJoined, TagsList)
	}
}
