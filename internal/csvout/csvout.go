// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package csvout serializes scraped quotes and author biographies as CSV.
package csvout

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/quotes-scraper/pkg/types"
)

// tagSeparator joins tags in the TagsJoined format.
const tagSeparator = ", "

var (
	quotesHeader  = []string{"Text", "Author", "Tags"}
	authorsHeader = []string{"Author", "Biography"}
)

// WriteQuotes writes the quotes header and one row per quote, in order.
func WriteQuotes(w io.Writer, quotes []types.Quote, format types.TagFormat) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(quotesHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, q := range quotes {
		tags, err := JoinTags(q.Tags, format)
		if err != nil {
			return fmt.Errorf("quote %d: %w", i, err)
		}
		if err := cw.Write([]string{q.Text, q.Author, tags}); err != nil {
			return fmt.Errorf("writing quote %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAuthors writes the authors header and one row per author, in order.
func WriteAuthors(w io.Writer, authors []types.AuthorBio) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(authorsHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range authors {
		if err := cw.Write([]string{a.Author, a.Biography}); err != nil {
			return fmt.Errorf("writing author %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteQuotesFile writes quotes to path. The file appears only once it is
// completely written.
func WriteQuotesFile(path string, quotes []types.Quote, format types.TagFormat) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteQuotes(w, quotes, format)
	})
}

// WriteAuthorsFile writes authors to path. The file appears only once it
// is completely written.
func WriteAuthorsFile(path string, authors []types.AuthorBio) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteAuthors(w, authors)
	})
}

// writeFile writes through a temporary file in the destination directory
// and renames it over path on success.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".csvout-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writeErr := write(tmpFile)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// JoinTags flattens tags into one field.
//
// TagsJoined separates tags with ", ". Tags that themselves contain ", "
// do not survive SplitTags; the site's tags are single words.
// TagsList renders a JSON array, which round-trips any tag.
func JoinTags(tags []string, format types.TagFormat) (string, error) {
	switch format {
	case "", types.TagsJoined:
		return strings.Join(tags, tagSeparator), nil
	case types.TagsList:
		if tags == nil {
			tags = []string{}
		}
		data, err := json.Marshal(tags)
		if err != nil {
			return "", fmt.Errorf("encoding tags: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported tag format %q", format)
	}
}

// SplitTags reverses JoinTags.
func SplitTags(field string, format types.TagFormat) ([]string, error) {
	switch format {
	case "", types.TagsJoined:
		if field == "" {
			return []string{}, nil
		}
		return strings.Split(field, tagSeparator), nil
	case types.TagsList:
		tags := []string{}
		if err := json.Unmarshal([]byte(field), &tags); err != nil {
			return nil, fmt.Errorf("decoding tags %q: %w", field, err)
		}
		return tags, nil
	default:
		return nil, fmt.Errorf("unsupported tag format %q", format)
	}
}

// ReadQuotes parses a quotes CSV produced by WriteQuotes.
func ReadQuotes(r io.Reader, format types.TagFormat) ([]types.Quote, error) {
	records, err := readAll(r, quotesHeader)
	if err != nil {
		return nil, err
	}
	quotes := make([]types.Quote, 0, len(records))
	for i, rec := range records {
		tags, err := SplitTags(rec[2], format)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		quotes = append(quotes, types.Quote{Text: rec[0], Author: rec[1], Tags: tags})
	}
	return quotes, nil
}

// ReadAuthors parses an authors CSV produced by WriteAuthors.
func ReadAuthors(r io.Reader) ([]types.AuthorBio, error) {
	records, err := readAll(r, authorsHeader)
	if err != nil {
		return nil, err
	}
	authors := make([]types.AuthorBio, 0, len(records))
	for _, rec := range records {
		authors = append(authors, types.AuthorBio{Author: rec[0], Biography: rec[1]})
	}
	return authors, nil
}

func readAll(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading CSV: missing header")
	}
	for i, h := range header {
		if records[0][i] != h {
			return nil, fmt.Errorf("reading CSV: header column %d is %q, want %q", i, records[0][i], h)
		}
	}
	return records[1:], nil
}
