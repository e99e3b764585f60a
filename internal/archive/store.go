// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps scrape runs in a SQLite database so that earlier
// results can be compared or exported after the CSV files are replaced.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/quotes-scraper/pkg/types"
)

// ErrNoRuns is returned by LatestRun on an empty archive.
var ErrNoRuns = errors.New("archive has no runs")

// Run is one archived scrape.
type Run struct {
	ID        int64             `json:"id" yaml:"id"`
	BaseURL   string            `json:"base_url" yaml:"base_url"`
	ScrapedAt time.Time         `json:"scraped_at" yaml:"scraped_at"`
	Pages     int               `json:"pages" yaml:"pages"`
	Stop      string            `json:"stop" yaml:"stop"`
	Truncated bool              `json:"truncated" yaml:"truncated"`
	Quotes    []types.Quote     `json:"quotes" yaml:"quotes"`
	Authors   []types.AuthorBio `json:"authors" yaml:"authors"`
}

// Store manages the archive SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("archive path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			base_url TEXT NOT NULL,
			scraped_at TEXT NOT NULL,
			pages INTEGER NOT NULL,
			stop TEXT NOT NULL,
			truncated INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS quotes (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			author TEXT NOT NULL,
			tags TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			biography TEXT NOT NULL,
			PRIMARY KEY (run_id, position),
			UNIQUE (run_id, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_author ON quotes(author)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores run in one transaction and returns its id. run.ID is ignored.
func (s *Store) SaveRun(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	scrapedAt := run.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (base_url, scraped_at, pages, stop, truncated) VALUES (?, ?, ?, ?, ?)`,
		run.BaseURL, scrapedAt.UTC().Format(time.RFC3339Nano), run.Pages, run.Stop, run.Truncated,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	quoteStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO quotes (run_id, position, text, author, tags) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing quote insert: %w", err)
	}
	defer quoteStmt.Close()

	for i, q := range run.Quotes {
		tags := q.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return 0, fmt.Errorf("encoding tags of quote %d: %w", i, err)
		}
		if _, err := quoteStmt.ExecContext(ctx, runID, i, q.Text, q.Author, string(tagsJSON)); err != nil {
			return 0, fmt.Errorf("inserting quote %d: %w", i, err)
		}
	}

	authorStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO authors (run_id, position, name, biography) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing author insert: %w", err)
	}
	defer authorStmt.Close()

	for i, a := range run.Authors {
		if _, err := authorStmt.ExecContext(ctx, runID, i, a.Author, a.Biography); err != nil {
			return 0, fmt.Errorf("inserting author %q: %w", a.Author, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the id of the most recent run.
func (s *Store) LatestRun(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoRuns
	}
	if err != nil {
		return 0, fmt.Errorf("querying latest run: %w", err)
	}
	return id, nil
}

// Load reads a complete run.
func (s *Store) Load(ctx context.Context, runID int64) (*Run, error) {
	run := &Run{ID: runID}
	var scrapedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT base_url, scraped_at, pages, stop, truncated FROM runs WHERE id = ?`, runID,
	).Scan(&run.BaseURL, &scrapedAt, &run.Pages, &run.Stop, &run.Truncated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", runID, err)
	}
	if t, parseErr := time.Parse(time.RFC3339Nano, scrapedAt); parseErr == nil {
		run.ScrapedAt = t
	}

	if run.Quotes, err = s.Quotes(ctx, runID); err != nil {
		return nil, err
	}
	if run.Authors, err = s.Authors(ctx, runID); err != nil {
		return nil, err
	}
	return run, nil
}

// Quotes returns the quotes of a run in scrape order.
func (s *Store) Quotes(ctx context.Context, runID int64) ([]types.Quote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text, author, tags FROM quotes WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying quotes: %w", err)
	}
	defer rows.Close()

	quotes := []types.Quote{}
	for rows.Next() {
		var q types.Quote
		var tagsJSON string
		if err := rows.Scan(&q.Text, &q.Author, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &q.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// Authors returns the authors of a run in first-seen order.
func (s *Store) Authors(ctx context.Context, runID int64) ([]types.AuthorBio, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, biography FROM authors WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying authors: %w", err)
	}
	defer rows.Close()

	authors := []types.AuthorBio{}
	for rows.Next() {
		var a types.AuthorBio
		if err := rows.Scan(&a.Author, &a.Biography); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}
