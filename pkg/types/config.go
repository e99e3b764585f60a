package types

import "time"

// DefaultBaseURL is the site the scraper targets when no base URL is configured.
const DefaultBaseURL = "https://quotes.toscrape.com/"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds each HTTP request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "quotes-scraper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScrapeConfig holds settings for the pagination run.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the site root. Listing pages live at {BaseURL}page/{n}/.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// MaxPages is the page-count safety ceiling (default 1000).
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// EnrichBiographies turns on author biography resolution. When set,
	// every quote block must carry an author detail link.
	EnrichBiographies bool `json:"enrich_biographies" yaml:"enrich_biographies"`
}

// OutputConfig holds settings for the CSV writers.
type OutputConfig struct {
	// QuotesPath is the quotes CSV destination (e.g. "quotes.csv").
	QuotesPath string `json:"quotes_path" yaml:"quotes_path"`

	// AuthorsPath is the authors CSV destination. Empty disables the file.
	AuthorsPath string `json:"authors_path" yaml:"authors_path"`

	// TagFormat selects the tag flattening convention: joined or list.
	TagFormat TagFormat `json:"tag_format" yaml:"tag_format"`
}

// ArchiveConfig holds settings for the optional SQLite run archive.
type ArchiveConfig struct {
	// Path is the SQLite database file. Empty disables archiving.
	Path string `json:"path" yaml:"path"`
}
