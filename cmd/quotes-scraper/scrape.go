// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/quotes-scraper/internal/archive"
	"github.com/pdiddy/quotes-scraper/internal/bio"
	"github.com/pdiddy/quotes-scraper/internal/csvout"
	"github.com/pdiddy/quotes-scraper/internal/fetch"
	"github.com/pdiddy/quotes-scraper/internal/scrape"
	"github.com/pdiddy/quotes-scraper/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "quotes-scraper/0.1"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch every listing page and write quotes (and authors) CSV files",
	Long: `Scrape fetches listing pages {base-url}page/1/, page/2/, ... until a page
is not found or contains no quotes. With --bios (the default) each author's
detail page is fetched once and the biographies are written to the authors
CSV; a biography that cannot be retrieved is recorded as
"Biography not available.".

Tags are flattened into one CSV field: "joined" separates them with ", ",
"list" writes a JSON array such as ["love","life"].`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("base-url", types.DefaultBaseURL, "site root serving page/{n}/ listings")
	scrapeCmd.Flags().String("quotes-out", "quotes.csv", "quotes CSV output path")
	scrapeCmd.Flags().String("authors-out", "authors.csv", "authors CSV output path (empty to skip)")
	scrapeCmd.Flags().Bool("bios", true, "resolve author biographies")
	scrapeCmd.Flags().String("tag-format", string(types.TagsJoined), "tag flattening: joined or list")
	scrapeCmd.Flags().Int("max-pages", scrape.DefaultMaxPages, "stop after this many listing pages")
	scrapeCmd.Flags().Duration("timeout", defaultTimeout, "per-request HTTP timeout")
	scrapeCmd.Flags().String("user-agent", defaultUserAgent, "User-Agent header")
	scrapeCmd.Flags().String("db", "", "SQLite archive to record the run in (optional)")

	rootCmd.AddCommand(scrapeCmd)
}

func scrapeConfig() (types.ScrapeConfig, types.OutputConfig, types.ArchiveConfig, error) {
	tagFormat, err := types.ParseTagFormat(viper.GetString("tag_format"))
	if err != nil {
		return types.ScrapeConfig{}, types.OutputConfig{}, types.ArchiveConfig{}, err
	}
	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cfg := types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: viper.GetString("user_agent"),
		},
		BaseURL:           viper.GetString("base_url"),
		MaxPages:          viper.GetInt("max_pages"),
		EnrichBiographies: viper.GetBool("bios"),
	}
	out := types.OutputConfig{
		QuotesPath:  viper.GetString("quotes_out"),
		AuthorsPath: viper.GetString("authors_out"),
		TagFormat:   tagFormat,
	}
	if out.QuotesPath == "" {
		return cfg, out, types.ArchiveConfig{}, fmt.Errorf("--quotes-out must not be empty")
	}
	return cfg, out, types.ArchiveConfig{Path: viper.GetString("db")}, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	if err := bindLocalFlags(cmd); err != nil {
		return err
	}
	cfg, out, arch, err := scrapeConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client := &http.Client{
		Timeout: cfg.Timeout,
	}
	fetcher, err := fetch.New(client, cfg.HTTPConfig, cfg.BaseURL, logger)
	if err != nil {
		return err
	}

	var resolver scrape.BioResolver
	if cfg.EnrichBiographies {
		resolver = bio.NewResolver(fetcher, bio.NewCache(), logger)
	}

	logger.Info("starting scrape", "base_url", fetcher.BaseURL(), "bios", cfg.EnrichBiographies, "max_pages", cfg.MaxPages)
	started := time.Now()
	res, err := scrape.New(fetcher, resolver, cfg, logger).Run(ctx)
	if err != nil {
		return err
	}

	if err := csvout.WriteQuotesFile(out.QuotesPath, res.Quotes, out.TagFormat); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %d quotes to %s\n", len(res.Quotes), out.QuotesPath)

	if cfg.EnrichBiographies && out.AuthorsPath != "" {
		if err := csvout.WriteAuthorsFile(out.AuthorsPath, res.Authors); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "wrote %d authors to %s\n", len(res.Authors), out.AuthorsPath)
	}

	if arch.Path != "" {
		runID, err := archiveRun(cmd, arch, fetcher.BaseURL(), started, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "archived run %d in %s\n", runID, arch.Path)
	}

	if res.Truncated {
		fmt.Fprintf(os.Stderr, "warning: stopped at the %d-page limit; output may be incomplete\n", res.Pages)
	}
	return nil
}

func archiveRun(cmd *cobra.Command, cfg types.ArchiveConfig, baseURL string, started time.Time, res *scrape.Result) (int64, error) {
	store, err := archive.Open(cfg)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	return store.SaveRun(cmd.Context(), archive.Run{
		BaseURL:   baseURL,
		ScrapedAt: started,
		Pages:     res.Pages,
		Stop:      string(res.Stop),
		Truncated: res.Truncated,
		Quotes:    res.Quotes,
		Authors:   res.Authors,
	})
}
