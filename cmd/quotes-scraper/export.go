// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/quotes-scraper/internal/archive"
	"github.com/pdiddy/quotes-scraper/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an archived run to YAML or JSON",
	Long: `Export reads one run from the SQLite archive written by "scrape --db"
and writes its quotes and author biographies to a YAML or JSON file.
Without --run the most recent run is exported.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("db", "", "SQLite archive written by scrape --db")
	exportCmd.Flags().Int64("run", 0, "run id to export (0 = latest)")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("out", "", "output path (default: run-<id>.<format>)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := bindLocalFlags(cmd); err != nil {
		return err
	}
	dbPath := viper.GetString("db")
	if dbPath == "" {
		return fmt.Errorf("--db is required")
	}
	format := archive.Format(viper.GetString("format"))
	if format != archive.FormatYAML && format != archive.FormatJSON {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	store, err := archive.Open(types.ArchiveConfig{Path: dbPath})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	runID := viper.GetInt64("run")
	if runID == 0 {
		runID, err = store.LatestRun(ctx)
		if errors.Is(err, archive.ErrNoRuns) {
			return fmt.Errorf("%s: %w", dbPath, err)
		}
		if err != nil {
			return err
		}
	}

	out := viper.GetString("out")
	if out == "" {
		out = fmt.Sprintf("run-%d.%s", runID, format)
	}
	if err := store.Export(ctx, runID, format, out); err != nil {
		return err
	}
	fmt.Printf("Exported run %d to %s\n", runID, out)
	return nil
}
