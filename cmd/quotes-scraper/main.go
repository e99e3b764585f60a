// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the quotes-scraper CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/quotes-scraper/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the global logging flags before any subcommand runs.
var logger = slog.Default()

// rootCmd is the base command for the quotes-scraper CLI.
var rootCmd = &cobra.Command{
	Use:   "quotes-scraper",
	Short: "Scrape quotes and author biographies into CSV files",
	Long: `quotes-scraper walks the paginated listing pages of a quotes site,
extracts every quote with its author and tags, optionally resolves each
author's biography from the author's detail page, and writes the results
to CSV files.

Settings come from flags, QUOTES_SCRAPER_* environment variables, or a
YAML config file, in that order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logging.Config{
			Level:   viper.GetString("log_level"),
			Format:  viper.GetString("log_format"),
			Version: version,
		}, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./quotes-scraper.yaml or ~/.config/quotes-scraper/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("quotes-scraper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "quotes-scraper"))
		}
	}

	viper.SetEnvPrefix("QUOTES_SCRAPER")
	viper.AutomaticEnv()

	readConfig(viper.GetViper(), os.Stderr)
}

// readConfig loads the configured file into v. A missing default config
// file is silent; any other failure, such as malformed YAML, is reported
// on w and the run continues with flags and environment.
func readConfig(v *viper.Viper, w io.Writer) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(w, "warning: reading config file:", err)
		}
	}
}

// bindLocalFlags binds the running command's own flags to viper keys
// (dashes become underscores). Subcommands share key names such as "db",
// so binding happens only for the command being executed.
func bindLocalFlags(cmd *cobra.Command) error {
	var bindErr error
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		bindErr = viper.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	return bindErr
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
