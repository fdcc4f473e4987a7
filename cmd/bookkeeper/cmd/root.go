// Package cmd provides CLI commands for bookkeeper.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerworks/bookkeeper/internal/books"
	"github.com/ledgerworks/bookkeeper/internal/spreadsheet"
	"github.com/ledgerworks/bookkeeper/internal/store"
	"github.com/ledgerworks/bookkeeper/pkg/config"
	"github.com/ledgerworks/bookkeeper/pkg/db"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bookkeeper",
	Short: "Generate bookkeeping reports from Excel statements",
	Long: `bookkeeper ingests Excel transaction statements and derives
standard bookkeeping reports from them.

It supports:
- Ingesting .xlsx and .xls statement files per company
- Account ledgers with running balance and entry age
- Category reports and trial balances
- Serving the reports over a JSON API

Example:
  bookkeeper ingest --file statements/acme-2024.xlsx --company "Acme"
  bookkeeper ledger --company "Acme" --account Cash
  bookkeeper serve`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(trialBalanceCmd)
	rootCmd.AddCommand(statsCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}

// openService loads configuration, opens the database and wires up the
// book service. The caller must close the returned connection.
func openService(cfg *config.Config) (*books.Service, *db.Connection) {
	slog.Debug("Opening database", "path", cfg.Books.DBPath)
	conn, err := db.Open(cfg.Books.DBPath)
	exitOnError(err, "failed to open database")

	var columnMap *spreadsheet.ColumnMap
	if cfg.Books.ColumnMapPath != "" {
		columnMap, err = spreadsheet.LoadColumnMap(cfg.Books.ColumnMapPath)
		exitOnError(err, "failed to load column map")
	}

	return books.NewService(store.New(conn), columnMap), conn
}

// resolveCompanyByName looks up a company for CLI report commands.
func resolveCompanyByName(ctx context.Context, svc *books.Service, name string) int64 {
	company, err := svc.GetCompanyByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		exitOnError(fmt.Errorf("no company named %q", name), "unknown company")
	}
	exitOnError(err, "failed to look up company")
	return company.ID
}
