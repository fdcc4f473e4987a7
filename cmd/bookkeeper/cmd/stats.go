package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgerworks/bookkeeper/pkg/config"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display bookkeeping statistics",
	Long: `Display statistics about stored companies and transactions.

Shows:
- Total number of companies
- Total number of transactions
- Total number of stored statement files
- Timestamp of the most recent ingestion

Example:
  bookkeeper stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("dbPath"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	svc, conn := openService(cfg)
	defer conn.Close()

	stats, err := svc.Stats(cmd.Context())
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== Bookkeeping Statistics ===")
	fmt.Printf("Companies:       %d\n", stats.Companies)
	fmt.Printf("Transactions:    %d\n", stats.Transactions)
	fmt.Printf("Statement files: %d\n", stats.Files)
	if stats.LastIngest != "" {
		fmt.Printf("Last ingest:     %s\n", stats.LastIngest)
	} else {
		fmt.Printf("Last ingest:     (never)\n")
	}
	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
