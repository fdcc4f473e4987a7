package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerworks/bookkeeper/internal/books"
	"github.com/ledgerworks/bookkeeper/pkg/config"
)

var (
	ingestFile     string
	ingestCompany  string
	ingestPassword string
)

// ingestCmd represents the ingest command.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest an Excel statement file",
	Long: `Ingest an Excel statement file for a company.

This command:
1. Parses the statement (.xlsx or .xls)
2. Normalizes account name casing
3. Replaces the company's previous transactions and stored file

Re-ingesting the same file for a company is idempotent.

Example:
  bookkeeper ingest --file statements/acme-2024.xlsx --company "Acme"
  bookkeeper ingest --file q1.xls --company "Acme" --password secret`,
	Run: runIngest,
}

func init() {
	// Flags
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "Statement file path (required)")
	ingestCmd.Flags().StringVar(&ingestCompany, "company", "", "Company name (defaults to file name)")
	ingestCmd.Flags().StringVar(&ingestPassword, "password", "", "Password protecting later statement downloads")

	ingestCmd.MarkFlagRequired("file")
}

func runIngest(cmd *cobra.Command, args []string) {
	slog.Info("Starting ingest", "file", ingestFile, "company", ingestCompany)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("dbPath"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	data, err := os.ReadFile(ingestFile)
	exitOnError(err, "failed to read statement file")

	svc, conn := openService(cfg)
	defer conn.Close()

	result, err := svc.Ingest(cmd.Context(), books.IngestInput{
		CompanyName:  ingestCompany,
		Filename:     filepath.Base(ingestFile),
		Data:         data,
		FilePassword: ingestPassword,
	})
	exitOnError(err, "failed to ingest statement")

	fmt.Printf("Ingested %d transactions for %s (run %s)\n",
		result.TransactionCount, result.CompanyName, result.RunID)

	slog.Info("Ingest completed",
		"company", result.CompanyName,
		"transactions", result.TransactionCount,
		"run_id", result.RunID,
	)
}
