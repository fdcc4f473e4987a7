package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgerworks/bookkeeper/internal/models"
	"github.com/ledgerworks/bookkeeper/pkg/config"
)

var (
	ledgerCompany string
	ledgerAccount string
)

// ledgerCmd represents the ledger command.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print an account ledger",
	Long: `Print a company's ledger for one account.

Entries are ordered by date with a running balance and the age of
each entry in days.

Example:
  bookkeeper ledger --company "Acme" --account Cash`,
	Run: runLedger,
}

func init() {
	// Flags
	ledgerCmd.Flags().StringVar(&ledgerCompany, "company", "", "Company name (required)")
	ledgerCmd.Flags().StringVar(&ledgerAccount, "account", "", "Head of account (required)")

	ledgerCmd.MarkFlagRequired("company")
	ledgerCmd.MarkFlagRequired("account")
}

func runLedger(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("dbPath"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	svc, conn := openService(cfg)
	defer conn.Close()

	ctx := cmd.Context()
	companyID := resolveCompanyByName(ctx, svc, ledgerCompany)

	entries, err := svc.Ledger(ctx, companyID, ledgerAccount)
	exitOnError(err, "failed to build ledger")

	if len(entries) == 0 {
		fmt.Printf("No entries for account %q\n", ledgerAccount)
		return
	}

	fmt.Printf("\n=== Ledger: %s / %s ===\n", ledgerCompany, ledgerAccount)
	fmt.Printf("%-12s %-30s %-12s %10s %10s %12s %6s\n",
		"Date", "Description", "Ref", "Debit", "Credit", "Balance", "Age")
	for _, e := range entries {
		fmt.Printf("%-12s %-30s %-12s %10.2f %10.2f %12.2f %6d\n",
			e.Date.Format(models.DateLayout), e.Description, e.Reference,
			e.Debit, e.Credit, e.Balance, e.AgeDays)
	}
	fmt.Println()

	slog.Info("Ledger displayed", "account", ledgerAccount, "entries", len(entries))
}
