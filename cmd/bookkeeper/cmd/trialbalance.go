package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgerworks/bookkeeper/internal/books"
	"github.com/ledgerworks/bookkeeper/pkg/config"
)

var (
	tbCompany string
	tbPeriod  string
)

// trialBalanceCmd represents the trial-balance command.
var trialBalanceCmd = &cobra.Command{
	Use:   "trial-balance",
	Short: "Print a trial balance",
	Long: `Print a company's trial balance.

Accounts with a net debit balance appear in the Debit column and
credit balances in the Credit column, followed by a TOTAL row and,
when the books do not balance, a DIFFERENCE row.

Example:
  bookkeeper trial-balance --company "Acme"
  bookkeeper trial-balance --company "Acme" --period 03/2024`,
	Run: runTrialBalance,
}

func init() {
	// Flags
	trialBalanceCmd.Flags().StringVar(&tbCompany, "company", "", "Company name (required)")
	trialBalanceCmd.Flags().StringVar(&tbPeriod, "period", books.PeriodAll, "Period as MM/YYYY, or \"all\"")

	trialBalanceCmd.MarkFlagRequired("company")
}

func runTrialBalance(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("dbPath"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	svc, conn := openService(cfg)
	defer conn.Close()

	ctx := cmd.Context()
	companyID := resolveCompanyByName(ctx, svc, tbCompany)

	rows, err := svc.TrialBalance(ctx, companyID, tbPeriod)
	exitOnError(err, "failed to build trial balance")

	fmt.Printf("\n=== Trial Balance: %s (%s) ===\n", tbCompany, tbPeriod)
	fmt.Printf("%-40s %12s %12s\n", "Head of Accounts", "Debit", "Credit")
	for _, row := range rows {
		fmt.Printf("%-40s %12.2f %12.2f\n", row.HeadOfAccount, row.Debit, row.Credit)
	}
	fmt.Println()

	slog.Info("Trial balance displayed", "period", tbPeriod, "rows", len(rows))
}
