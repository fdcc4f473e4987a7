package books

import (
	"errors"
	"time"

	"github.com/ledgerworks/bookkeeper/internal/models"
)

// PeriodAll selects every transaction regardless of date.
const PeriodAll = "all"

// ErrInvalidPeriod is returned when a period string is neither "all" nor
// "MM/YYYY".
var ErrInvalidPeriod = errors.New(`invalid period, expected "MM/YYYY" or "all"`)

// Row labels for the closing lines of the trial balance.
const (
	RowTotal      = "TOTAL"
	RowDifference = "DIFFERENCE"
)

// ParsePeriod parses a trial-balance period selector. An empty string or
// PeriodAll means unfiltered.
func ParsePeriod(period string) (time.Month, int, bool, error) {
	if period == "" || period == PeriodAll {
		return 0, 0, false, nil
	}

	t, err := time.Parse("01/2006", period)
	if err != nil {
		return 0, 0, false, ErrInvalidPeriod
	}

	return t.Month(), t.Year(), true, nil
}

// BuildTrialBalance turns per-account totals into trial-balance rows. Each
// account's net balance lands entirely in one column: debit when positive,
// credit when negative. Zero balances are dropped. A TOTAL row closes the
// report, and a DIFFERENCE row follows whenever the two columns disagree,
// carrying the positive excess under the heavier column as a diagnostic of
// unbalanced entries.
func BuildTrialBalance(sums []models.AccountSum) []models.TrialBalanceRow {
	rows := make([]models.TrialBalanceRow, 0, len(sums)+2)

	totalDebit := 0.0
	totalCredit := 0.0

	for _, sum := range sums {
		balance := sum.Debit - sum.Credit
		if balance == 0 {
			continue
		}

		row := models.TrialBalanceRow{HeadOfAccount: sum.HeadOfAccount}
		if balance > 0 {
			row.Debit = balance
		} else {
			row.Credit = -balance
		}

		totalDebit += row.Debit
		totalCredit += row.Credit
		rows = append(rows, row)
	}

	rows = append(rows, models.TrialBalanceRow{
		HeadOfAccount: RowTotal,
		Debit:         totalDebit,
		Credit:        totalCredit,
		IsTotal:       true,
	})

	if diff := totalDebit - totalCredit; diff != 0 {
		row := models.TrialBalanceRow{HeadOfAccount: RowDifference, IsDifference: true}
		if diff > 0 {
			row.Debit = diff
		} else {
			row.Credit = -diff
		}
		rows = append(rows, row)
	}

	return rows
}
