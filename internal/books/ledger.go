package books

import (
	"time"

	"github.com/ledgerworks/bookkeeper/internal/models"
)

// BuildLedger computes the running balance view over ordered transactions.
// The balance starts at zero and accumulates debit minus credit; each entry
// reports the post-row balance. AgeDays is the number of calendar days from
// the transaction date to today, so it changes from day to day.
func BuildLedger(txns []models.Transaction, today time.Time) []models.LedgerEntry {
	entries := make([]models.LedgerEntry, 0, len(txns))

	todayDate := truncateToDate(today)
	balance := 0.0

	for _, t := range txns {
		balance += t.Debit - t.Credit

		age := int(todayDate.Sub(truncateToDate(t.Date)).Hours() / 24)

		entries = append(entries, models.LedgerEntry{
			Date:        t.Date,
			Description: t.Description,
			Reference:   t.Reference,
			Debit:       t.Debit,
			Credit:      t.Credit,
			Balance:     balance,
			AgeDays:     age,
		})
	}

	return entries
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
