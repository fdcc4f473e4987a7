package models

import "time"

// LedgerEntry is one row of the general ledger for a single account,
// carrying the running balance as of that row.
type LedgerEntry struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Reference   string    `json:"reference"`
	Debit       float64   `json:"debit"`
	Credit      float64   `json:"credit"`
	Balance     float64   `json:"balance"`
	AgeDays     int       `json:"age_days"`
}

// CategoryRow is one account's totals within the category report.
type CategoryRow struct {
	HeadOfAccount string  `json:"head_of_account"`
	Debit         float64 `json:"debit"`
	Credit        float64 `json:"credit"`
	Balance       float64 `json:"balance"`
}

// TrialBalanceRow is one line of the trial balance. An account's net
// balance appears entirely in one column; the closing TOTAL row and the
// conditional DIFFERENCE row are marked by the flags.
type TrialBalanceRow struct {
	HeadOfAccount string  `json:"head_of_account"`
	Debit         float64 `json:"debit"`
	Credit        float64 `json:"credit"`
	IsTotal       bool    `json:"is_total,omitempty"`
	IsDifference  bool    `json:"is_difference,omitempty"`
}

// AccountSum holds per-account debit/credit totals produced by the
// grouping queries that feed the category and trial-balance reports.
type AccountSum struct {
	HeadOfAccount string
	Debit         float64
	Credit        float64
}
