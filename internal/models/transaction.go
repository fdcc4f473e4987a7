package models

import "time"

// DateLayout is the storage format for transaction dates.
const DateLayout = "2006-01-02"

// Transaction represents a single bookkeeping entry.
// Debit and credit are independent non-negative amounts; a row may carry
// both, and netting happens only in the aggregators.
type Transaction struct {
	ID            int64     `json:"id"`
	CompanyID     int64     `json:"company_id"`
	Date          time.Time `json:"date"`
	HeadOfAccount string    `json:"head_of_account"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Reference     string    `json:"reference"`
	Debit         float64   `json:"debit"`
	Credit        float64   `json:"credit"`
	CreatedAt     time.Time `json:"created_at"`
}

// IngestResult reports the outcome of a statement ingestion.
type IngestResult struct {
	RunID            string `json:"run_id"`
	CompanyID        int64  `json:"company_id"`
	CompanyName      string `json:"company_name"`
	TransactionCount int    `json:"transaction_count"`
}

// Stats holds storage-wide totals for the stats command.
type Stats struct {
	Companies    int64  `json:"companies"`
	Transactions int64  `json:"transactions"`
	Files        int64  `json:"files"`
	LastIngest   string `json:"last_ingest,omitempty"`
}
