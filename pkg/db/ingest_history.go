package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// IngestRun represents one recorded statement ingestion.
type IngestRun struct {
	ID               int64
	RunID            string
	CompanyID        int64
	Filename         string
	TransactionCount int
	IngestedAt       time.Time
}

// IngestHistory manages the ingestion audit trail.
type IngestHistory struct {
	conn *Connection
}

// NewIngestHistory creates a new IngestHistory instance.
func NewIngestHistory(conn *Connection) *IngestHistory {
	return &IngestHistory{conn: conn}
}

// Record records an ingestion run.
func (h *IngestHistory) Record(ctx context.Context, run IngestRun) error {
	query := `
		INSERT INTO ingest_runs (run_id, company_id, filename, transaction_count)
		VALUES (?, ?, ?, ?)
	`

	_, err := h.conn.Exec(ctx, query,
		run.RunID,
		run.CompanyID,
		run.Filename,
		run.TransactionCount,
	)

	if err != nil {
		return fmt.Errorf("failed to record ingest run: %w", err)
	}

	return nil
}

// ByCompany retrieves a company's ingestion runs, most recent first.
func (h *IngestHistory) ByCompany(ctx context.Context, companyID int64) ([]IngestRun, error) {
	query := `
		SELECT id, run_id, company_id, filename, transaction_count, ingested_at
		FROM ingest_runs
		WHERE company_id = ?
		ORDER BY ingested_at DESC, id DESC
	`

	rows, err := h.conn.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []IngestRun
	for rows.Next() {
		var run IngestRun
		if err := rows.Scan(
			&run.ID,
			&run.RunID,
			&run.CompanyID,
			&run.Filename,
			&run.TransactionCount,
			&run.IngestedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ingest run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// LastIngest retrieves the timestamp of the most recent ingestion,
// or an invalid NullString when nothing has been ingested yet.
func (h *IngestHistory) LastIngest(ctx context.Context) (sql.NullString, error) {
	var last sql.NullString
	err := h.conn.QueryRow(ctx, `SELECT MAX(ingested_at) FROM ingest_runs`).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return last, fmt.Errorf("failed to get last ingest time: %w", err)
	}
	return last, nil
}
