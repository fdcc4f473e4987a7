// Package store persists companies, transactions and statement files in
// SQLite, and runs the grouping queries that feed the report aggregators.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerworks/bookkeeper/internal/models"
	"github.com/ledgerworks/bookkeeper/pkg/db"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// Store wraps the database connection with bookkeeping operations.
type Store struct {
	conn    *db.Connection
	ingests *db.IngestHistory
}

// New creates a new Store over an open connection.
func New(conn *db.Connection) *Store {
	return &Store{
		conn:    conn,
		ingests: db.NewIngestHistory(conn),
	}
}

// RecordIngestRun records a completed statement ingestion.
func (s *Store) RecordIngestRun(ctx context.Context, run db.IngestRun) error {
	return s.ingests.Record(ctx, run)
}

// IngestRuns returns a company's ingestion history, most recent first.
func (s *Store) IngestRuns(ctx context.Context, companyID int64) ([]db.IngestRun, error) {
	return s.ingests.ByCompany(ctx, companyID)
}

// Stats returns storage-wide totals.
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM companies", &stats.Companies},
		{"SELECT COUNT(*) FROM transactions", &stats.Transactions},
		{"SELECT COUNT(*) FROM statement_files", &stats.Files},
	}

	for _, c := range counts {
		if err := s.conn.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			return models.Stats{}, fmt.Errorf("failed to get stats: %w", err)
		}
	}

	last, err := s.ingests.LastIngest(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	if last.Valid {
		stats.LastIngest = last.String
	}

	return stats, nil
}
