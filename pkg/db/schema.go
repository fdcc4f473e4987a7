// Package db provides SQLite database management for companies, transactions
// and uploaded statement files.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Companies table
-- One row per company; created on first statement upload
CREATE TABLE IF NOT EXISTS companies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Transactions table
-- The normalized rows of the most recent statement upload per company;
-- wholly replaced on re-upload
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
    date TEXT NOT NULL,                -- YYYY-MM-DD
    head_of_account TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    reference TEXT NOT NULL DEFAULT '',
    debit REAL NOT NULL DEFAULT 0,
    credit REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transactions_company_account
    ON transactions(company_id, head_of_account COLLATE NOCASE);

CREATE INDEX IF NOT EXISTS idx_transactions_company_date
    ON transactions(company_id, date);

CREATE INDEX IF NOT EXISTS idx_transactions_company_category
    ON transactions(company_id, category);

-- Statement files table
-- Raw bytes of the uploaded spreadsheet, kept for re-download only;
-- at most one per company
CREATE TABLE IF NOT EXISTS statement_files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    company_id INTEGER NOT NULL UNIQUE REFERENCES companies(id) ON DELETE CASCADE,
    filename TEXT NOT NULL,
    content_type TEXT NOT NULL,
    data BLOB NOT NULL,
    password_hash TEXT,                -- bcrypt hash; NULL means no password
    uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Ingest runs table
-- Audit trail of statement ingestions; rows survive re-uploads
CREATE TABLE IF NOT EXISTS ingest_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL UNIQUE,
    company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
    filename TEXT NOT NULL,
    transaction_count INTEGER NOT NULL,
    ingested_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_ingest_runs_company
    ON ingest_runs(company_id, ingested_at);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.db.Exec(Schema); err != nil {
		return err
	}
	return nil
}
