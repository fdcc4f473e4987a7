package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ledgerworks/bookkeeper/internal/models"
)

// ReplaceCompanyData atomically replaces a company's entire record set with
// a freshly parsed statement. For an existing company name it deletes all
// prior transactions and the stored statement file before inserting the new
// ones; for a new name it creates the company first. Any failure rolls the
// whole operation back, leaving prior state untouched.
func (s *Store) ReplaceCompanyData(ctx context.Context, companyName string, file models.StatementFile, txns []models.Transaction) (int64, error) {
	var companyID int64

	err := s.conn.Transaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, "SELECT id FROM companies WHERE name = ?", companyName).Scan(&companyID)
		switch {
		case err == sql.ErrNoRows:
			res, err := tx.ExecContext(ctx, "INSERT INTO companies (name) VALUES (?)", companyName)
			if err != nil {
				return fmt.Errorf("failed to create company: %w", err)
			}
			companyID, err = res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get company id: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up company: %w", err)
		default:
			if _, err := tx.ExecContext(ctx,
				"UPDATE companies SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", companyID); err != nil {
				return fmt.Errorf("failed to touch company: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE company_id = ?", companyID); err != nil {
			return fmt.Errorf("failed to delete prior transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM statement_files WHERE company_id = ?", companyID); err != nil {
			return fmt.Errorf("failed to delete prior statement file: %w", err)
		}

		var passwordHash interface{}
		if file.PasswordHash != "" {
			passwordHash = file.PasswordHash
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO statement_files (company_id, filename, content_type, data, password_hash)
			VALUES (?, ?, ?, ?, ?)
		`, companyID, file.Filename, file.ContentType, file.Data, passwordHash); err != nil {
			return fmt.Errorf("failed to store statement file: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO transactions (company_id, date, head_of_account, category, description, reference, debit, credit)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare transaction insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range txns {
			if _, err := stmt.ExecContext(ctx,
				companyID,
				t.Date.Format(models.DateLayout),
				t.HeadOfAccount,
				t.Category,
				t.Description,
				t.Reference,
				t.Debit,
				t.Credit,
			); err != nil {
				return fmt.Errorf("failed to insert transaction: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return companyID, nil
}

// LedgerRows returns a company's transactions whose head-of-account matches
// case-insensitively, ordered by date then insertion order.
func (s *Store) LedgerRows(ctx context.Context, companyID int64, account string) ([]models.Transaction, error) {
	query := `
		SELECT id, company_id, date, head_of_account, category, description, reference, debit, credit, created_at
		FROM transactions
		WHERE company_id = ? AND upper(head_of_account) = upper(?)
		ORDER BY date, id
	`

	rows, err := s.conn.Query(ctx, query, companyID, account)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger rows: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// CategoryAccounts returns the distinct head-of-account names appearing in
// the given category, sorted ascending.
func (s *Store) CategoryAccounts(ctx context.Context, companyID int64, category string) ([]string, error) {
	query := `
		SELECT DISTINCT head_of_account
		FROM transactions
		WHERE company_id = ? AND category = ? AND head_of_account != ''
		ORDER BY head_of_account
	`

	rows, err := s.conn.Query(ctx, query, companyID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query category accounts: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// AccountTotals sums an account's debits and credits across the whole
// company, matching the head-of-account exactly.
func (s *Store) AccountTotals(ctx context.Context, companyID int64, head string) (models.AccountSum, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM transactions
		WHERE company_id = ? AND head_of_account = ?
	`

	sum := models.AccountSum{HeadOfAccount: head}
	if err := s.conn.QueryRow(ctx, query, companyID, head).Scan(&sum.Debit, &sum.Credit); err != nil {
		return models.AccountSum{}, fmt.Errorf("failed to query account totals: %w", err)
	}

	return sum, nil
}

// AccountSums returns per-account debit/credit totals for the company,
// ordered by account name. When filtered is true only transactions dated in
// the given month and year are counted.
func (s *Store) AccountSums(ctx context.Context, companyID int64, month time.Month, year int, filtered bool) ([]models.AccountSum, error) {
	query := `
		SELECT head_of_account, COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM transactions
		WHERE company_id = ? AND head_of_account != ''
	`
	args := []interface{}{companyID}

	if filtered {
		query += ` AND substr(date, 1, 4) = ? AND substr(date, 6, 2) = ?`
		args = append(args, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", int(month)))
	}

	query += `
		GROUP BY head_of_account
		ORDER BY head_of_account
	`

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query account sums: %w", err)
	}
	defer rows.Close()

	sums := []models.AccountSum{}
	for rows.Next() {
		var sum models.AccountSum
		if err := rows.Scan(&sum.HeadOfAccount, &sum.Debit, &sum.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan account sum: %w", err)
		}
		sums = append(sums, sum)
	}

	return sums, rows.Err()
}

// DistinctAccounts returns the company's head-of-account names deduplicated
// case-insensitively, ordered case-insensitively.
func (s *Store) DistinctAccounts(ctx context.Context, companyID int64) ([]string, error) {
	query := `
		SELECT min(head_of_account)
		FROM transactions
		WHERE company_id = ? AND head_of_account != ''
		GROUP BY upper(head_of_account)
		ORDER BY upper(head_of_account)
	`

	rows, err := s.conn.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct accounts: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// DistinctCategories returns the company's non-empty categories ascending.
func (s *Store) DistinctCategories(ctx context.Context, companyID int64) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM transactions
		WHERE company_id = ? AND category != ''
		ORDER BY category
	`

	rows, err := s.conn.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct categories: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// DistinctPeriods returns the company's transaction months as "MM/YYYY"
// strings in chronological order.
func (s *Store) DistinctPeriods(ctx context.Context, companyID int64) ([]string, error) {
	query := `
		SELECT DISTINCT substr(date, 1, 7)
		FROM transactions
		WHERE company_id = ?
		ORDER BY substr(date, 1, 7)
	`

	rows, err := s.conn.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct periods: %w", err)
	}
	defer rows.Close()

	months, err := scanStrings(rows)
	if err != nil {
		return nil, err
	}

	periods := make([]string, 0, len(months))
	for _, ym := range months {
		// "YYYY-MM" -> "MM/YYYY"
		if len(ym) != 7 {
			continue
		}
		periods = append(periods, ym[5:7]+"/"+ym[0:4])
	}

	return periods, nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	txns := []models.Transaction{}
	for rows.Next() {
		var (
			t       models.Transaction
			dateStr string
		)
		if err := rows.Scan(
			&t.ID,
			&t.CompanyID,
			&dateStr,
			&t.HeadOfAccount,
			&t.Category,
			&t.Description,
			&t.Reference,
			&t.Debit,
			&t.Credit,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		date, err := time.Parse(models.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored date %q: %w", dateStr, err)
		}
		t.Date = date

		txns = append(txns, t)
	}

	return txns, rows.Err()
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
