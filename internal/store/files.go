package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgerworks/bookkeeper/internal/models"
)

// GetStatementFile retrieves the stored statement file for a company,
// including the raw blob.
func (s *Store) GetStatementFile(ctx context.Context, companyID int64) (*models.StatementFile, error) {
	query := `
		SELECT id, company_id, filename, content_type, data, password_hash, uploaded_at
		FROM statement_files
		WHERE company_id = ?
	`

	var (
		file models.StatementFile
		hash sql.NullString
	)
	err := s.conn.QueryRow(ctx, query, companyID).Scan(
		&file.ID,
		&file.CompanyID,
		&file.Filename,
		&file.ContentType,
		&file.Data,
		&hash,
		&file.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get statement file: %w", err)
	}

	if hash.Valid {
		file.PasswordHash = hash.String
	}

	return &file, nil
}
