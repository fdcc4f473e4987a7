package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgerworks/bookkeeper/internal/models"
)

// GetCompany retrieves a company by ID.
func (s *Store) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM companies
		WHERE id = ?
	`

	var company models.Company
	err := s.conn.QueryRow(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// GetCompanyByName retrieves a company by its exact name.
func (s *Store) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM companies
		WHERE name = ?
	`

	var company models.Company
	err := s.conn.QueryRow(ctx, query, name).Scan(
		&company.ID,
		&company.Name,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company by name: %w", err)
	}

	return &company, nil
}

// ListCompanies returns all companies ordered by name.
func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM companies
		ORDER BY name
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var company models.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.CreatedAt, &company.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}

	return companies, rows.Err()
}
