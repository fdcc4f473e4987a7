// Package books implements the bookkeeping core: statement ingestion and
// the three report aggregators (ledger, category report, trial balance).
package books

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerworks/bookkeeper/internal/models"
	"github.com/ledgerworks/bookkeeper/internal/spreadsheet"
	"github.com/ledgerworks/bookkeeper/internal/store"
	"github.com/ledgerworks/bookkeeper/pkg/db"
)

// ErrWrongPassword is returned when a statement download password does not
// match the stored hash.
var ErrWrongPassword = errors.New("wrong statement file password")

// ErrEmptyCompanyName is returned when no company name could be derived for
// an upload.
var ErrEmptyCompanyName = errors.New("company name is required")

const defaultContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service exposes the bookkeeping operations to the HTTP and CLI layers.
// It is stateless per request; the company is always an explicit parameter.
type Service struct {
	store     *store.Store
	columnMap *spreadsheet.ColumnMap
}

// NewService creates a Service. columnMap may be nil when no header
// aliasing is configured.
func NewService(st *store.Store, columnMap *spreadsheet.ColumnMap) *Service {
	return &Service{store: st, columnMap: columnMap}
}

// IngestInput carries one uploaded statement.
type IngestInput struct {
	CompanyName  string
	Filename     string
	ContentType  string
	Data         []byte
	FilePassword string
}

// Ingest parses an uploaded workbook and atomically replaces the company's
// transaction set and stored statement file with its contents. On any
// failure nothing is persisted and prior data is left untouched.
func (s *Service) Ingest(ctx context.Context, in IngestInput) (*models.IngestResult, error) {
	runID := uuid.NewString()

	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		// Fall back to the file's base name without extension
		base := filepath.Base(in.Filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if name == "" {
		return nil, ErrEmptyCompanyName
	}

	log := slog.With("run_id", runID, "company", name, "filename", in.Filename)
	log.Info("ingesting statement", "bytes", len(in.Data))

	if !spreadsheet.SupportedExtension(in.Filename) {
		return nil, fmt.Errorf("%w: %q", spreadsheet.ErrUnsupportedFormat, in.Filename)
	}

	rows, err := spreadsheet.Parse(in.Data, in.Filename, s.columnMap)
	if err != nil {
		log.Warn("statement rejected", "error", err)
		return nil, err
	}
	spreadsheet.NormalizeAccounts(rows)

	txns := make([]models.Transaction, len(rows))
	for i, row := range rows {
		txns[i] = models.Transaction{
			Date:          row.Date,
			HeadOfAccount: row.HeadOfAccount,
			Category:      row.Category,
			Description:   row.Description,
			Reference:     row.Reference,
			Debit:         row.Debit,
			Credit:        row.Credit,
		}
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	file := models.StatementFile{
		Filename:    filepath.Base(in.Filename),
		ContentType: contentType,
		Data:        in.Data,
	}
	if in.FilePassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.FilePassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash file password: %w", err)
		}
		file.PasswordHash = string(hash)
	}

	companyID, err := s.store.ReplaceCompanyData(ctx, name, file, txns)
	if err != nil {
		log.Error("statement ingestion failed", "error", err)
		return nil, fmt.Errorf("failed to store statement: %w", err)
	}

	if err := s.store.RecordIngestRun(ctx, db.IngestRun{
		RunID:            runID,
		CompanyID:        companyID,
		Filename:         file.Filename,
		TransactionCount: len(txns),
	}); err != nil {
		// The statement itself is already stored; the audit row is advisory.
		log.Warn("failed to record ingest run", "error", err)
	}

	log.Info("statement ingested", "company_id", companyID, "transactions", len(txns))

	return &models.IngestResult{
		RunID:            runID,
		CompanyID:        companyID,
		CompanyName:      name,
		TransactionCount: len(txns),
	}, nil
}

// Ledger returns the general ledger for one account: the company's
// transactions matching the account case-insensitively, in date order, with
// running balances and row ages computed as of now.
func (s *Service) Ledger(ctx context.Context, companyID int64, account string) ([]models.LedgerEntry, error) {
	rows, err := s.store.LedgerRows(ctx, companyID, account)
	if err != nil {
		return nil, err
	}
	return BuildLedger(rows, time.Now()), nil
}

// CategoryReport returns per-account totals for the accounts appearing in
// the given category, zero balances dropped, sorted by account name.
func (s *Service) CategoryReport(ctx context.Context, companyID int64, category string) ([]models.CategoryRow, error) {
	heads, err := s.store.CategoryAccounts(ctx, companyID, category)
	if err != nil {
		return nil, err
	}

	report := []models.CategoryRow{}
	for _, head := range heads {
		// Totals are summed over all the company's rows for the account,
		// not restricted to this category; only the account selection above
		// is category-filtered.
		sum, err := s.store.AccountTotals(ctx, companyID, head)
		if err != nil {
			return nil, err
		}

		balance := sum.Debit - sum.Credit
		if balance == 0 {
			continue
		}

		report = append(report, models.CategoryRow{
			HeadOfAccount: head,
			Debit:         sum.Debit,
			Credit:        sum.Credit,
			Balance:       balance,
		})
	}

	return report, nil
}

// TrialBalance returns the trial balance for the period, which is either
// "all" or "MM/YYYY". The result always closes with a TOTAL row and, when
// the columns disagree, a DIFFERENCE row.
func (s *Service) TrialBalance(ctx context.Context, companyID int64, period string) ([]models.TrialBalanceRow, error) {
	month, year, filtered, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	sums, err := s.store.AccountSums(ctx, companyID, month, year, filtered)
	if err != nil {
		return nil, err
	}

	return BuildTrialBalance(sums), nil
}

// GetCompany resolves a company by id.
func (s *Service) GetCompany(ctx context.Context, companyID int64) (*models.Company, error) {
	return s.store.GetCompany(ctx, companyID)
}

// IngestHistory returns a company's statement ingestion runs, most recent
// first.
func (s *Service) IngestHistory(ctx context.Context, companyID int64) ([]db.IngestRun, error) {
	return s.store.IngestRuns(ctx, companyID)
}

// GetCompanyByName resolves a company by its exact name.
func (s *Service) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	return s.store.GetCompanyByName(ctx, name)
}

// ListCompanies lists all companies ordered by name.
func (s *Service) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return s.store.ListCompanies(ctx)
}

// ListAccounts lists a company's distinct head-of-account names,
// deduplicated case-insensitively.
func (s *Service) ListAccounts(ctx context.Context, companyID int64) ([]string, error) {
	return s.store.DistinctAccounts(ctx, companyID)
}

// ListCategories lists a company's distinct non-empty categories.
func (s *Service) ListCategories(ctx context.Context, companyID int64) ([]string, error) {
	return s.store.DistinctCategories(ctx, companyID)
}

// ListPeriods lists a company's transaction months as "MM/YYYY",
// chronologically.
func (s *Service) ListPeriods(ctx context.Context, companyID int64) ([]string, error) {
	return s.store.DistinctPeriods(ctx, companyID)
}

// DownloadStatement returns the stored statement file after checking the
// supplied password against the stored hash. Files uploaded without a
// password are open to download.
func (s *Service) DownloadStatement(ctx context.Context, companyID int64, password string) (*models.StatementFile, error) {
	file, err := s.store.GetStatementFile(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if file.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(file.PasswordHash), []byte(password)); err != nil {
			return nil, ErrWrongPassword
		}
	}

	return file, nil
}

// Stats returns storage-wide totals.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	return s.store.Stats(ctx)
}
