package books

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerworks/bookkeeper/internal/spreadsheet"
	"github.com/ledgerworks/bookkeeper/internal/store"
	"github.com/ledgerworks/bookkeeper/pkg/db"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "books.db"))
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewService(store.New(conn), nil)
}

// statementXLSX builds an in-memory statement workbook from header + rows.
func statementXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

var fullHeader = []interface{}{"Date", "Head of Accounts", "Category", "Description", "Ref", "Debit", "Credit"}

func ingest(t *testing.T, svc *Service, company string, rows [][]interface{}) int64 {
	t.Helper()

	result, err := svc.Ingest(context.Background(), IngestInput{
		CompanyName: company,
		Filename:    "statement.xlsx",
		Data:        statementXLSX(t, rows),
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	return result.CompanyID
}

func TestIngestAndLedger(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	companyID := ingest(t, svc, "Acme", [][]interface{}{
		fullHeader,
		{"2024-01-01", "Cash", "Assets", "Opening", "JV-1", "100", "0"},
		{"2024-01-05", "Cash", "Assets", "Payment", "JV-2", "0", "40"},
	})

	entries, err := svc.Ledger(ctx, companyID, "Cash")
	if err != nil {
		t.Fatalf("Ledger() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Ledger() returned %d entries, expected 2", len(entries))
	}
	if entries[0].Balance != 100 || entries[1].Balance != 60 {
		t.Errorf("balances = %v, %v, expected 100, 60", entries[0].Balance, entries[1].Balance)
	}
}

func TestIngestReplacesPriorData(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rows := [][]interface{}{
		fullHeader,
		{"2024-01-01", "Cash", "", "", "", "100", "0"},
		{"2024-01-02", "Sales", "", "", "", "0", "100"},
	}

	first := ingest(t, svc, "Acme", rows)
	second := ingest(t, svc, "Acme", rows)

	if first != second {
		t.Errorf("re-upload created a new company: %d vs %d", first, second)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Companies != 1 {
		t.Errorf("companies = %d, expected 1", stats.Companies)
	}
	if stats.Transactions != 2 {
		t.Errorf("transactions = %d, expected 2 (not doubled)", stats.Transactions)
	}
	if stats.Files != 1 {
		t.Errorf("files = %d, expected 1", stats.Files)
	}
}

func TestIngestCaseFoldMerge(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	companyID := ingest(t, svc, "Acme", [][]interface{}{
		fullHeader,
		{"2024-01-01", "Cash", "", "", "", "100", "0"},
		{"2024-01-02", "CASH", "", "", "", "50", "0"},
		{"2024-01-03", "cash", "", "", "", "0", "30"},
	})

	accounts, err := svc.ListAccounts(ctx, companyID)
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(accounts) != 1 || accounts[0] != "Cash" {
		t.Fatalf("accounts = %v, expected the single first-seen spelling Cash", accounts)
	}

	entries, err := svc.Ledger(ctx, companyID, "CASH")
	if err != nil {
		t.Fatalf("Ledger() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Ledger() returned %d entries, expected all 3 case variants", len(entries))
	}
}

func TestIngestMissingColumnPreservesPriorData(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	companyID := ingest(t, svc, "Acme", [][]interface{}{
		fullHeader,
		{"2024-01-01", "Cash", "", "", "", "100", "0"},
	})

	// Second upload lacks the Credit column and must not disturb anything
	_, err := svc.Ingest(ctx, IngestInput{
		CompanyName: "Acme",
		Filename:    "broken.xlsx",
		Data: statementXLSX(t, [][]interface{}{
			{"Date", "Head of Accounts", "Debit"},
			{"2024-02-01", "Bank", "500"},
		}),
	})

	var schemaErr *spreadsheet.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Ingest() error = %v, expected *SchemaError", err)
	}

	entries, err := svc.Ledger(ctx, companyID, "Cash")
	if err != nil {
		t.Fatalf("Ledger() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Balance != 100 {
		t.Errorf("prior data disturbed by failed ingestion: %+v", entries)
	}

	file, err := svc.DownloadStatement(ctx, companyID, "")
	if err != nil {
		t.Fatalf("DownloadStatement() error = %v", err)
	}
	if file.Filename != "statement.xlsx" {
		t.Errorf("stored file = %q, expected the original upload", file.Filename)
	}
}

func TestCategoryReportTotalsSpanCompany(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	companyID := ingest(t, svc, "Acme", [][]interface{}{
		fullHeader,
		{"2024-01-01", "Cash", "Operations", "", "", "100", "0"},
		{"2024-01-02", "Cash", "Investing", "", "", "50", "0"},
		{"2024-01-03", "Sales", "Operations", "", "", "0", "80"},
	})

	report, err := svc.CategoryReport(ctx, companyID, "Operations")
	if err != nil {
		t.Fatalf("CategoryReport() error = %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("CategoryReport() returned %d rows, expected 2", len(report))
	}

	// Cash appears in two categories; its totals cover the whole company
	cash := report[0]
	if cash.HeadOfAccount != "Cash" || cash.Debit != 150 || cash.Balance != 150 {
		t.Errorf("cash row = %+v, expected company-wide totals 150", cash)
	}
}

func TestCategoryReportZeroSuppression(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	companyID := ingest(t, svc, "Acme", [][]interface{}{
		fullHeader,
		{"2024-01-01", "Rent", "Expenses", "", "", "70", "0"},
		{"2024-01-02", "Rent", "Expenses", "", "", "0", "70"},
		{"2024-01-03", "Utilities", "Expenses", "", "", "25", "0"},
	})

	report, err := svc.CategoryReport(ctx, companyID, "Expenses")
	if err != nil {
		t.Fatalf("CategoryReport() error = %v", err)
	}
	if len(report) != 1 || report[0].HeadOfAccount != "Utilities" {
		t.Errorf("report = %+v, expected zero-balance Rent suppressed", report)
	}
}

func TestTrialBalancePeriodFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	companyID := ingest(t, svc, "Acme", [][]interface{}{
		fullHeader,
		{"2024-03-10", "Cash", "", "", "", "200", "0"},
		{"2024-04-10", "Cash", "", "", "", "300", "0"},
		{"2024-04-12", "Sales", "", "", "", "0", "300"},
	})

	march, err := svc.TrialBalance(ctx, companyID, "03/2024")
	if err != nil {
		t.Fatalf("TrialBalance(03/2024) error = %v", err)
	}
	// Cash row + TOTAL + DIFFERENCE
	if len(march) != 3 || march[0].Debit != 200 {
		t.Errorf("march rows = %+v, expected only the March transaction", march)
	}

	all, err := svc.TrialBalance(ctx, companyID, "all")
	if err != nil {
		t.Fatalf("TrialBalance(all) error = %v", err)
	}
	// Cash + Sales rows, then TOTAL and DIFFERENCE
	if len(all) != 4 {
		t.Fatalf("all rows = %+v, expected 4", all)
	}
	total := all[2]
	if !total.IsTotal || total.Debit != 500 || total.Credit != 300 {
		t.Errorf("TOTAL = %+v, expected 500/300", total)
	}
	diff := all[3]
	if !diff.IsDifference || diff.Debit != 200 {
		t.Errorf("DIFFERENCE = %+v, expected debit 200", diff)
	}
}

func TestTrialBalanceInvalidPeriod(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.TrialBalance(context.Background(), 1, "March 2024")
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("TrialBalance() error = %v, expected ErrInvalidPeriod", err)
	}
}

func TestListPeriodsChronological(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	companyID := ingest(t, svc, "Acme", [][]interface{}{
		fullHeader,
		{"2024-03-01", "Cash", "", "", "", "10", "0"},
		{"2023-12-01", "Cash", "", "", "", "10", "0"},
		{"2024-02-15", "Cash", "", "", "", "10", "0"},
		{"2024-02-20", "Cash", "", "", "", "10", "0"},
	})

	periods, err := svc.ListPeriods(ctx, companyID)
	if err != nil {
		t.Fatalf("ListPeriods() error = %v", err)
	}

	want := []string{"12/2023", "02/2024", "03/2024"}
	if len(periods) != len(want) {
		t.Fatalf("periods = %v, expected %v", periods, want)
	}
	for i := range want {
		if periods[i] != want[i] {
			t.Errorf("periods[%d] = %q, expected %q", i, periods[i], want[i])
		}
	}
}

func TestDownloadStatementPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, IngestInput{
		CompanyName:  "Acme",
		Filename:     "statement.xlsx",
		FilePassword: "hunter2",
		Data: statementXLSX(t, [][]interface{}{
			fullHeader,
			{"2024-01-01", "Cash", "", "", "", "100", "0"},
		}),
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if _, err := svc.DownloadStatement(ctx, result.CompanyID, "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("DownloadStatement(wrong) error = %v, expected ErrWrongPassword", err)
	}

	file, err := svc.DownloadStatement(ctx, result.CompanyID, "hunter2")
	if err != nil {
		t.Fatalf("DownloadStatement() error = %v", err)
	}
	if len(file.Data) == 0 {
		t.Error("downloaded file has no data")
	}
}

func TestDownloadStatementNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.DownloadStatement(context.Background(), 42, "")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DownloadStatement() error = %v, expected ErrNotFound", err)
	}
}

func TestIngestUnsupportedExtension(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Ingest(context.Background(), IngestInput{
		CompanyName: "Acme",
		Filename:    "statement.csv",
		Data:        []byte("a,b,c"),
	})
	if !errors.Is(err, spreadsheet.ErrUnsupportedFormat) {
		t.Errorf("Ingest() error = %v, expected ErrUnsupportedFormat", err)
	}
}

func TestIngestCompanyNameFromFilename(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Ingest(context.Background(), IngestInput{
		Filename: "Globex 2024.xlsx",
		Data: statementXLSX(t, [][]interface{}{
			fullHeader,
			{"2024-01-01", "Cash", "", "", "", "10", "0"},
		}),
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if result.CompanyName != "Globex 2024" {
		t.Errorf("company name = %q, expected filename fallback", result.CompanyName)
	}
}

func TestIngestHistoryAccumulates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	companyID := ingest(t, svc, "Acme", [][]interface{}{
		fullHeader,
		{"2024-01-01", "Cash", "Assets", "Opening", "JV-1", "100", "0"},
	})
	ingest(t, svc, "Acme", [][]interface{}{
		fullHeader,
		{"2024-01-01", "Cash", "Assets", "Opening", "JV-1", "100", "0"},
		{"2024-01-05", "Cash", "Assets", "Payment", "JV-2", "0", "40"},
	})

	runs, err := svc.IngestHistory(ctx, companyID)
	if err != nil {
		t.Fatalf("IngestHistory() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("IngestHistory() returned %d runs, expected 2", len(runs))
	}
	// Most recent first; the replace does not erase the audit trail.
	if runs[0].TransactionCount != 2 || runs[1].TransactionCount != 1 {
		t.Errorf("run counts = %d, %d, expected 2, 1", runs[0].TransactionCount, runs[1].TransactionCount)
	}
	if runs[0].RunID == runs[1].RunID {
		t.Errorf("run IDs should be unique, both %q", runs[0].RunID)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.LastIngest == "" {
		t.Error("Stats().LastIngest should be set after ingesting")
	}
}
