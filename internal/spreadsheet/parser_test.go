package spreadsheet

import (
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// buildXLSX builds an in-memory .xlsx workbook with the given rows on the
// first sheet.
func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
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

func TestParseMissingRequiredColumns(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Date", "Debit"},
		{"2024-01-01", "100"},
	})

	_, err := Parse(data, "statement.xlsx", nil)

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Parse() error = %v, expected *SchemaError", err)
	}
	want := []string{"Head of Accounts", "Credit"}
	if len(schemaErr.Missing) != len(want) {
		t.Fatalf("missing columns = %v, expected %v", schemaErr.Missing, want)
	}
	for i, col := range want {
		if schemaErr.Missing[i] != col {
			t.Errorf("missing[%d] = %q, expected %q", i, schemaErr.Missing[i], col)
		}
	}
}

func TestParseFullRow(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Date", "Head of Accounts", "Category", "Description", "Ref", "Debit", "Credit"},
		{"2024-03-15", "Cash", "Assets", "Opening balance", "JV-1", "1,500.25", "40"},
	})

	rows, err := Parse(data, "statement.xlsx", nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Parse() returned %d rows, expected 1", len(rows))
	}

	row := rows[0]
	if !row.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", row.Date)
	}
	if row.HeadOfAccount != "Cash" || row.Category != "Assets" {
		t.Errorf("head/category = %q/%q", row.HeadOfAccount, row.Category)
	}
	if row.Description != "Opening balance" || row.Reference != "JV-1" {
		t.Errorf("description/reference = %q/%q", row.Description, row.Reference)
	}
	if row.Debit != 1500.25 || row.Credit != 40 {
		t.Errorf("debit/credit = %v/%v", row.Debit, row.Credit)
	}
}

func TestParseOptionalColumnsDefault(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Date", "Head of Accounts", "Debit", "Credit"},
		{"2024-01-01", "Cash", "", ""},
	})

	rows, err := Parse(data, "statement.xlsx", nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Parse() returned %d rows, expected 1", len(rows))
	}

	row := rows[0]
	if row.Category != "" || row.Description != "" || row.Reference != "" {
		t.Errorf("optional fields should default to empty, got %q/%q/%q",
			row.Category, row.Description, row.Reference)
	}
	if row.Debit != 0 || row.Credit != 0 {
		t.Errorf("empty amounts should default to 0, got %v/%v", row.Debit, row.Credit)
	}
}

func TestParseDropsInvalidRows(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Date", "Head of Accounts", "Debit", "Credit"},
		{"2024-01-01", "Cash", "100", "0"},
		{"not a date", "Cash", "50", "0"},
		{"2024-01-02", "", "25", "0"},
		{"", "Bank", "10", "0"},
		{"2024-01-03", "Bank", "0", "75"},
	})

	rows, err := Parse(data, "statement.xlsx", nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Parse() returned %d rows, expected 2 surviving rows", len(rows))
	}
	if rows[0].HeadOfAccount != "Cash" || rows[1].HeadOfAccount != "Bank" {
		t.Errorf("surviving rows = %q, %q", rows[0].HeadOfAccount, rows[1].HeadOfAccount)
	}
}

func TestParseSerialDate(t *testing.T) {
	// 45292 is 2024-01-01 as an Excel serial day
	data := buildXLSX(t, [][]interface{}{
		{"Date", "Head of Accounts", "Debit", "Credit"},
		{"45292", "Cash", "100", "0"},
	})

	rows, err := Parse(data, "statement.xlsx", nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Parse() returned %d rows, expected 1", len(rows))
	}
	got := rows[0].Date
	if got.Year() != 2024 || got.Month() != time.January || got.Day() != 1 {
		t.Errorf("serial date parsed as %v, expected 2024-01-01", got)
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse([]byte("a,b,c"), "statement.csv", nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Parse() error = %v, expected ErrUnsupportedFormat", err)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"100", 100},
		{"1,234.56", 1234.56},
		{"(250)", -250},
		{"", 0},
		{"n/a", 0},
		{"12.5", 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseAmount(tt.input); got != tt.expected {
				t.Errorf("parseAmount(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDuplicateHeaderFirstWins(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Date", "Head of Accounts", "Debit", "Credit", "Debit"},
		{"2024-01-01", "Cash", "100", "0", "999"},
	})

	rows, err := Parse(data, "statement.xlsx", nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rows[0].Debit != 100 {
		t.Errorf("debit = %v, expected first Debit column to win", rows[0].Debit)
	}
}
