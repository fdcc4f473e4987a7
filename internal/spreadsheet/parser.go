// Package spreadsheet turns an uploaded Excel workbook into normalized
// bookkeeping rows: it validates the header, coerces cell values, drops
// rows without a usable date or account, and canonicalizes account casing.
package spreadsheet

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Canonical column names. The first four are required in every statement;
// the rest default to empty values when absent.
const (
	ColDate           = "Date"
	ColHeadOfAccounts = "Head of Accounts"
	ColCategory       = "Category"
	ColDescription    = "Description"
	ColRef            = "Ref"
	ColDebit          = "Debit"
	ColCredit         = "Credit"
)

var requiredColumns = []string{ColDate, ColHeadOfAccounts, ColDebit, ColCredit}

// Row is one transaction-to-be parsed from the statement.
type Row struct {
	Date          time.Time
	HeadOfAccount string
	Category      string
	Description   string
	Reference     string
	Debit         float64
	Credit        float64
}

// SupportedExtension reports whether the filename carries an Excel extension.
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// Parse reads the first worksheet of an Excel workbook into rows.
// The first row is the header. Rows whose date cannot be parsed or whose
// head-of-account is empty are dropped silently; a missing required column
// fails the whole parse with a *SchemaError.
func Parse(data []byte, filename string, columnMap *ColumnMap) ([]Row, error) {
	var (
		grid [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		grid, err = readXLSX(data)
	case ".xls":
		grid, err = readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	return parseGrid(grid, columnMap)
}

// readXLSX reads the first worksheet of an .xlsx workbook into a string grid.
func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	return f.GetRows(sheets[0])
}

// readXLS reads the first worksheet of a legacy .xls workbook into a string grid.
func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("could not read first sheet")
	}

	var grid [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}

		cells := make([]string, row.LastCol())
		for col := 0; col < row.LastCol(); col++ {
			cells[col] = row.Col(col)
		}
		grid = append(grid, cells)
	}

	return grid, nil
}

func parseGrid(grid [][]string, columnMap *ColumnMap) ([]Row, error) {
	if len(grid) == 0 {
		return nil, &SchemaError{Missing: requiredColumns}
	}

	// First occurrence of a header name wins
	index := make(map[string]int)
	for i, header := range grid[0] {
		name := columnMap.Canonical(strings.TrimSpace(header))
		if _, seen := index[name]; !seen && name != "" {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rows := make([]Row, 0, len(grid)-1)
	for n, raw := range grid[1:] {
		head := cell(raw, ColHeadOfAccounts)
		if head == "" {
			slog.Debug("dropping row without head of account", "row", n+2)
			continue
		}

		date, ok := parseDate(cell(raw, ColDate))
		if !ok {
			slog.Debug("dropping row with unparseable date", "row", n+2, "value", cell(raw, ColDate))
			continue
		}

		rows = append(rows, Row{
			Date:          date,
			HeadOfAccount: head,
			Category:      cell(raw, ColCategory),
			Description:   cell(raw, ColDescription),
			Reference:     cell(raw, ColRef),
			Debit:         parseAmount(cell(raw, ColDebit)),
			Credit:        parseAmount(cell(raw, ColCredit)),
		})
	}

	return rows, nil
}

// dateLayouts are tried in order. The first entries cover ISO and common
// spreadsheet exports; "01-02-06" is the default date number format that
// excelize renders styled date cells with.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01-02-06",
	"1/2/2006",
	"1/2/06",
	"2-Jan-06",
	"2 Jan 2006",
	"Jan 2, 2006",
	"02.01.2006",
}

// parseDate coerces a cell to a calendar date. Unstyled Excel date cells
// surface as serial numbers, so a purely numeric cell is interpreted as a
// serial day count. Unparseable values report ok=false instead of failing.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount coerces a cell to a monetary amount. Thousands separators and
// accounting-style parentheses are tolerated; anything non-numeric is 0.
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}

	cleaned := strings.NewReplacer(",", "", " ", "").Replace(s)
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
