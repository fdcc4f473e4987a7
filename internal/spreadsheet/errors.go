package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned when the uploaded file is not an Excel
// workbook (.xlsx or .xls).
var ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .xls")

// SchemaError reports required columns missing from the header row.
// It aborts the whole ingestion; nothing is persisted.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}
