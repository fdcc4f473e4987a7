package spreadsheet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ColumnAlias maps an exporter-specific header name to a canonical column.
type ColumnAlias struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// columnMapFile is the on-disk YAML layout of a column mapping.
type columnMapFile struct {
	Columns []ColumnAlias `yaml:"columns"`
}

// ColumnMap renames spreadsheet headers before validation, so statements
// exported by tools that label columns differently (e.g. "Particulars"
// instead of "Description") can still be ingested. A nil map is valid and
// performs no renaming.
type ColumnMap struct {
	aliases map[string]string
}

// LoadColumnMap reads a column mapping from a YAML configuration file.
func LoadColumnMap(path string) (*ColumnMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read column map file: %w", err)
	}

	var file columnMapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return NewColumnMap(file.Columns)
}

// NewColumnMap builds a ColumnMap from alias entries. Every target must be
// one of the canonical column names.
func NewColumnMap(aliases []ColumnAlias) (*ColumnMap, error) {
	m := &ColumnMap{aliases: make(map[string]string)}

	for _, a := range aliases {
		if a.From == "" {
			return nil, fmt.Errorf("column alias with empty 'from' field")
		}
		if !isCanonicalColumn(a.To) {
			return nil, fmt.Errorf("column alias %q targets unknown column %q", a.From, a.To)
		}
		m.aliases[a.From] = a.To
	}

	return m, nil
}

// Canonical returns the canonical name for a header cell, or the header
// unchanged when no alias applies.
func (m *ColumnMap) Canonical(header string) string {
	if m == nil {
		return header
	}
	if to, ok := m.aliases[header]; ok {
		return to
	}
	return header
}

func isCanonicalColumn(name string) bool {
	switch name {
	case ColDate, ColHeadOfAccounts, ColCategory, ColDescription, ColRef, ColDebit, ColCredit:
		return true
	}
	return false
}
