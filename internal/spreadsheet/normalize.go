package spreadsheet

import "strings"

// CanonicalAccounts maps each uppercased head-of-account to its first-seen
// spelling, in file order. Accounting entries are hand typed and casing is
// inconsistent ("Cash" vs "CASH"), but they must aggregate as one account.
func CanonicalAccounts(rows []Row) map[string]string {
	canonical := make(map[string]string)
	for _, row := range rows {
		key := strings.ToUpper(row.HeadOfAccount)
		if _, seen := canonical[key]; !seen {
			canonical[key] = row.HeadOfAccount
		}
	}
	return canonical
}

// NormalizeAccounts rewrites every row's head-of-account to the canonical
// spelling from CanonicalAccounts.
func NormalizeAccounts(rows []Row) {
	canonical := CanonicalAccounts(rows)
	for i := range rows {
		rows[i].HeadOfAccount = canonical[strings.ToUpper(rows[i].HeadOfAccount)]
	}
}
