package parser

import "strings"

// ColumnLayout maps the semantic statement fields onto column indices of
// the located header row. An index of -1 means the field is absent.
type ColumnLayout struct {
	HeaderRow   int
	Date        int
	Description int
	Reference   int
	Debit       int
	Credit      int
	Amount      int
	Balance     int
}

// Column-name synonyms seen across Indian bank statement exports.
var (
	dateSynonyms        = []string{"date", "transaction date", "txn date", "value date", "posting date", "trans date"}
	descriptionSynonyms = []string{"description", "particulars", "narration", "remarks", "transaction description", "details"}
	referenceSynonyms   = []string{"reference", "ref no", "chq no", "cheque no", "ref", "txn id", "transaction id"}
	debitSynonyms       = []string{"debit", "withdrawal", "dr", "debit amount", "withdrawals"}
	creditSynonyms      = []string{"credit", "deposit", "cr", "credit amount", "deposits"}
	amountSynonyms      = []string{"amount", "transaction amount", "txn amount"}
	balanceSynonyms     = []string{"balance", "closing balance", "running balance", "available balance"}
)

// headerScanWindow bounds how many leading rows are inspected for the
// header; statements often carry a title block above the real header.
const headerScanWindow = 10

func normalizeColumnName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchesSynonym reports whether the normalized cell and any synonym
// contain one another.
func matchesSynonym(cell string, synonyms []string) bool {
	normalized := normalizeColumnName(cell)
	if normalized == "" {
		return false
	}
	for _, s := range synonyms {
		if strings.Contains(normalized, s) || strings.Contains(s, normalized) {
			return true
		}
	}
	return false
}

// findColumn returns the index of the first header cell matching one of
// the synonyms, scanning left to right. Leftmost column wins ties.
func findColumn(header []string, synonyms []string) int {
	for i, cell := range header {
		if matchesSynonym(cell, synonyms) {
			return i
		}
	}
	return -1
}

// LocateColumns scans the first rows of a parsed grid for the header
// row, identified by the presence of a date column, and maps every
// semantic field onto it. Returns ok=false when no row within the scan
// window carries a date column.
func LocateColumns(rows [][]string) (ColumnLayout, bool) {
	layout := ColumnLayout{
		HeaderRow:   -1,
		Date:        -1,
		Description: -1,
		Reference:   -1,
		Debit:       -1,
		Credit:      -1,
		Amount:      -1,
		Balance:     -1,
	}

	limit := len(rows)
	if limit > headerScanWindow {
		limit = headerScanWindow
	}

	for i := 0; i < limit; i++ {
		if findColumn(rows[i], dateSynonyms) == -1 {
			continue
		}
		header := rows[i]
		layout.HeaderRow = i
		layout.Date = findColumn(header, dateSynonyms)
		layout.Description = findColumn(header, descriptionSynonyms)
		layout.Reference = findColumn(header, referenceSynonyms)
		layout.Debit = findColumn(header, debitSynonyms)
		layout.Credit = findColumn(header, creditSynonyms)
		layout.Amount = findColumn(header, amountSynonyms)
		layout.Balance = findColumn(header, balanceSynonyms)
		return layout, true
	}

	return layout, false
}
