package domain

// LedgerSuggestion is one candidate ledger account for a transaction,
// with a 0-100 confidence.
type LedgerSuggestion struct {
	Ledger     string `json:"ledger"`
	Confidence int    `json:"confidence"`
	Reason     string `json:"reason"`
}
