package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money left or entered the account.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// ParsedTransaction is one bank-statement line after normalization.
// Amount is always a non-negative magnitude; the sign lives in Direction.
type ParsedTransaction struct {
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Reference   string           `json:"reference,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	Direction   Direction        `json:"direction"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
}

// ParseResult is the outcome of parsing one uploaded statement file.
// Success is false only for structural failures (no header row, no
// date/description column); a file that yields zero transactions still
// parses successfully with an empty list.
type ParseResult struct {
	Success      bool                `json:"success"`
	Transactions []ParsedTransaction `json:"transactions"`
	StartDate    *time.Time          `json:"start_date,omitempty"`
	EndDate      *time.Time          `json:"end_date,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// BankTransaction is a persisted statement line, grouped by import batch.
type BankTransaction struct {
	ID          int              `json:"id" db:"id"`
	BatchID     string           `json:"batch_id" db:"batch_id"`
	Date        time.Time        `json:"date" db:"txn_date"`
	Description string           `json:"description" db:"description"`
	Reference   string           `json:"reference,omitempty" db:"reference"`
	Amount      decimal.Decimal  `json:"amount" db:"amount"`
	Direction   Direction        `json:"direction" db:"direction"`
	Balance     *decimal.Decimal `json:"balance,omitempty" db:"balance"`
	Ledger      *string          `json:"ledger,omitempty" db:"ledger"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// BankTransactionUpdate carries optional fields for a partial update.
// Only non-nil fields are applied.
type BankTransactionUpdate struct {
	Description *string          `json:"description,omitempty"`
	Reference   *string          `json:"reference,omitempty"`
	Ledger      *string          `json:"ledger,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Direction   *Direction       `json:"direction,omitempty"`
}
