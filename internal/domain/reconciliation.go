package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GSTRType identifies which government return the portal data came from.
type GSTRType string

const (
	GSTR1  GSTRType = "GSTR-1"
	GSTR2A GSTRType = "GSTR-2A"
	GSTR2B GSTRType = "GSTR-2B"
	GSTR3B GSTRType = "GSTR-3B"
)

// GSTRecord is one invoice line, from either the firm's books or a
// government portal export. All amounts are non-negative.
type GSTRecord struct {
	InvoiceNumber     string          `json:"invoice_number"`
	InvoiceDate       time.Time       `json:"invoice_date"`
	CounterpartyGSTIN string          `json:"counterparty_gstin,omitempty"`
	TaxableValue      decimal.Decimal `json:"taxable_value"`
	CGST              decimal.Decimal `json:"cgst"`
	SGST              decimal.Decimal `json:"sgst"`
	IGST              decimal.Decimal `json:"igst"`
	Cess              decimal.Decimal `json:"cess"`
	TotalValue        decimal.Decimal `json:"total_value"`
	PlaceOfSupply     string          `json:"place_of_supply,omitempty"`
	ReverseCharge     bool            `json:"reverse_charge,omitempty"`
}

// TaxSum is the combined CGST+SGST+IGST for a record.
func (r GSTRecord) TaxSum() decimal.Decimal {
	return r.CGST.Add(r.SGST).Add(r.IGST)
}

type MismatchKind string

const (
	MissingInBooks  MismatchKind = "missing_in_books"
	MissingInPortal MismatchKind = "missing_in_portal"
	AmountMismatch  MismatchKind = "amount_mismatch"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// TaxDifference is the per-field books-minus-portal delta for an
// amount mismatch.
type TaxDifference struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	Total        decimal.Decimal `json:"total"`
}

// ReconciliationMismatch is a single discrepancy found between the two
// sources. It is derived output, never persisted by the engine itself.
type ReconciliationMismatch struct {
	Kind          MismatchKind   `json:"kind"`
	InvoiceNumber string         `json:"invoice_number"`
	Books         *GSTRecord     `json:"books,omitempty"`
	Portal        *GSTRecord     `json:"portal,omitempty"`
	Difference    *TaxDifference `json:"difference,omitempty"`
	Severity      Severity       `json:"severity"`
	Suggestion    string         `json:"suggestion"`
}

type MatchedInvoice struct {
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
}

type ReconciliationSummary struct {
	TotalInBooks    decimal.Decimal `json:"total_in_books"`
	TotalInPortal   decimal.Decimal `json:"total_in_portal"`
	MatchedCount    int             `json:"matched_count"`
	MismatchCount   int             `json:"mismatch_count"`
	MissingInBooks  int             `json:"missing_in_books"`
	MissingInPortal int             `json:"missing_in_portal"`
	TaxDifference   decimal.Decimal `json:"tax_difference"`
}

// ReconciliationReport is the full engine output for one run.
type ReconciliationReport struct {
	Period     string                   `json:"period"`
	GSTRType   GSTRType                 `json:"gstr_type"`
	Summary    ReconciliationSummary    `json:"summary"`
	Mismatches []ReconciliationMismatch `json:"mismatches"`
	Matched    []MatchedInvoice         `json:"matched"`
}

// JobStatus represents the status of a reconciliation job.
type JobStatus string

const (
	Pending    JobStatus = "PENDING"
	Processing JobStatus = "PROCESSING"
	Completed  JobStatus = "COMPLETED"
	Failed     JobStatus = "FAILED"
)

// ReconciliationJob is the persisted record of one reconciliation run.
type ReconciliationJob struct {
	ID              int             `json:"id" db:"id"`
	JobID           string          `json:"job_id" db:"job_id"`
	GSTRType        GSTRType        `json:"gstr_type" db:"gstr_type"`
	Period          string          `json:"period" db:"period"`
	Status          JobStatus       `json:"status" db:"status"`
	TotalProcessed  int             `json:"total_processed" db:"total_processed"`
	MatchedCount    int             `json:"matched_count" db:"matched_count"`
	MismatchCount   int             `json:"mismatch_count" db:"mismatch_count"`
	MissingInBooks  int             `json:"missing_in_books" db:"missing_in_books"`
	MissingInPortal int             `json:"missing_in_portal" db:"missing_in_portal"`
	TaxDifference   decimal.Decimal `json:"tax_difference" db:"tax_difference"`
	ErrorMessage    *string         `json:"error_message,omitempty" db:"error_message"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}
