package domain

import "github.com/shopspring/decimal"

// GSTINDetails is the breakdown of a structurally valid GSTIN.
type GSTINDetails struct {
	StateCode  string `json:"state_code"`
	StateName  string `json:"state_name"`
	PANNumber  string `json:"pan_number"`
	EntityType string `json:"entity_type"`
	CheckDigit string `json:"check_digit"`
}

// GSTValidationResult distinguishes hard errors from advisory warnings.
type GSTValidationResult struct {
	IsValid  bool          `json:"is_valid"`
	Errors   []string      `json:"errors"`
	Warnings []string      `json:"warnings"`
	Details  *GSTINDetails `json:"details,omitempty"`
}

type PANValidationResult struct {
	IsValid bool   `json:"is_valid"`
	Error   string `json:"error,omitempty"`
}

// GSTBreakdown is the forward tax split for a base amount.
type GSTBreakdown struct {
	BaseAmount  decimal.Decimal `json:"base_amount"`
	CGST        decimal.Decimal `json:"cgst"`
	SGST        decimal.Decimal `json:"sgst"`
	IGST        decimal.Decimal `json:"igst"`
	TotalGST    decimal.Decimal `json:"total_gst"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Invoice is the declared tax content of an invoice under validation.
// CGST/SGST/IGST are optional; a nil component is not checked against
// the expected split.
type Invoice struct {
	BaseAmount     decimal.Decimal  `json:"base_amount"`
	GSTRate        decimal.Decimal  `json:"gst_rate"`
	CGST           *decimal.Decimal `json:"cgst,omitempty"`
	SGST           *decimal.Decimal `json:"sgst,omitempty"`
	IGST           *decimal.Decimal `json:"igst,omitempty"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	SupplierGSTIN  string           `json:"supplier_gstin"`
	RecipientGSTIN string           `json:"recipient_gstin,omitempty"`
}

// ExpectedGST is what the declared components were compared against.
type ExpectedGST struct {
	CGST  decimal.Decimal `json:"expected_cgst"`
	SGST  decimal.Decimal `json:"expected_sgst"`
	IGST  decimal.Decimal `json:"expected_igst"`
	Total decimal.Decimal `json:"expected_total"`
}

type InvoiceValidationResult struct {
	IsValid      bool         `json:"is_valid"`
	Errors       []string     `json:"errors"`
	Warnings     []string     `json:"warnings"`
	Calculations *ExpectedGST `json:"calculations,omitempty"`
}
