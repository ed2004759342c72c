package gst

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)

	// DefaultTolerance is the rounding slack allowed when comparing a
	// declared tax component against its expected value: ₹1.
	DefaultTolerance = decimal.NewFromInt(1)
)

// Rate is one slab of the standard GST rate schedule.
type Rate struct {
	Percent decimal.Decimal `json:"percent"`
	Label   string          `json:"label"`
}

// Rates is the standard slab list exposed to clients.
var Rates = []Rate{
	{Percent: decimal.Zero, Label: "Exempt (0%)"},
	{Percent: decimal.NewFromInt(5), Label: "5% GST"},
	{Percent: decimal.NewFromInt(12), Label: "12% GST"},
	{Percent: decimal.NewFromInt(18), Label: "18% GST"},
	{Percent: decimal.NewFromInt(28), Label: "28% GST"},
}

// CalculateGST computes the forward tax split for a base amount.
// Inter-state supplies carry the whole tax as IGST; intra-state
// supplies split it equally between CGST and SGST.
func CalculateGST(baseAmount, ratePercent decimal.Decimal, interState bool) domain.GSTBreakdown {
	gstAmount := baseAmount.Mul(ratePercent).Div(hundred)

	breakdown := domain.GSTBreakdown{
		BaseAmount:  baseAmount,
		CGST:        decimal.Zero,
		SGST:        decimal.Zero,
		IGST:        decimal.Zero,
		TotalGST:    gstAmount,
		TotalAmount: baseAmount.Add(gstAmount),
	}

	if interState {
		breakdown.IGST = gstAmount
	} else {
		half := gstAmount.Div(two)
		breakdown.CGST = half
		breakdown.SGST = half
	}

	return breakdown
}

// ReverseCalculateGST recovers the base amount from a GST-inclusive
// total: base = total * 100 / (100 + rate). The remainder is tax, split
// the same way as the forward calculation.
func ReverseCalculateGST(totalAmount, ratePercent decimal.Decimal, interState bool) domain.GSTBreakdown {
	baseAmount := totalAmount.Mul(hundred).Div(hundred.Add(ratePercent))
	gstAmount := totalAmount.Sub(baseAmount)

	breakdown := domain.GSTBreakdown{
		BaseAmount:  baseAmount,
		CGST:        decimal.Zero,
		SGST:        decimal.Zero,
		IGST:        decimal.Zero,
		TotalGST:    gstAmount,
		TotalAmount: totalAmount,
	}

	if interState {
		breakdown.IGST = gstAmount
	} else {
		half := gstAmount.Div(two)
		breakdown.CGST = half
		breakdown.SGST = half
	}

	return breakdown
}

// IsInterStateTransaction compares the supplier and recipient state
// codes; a supply across different states attracts IGST.
func IsInterStateTransaction(supplierStateCode, recipientStateCode string) bool {
	return supplierStateCode != recipientStateCode
}

// ValidateInvoiceGST checks an invoice's declared tax components
// against the expected split for its rate and supply type. The supply
// type is derived from the supplier and recipient GSTIN state codes;
// without a valid recipient GSTIN the supply is treated as intra-state.
// Components are compared within DefaultTolerance. An invoice carrying
// both CGST/SGST and IGST is structurally invalid.
func ValidateInvoiceGST(invoice domain.Invoice) domain.InvoiceValidationResult {
	result := domain.InvoiceValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	supplierValidation := ValidateGSTIN(invoice.SupplierGSTIN)
	if !supplierValidation.IsValid {
		result.IsValid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Invalid supplier GSTIN: %s", joinErrors(supplierValidation.Errors)))
	}

	interState := false
	if invoice.RecipientGSTIN != "" {
		recipientValidation := ValidateGSTIN(invoice.RecipientGSTIN)
		if !recipientValidation.IsValid {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Invalid recipient GSTIN: %s", joinErrors(recipientValidation.Errors)))
		} else if supplierValidation.Details != nil && recipientValidation.Details != nil {
			interState = IsInterStateTransaction(
				supplierValidation.Details.StateCode,
				recipientValidation.Details.StateCode,
			)
		}
	}

	expected := CalculateGST(invoice.BaseAmount, invoice.GSTRate, interState)
	result.Calculations = &domain.ExpectedGST{
		CGST:  expected.CGST,
		SGST:  expected.SGST,
		IGST:  expected.IGST,
		Total: expected.TotalAmount,
	}

	tolerance := DefaultTolerance

	if interState {
		if invoice.CGST != nil && invoice.CGST.GreaterThan(tolerance) {
			result.IsValid = false
			result.Errors = append(result.Errors, "CGST should be 0 for inter-state transactions")
		}
		if invoice.SGST != nil && invoice.SGST.GreaterThan(tolerance) {
			result.IsValid = false
			result.Errors = append(result.Errors, "SGST should be 0 for inter-state transactions")
		}
		if invoice.IGST != nil && invoice.IGST.Sub(expected.IGST).Abs().GreaterThan(tolerance) {
			result.IsValid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("IGST mismatch: expected ₹%s, got ₹%s",
					expected.IGST.StringFixed(2), invoice.IGST.StringFixed(2)))
		}
	} else {
		if invoice.IGST != nil && invoice.IGST.GreaterThan(tolerance) {
			result.IsValid = false
			result.Errors = append(result.Errors, "IGST should be 0 for intra-state transactions")
		}
		if invoice.CGST != nil && invoice.CGST.Sub(expected.CGST).Abs().GreaterThan(tolerance) {
			result.IsValid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("CGST mismatch: expected ₹%s, got ₹%s",
					expected.CGST.StringFixed(2), invoice.CGST.StringFixed(2)))
		}
		if invoice.SGST != nil && invoice.SGST.Sub(expected.SGST).Abs().GreaterThan(tolerance) {
			result.IsValid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("SGST mismatch: expected ₹%s, got ₹%s",
					expected.SGST.StringFixed(2), invoice.SGST.StringFixed(2)))
		}
	}

	if invoice.TotalAmount.Sub(expected.TotalAmount).Abs().GreaterThan(tolerance) {
		result.IsValid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Total mismatch: expected ₹%s, got ₹%s",
				expected.TotalAmount.StringFixed(2), invoice.TotalAmount.StringFixed(2)))
	}

	return result
}

func joinErrors(errs []string) string {
	return strings.Join(errs, ", ")
}
