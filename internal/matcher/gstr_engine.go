// Package matcher reconciles the firm's books against a GST portal
// export, pairing invoices by normalized number and classifying every
// discrepancy by kind and severity.
package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
)

var (
	// highValueThreshold marks a missing invoice as high severity: ₹50,000.
	highValueThreshold = decimal.NewFromInt(50000)

	// Tax-delta severity ladder for amount mismatches.
	highDeltaThreshold   = decimal.NewFromInt(1000)
	mediumDeltaThreshold = decimal.NewFromInt(100)
)

var severityRank = map[domain.Severity]int{
	domain.SeverityHigh:   0,
	domain.SeverityMedium: 1,
	domain.SeverityLow:    2,
}

// Engine matches two invoice record sets. It holds no state across
// calls; Reconcile is a pure function of its inputs.
type Engine struct {
	tolerance decimal.Decimal
}

// DefaultTolerance is the amount slack used when the caller does not
// ask for one: ₹1.
var DefaultTolerance = decimal.NewFromInt(1)

// NewEngine builds an engine with the given amount tolerance. Zero is a
// valid request and means exact matching; only a negative tolerance
// falls back to DefaultTolerance.
func NewEngine(tolerance decimal.Decimal) *Engine {
	if tolerance.IsNegative() {
		tolerance = DefaultTolerance
	}
	return &Engine{tolerance: tolerance}
}

// NormalizeInvoiceNumber canonicalizes an invoice number for matching:
// uppercase, alphanumerics only, leading zeros stripped. The mapping is
// lossy: "INV-001" and "INV001" deliberately collide, and so do rare
// pairs like "INV-0A1"/"INV0A1".
func NormalizeInvoiceNumber(invoiceNumber string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(invoiceNumber) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "0")
}

// Reconcile pairs books records with portal records and produces the
// full report. Duplicate invoice numbers within one source set are a
// caller error; the engine keeps the first occurrence. Mismatches are
// ordered by severity, stable by discovery order (books side before
// portal side) so identical inputs always yield identical reports.
func (e *Engine) Reconcile(
	books, portal []domain.GSTRecord,
	gstrType domain.GSTRType,
	period string,
) domain.ReconciliationReport {
	logger.GetLogger().WithFields(map[string]interface{}{
		"books_count":  len(books),
		"portal_count": len(portal),
		"gstr_type":    gstrType,
		"period":       period,
	}).Info("Starting GSTR reconciliation")

	booksMap, booksOrder := buildRecordMap(books)
	portalMap, portalOrder := buildRecordMap(portal)

	mismatches := make([]domain.ReconciliationMismatch, 0)
	matched := make([]domain.MatchedInvoice, 0)

	for _, key := range booksOrder {
		booksRecord := booksMap[key]
		portalRecord, found := portalMap[key]

		if !found {
			mismatches = append(mismatches, domain.ReconciliationMismatch{
				Kind:          domain.MissingInPortal,
				InvoiceNumber: booksRecord.InvoiceNumber,
				Books:         recordPtr(booksRecord),
				Severity:      missingSeverity(booksRecord.TotalValue),
				Suggestion:    "Invoice exists in books but not in the portal return. Ensure it was uploaded correctly.",
			})
			continue
		}

		taxDelta := booksRecord.TaxSum().Sub(portalRecord.TaxSum()).Abs()
		valueDelta := booksRecord.TaxableValue.Sub(portalRecord.TaxableValue).Abs()

		if taxDelta.GreaterThan(e.tolerance) || valueDelta.GreaterThan(e.tolerance) {
			mismatches = append(mismatches, domain.ReconciliationMismatch{
				Kind:          domain.AmountMismatch,
				InvoiceNumber: booksRecord.InvoiceNumber,
				Books:         recordPtr(booksRecord),
				Portal:        recordPtr(portalRecord),
				Difference: &domain.TaxDifference{
					TaxableValue: booksRecord.TaxableValue.Sub(portalRecord.TaxableValue),
					CGST:         booksRecord.CGST.Sub(portalRecord.CGST),
					SGST:         booksRecord.SGST.Sub(portalRecord.SGST),
					IGST:         booksRecord.IGST.Sub(portalRecord.IGST),
					Total:        booksRecord.TotalValue.Sub(portalRecord.TotalValue),
				},
				Severity: deltaSeverity(taxDelta),
				Suggestion: fmt.Sprintf("Tax amount mismatch of ₹%s. Verify invoice amounts.",
					taxDelta.StringFixed(2)),
			})
			continue
		}

		matched = append(matched, domain.MatchedInvoice{
			InvoiceNumber: booksRecord.InvoiceNumber,
			Amount:        booksRecord.TotalValue,
		})
	}

	for _, key := range portalOrder {
		if _, inBooks := booksMap[key]; inBooks {
			continue
		}
		portalRecord := portalMap[key]
		mismatches = append(mismatches, domain.ReconciliationMismatch{
			Kind:          domain.MissingInBooks,
			InvoiceNumber: portalRecord.InvoiceNumber,
			Portal:        recordPtr(portalRecord),
			Severity:      missingSeverity(portalRecord.TotalValue),
			Suggestion:    missingInBooksSuggestion(gstrType),
		})
	}

	sort.SliceStable(mismatches, func(i, j int) bool {
		return severityRank[mismatches[i].Severity] < severityRank[mismatches[j].Severity]
	})

	report := domain.ReconciliationReport{
		Period:     period,
		GSTRType:   gstrType,
		Summary:    buildSummary(books, portal, matched, mismatches),
		Mismatches: mismatches,
		Matched:    matched,
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"matched":    report.Summary.MatchedCount,
		"mismatches": len(mismatches),
	}).Info("GSTR reconciliation completed")

	return report
}

// buildRecordMap keys records by normalized invoice number, keeping the
// first occurrence of a key and the key discovery order.
func buildRecordMap(records []domain.GSTRecord) (map[string]domain.GSTRecord, []string) {
	recordMap := make(map[string]domain.GSTRecord, len(records))
	order := make([]string, 0, len(records))
	for _, record := range records {
		key := NormalizeInvoiceNumber(record.InvoiceNumber)
		if _, exists := recordMap[key]; exists {
			logger.GetLogger().WithField("invoice_number", record.InvoiceNumber).
				Warn("Duplicate invoice number in source set, keeping first")
			continue
		}
		recordMap[key] = record
		order = append(order, key)
	}
	return recordMap, order
}

func buildSummary(
	books, portal []domain.GSTRecord,
	matched []domain.MatchedInvoice,
	mismatches []domain.ReconciliationMismatch,
) domain.ReconciliationSummary {
	summary := domain.ReconciliationSummary{
		TotalInBooks:  decimal.Zero,
		TotalInPortal: decimal.Zero,
		MatchedCount:  len(matched),
	}

	taxInBooks := decimal.Zero
	for _, record := range books {
		summary.TotalInBooks = summary.TotalInBooks.Add(record.TotalValue)
		taxInBooks = taxInBooks.Add(record.TaxSum())
	}

	taxInPortal := decimal.Zero
	for _, record := range portal {
		summary.TotalInPortal = summary.TotalInPortal.Add(record.TotalValue)
		taxInPortal = taxInPortal.Add(record.TaxSum())
	}

	summary.TaxDifference = taxInBooks.Sub(taxInPortal)

	for _, mismatch := range mismatches {
		switch mismatch.Kind {
		case domain.AmountMismatch:
			summary.MismatchCount++
		case domain.MissingInBooks:
			summary.MissingInBooks++
		case domain.MissingInPortal:
			summary.MissingInPortal++
		}
	}

	return summary
}

func missingSeverity(totalValue decimal.Decimal) domain.Severity {
	if totalValue.GreaterThan(highValueThreshold) {
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}

func deltaSeverity(taxDelta decimal.Decimal) domain.Severity {
	switch {
	case taxDelta.GreaterThan(highDeltaThreshold):
		return domain.SeverityHigh
	case taxDelta.GreaterThan(mediumDeltaThreshold):
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func missingInBooksSuggestion(gstrType domain.GSTRType) string {
	if gstrType == domain.GSTR2B {
		return "Invoice in portal return but not in books. ITC may be available."
	}
	return "Invoice in portal return but not in books. Check if invoice was recorded."
}

func recordPtr(record domain.GSTRecord) *domain.GSTRecord {
	return &record
}
