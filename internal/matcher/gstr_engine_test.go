package matcher_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/matcher"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func record(invoiceNumber string, taxable, cgst, sgst, igst, total string) domain.GSTRecord {
	return domain.GSTRecord{
		InvoiceNumber: invoiceNumber,
		TaxableValue:  dec(taxable),
		CGST:          dec(cgst),
		SGST:          dec(sgst),
		IGST:          dec(igst),
		Cess:          decimal.Zero,
		TotalValue:    dec(total),
	}
}

func TestNormalizeInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV001", matcher.NormalizeInvoiceNumber("inv-001"))
	assert.Equal(t, "INV1", matcher.NormalizeInvoiceNumber("INV/1"))
	assert.Equal(t, "A1", matcher.NormalizeInvoiceNumber("  a-1  "))
	assert.Equal(t, "", matcher.NormalizeInvoiceNumber("0000"))
	assert.Equal(t, "12", matcher.NormalizeInvoiceNumber("0012"))
}

func TestNormalizeInvoiceNumber_KnownCollisions(t *testing.T) {
	// "INV-001" and "INV001" intentionally map to the same key.
	assert.Equal(t,
		matcher.NormalizeInvoiceNumber("INV-001"),
		matcher.NormalizeInvoiceNumber("INV001"),
	)
}

func TestReconcile_AllMatched(t *testing.T) {
	engine := matcher.NewEngine(decimal.Zero)

	books := []domain.GSTRecord{
		record("INV-001", "10000", "900", "900", "0", "11800"),
	}
	portal := []domain.GSTRecord{
		record("INV001", "10000", "900", "900", "0", "11800"),
	}

	report := engine.Reconcile(books, portal, domain.GSTR1, "012024")

	assert.Equal(t, 1, report.Summary.MatchedCount)
	assert.Empty(t, report.Mismatches)
	assert.Len(t, report.Matched, 1)
	assert.Equal(t, "INV-001", report.Matched[0].InvoiceNumber)
	assert.True(t, report.Summary.TaxDifference.IsZero())
}

func TestReconcile_MissingInPortal(t *testing.T) {
	engine := matcher.NewEngine(decimal.Zero)

	books := []domain.GSTRecord{
		record("INV-001", "1000", "90", "90", "0", "1180"),
	}

	report := engine.Reconcile(books, nil, domain.GSTR1, "012024")

	assert.Len(t, report.Mismatches, 1)
	mismatch := report.Mismatches[0]
	assert.Equal(t, domain.MissingInPortal, mismatch.Kind)
	assert.Equal(t, "INV-001", mismatch.InvoiceNumber)
	assert.Equal(t, domain.SeverityMedium, mismatch.Severity)
	assert.NotNil(t, mismatch.Books)
	assert.Nil(t, mismatch.Portal)
	assert.Equal(t, 1, report.Summary.MissingInPortal)
}

func TestReconcile_MissingHighValueInvoiceIsHighSeverity(t *testing.T) {
	engine := matcher.NewEngine(decimal.Zero)

	books := []domain.GSTRecord{
		record("BIG-1", "50000", "4500", "4500", "0", "59000"),
	}

	report := engine.Reconcile(books, nil, domain.GSTR1, "012024")

	assert.Equal(t, domain.SeverityHigh, report.Mismatches[0].Severity)
}

func TestReconcile_MissingInBooks(t *testing.T) {
	engine := matcher.NewEngine(decimal.Zero)

	portal := []domain.GSTRecord{
		record("PUR-77", "2000", "0", "0", "360", "2360"),
	}

	report := engine.Reconcile(nil, portal, domain.GSTR2B, "022024")

	assert.Len(t, report.Mismatches, 1)
	mismatch := report.Mismatches[0]
	assert.Equal(t, domain.MissingInBooks, mismatch.Kind)
	assert.Contains(t, mismatch.Suggestion, "ITC may be available")
	assert.Equal(t, 1, report.Summary.MissingInBooks)
}

func TestReconcile_AmountMismatchSeverityLadder(t *testing.T) {
	engine := matcher.NewEngine(decimal.Zero)

	books := []domain.GSTRecord{
		record("HIGH", "20000", "2800", "2800", "0", "25600"),
		record("MED", "10000", "1000", "1000", "0", "12000"),
		record("LOW", "1000", "95", "95", "0", "1190"),
	}
	portal := []domain.GSTRecord{
		record("HIGH", "20000", "1800", "1800", "0", "23600"),
		record("MED", "10000", "900", "900", "0", "11800"),
		record("LOW", "1000", "90", "90", "0", "1180"),
	}

	report := engine.Reconcile(books, portal, domain.GSTR1, "012024")

	assert.Len(t, report.Mismatches, 3)
	// Sorted by severity: the ₹2000 delta first, ₹200 next, ₹10 last.
	assert.Equal(t, domain.SeverityHigh, report.Mismatches[0].Severity)
	assert.Equal(t, "HIGH", report.Mismatches[0].InvoiceNumber)
	assert.Equal(t, domain.SeverityMedium, report.Mismatches[1].Severity)
	assert.Equal(t, domain.SeverityLow, report.Mismatches[2].Severity)

	diff := report.Mismatches[0].Difference
	if assert.NotNil(t, diff) {
		assert.True(t, diff.CGST.Equal(dec("1000")))
		assert.True(t, diff.SGST.Equal(dec("1000")))
		assert.True(t, diff.Total.Equal(dec("2000")))
	}
}

func TestReconcile_WithinToleranceMatches(t *testing.T) {
	engine := matcher.NewEngine(dec("1"))

	books := []domain.GSTRecord{
		record("INV-9", "1000.50", "90", "90", "0", "1180.50"),
	}
	portal := []domain.GSTRecord{
		record("INV-9", "1000", "90.40", "90", "0", "1180"),
	}

	report := engine.Reconcile(books, portal, domain.GSTR1, "012024")

	assert.Equal(t, 1, report.Summary.MatchedCount)
	assert.Empty(t, report.Mismatches)
}

func TestReconcile_DuplicatesKeepFirst(t *testing.T) {
	engine := matcher.NewEngine(decimal.Zero)

	books := []domain.GSTRecord{
		record("DUP-1", "1000", "90", "90", "0", "1180"),
		record("DUP1", "9999", "900", "900", "0", "11799"),
	}
	portal := []domain.GSTRecord{
		record("DUP-1", "1000", "90", "90", "0", "1180"),
	}

	report := engine.Reconcile(books, portal, domain.GSTR1, "012024")

	// The second books record collides with the first and is dropped
	// from matching, but the summary still sums over all input rows.
	assert.Equal(t, 1, report.Summary.MatchedCount)
	assert.Empty(t, report.Mismatches)
	assert.True(t, report.Summary.TotalInBooks.Equal(dec("12979")))
}

func TestReconcile_SummaryTaxDifference(t *testing.T) {
	engine := matcher.NewEngine(decimal.Zero)

	books := []domain.GSTRecord{
		record("A", "10000", "900", "900", "0", "11800"),
	}
	portal := []domain.GSTRecord{
		record("A", "10000", "850", "850", "0", "11700"),
	}

	report := engine.Reconcile(books, portal, domain.GSTR1, "012024")

	// Books tax 1800, portal tax 1700: difference keeps its sign.
	assert.True(t, report.Summary.TaxDifference.Equal(dec("100")))
}

func TestReconcile_Deterministic(t *testing.T) {
	engine := matcher.NewEngine(decimal.Zero)

	books := []domain.GSTRecord{
		record("B1", "1000", "90", "90", "0", "1180"),
		record("B2", "2000", "180", "180", "0", "2360"),
		record("B3", "3000", "270", "270", "0", "3540"),
	}
	portal := []domain.GSTRecord{
		record("P1", "500", "45", "45", "0", "590"),
		record("P2", "600", "54", "54", "0", "708"),
	}

	first := engine.Reconcile(books, portal, domain.GSTR1, "012024")
	second := engine.Reconcile(books, portal, domain.GSTR1, "012024")

	assert.Equal(t, first, second)
}

func TestNewEngine_NegativeToleranceFallsBack(t *testing.T) {
	engine := matcher.NewEngine(dec("-5"))

	books := []domain.GSTRecord{
		record("T1", "1000", "90.50", "90", "0", "1180.50"),
	}
	portal := []domain.GSTRecord{
		record("T1", "1000", "90", "90", "0", "1180"),
	}

	// A ₹0.50 delta sits inside the default ₹1 tolerance.
	report := engine.Reconcile(books, portal, domain.GSTR1, "012024")
	assert.Equal(t, 1, report.Summary.MatchedCount)
}

func TestNewEngine_ZeroToleranceMeansExactMatching(t *testing.T) {
	engine := matcher.NewEngine(decimal.Zero)

	books := []domain.GSTRecord{
		record("T1", "1000", "90.50", "90", "0", "1180.50"),
	}
	portal := []domain.GSTRecord{
		record("T1", "1000", "90", "90", "0", "1180"),
	}

	// The same ₹0.50 delta is a mismatch when exact matching is asked for.
	report := engine.Reconcile(books, portal, domain.GSTR1, "012024")
	assert.Equal(t, 0, report.Summary.MatchedCount)
	assert.Len(t, report.Mismatches, 1)
	assert.Equal(t, domain.AmountMismatch, report.Mismatches[0].Kind)
}
