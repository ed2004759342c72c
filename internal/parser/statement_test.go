package parser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/parser"
)

const debitCreditCSV = `Date,Particulars,Ref No,Debit,Credit,Balance
01/04/2024,UPI-SWIGGY BANGALORE,UPI123,450.00,,99550.00
02/04/2024,NEFT SALARY CREDIT,NEFT456,,"50,000.00","1,49,550.00"
03/04/2024,ATM WITHDRAWAL,,2000.00,,147550.00
`

func TestParseStatement_DebitCreditColumns(t *testing.T) {
	result := parser.ParseStatement([]byte(debitCreditCSV), parser.FormatCSV)

	assert.True(t, result.Success)
	assert.Len(t, result.Transactions, 3)

	first := result.Transactions[0]
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "UPI-SWIGGY BANGALORE", first.Description)
	assert.Equal(t, "UPI123", first.Reference)
	assert.Equal(t, domain.Debit, first.Direction)
	assert.True(t, decimalEqual(t, "450", first.Amount))

	second := result.Transactions[1]
	assert.Equal(t, domain.Credit, second.Direction)
	assert.True(t, decimalEqual(t, "50000", second.Amount))
	if assert.NotNil(t, second.Balance) {
		assert.True(t, decimalEqual(t, "149550", *second.Balance))
	}
}

func TestParseStatement_SignedAmountColumn(t *testing.T) {
	csv := `Date,Description,Amount
05/04/2024,POS PURCHASE,-1250.50
06/04/2024,INTEREST CREDIT,320.00
07/04/2024,CHEQUE RETURN,(500.00)
`
	result := parser.ParseStatement([]byte(csv), parser.FormatCSV)

	assert.True(t, result.Success)
	assert.Len(t, result.Transactions, 3)

	// Negative renderings map to debit, parentheses included.
	assert.Equal(t, domain.Debit, result.Transactions[0].Direction)
	assert.True(t, decimalEqual(t, "1250.5", result.Transactions[0].Amount))
	assert.Equal(t, domain.Credit, result.Transactions[1].Direction)
	assert.Equal(t, domain.Debit, result.Transactions[2].Direction)
	assert.True(t, decimalEqual(t, "500", result.Transactions[2].Amount))
}

func TestParseStatement_SkipsBadRows(t *testing.T) {
	csv := `Date,Description,Amount
01/04/2024,VALID ROW,100.00
,,
not-a-date,BROKEN DATE,200.00
02/04/2024,,300.00
03/04/2024,ZERO AMOUNT,0.00
04/04/2024,UNPARSEABLE AMOUNT,abc
05/04/2024,LAST VALID,400.00
`
	result := parser.ParseStatement([]byte(csv), parser.FormatCSV)

	assert.True(t, result.Success)
	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, "VALID ROW", result.Transactions[0].Description)
	assert.Equal(t, "LAST VALID", result.Transactions[1].Description)
}

func TestParseStatement_DateRange(t *testing.T) {
	csv := `Date,Description,Amount
15/04/2024,MIDDLE,100.00
01/04/2024,EARLIEST,200.00
30/04/2024,LATEST,300.00
`
	result := parser.ParseStatement([]byte(csv), parser.FormatCSV)

	assert.True(t, result.Success)
	if assert.NotNil(t, result.StartDate) {
		assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), *result.StartDate)
	}
	if assert.NotNil(t, result.EndDate) {
		assert.Equal(t, time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), *result.EndDate)
	}
}

func TestParseStatement_StructuralFailures(t *testing.T) {
	result := parser.ParseStatement([]byte(""), parser.FormatCSV)
	assert.False(t, result.Success)
	assert.Equal(t, "no data found in file", result.Error)
	assert.Empty(t, result.Transactions)

	noDate := "Particulars,Amount\nSome payment,100\n"
	result = parser.ParseStatement([]byte(noDate), parser.FormatCSV)
	assert.False(t, result.Success)
	assert.Equal(t, "could not find date column", result.Error)

	noDescription := "Date,Amount\n01/04/2024,100\n"
	result = parser.ParseStatement([]byte(noDescription), parser.FormatCSV)
	assert.False(t, result.Success)
	assert.Equal(t, "could not find description column", result.Error)
}

func TestParseStatement_Deterministic(t *testing.T) {
	first := parser.ParseStatement([]byte(debitCreditCSV), parser.FormatCSV)
	second := parser.ParseStatement([]byte(debitCreditCSV), parser.FormatCSV)

	assert.Equal(t, first, second)
}

func TestParseStatement_UnsupportedFormat(t *testing.T) {
	result := parser.ParseStatement([]byte("x"), parser.Format("pdf"))
	assert.False(t, result.Success)
}
