package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
)

// Format discriminates the two supported upload kinds. The caller maps
// file extensions: .csv is CSV, .xls/.xlsx are spreadsheets; anything
// else is rejected before reaching the parser.
type Format string

const (
	FormatCSV         Format = "csv"
	FormatSpreadsheet Format = "spreadsheet"
)

// OLE2 compound-file magic; distinguishes legacy .xls from zip-based .xlsx.
var ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0}

const maxSpreadsheetRows = 65536

// ParseStatement turns raw statement bytes into an ordered transaction
// list. Structural failures (unreadable grid, no header row, no
// date/description column) come back as Success=false with a message;
// individual bad rows are skipped silently.
func ParseStatement(data []byte, format Format) domain.ParseResult {
	var (
		rows [][]string
		err  error
	)

	switch format {
	case FormatCSV:
		rows, err = readCSVGrid(data)
	case FormatSpreadsheet:
		rows, err = readSpreadsheetGrid(data)
	default:
		return parseFailure(fmt.Sprintf("unsupported format: %s", format))
	}

	if err != nil {
		return parseFailure(err.Error())
	}
	if len(rows) < 2 {
		return parseFailure("no data found in file")
	}

	layout, ok := LocateColumns(rows)
	if !ok {
		return parseFailure("could not find date column")
	}
	if layout.Description == -1 {
		return parseFailure("could not find description column")
	}

	transactions := make([]domain.ParsedTransaction, 0, len(rows))
	for i := layout.HeaderRow + 1; i < len(rows); i++ {
		if txn, ok := parseRow(rows[i], layout); ok {
			transactions = append(transactions, txn)
		}
	}

	result := domain.ParseResult{
		Success:      true,
		Transactions: transactions,
	}
	if start, end, ok := dateRange(transactions); ok {
		result.StartDate = &start
		result.EndDate = &end
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"rows":         len(rows),
		"transactions": len(transactions),
		"header_row":   layout.HeaderRow,
	}).Info("Statement parsed")

	return result
}

// parseRow converts one data row, reporting ok=false for rows the
// parser drops: blank rows, unparseable dates, empty descriptions, and
// zero amounts.
func parseRow(row []string, layout ColumnLayout) (domain.ParsedTransaction, bool) {
	if isBlankRow(row) {
		return domain.ParsedTransaction{}, false
	}

	date, ok := ParseDate(cellAt(row, layout.Date))
	if !ok {
		return domain.ParsedTransaction{}, false
	}

	description := trimmed(cellAt(row, layout.Description))
	if description == "" {
		return domain.ParsedTransaction{}, false
	}

	amount, direction := amountAndDirection(row, layout)
	if amount.IsZero() {
		return domain.ParsedTransaction{}, false
	}

	txn := domain.ParsedTransaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Direction:   direction,
	}
	if layout.Reference != -1 {
		txn.Reference = trimmed(cellAt(row, layout.Reference))
	}
	if layout.Balance != -1 {
		balance := ParseAmount(cellAt(row, layout.Balance))
		txn.Balance = &balance
	}

	return txn, true
}

// amountAndDirection reads either the separate debit/credit column pair
// (a populated debit wins over a populated credit) or the single signed
// amount column, where a negative rendering means debit.
func amountAndDirection(row []string, layout ColumnLayout) (amount decimal.Decimal, direction domain.Direction) {
	direction = domain.Debit

	if layout.Debit != -1 && layout.Credit != -1 {
		debit := ParseAmount(cellAt(row, layout.Debit))
		credit := ParseAmount(cellAt(row, layout.Credit))
		if debit.IsPositive() {
			return debit, domain.Debit
		}
		if credit.IsPositive() {
			return credit, domain.Credit
		}
		return decimal.Zero, direction
	}

	if layout.Amount != -1 {
		raw := cellAt(row, layout.Amount)
		amount = ParseAmount(raw)
		if looksNegative(raw) {
			return amount, domain.Debit
		}
		return amount, domain.Credit
	}

	return decimal.Zero, direction
}

func readCSVGrid(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.GetLogger().WithError(err).Warn("Failed to read CSV row, skipping")
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readSpreadsheetGrid(data []byte) ([][]string, error) {
	if len(data) >= len(ole2Magic) && bytes.Equal(data[:len(ole2Magic)], ole2Magic) {
		return readXLSGrid(data)
	}
	return readXLSXGrid(data)
}

func readXLSXGrid(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	// Raw values keep date-typed cells as serial numbers instead of
	// rendering them through their number style (m/d/yy and friends),
	// so ParseDate's serial path can read them.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readXLSGrid(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook: %w", err)
	}
	return wb.ReadAllCells(maxSpreadsheetRows), nil
}

func dateRange(transactions []domain.ParsedTransaction) (start, end time.Time, ok bool) {
	if len(transactions) == 0 {
		return start, end, false
	}
	start, end = transactions[0].Date, transactions[0].Date
	for _, txn := range transactions[1:] {
		if txn.Date.Before(start) {
			start = txn.Date
		}
		if txn.Date.After(end) {
			end = txn.Date
		}
	}
	return start, end, true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseFailure(msg string) domain.ParseResult {
	logger.GetLogger().WithField("error", msg).Warn("Statement parse failed")
	return domain.ParseResult{
		Success:      false,
		Transactions: []domain.ParsedTransaction{},
		Error:        msg,
	}
}
