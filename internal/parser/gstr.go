package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
)

// Wire shapes of the GST portal JSON export. Field names follow the
// portal schema (inum, idt, txval, camt, samt, iamt, csamt).
type gstrExport struct {
	B2B  []gstrCounterparty `json:"b2b"`
	B2CL []gstrStateGroup   `json:"b2cl"`
}

type gstrCounterparty struct {
	CTIN     string        `json:"ctin"`
	Invoices []gstrInvoice `json:"inv"`
}

type gstrStateGroup struct {
	POS      string             `json:"pos"`
	Invoices []gstrLargeInvoice `json:"inv"`
}

type gstrInvoice struct {
	Number        string     `json:"inum"`
	Date          string     `json:"idt"`
	Value         float64    `json:"val"`
	POS           string     `json:"pos"`
	ReverseCharge string     `json:"rchrg"`
	Items         []gstrItem `json:"itms"`
}

type gstrLargeInvoice struct {
	Number       string  `json:"inum"`
	Date         string  `json:"idt"`
	Value        float64 `json:"val"`
	TaxableValue float64 `json:"txval"`
	IGST         float64 `json:"iamt"`
}

type gstrItem struct {
	Detail gstrItemDetail `json:"itm_det"`
}

type gstrItemDetail struct {
	TaxableValue float64 `json:"txval"`
	CGST         float64 `json:"camt"`
	SGST         float64 `json:"samt"`
	IGST         float64 `json:"iamt"`
	Cess         float64 `json:"csamt"`
}

// ParseGSTRExport flattens a GST portal JSON export into invoice
// records. GSTR-1 contributes the b2b and b2cl sections; GSTR-2A/2B
// contribute b2b supplies received. Other return types carry no
// invoice-level detail and yield an empty list.
func ParseGSTRExport(data []byte, gstrType domain.GSTRType) ([]domain.GSTRecord, error) {
	var export gstrExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("invalid GSTR export: %w", err)
	}

	var records []domain.GSTRecord

	switch gstrType {
	case domain.GSTR1:
		for _, receiver := range export.B2B {
			for _, inv := range receiver.Invoices {
				for _, item := range inv.Items {
					records = append(records, domain.GSTRecord{
						InvoiceNumber:     inv.Number,
						InvoiceDate:       parsePortalDate(inv.Date),
						CounterpartyGSTIN: receiver.CTIN,
						TaxableValue:      decimal.NewFromFloat(item.Detail.TaxableValue),
						CGST:              decimal.NewFromFloat(item.Detail.CGST),
						SGST:              decimal.NewFromFloat(item.Detail.SGST),
						IGST:              decimal.NewFromFloat(item.Detail.IGST),
						Cess:              decimal.NewFromFloat(item.Detail.Cess),
						TotalValue:        decimal.NewFromFloat(inv.Value),
						PlaceOfSupply:     inv.POS,
						ReverseCharge:     inv.ReverseCharge == "Y",
					})
				}
			}
		}
		for _, state := range export.B2CL {
			for _, inv := range state.Invoices {
				records = append(records, domain.GSTRecord{
					InvoiceNumber: inv.Number,
					InvoiceDate:   parsePortalDate(inv.Date),
					TaxableValue:  decimal.NewFromFloat(inv.TaxableValue),
					CGST:          decimal.Zero,
					SGST:          decimal.Zero,
					IGST:          decimal.NewFromFloat(inv.IGST),
					Cess:          decimal.Zero,
					TotalValue:    decimal.NewFromFloat(inv.Value),
					PlaceOfSupply: state.POS,
				})
			}
		}
	case domain.GSTR2A, domain.GSTR2B:
		for _, supplier := range export.B2B {
			for _, inv := range supplier.Invoices {
				for _, item := range inv.Items {
					records = append(records, domain.GSTRecord{
						InvoiceNumber:     inv.Number,
						InvoiceDate:       parsePortalDate(inv.Date),
						CounterpartyGSTIN: supplier.CTIN,
						TaxableValue:      decimal.NewFromFloat(item.Detail.TaxableValue),
						CGST:              decimal.NewFromFloat(item.Detail.CGST),
						SGST:              decimal.NewFromFloat(item.Detail.SGST),
						IGST:              decimal.NewFromFloat(item.Detail.IGST),
						Cess:              decimal.NewFromFloat(item.Detail.Cess),
						TotalValue:        decimal.NewFromFloat(inv.Value),
					})
				}
			}
		}
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"gstr_type": gstrType,
		"records":   len(records),
	}).Info("GSTR export parsed")

	return records, nil
}

// parsePortalDate reads the portal's DD-MM-YYYY / DDMMYYYY rendering.
// Unrecognized input yields the zero time, never the current clock.
func parsePortalDate(raw string) time.Time {
	cleaned := strings.NewReplacer("-", "", "/", "").Replace(strings.TrimSpace(raw))
	if len(cleaned) == 8 {
		day, errD := strconv.Atoi(cleaned[0:2])
		month, errM := strconv.Atoi(cleaned[2:4])
		year, errY := strconv.Atoi(cleaned[4:8])
		if errD == nil && errM == nil && errY == nil {
			if t, ok := civilDate(year, month, day); ok {
				return t
			}
		}
	}
	if t, ok := ParseDate(raw); ok {
		return t
	}
	return time.Time{}
}

// Books sales/purchase export headers, normalized.
var (
	booksInvoiceSynonyms = []string{"invoice number", "invoice no", "inv no"}
	booksDateSynonyms    = []string{"invoice date", "inv date", "date"}
	booksGSTINSynonyms   = []string{"gstin", "buyer gstin", "customer gstin", "supplier gstin"}
	booksTaxableSynonyms = []string{"taxable value", "taxable amount"}
	booksCGSTSynonyms    = []string{"cgst", "cgst amount"}
	booksSGSTSynonyms    = []string{"sgst", "sgst amount"}
	booksIGSTSynonyms    = []string{"igst", "igst amount"}
	booksCessSynonyms    = []string{"cess", "cess amount"}
	booksTotalSynonyms   = []string{"total", "invoice value", "total value"}
	booksPOSSynonyms     = []string{"place of supply", "pos"}
)

// ParseBooksCSV loads the firm's own sales/purchase register from a CSV
// export into the same record shape the reconciliation engine consumes.
// Rows without an invoice number are skipped.
func ParseBooksCSV(data []byte) ([]domain.GSTRecord, error) {
	rows, err := readCSVGrid(data)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in books export")
	}

	header := rows[0]
	invoiceCol := findColumn(header, booksInvoiceSynonyms)
	if invoiceCol == -1 {
		return nil, fmt.Errorf("could not find invoice number column")
	}
	dateCol := findColumn(header, booksDateSynonyms)
	gstinCol := findColumn(header, booksGSTINSynonyms)
	taxableCol := findColumn(header, booksTaxableSynonyms)
	cgstCol := findColumn(header, booksCGSTSynonyms)
	sgstCol := findColumn(header, booksSGSTSynonyms)
	igstCol := findColumn(header, booksIGSTSynonyms)
	cessCol := findColumn(header, booksCessSynonyms)
	totalCol := findColumn(header, booksTotalSynonyms)
	posCol := findColumn(header, booksPOSSynonyms)

	records := make([]domain.GSTRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		invoiceNumber := trimmed(cellAt(row, invoiceCol))
		if invoiceNumber == "" {
			continue
		}

		record := domain.GSTRecord{
			InvoiceNumber:     invoiceNumber,
			CounterpartyGSTIN: trimmed(cellAt(row, gstinCol)),
			TaxableValue:      ParseAmount(cellAt(row, taxableCol)),
			CGST:              ParseAmount(cellAt(row, cgstCol)),
			SGST:              ParseAmount(cellAt(row, sgstCol)),
			IGST:              ParseAmount(cellAt(row, igstCol)),
			Cess:              ParseAmount(cellAt(row, cessCol)),
			TotalValue:        ParseAmount(cellAt(row, totalCol)),
			PlaceOfSupply:     trimmed(cellAt(row, posCol)),
		}
		if t, ok := ParseDate(cellAt(row, dateCol)); ok {
			record.InvoiceDate = t
		}
		records = append(records, record)
	}

	return records, nil
}
