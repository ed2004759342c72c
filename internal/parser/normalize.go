package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Spreadsheet serial dates count days from 1899-12-30.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	dayFirstPattern  = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})$`)
	yearFirstPattern = regexp.MustCompile(`^(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})$`)
	monthNamePattern = regexp.MustCompile(`^(\d{1,2})[/\-]([A-Za-z]{3})[/\-](\d{4})$`)
)

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Generic layouts tried when none of the explicit patterns match.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate normalizes the date renderings seen in bank exports:
// spreadsheet serial numbers, DD/MM/YYYY and DD-MM-YYYY, YYYY/MM/DD and
// YYYY-MM-DD, and DD-MMM-YYYY. All-numeric day/month/year values are
// read day-first: Indian statements never use the US order, so
// 25/12/2024 is December 25, not an error or November.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	// Spreadsheet serial date; fractional day truncated. The range guard
	// keeps eight-digit renderings like 20240115 out of the serial path.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 || serial >= 200000 {
			return time.Time{}, false
		}
		return serialEpoch.AddDate(0, 0, int(serial)), true
	}

	if m := dayFirstPattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := civilDate(year, month, day); ok {
			return t, true
		}
		return time.Time{}, false
	}

	if m := yearFirstPattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if t, ok := civilDate(year, month, day); ok {
			return t, true
		}
		return time.Time{}, false
	}

	if m := monthNamePattern.FindStringSubmatch(s); m != nil {
		if month, known := monthAbbrevs[strings.ToLower(m[2])]; known {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			if t, ok := civilDate(year, int(month), day); ok {
				return t, true
			}
		}
		return time.Time{}, false
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

func civilDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject rollovers such as 31/02/2024.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// ParseAmount strips currency symbols, thousands separators, and
// surrounding whitespace, and returns the absolute magnitude. The sign
// is conveyed separately by the transaction direction. Unparseable
// input yields zero; callers drop zero-amount records.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case '₹', '$', ',', ' ', '\t':
			return -1
		}
		return r
	}, s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}

// looksNegative reports whether the source rendered the value as
// negative, by minus sign or accounting parentheses.
func looksNegative(raw string) bool {
	s := strings.TrimSpace(raw)
	return strings.Contains(s, "-") || (strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"))
}
