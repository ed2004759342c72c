package ai

import (
	"context"
	"sort"
	"strings"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
)

type ledgerKeywords struct {
	name     string
	keywords []string
}

// Ledger accounts common to Indian small-business books, with the
// description keywords that indicate them.
var commonLedgers = []ledgerKeywords{
	{"Rent Expense", []string{"rent", "lease", "property"}},
	{"Electricity Expense", []string{"electricity", "power", "bescom", "mseb"}},
	{"Telephone Expense", []string{"phone", "mobile", "jio", "airtel", "vodafone", "bsnl"}},
	{"Internet Expense", []string{"internet", "broadband", "wifi", "fiber"}},
	{"Salary Expense", []string{"salary", "wages", "payroll"}},
	{"Office Expenses", []string{"office", "supplies", "stationery"}},
	{"Travelling Expense", []string{"travel", "flight", "train", "cab", "uber", "ola"}},
	{"Fuel Expense", []string{"fuel", "petrol", "diesel", "gas", "iocl", "bpcl", "hpcl"}},
	{"Food & Refreshment", []string{"food", "restaurant", "swiggy", "zomato", "hotel"}},
	{"Bank Charges", []string{"bank charge", "service charge", "sms charge"}},
	{"Insurance Expense", []string{"insurance", "lic", "policy", "premium"}},
	{"Professional Fees", []string{"professional", "consultant", "advisory"}},
	{"Legal Charges", []string{"legal", "advocate", "lawyer", "attorney"}},
	{"Repairs & Maintenance", []string{"repair", "maintenance", "service", "amc"}},
	{"Advertisement Expense", []string{"advertisement", "marketing", "google ads"}},
	{"GST Payment", []string{"gst", "cgst", "sgst", "igst"}},
	{"TDS Payment", []string{"tds", "tax deducted"}},
	{"EMI Payment", []string{"emi", "loan", "installment"}},
	{"Sales Account", []string{"sale", "revenue", "income", "receipt"}},
	{"Interest Received", []string{"interest received", "int recd"}},
	{"Interest Expense", []string{"interest paid", "int paid"}},
}

func defaultLedgerNames() []string {
	names := make([]string, len(commonLedgers))
	for i, l := range commonLedgers {
		names[i] = l.name
	}
	return names
}

// KeywordProvider is the terminal strategy: a rule-based match against
// the keyword table. It never returns an error.
type KeywordProvider struct{}

func NewKeywordProvider() *KeywordProvider {
	return &KeywordProvider{}
}

func (p *KeywordProvider) Name() string { return "keyword" }

func (p *KeywordProvider) Suggest(_ context.Context, req Request) ([]domain.LedgerSuggestion, error) {
	descLower := strings.ToLower(req.Description)

	type match struct {
		name  string
		score int
		order int
	}
	var matches []match

	for order, ledger := range commonLedgers {
		score := 0
		for _, keyword := range ledger.keywords {
			if strings.Contains(descLower, keyword) {
				score += 10
			}
		}
		if score > 0 {
			matches = append(matches, match{name: ledger.name, score: score, order: order})
		}
	}

	if len(matches) == 0 {
		return []domain.LedgerSuggestion{
			{Ledger: "Miscellaneous Expense", Confidence: 50, Reason: "No specific match found"},
		}, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	limit := maxSuggestions
	if len(matches) < limit {
		limit = len(matches)
	}

	suggestions := make([]domain.LedgerSuggestion, 0, limit)
	for i := 0; i < limit; i++ {
		confidence := 90 - i*15
		if confidence < 50 {
			confidence = 50
		}
		suggestions = append(suggestions, domain.LedgerSuggestion{
			Ledger:     matches[i].name,
			Confidence: confidence,
			Reason:     "Matched keywords in description",
		})
	}

	return suggestions, nil
}
