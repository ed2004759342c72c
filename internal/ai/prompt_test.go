package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
)

func TestParseSuggestions_PlainJSON(t *testing.T) {
	content := `{"suggestions": [
		{"ledger": "Rent Expense", "confidence": 95, "reason": "Rent keyword"},
		{"ledger": "Office Expenses", "confidence": 60, "reason": "Possible office cost"}
	]}`

	suggestions, err := parseSuggestions(content)

	assert.NoError(t, err)
	assert.Len(t, suggestions, 2)
	assert.Equal(t, "Rent Expense", suggestions[0].Ledger)
	assert.Equal(t, 95, suggestions[0].Confidence)
}

func TestParseSuggestions_JSONWrappedInProse(t *testing.T) {
	content := "Here is my analysis:\n```json\n" +
		`{"suggestions": [{"ledger": "Fuel Expense", "confidence": 88, "reason": "Petrol pump"}]}` +
		"\n```\nHope this helps!"

	suggestions, err := parseSuggestions(content)

	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)
	assert.Equal(t, "Fuel Expense", suggestions[0].Ledger)
}

func TestParseSuggestions_ClampsAndDefaults(t *testing.T) {
	content := `{"suggestions": [
		{"ledger": "", "confidence": 150, "reason": ""},
		{"ledger": "Bank Charges", "confidence": -10, "reason": "charges"}
	]}`

	suggestions, err := parseSuggestions(content)

	assert.NoError(t, err)
	assert.Equal(t, "Miscellaneous Expense", suggestions[0].Ledger)
	assert.Equal(t, 100, suggestions[0].Confidence)
	assert.Equal(t, "AI suggestion", suggestions[0].Reason)
	assert.Equal(t, 0, suggestions[1].Confidence)
}

func TestParseSuggestions_CapsAtThree(t *testing.T) {
	content := `{"suggestions": [
		{"ledger": "A", "confidence": 90},
		{"ledger": "B", "confidence": 80},
		{"ledger": "C", "confidence": 70},
		{"ledger": "D", "confidence": 60}
	]}`

	suggestions, err := parseSuggestions(content)

	assert.NoError(t, err)
	assert.Len(t, suggestions, 3)
}

func TestParseSuggestions_Invalid(t *testing.T) {
	_, err := parseSuggestions("no json here")
	assert.Error(t, err)

	_, err = parseSuggestions(`{"suggestions": []}`)
	assert.Error(t, err)
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt(Request{
		Description:      "ATM WITHDRAWAL",
		Amount:           decimal.NewFromInt(2000),
		Direction:        domain.Debit,
		AvailableLedgers: []string{"Cash Account", "Drawings"},
	})

	assert.Contains(t, prompt, "ATM WITHDRAWAL")
	assert.Contains(t, prompt, "₹2000.00")
	assert.Contains(t, prompt, "Money paid/withdrawn")
	assert.Contains(t, prompt, "Cash Account, Drawings")
}

func TestBuildUserPrompt_DefaultLedgers(t *testing.T) {
	prompt := buildUserPrompt(Request{
		Description: "NEFT CREDIT",
		Amount:      decimal.NewFromInt(500),
		Direction:   domain.Credit,
	})

	assert.Contains(t, prompt, "Money received/deposited")
	assert.Contains(t, prompt, "Rent Expense")
}

func TestGroqProvider_Suggest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content":
			"{\"suggestions\": [{\"ledger\": \"Salary Expense\", \"confidence\": 92, \"reason\": \"Payroll narration\"}]}"
		}}]}`))
	}))
	defer server.Close()

	provider := NewGroqProvider("test-key", "llama-3.1-8b-instant")
	provider.baseURL = server.URL

	suggestions, err := provider.Suggest(context.Background(), Request{
		Description: "SALARY PAYMENT APRIL",
		Amount:      decimal.NewFromInt(50000),
		Direction:   domain.Debit,
	})

	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)
	assert.Equal(t, "Salary Expense", suggestions[0].Ledger)
	assert.Equal(t, 92, suggestions[0].Confidence)
}

func TestGroqProvider_MissingKey(t *testing.T) {
	provider := NewGroqProvider("", "llama-3.1-8b-instant")
	_, err := provider.Suggest(context.Background(), Request{Description: "x"})
	assert.Error(t, err)
}

func TestGroqProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewGroqProvider("test-key", "llama-3.1-8b-instant")
	provider.baseURL = server.URL

	_, err := provider.Suggest(context.Background(), Request{Description: "x"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
