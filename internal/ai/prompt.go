package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
)

const systemPrompt = `You are an expert accountant in India. Analyze bank transactions and suggest appropriate ledger accounts.
Always respond with ONLY a JSON object, no markdown or explanation.`

const maxSuggestions = 3

func buildUserPrompt(req Request) string {
	moneyFlow := "Money received/deposited"
	if req.Direction == domain.Debit {
		moneyFlow = "Money paid/withdrawn"
	}

	ledgers := req.AvailableLedgers
	if len(ledgers) == 0 {
		ledgers = defaultLedgerNames()
	}

	return fmt.Sprintf(`Transaction Details:
- Description: %q
- Amount: ₹%s
- Type: %s

Available Ledger Accounts: %s

Respond with this exact JSON format:
{"suggestions": [{"ledger": "Account Name", "confidence": 95, "reason": "Brief reason"}, ...]}

Provide exactly %d suggestions ordered by confidence (highest first, 0-100).`,
		req.Description, req.Amount.StringFixed(2), moneyFlow,
		strings.Join(ledgers, ", "), maxSuggestions)
}

type suggestionPayload struct {
	Suggestions []struct {
		Ledger     string `json:"ledger"`
		Confidence int    `json:"confidence"`
		Reason     string `json:"reason"`
	} `json:"suggestions"`
}

// parseSuggestions extracts the first JSON object from a model reply
// (models wrap answers in prose or fences often enough) and decodes the
// suggestion list, clamping confidence to 0-100.
func parseSuggestions(content string) ([]domain.LedgerSuggestion, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model reply")
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("malformed suggestion JSON: %w", err)
	}
	if len(payload.Suggestions) == 0 {
		return nil, fmt.Errorf("empty suggestion list")
	}

	suggestions := make([]domain.LedgerSuggestion, 0, maxSuggestions)
	for _, s := range payload.Suggestions {
		if len(suggestions) == maxSuggestions {
			break
		}
		ledger := s.Ledger
		if ledger == "" {
			ledger = "Miscellaneous Expense"
		}
		confidence := s.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 100 {
			confidence = 100
		}
		reason := s.Reason
		if reason == "" {
			reason = "AI suggestion"
		}
		suggestions = append(suggestions, domain.LedgerSuggestion{
			Ledger:     ledger,
			Confidence: confidence,
			Reason:     reason,
		})
	}

	return suggestions, nil
}
