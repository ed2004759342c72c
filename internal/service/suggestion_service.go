package service

import (
	"context"
	"fmt"

	"github.com/ramanbajpai7/AcctAI/internal/ai"
	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/repository"
)

// SuggestionResult pairs the suggestions with the provider that
// produced them.
type SuggestionResult struct {
	Suggestions []domain.LedgerSuggestion `json:"suggestions"`
	Provider    string                    `json:"provider"`
}

type SuggestionService interface {
	SuggestLedger(ctx context.Context, req ai.Request) (*SuggestionResult, error)
	SuggestForBatch(ctx context.Context, batchID string) (map[int]SuggestionResult, error)
}

type suggestionService struct {
	chain  *ai.Chain
	txRepo repository.BankTransactionRepository
}

func NewSuggestionService(chain *ai.Chain, txRepo repository.BankTransactionRepository) SuggestionService {
	return &suggestionService{chain: chain, txRepo: txRepo}
}

func (s *suggestionService) SuggestLedger(ctx context.Context, req ai.Request) (*SuggestionResult, error) {
	if req.Description == "" {
		return nil, fmt.Errorf("description is required")
	}

	suggestions, provider, err := s.chain.Suggest(ctx, req)
	if err != nil {
		return nil, err
	}

	return &SuggestionResult{Suggestions: suggestions, Provider: provider}, nil
}

// SuggestForBatch classifies every transaction of an imported batch,
// keyed by transaction ID. Sequential on purpose: the upstream
// providers rate-limit, and batches are small.
func (s *suggestionService) SuggestForBatch(ctx context.Context, batchID string) (map[int]SuggestionResult, error) {
	transactions, err := s.txRepo.GetByBatchID(batchID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, fmt.Errorf("no transactions in batch %s", batchID)
	}

	results := make(map[int]SuggestionResult, len(transactions))
	for _, txn := range transactions {
		suggestions, provider, err := s.chain.Suggest(ctx, ai.Request{
			Description: txn.Description,
			Amount:      txn.Amount,
			Direction:   txn.Direction,
		})
		if err != nil {
			return nil, err
		}
		results[txn.ID] = SuggestionResult{Suggestions: suggestions, Provider: provider}
	}

	return results, nil
}
