// Package ai suggests ledger accounts for bank transactions. Providers
// are tried in a fixed order until one succeeds; the keyword provider
// at the end of the chain never fails, so a suggestion always comes
// back. There is no retry or backoff state between calls.
package ai

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
)

// Request describes the transaction to classify.
type Request struct {
	Description      string
	Amount           decimal.Decimal
	Direction        domain.Direction
	AvailableLedgers []string
}

// Provider is one suggestion strategy.
type Provider interface {
	Name() string
	Suggest(ctx context.Context, req Request) ([]domain.LedgerSuggestion, error)
}

// Chain tries each provider in order and returns the first success
// along with the name of the provider that produced it.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Suggest(ctx context.Context, req Request) ([]domain.LedgerSuggestion, string, error) {
	for _, provider := range c.providers {
		suggestions, err := provider.Suggest(ctx, req)
		if err != nil {
			logger.GetLogger().WithError(err).WithField("provider", provider.Name()).
				Warn("Suggestion provider failed, trying next")
			continue
		}
		return suggestions, provider.Name(), nil
	}
	return nil, "", fmt.Errorf("all suggestion providers failed")
}
