package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
)

const defaultGroqURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqProvider calls Groq's OpenAI-compatible chat completion API.
type GroqProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGroqProvider(apiKey, model string) *GroqProvider {
	return &GroqProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGroqURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GroqProvider) Name() string { return "groq" }

type groqChatRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *GroqProvider) Suggest(ctx context.Context, req Request) ([]domain.LedgerSuggestion, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY not set")
	}

	body, err := json.Marshal(groqChatRequest{
		Model: p.model,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(req)},
		},
		Temperature: 0.3,
		MaxTokens:   1024,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("groq API error: %d - %s", resp.StatusCode, string(detail))
	}

	var chatResp groqChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("invalid groq response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("empty groq response")
	}

	return parseSuggestions(chatResp.Choices[0].Message.Content)
}
