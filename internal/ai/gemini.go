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

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// GeminiProvider calls Google's Gemini generateContent API.
type GeminiProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:  apiKey,
		baseURL: defaultGeminiURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

type geminiRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *GeminiProvider) Suggest(ctx context.Context, req Request) ([]domain.LedgerSuggestion, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: buildUserPrompt(req)}}},
		},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
		GenerationConfig: geminiGenerConfig{
			Temperature:     0.3,
			MaxOutputTokens: 1024,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s?key=%s", p.baseURL, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gemini API error: %d - %s", resp.StatusCode, string(detail))
	}

	var genResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("invalid gemini response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty gemini response")
	}

	return parseSuggestions(genResp.Candidates[0].Content.Parts[0].Text)
}
