package adapter

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/hpn/qchat-relay/internal/domain"
)

const (
	geminiTemperature     = 0.7
	geminiMaxOutputTokens = 2048
)

// buildGeminiCall authenticates through the "key" query parameter.
// Only the content type header is sent.
func buildGeminiCall(spec domain.ProviderSpec, req domain.ChatRequest) (OutboundCall, error) {
	u, err := url.Parse(spec.Endpoint)
	if err != nil {
		return OutboundCall{}, fmt.Errorf("invalid endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", req.Credential)
	u.RawQuery = q.Encode()

	temperature := geminiTemperature
	maxTokens := geminiMaxOutputTokens
	body, err := json.Marshal(GeminiRequest{
		Contents: []GeminiContent{
			{
				Role:  "user",
				Parts: []GeminiPart{{Text: req.Message}},
			},
		},
		GenerationConfig: GeminiGenerationConfig{
			Temperature:     &temperature,
			MaxOutputTokens: &maxTokens,
		},
	})
	if err != nil {
		return OutboundCall{}, fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	return OutboundCall{
		URL:    u.String(),
		Header: jsonHeader(),
		Body:   body,
	}, nil
}

// parseGeminiReply descends candidates[0].content.parts[0].text.
func parseGeminiReply(body []byte) (string, bool) {
	var resp GeminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return PlaceholderQueryAuth, false
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return PlaceholderQueryAuth, false
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == nil {
		return PlaceholderQueryAuth, false
	}
	return *parts[0].Text, true
}

// ============================================================================
// Gemini API Types
// ============================================================================

// GeminiRequest represents a Gemini generateContent request.
type GeminiRequest struct {
	Contents         []GeminiContent        `json:"contents"`
	GenerationConfig GeminiGenerationConfig `json:"generationConfig"`
}

// GeminiContent represents a content block in a request.
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart represents a part of a content block.
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiGenerationConfig contains generation parameters.
type GeminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

// GeminiResponse represents a Gemini generateContent response.
// Pointers distinguish absent fields from empty ones.
type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

// GeminiCandidate represents a single generated candidate.
type GeminiCandidate struct {
	Content *GeminiReplyContent `json:"content"`
}

// GeminiReplyContent is the content block of a candidate.
type GeminiReplyContent struct {
	Parts []GeminiReplyPart `json:"parts"`
}

// GeminiReplyPart is one part of a candidate's content.
type GeminiReplyPart struct {
	Text *string `json:"text"`
}
