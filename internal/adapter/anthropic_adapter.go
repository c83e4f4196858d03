package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/hpn/qchat-relay/internal/domain"
)

const (
	// AnthropicModel is fixed for every call.
	AnthropicModel = "claude-2.0"

	// AnthropicVersion is sent in the anthropic-version header.
	AnthropicVersion = "2023-06-01"

	anthropicMaxTokens = 1000
)

func buildAnthropicCall(spec domain.ProviderSpec, req domain.ChatRequest) (OutboundCall, error) {
	body, err := json.Marshal(AnthropicRequest{
		Model: AnthropicModel,
		Messages: []ChatMessage{
			{Role: "user", Content: req.Message},
		},
		MaxTokens: anthropicMaxTokens,
	})
	if err != nil {
		return OutboundCall{}, fmt.Errorf("failed to marshal anthropic request: %w", err)
	}

	h := jsonHeader()
	h.Set("x-api-key", req.Credential)
	h.Set("anthropic-version", AnthropicVersion)

	return OutboundCall{
		URL:    spec.Endpoint,
		Header: h,
		Body:   body,
	}, nil
}

// parseAnthropicReply descends content[0].text.
func parseAnthropicReply(body []byte) (string, bool) {
	var resp AnthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return PlaceholderNoResponse, false
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return PlaceholderNoResponse, false
	}
	return *resp.Content[0].Text, true
}

// AnthropicRequest is the body for POST /v1/messages.
type AnthropicRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// AnthropicResponse holds the fields of a messages response the relay reads.
type AnthropicResponse struct {
	Content []AnthropicContentBlock `json:"content"`
}

// AnthropicContentBlock is one block of the content array.
type AnthropicContentBlock struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}
