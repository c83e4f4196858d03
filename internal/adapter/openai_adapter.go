package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/hpn/qchat-relay/internal/domain"
)

// OpenAI-compatible request/response types.
// OpenAI, DeepSeek and Mistral all accept this shape.

// ChatCompletionsRequest represents a chat completion request.
type ChatCompletionsRequest struct {
	// Messages contains the single user turn.
	Messages []ChatMessage `json:"messages"`

	// Model is the upstream model name.
	Model string `json:"model"`
}

// ChatMessage represents a single message in the conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionsResponse holds the fields of a completion the relay reads.
type ChatCompletionsResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice represents a single completion choice.
type ChatChoice struct {
	Message *ChatReplyMessage `json:"message"`
}

// ChatReplyMessage is the assistant message of a choice.
type ChatReplyMessage struct {
	Content *string `json:"content"`
}

func buildChatCompletionsCall(spec domain.ProviderSpec, req domain.ChatRequest) (OutboundCall, error) {
	body, err := json.Marshal(ChatCompletionsRequest{
		Messages: []ChatMessage{
			{Role: "user", Content: req.Message},
		},
		Model: spec.ModelName(),
	})
	if err != nil {
		return OutboundCall{}, fmt.Errorf("failed to marshal chat completions request: %w", err)
	}

	h := jsonHeader()
	h.Set("Authorization", "Bearer "+req.Credential)

	return OutboundCall{
		URL:    spec.Endpoint,
		Header: h,
		Body:   body,
	}, nil
}

// parseChatCompletionsReply descends choices[0].message.content.
func parseChatCompletionsReply(body []byte) (string, bool) {
	var resp ChatCompletionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return PlaceholderNoResponse, false
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return PlaceholderNoResponse, false
	}
	return *resp.Choices[0].Message.Content, true
}
