// Package adapter translates relay calls into each provider's wire format.
// Builders and parsers here are pure: no network I/O happens in this package.
package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hpn/qchat-relay/internal/domain"
)

const (
	// PlaceholderQueryAuth is returned when a Gemini-style reply cannot be parsed.
	PlaceholderQueryAuth = "Error parsing Gemini-style response"

	// PlaceholderNoResponse is returned when any other reply cannot be parsed.
	PlaceholderNoResponse = "No response"
)

// OutboundCall is the concrete HTTP request for one dispatch.
type OutboundCall struct {
	URL    string
	Header http.Header
	Body   []byte
}

// BuildCall constructs the outbound request for req using spec's format.
func BuildCall(spec domain.ProviderSpec, req domain.ChatRequest) (OutboundCall, error) {
	var (
		call OutboundCall
		err  error
	)

	switch spec.Format {
	case domain.FormatQueryAuth:
		call, err = buildGeminiCall(spec, req)
	case domain.FormatAnthropic:
		call, err = buildAnthropicCall(spec, req)
	default:
		call, err = buildChatCompletionsCall(spec, req)
	}
	if err != nil {
		return OutboundCall{}, fmt.Errorf("failed to build %s request: %w", spec.ID, err)
	}
	return call, nil
}

// ParseReply extracts the reply text from a successful response body.
// Structural mismatches never fail; they degrade to a placeholder and ok is false.
func ParseReply(format domain.Format, body []byte) (reply string, ok bool) {
	switch format {
	case domain.FormatQueryAuth:
		return parseGeminiReply(body)
	case domain.FormatAnthropic:
		return parseAnthropicReply(body)
	default:
		return parseChatCompletionsReply(body)
	}
}

// ExtractErrorMessage pulls a human-readable message out of an upstream error body.
//
// A JSON body with an "error" object yields error.message; a non-object
// "error" value yields its JSON text. When the body is JSON but carries no
// usable message, fallback is returned. A body that is not a JSON object is
// returned verbatim; an empty body yields fallback.
func ExtractErrorMessage(body []byte, fallback string) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return fallback
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return string(body)
	}

	raw, ok := envelope["error"]
	if !ok {
		return fallback
	}

	var detail map[string]json.RawMessage
	if err := json.Unmarshal(raw, &detail); err == nil {
		msgRaw, ok := detail["message"]
		if !ok {
			return fallback
		}
		return jsonText(msgRaw)
	}

	return jsonText(raw)
}

// jsonText renders a JSON value as text, unquoting plain strings.
func jsonText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func jsonHeader() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return h
}
