package adapter

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/hpn/qchat-relay/internal/domain"
)

func geminiSpec() domain.ProviderSpec {
	spec, _ := domain.NewProviderTable(nil).Lookup("Gemini")
	return spec
}

func TestBuildCall_Gemini(t *testing.T) {
	call, err := BuildCall(geminiSpec(), domain.ChatRequest{
		Provider:   "Gemini",
		Message:    "Hello, world!",
		Credential: "AIza-test-key",
	})
	if err != nil {
		t.Fatalf("BuildCall() error = %v", err)
	}

	u, err := url.Parse(call.URL)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", call.URL, err)
	}
	if got := u.Query().Get("key"); got != "AIza-test-key" {
		t.Errorf("query key = %q, want AIza-test-key", got)
	}
	if u.Path != "/v1beta/models/gemini-pro:generateContent" {
		t.Errorf("path = %s, want gemini-pro generateContent", u.Path)
	}

	if len(call.Header) != 1 {
		t.Errorf("len(Header) = %d, want 1 (content type only)", len(call.Header))
	}
	if call.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", call.Header.Get("Content-Type"))
	}
	if call.Header.Get("Authorization") != "" {
		t.Error("Authorization header must not be set for query-auth provider")
	}

	var req GeminiRequest
	if err := json.Unmarshal(call.Body, &req); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if len(req.Contents) != 1 {
		t.Fatalf("len(Contents) = %d, want 1", len(req.Contents))
	}
	if req.Contents[0].Role != "user" {
		t.Errorf("Contents[0].Role = %s, want user", req.Contents[0].Role)
	}
	if len(req.Contents[0].Parts) != 1 || req.Contents[0].Parts[0].Text != "Hello, world!" {
		t.Errorf("Contents[0].Parts = %+v, want one part with the message", req.Contents[0].Parts)
	}
	if req.GenerationConfig.Temperature == nil || *req.GenerationConfig.Temperature != 0.7 {
		t.Error("Temperature not set to 0.7")
	}
	if req.GenerationConfig.MaxOutputTokens == nil || *req.GenerationConfig.MaxOutputTokens != 2048 {
		t.Error("MaxOutputTokens not set to 2048")
	}
}

func TestBuildCall_GeminiEndpointWithQuery(t *testing.T) {
	spec := geminiSpec()
	spec.Endpoint = "http://localhost:9999/generate?alt=json"

	call, err := BuildCall(spec, domain.ChatRequest{Provider: "Gemini", Message: "hi", Credential: "k"})
	if err != nil {
		t.Fatalf("BuildCall() error = %v", err)
	}

	u, _ := url.Parse(call.URL)
	if u.Query().Get("alt") != "json" {
		t.Errorf("existing query parameter lost: %s", call.URL)
	}
	if u.Query().Get("key") != "k" {
		t.Errorf("key parameter missing: %s", call.URL)
	}
}

func TestParseReply_Gemini(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "valid response",
			body:     `{"candidates":[{"content":{"parts":[{"text":"Hello from Gemini!"}],"role":"model"}}]}`,
			expected: "Hello from Gemini!",
		},
		{
			name:     "empty text is returned as-is",
			body:     `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
			expected: "",
		},
		{
			name:     "missing candidates",
			body:     `{}`,
			expected: PlaceholderQueryAuth,
		},
		{
			name:     "empty candidates",
			body:     `{"candidates":[]}`,
			expected: PlaceholderQueryAuth,
		},
		{
			name:     "missing content",
			body:     `{"candidates":[{"finishReason":"SAFETY"}]}`,
			expected: PlaceholderQueryAuth,
		},
		{
			name:     "empty parts",
			body:     `{"candidates":[{"content":{"parts":[]}}]}`,
			expected: PlaceholderQueryAuth,
		},
		{
			name:     "missing text",
			body:     `{"candidates":[{"content":{"parts":[{"inlineData":{}}]}}]}`,
			expected: PlaceholderQueryAuth,
		},
		{
			name:     "not JSON",
			body:     `<html>oops</html>`,
			expected: PlaceholderQueryAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := ParseReply(domain.FormatQueryAuth, []byte(tt.body))
			if result != tt.expected {
				t.Errorf("ParseReply() = %q, want %q", result, tt.expected)
			}
		})
	}
}
