// Package domain contains the core business entities and value objects.
// These structs are framework-agnostic and represent the heart of the application.
package domain

import (
	"strings"
)

// ProviderID identifies an upstream text-generation provider.
// Matching is exact and case-sensitive.
type ProviderID string

const (
	ProviderOpenAI    ProviderID = "OpenAI"
	ProviderGemini    ProviderID = "Gemini"
	ProviderAnthropic ProviderID = "Anthropic"
	ProviderDeepSeek  ProviderID = "DeepSeek"
	ProviderMistral   ProviderID = "Mistral"
)

// KnownProviders lists every supported provider in display order.
var KnownProviders = []ProviderID{
	ProviderOpenAI,
	ProviderGemini,
	ProviderAnthropic,
	ProviderDeepSeek,
	ProviderMistral,
}

// Format selects how requests are built and replies are parsed.
type Format int

const (
	// FormatChatCompletions is the OpenAI-compatible chat-completions shape.
	FormatChatCompletions Format = iota

	// FormatQueryAuth carries the credential in the URL query (Gemini generateContent).
	FormatQueryAuth

	// FormatAnthropic is the Anthropic messages shape with its own auth header.
	FormatAnthropic
)

func (f Format) String() string {
	switch f {
	case FormatQueryAuth:
		return "query-auth"
	case FormatAnthropic:
		return "anthropic"
	default:
		return "chat-completions"
	}
}

// ProviderSpec describes how to reach a single provider.
type ProviderSpec struct {
	// ID is the provider identifier callers send as "model".
	ID ProviderID `json:"id"`

	// Endpoint is the full URL requests are posted to.
	Endpoint string `json:"endpoint"`

	// DefaultModel is the upstream model name. Empty means none is registered.
	DefaultModel string `json:"default_model,omitempty"`

	// Format is the request/response variant.
	Format Format `json:"-"`
}

// ModelName resolves the upstream model, falling back to the lower-cased ID.
func (p ProviderSpec) ModelName() string {
	if p.DefaultModel != "" {
		return p.DefaultModel
	}
	return strings.ToLower(string(p.ID))
}

var defaultSpecs = []ProviderSpec{
	{
		ID:           ProviderOpenAI,
		Endpoint:     "https://api.openai.com/v1/chat/completions",
		DefaultModel: "gpt-3.5-turbo",
		Format:       FormatChatCompletions,
	},
	{
		ID:       ProviderGemini,
		Endpoint: "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent",
		Format:   FormatQueryAuth,
	},
	{
		ID:       ProviderAnthropic,
		Endpoint: "https://api.anthropic.com/v1/messages",
		Format:   FormatAnthropic,
	},
	{
		ID:           ProviderDeepSeek,
		Endpoint:     "https://api.deepseek.com/v1/chat/completions",
		DefaultModel: "deepseek-chat",
		Format:       FormatChatCompletions,
	},
	{
		ID:           ProviderMistral,
		Endpoint:     "https://api.mistral.ai/v1/chat/completions",
		DefaultModel: "mistral-medium",
		Format:       FormatChatCompletions,
	},
}

// ProviderTable is an immutable lookup from provider ID to its spec.
// It is safe for concurrent use.
type ProviderTable struct {
	specs map[ProviderID]ProviderSpec
}

// NewProviderTable builds the table from the built-in defaults.
// endpoints optionally replaces the URL for individual providers. Keys match
// provider IDs case-insensitively (config loaders lower-case map keys);
// unknown keys and empty values are ignored.
func NewProviderTable(endpoints map[string]string) *ProviderTable {
	overrides := make(map[string]string, len(endpoints))
	for k, v := range endpoints {
		overrides[strings.ToLower(k)] = strings.TrimSpace(v)
	}

	t := &ProviderTable{specs: make(map[ProviderID]ProviderSpec, len(defaultSpecs))}
	for _, spec := range defaultSpecs {
		if ep := overrides[strings.ToLower(string(spec.ID))]; ep != "" {
			spec.Endpoint = ep
		}
		t.specs[spec.ID] = spec
	}
	return t
}

// Lookup returns the spec for id.
func (t *ProviderTable) Lookup(id string) (ProviderSpec, bool) {
	spec, ok := t.specs[ProviderID(id)]
	return spec, ok
}

// Specs returns a copy of all specs in KnownProviders order.
func (t *ProviderTable) Specs() []ProviderSpec {
	out := make([]ProviderSpec, 0, len(KnownProviders))
	for _, id := range KnownProviders {
		out = append(out, t.specs[id])
	}
	return out
}

// IsKnownProviderFold reports whether name matches a provider ID ignoring case.
// Request dispatch matches exactly; this is for configuration keys.
func IsKnownProviderFold(name string) bool {
	for _, p := range KnownProviders {
		if strings.EqualFold(string(p), name) {
			return true
		}
	}
	return false
}

// ProviderNames returns the known IDs as plain strings.
func ProviderNames() []string {
	names := make([]string, len(KnownProviders))
	for i, p := range KnownProviders {
		names[i] = string(p)
	}
	return names
}

// ChatRequest is a single relay call.
type ChatRequest struct {
	Provider   string
	Message    string
	Credential string
}
