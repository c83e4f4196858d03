package domain

import (
	"reflect"
	"sync"
	"testing"
)

func TestNewProviderTable_Defaults(t *testing.T) {
	table := NewProviderTable(nil)

	tests := []struct {
		id     string
		format Format
		model  string
	}{
		{"OpenAI", FormatChatCompletions, "gpt-3.5-turbo"},
		{"Gemini", FormatQueryAuth, "gemini"},
		{"Anthropic", FormatAnthropic, "anthropic"},
		{"DeepSeek", FormatChatCompletions, "deepseek-chat"},
		{"Mistral", FormatChatCompletions, "mistral-medium"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			spec, ok := table.Lookup(tt.id)
			if !ok {
				t.Fatalf("Lookup(%s) not found", tt.id)
			}
			if spec.Format != tt.format {
				t.Errorf("Format = %s, want %s", spec.Format, tt.format)
			}
			if spec.ModelName() != tt.model {
				t.Errorf("ModelName() = %s, want %s", spec.ModelName(), tt.model)
			}
			if spec.Endpoint == "" {
				t.Error("Endpoint is empty")
			}
		})
	}
}

func TestProviderTable_LookupIsCaseSensitive(t *testing.T) {
	table := NewProviderTable(nil)

	for _, id := range []string{"openai", "GEMINI", "anthropic ", ""} {
		if _, ok := table.Lookup(id); ok {
			t.Errorf("Lookup(%q) found, want not found", id)
		}
	}
}

func TestNewProviderTable_EndpointOverrides(t *testing.T) {
	table := NewProviderTable(map[string]string{
		"openai":  "http://localhost:8081/v1/chat/completions",
		"Mistral": "  ",
		"Unknown": "http://ignored",
	})

	openai, _ := table.Lookup("OpenAI")
	if openai.Endpoint != "http://localhost:8081/v1/chat/completions" {
		t.Errorf("OpenAI endpoint = %s, want override", openai.Endpoint)
	}

	mistral, _ := table.Lookup("Mistral")
	if mistral.Endpoint != "https://api.mistral.ai/v1/chat/completions" {
		t.Errorf("Mistral endpoint = %s, blank override should be ignored", mistral.Endpoint)
	}

	if _, ok := table.Lookup("Unknown"); ok {
		t.Error("override must not register new providers")
	}
}

func TestProviderTable_Specs(t *testing.T) {
	specs := NewProviderTable(nil).Specs()
	ids := make([]string, len(specs))
	for i, s := range specs {
		ids[i] = string(s.ID)
	}

	if !reflect.DeepEqual(ids, ProviderNames()) {
		t.Errorf("Specs() order = %v, want %v", ids, ProviderNames())
	}
}

func TestIsKnownProviderFold(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"OpenAI", true},
		{"deepseek", true},
		{"MISTRAL", true},
		{"cohere", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKnownProviderFold(tt.name); got != tt.expected {
				t.Errorf("IsKnownProviderFold(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestProviderTable_ConcurrentLookup(t *testing.T) {
	table := NewProviderTable(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, id := range ProviderNames() {
				if _, ok := table.Lookup(id); !ok {
					t.Errorf("Lookup(%s) not found", id)
				}
			}
		}()
	}
	wg.Wait()
}
