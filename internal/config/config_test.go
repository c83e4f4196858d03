package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.UpstreamTimeout() != 90*time.Second {
		t.Errorf("UpstreamTimeout() = %s, want 90s", cfg.UpstreamTimeout())
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("CORS.AllowedOrigins = %v, want [*]", cfg.CORS.AllowedOrigins)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", cfg.Logging.Level)
	}
	if cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled = true, want false by default")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("QCHAT_SERVER_PORT", "9999")
	t.Setenv("QCHAT_LOGGING_LEVEL", "debug")
	t.Setenv("QCHAT_UPSTREAM_ENDPOINTS_GEMINI", "http://localhost:7000/generate")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Address() != "0.0.0.0:9999" {
		t.Errorf("Address() = %s, want 0.0.0.0:9999", cfg.Address())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Upstream.Endpoints["gemini"] != "http://localhost:7000/generate" {
		t.Errorf("Upstream.Endpoints = %v, want gemini override", cfg.Upstream.Endpoints)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8123
upstream:
  timeout_seconds: 0
  endpoints:
    OpenAI: http://localhost:9000/v1/chat/completions
cors:
  allowed_origins:
    - https://qchat.example.com
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Server.Port != 8123 {
		t.Errorf("Server.Port = %d, want 8123", cfg.Server.Port)
	}
	if cfg.UpstreamTimeout() != 0 {
		t.Errorf("UpstreamTimeout() = %s, want 0 (disabled)", cfg.UpstreamTimeout())
	}
	if cfg.Upstream.Endpoints["openai"] != "http://localhost:9000/v1/chat/completions" {
		t.Errorf("Upstream.Endpoints = %v, want lower-cased openai key", cfg.Upstream.Endpoints)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://qchat.example.com" {
		t.Errorf("CORS.AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := loadConfig(path)
	if !IsConfigError(err) {
		t.Errorf("loadConfig() error = %v, want ConfigError", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Configuration {
		return Configuration{
			Server:   ServerConfig{Port: 8000},
			Upstream: UpstreamConfig{TimeoutSeconds: 30},
			CORS:     CORSConfig{AllowedOrigins: []string{"*"}},
			Logging:  LoggingConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Configuration)
		field  string
	}{
		{"bad port", func(c *Configuration) { c.Server.Port = 70000 }, "server.port"},
		{"negative timeout", func(c *Configuration) { c.Upstream.TimeoutSeconds = -1 }, "upstream.timeout_seconds"},
		{"unknown provider endpoint", func(c *Configuration) {
			c.Upstream.Endpoints = map[string]string{"cohere": "http://x"}
		}, "upstream.endpoints.cohere"},
		{"relative endpoint", func(c *Configuration) {
			c.Upstream.Endpoints = map[string]string{"openai": "/v1/chat"}
		}, "upstream.endpoints.openai"},
		{"empty origins", func(c *Configuration) { c.CORS.AllowedOrigins = nil }, "cors.allowed_origins"},
		{"bad log level", func(c *Configuration) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Configuration) { c.Logging.Format = "xml" }, "logging.format"},
		{"tracing without endpoint", func(c *Configuration) { c.Tracing.Enabled = true }, "tracing.endpoint"},
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate() on valid config = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !IsValidationError(err) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if !err.(*ValidationError).HasError(tt.field) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.field)
			}
		})
	}
}

func TestGetConfig_Singleton(t *testing.T) {
	ResetConfig()
	defer ResetConfig()

	first, err := GetConfig()
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	second, _ := GetConfig()
	if first != second {
		t.Error("GetConfig() returned different instances")
	}
}

func TestValidationError_Message(t *testing.T) {
	single := &ValidationError{Fields: []FieldError{
		{Key: "logging.level", Value: "verbose", Reason: "unsupported level", Allowed: []string{"debug", "info"}},
	}}
	want := "invalid configuration: logging.level=verbose: unsupported level (allowed: debug, info)"
	if got := single.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	multi := &ValidationError{Fields: []FieldError{
		{Key: "server.port", Value: 0, Reason: "must be between 1 and 65535"},
		{Key: "cors.allowed_origins", Reason: "cannot be empty"},
	}}
	if got := multi.Error(); !strings.Contains(got, "2 problems") || !strings.Contains(got, "cors.allowed_origins: cannot be empty") {
		t.Errorf("Error() = %q, want both problems listed", got)
	}
	if multi.HasError("server") {
		t.Error("HasError should match whole keys only")
	}
}
