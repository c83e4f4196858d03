// Package config provides configuration management using the Singleton pattern.
// It loads configuration from .env, environment variables and config.yaml using Viper.
package config

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/hpn/qchat-relay/internal/domain"
)

// Configuration holds all application configuration values.
type Configuration struct {
	// Server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Upstream provider configuration
	Upstream UpstreamConfig `json:"upstream" mapstructure:"upstream"`

	// CORS configuration
	CORS CORSConfig `json:"cors" mapstructure:"cors"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Tracing configuration
	Tracing TracingConfig `json:"tracing" mapstructure:"tracing"`

	// UI configuration
	UI UIConfig `json:"ui" mapstructure:"ui"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	// Host is the server bind address.
	Host string `json:"host" mapstructure:"host"`

	// Port is the server port number.
	Port int `json:"port" mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// UpstreamConfig holds outbound provider settings.
type UpstreamConfig struct {
	// TimeoutSeconds bounds each outbound call. Zero means no timeout.
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`

	// Endpoints overrides provider URLs, keyed by provider ID.
	Endpoints map[string]string `json:"endpoints" mapstructure:"endpoints"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	// AllowedOrigins lists permitted origins. "*" allows any.
	AllowedOrigins []string `json:"allowed_origins" mapstructure:"allowed_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" mapstructure:"level"`

	// Format is the log format (json, text).
	Format string `json:"format" mapstructure:"format"`
}

// TracingConfig holds OpenTelemetry export settings.
type TracingConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	Endpoint    string `json:"endpoint" mapstructure:"endpoint"`
	ServiceName string `json:"service_name" mapstructure:"service_name"`
}

// UIConfig controls console output.
type UIConfig struct {
	// Banner prints the startup banner.
	Banner bool `json:"banner" mapstructure:"banner"`
}

// configInstance holds the singleton configuration instance.
var (
	configInstance *Configuration
	configOnce     sync.Once
	configErr      error
)

// GetConfig returns the singleton Configuration instance.
// It initializes the configuration on first call using the default config path.
func GetConfig() (*Configuration, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfig("")
	})
	return configInstance, configErr
}

// GetConfigWithPath returns the singleton Configuration instance with a custom config path.
func GetConfigWithPath(configPath string) (*Configuration, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfig(configPath)
	})
	return configInstance, configErr
}

// ResetConfig resets the singleton instance.
// This is primarily used for testing purposes.
func ResetConfig() {
	configOnce = sync.Once{}
	configInstance = nil
	configErr = nil
}

// Validate checks value ranges and cross-field rules.
func (c *Configuration) Validate() error {
	var fields []FieldError
	reject := func(key string, value any, reason string, allowed ...string) {
		fields = append(fields, FieldError{Key: key, Value: value, Reason: reason, Allowed: allowed})
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		reject("server.port", c.Server.Port, "must be between 1 and 65535")
	}

	if c.Upstream.TimeoutSeconds < 0 {
		reject("upstream.timeout_seconds", c.Upstream.TimeoutSeconds, "cannot be negative")
	}

	for name, endpoint := range c.Upstream.Endpoints {
		key := "upstream.endpoints." + name
		if !domain.IsKnownProviderFold(name) {
			reject(key, nil, "unknown provider", domain.ProviderNames()...)
			continue
		}
		if endpoint == "" {
			continue
		}
		if u, err := url.Parse(endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			reject(key, endpoint, "must be an absolute URL")
		}
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		reject("cors.allowed_origins", nil, "cannot be empty")
	}

	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		reject("logging.level", c.Logging.Level, "unsupported level", "debug", "info", "warn", "error")
	}

	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "text" {
		reject("logging.format", c.Logging.Format, "unsupported format", "json", "text")
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		reject("tracing.endpoint", nil, "required when tracing is enabled")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// isValidLogLevel checks if the log level is valid.
func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// UpstreamTimeout returns the outbound call timeout.
func (c *Configuration) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// Address returns the host:port the server listens on.
func (c *Configuration) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
