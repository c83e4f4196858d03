// Package config provides configuration management using the Singleton pattern.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hpn/qchat-relay/internal/domain"
)

const (
	defaultConfigName = "config"
	defaultConfigType = "yaml"
	envPrefix         = "QCHAT"

	// envFile is loaded into the process environment before anything else.
	envFile = ".env"
)

// loadConfig loads the configuration from environment variables and files.
// Priority order (highest to lowest):
// 1. Environment variables (prefixed with QCHAT_), including those from .env
// 2. config.yaml
// 3. Default values
func loadConfig(configPath string) (*Configuration, error) {
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigError{
			Op:  "load_env_file",
			Err: fmt.Errorf("failed to load %s: %w", envFile, err),
		}
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/qchat-relay")
		v.AddConfigPath("$HOME/.qchat-relay")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &ConfigError{
				Op:  "read",
				Err: fmt.Errorf("failed to read config file: %w", err),
			}
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{
			Op:  "unmarshal",
			Err: fmt.Errorf("failed to unmarshal config: %w", err),
		}
	}

	loadEndpointsFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 120)
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	// Upstream defaults
	v.SetDefault("upstream.timeout_seconds", 90)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "qchat-relay")

	v.SetDefault("ui.banner", true)
}

// loadEndpointsFromEnv reads QCHAT_UPSTREAM_ENDPOINTS_<PROVIDER> variables.
// Viper cannot discover map keys from the environment on its own.
func loadEndpointsFromEnv(cfg *Configuration) {
	for _, name := range domain.ProviderNames() {
		key := envPrefix + "_UPSTREAM_ENDPOINTS_" + strings.ToUpper(name)
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" {
			continue
		}
		if cfg.Upstream.Endpoints == nil {
			cfg.Upstream.Endpoints = make(map[string]string)
		}
		cfg.Upstream.Endpoints[strings.ToLower(name)] = value
	}
}
