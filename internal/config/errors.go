package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError is a failure to load configuration from a source.
type ConfigError struct {
	Op  string // load_env_file, read, unmarshal
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FieldError describes one rejected configuration key.
type FieldError struct {
	Key     string
	Value   any
	Reason  string
	Allowed []string
}

func (f FieldError) String() string {
	var b strings.Builder
	b.WriteString(f.Key)
	if f.Value != nil {
		fmt.Fprintf(&b, "=%v", f.Value)
	}
	b.WriteString(": ")
	b.WriteString(f.Reason)
	if len(f.Allowed) > 0 {
		fmt.Fprintf(&b, " (allowed: %s)", strings.Join(f.Allowed, ", "))
	}
	return b.String()
}

// ValidationError collects every rejected key of one Validate call.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return "invalid configuration: " + e.Fields[0].String()
	}
	lines := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		lines[i] = f.String()
	}
	return fmt.Sprintf("invalid configuration (%d problems):\n  - %s",
		len(e.Fields), strings.Join(lines, "\n  - "))
}

// HasError reports whether key was rejected.
func (e *ValidationError) HasError(key string) bool {
	for _, f := range e.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConfigError checks if an error is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
