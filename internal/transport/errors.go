package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Error represents an upstream HTTP or network failure.
type Error struct {
	Method string

	// URL has its query string redacted.
	URL string

	// StatusCode is 0 when the request failed before a response arrived.
	StatusCode int

	// Body is the upstream response body for non-2xx replies.
	Body []byte

	// Cause is the underlying network or I/O error, if any.
	Cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Method != "" {
		b.WriteString(e.Method)
		b.WriteString(" ")
	}
	if e.URL != "" {
		b.WriteString(e.URL)
		b.WriteString(": ")
	}
	if e.StatusCode != 0 {
		b.WriteString(fmt.Sprintf("http %d", e.StatusCode))
		if t := http.StatusText(e.StatusCode); t != "" {
			b.WriteString(" ")
			b.WriteString(t)
		}
	} else {
		b.WriteString("request failed")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HasResponse reports whether the upstream answered with a status code.
func (e *Error) HasResponse() bool {
	return e.StatusCode != 0
}

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// RedactURL strips the query string, which is where query-auth providers
// carry the credential.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	if u.RawQuery != "" {
		u.RawQuery = "REDACTED"
	}
	u.User = nil
	return u.String()
}

func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
