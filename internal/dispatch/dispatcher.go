// Package dispatch relays one chat message to one provider and normalizes
// the outcome into a reply string or an *Error.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hpn/qchat-relay/internal/adapter"
	"github.com/hpn/qchat-relay/internal/domain"
	"github.com/hpn/qchat-relay/internal/security"
	"github.com/hpn/qchat-relay/internal/transport"
)

const (
	tracerName = "github.com/hpn/qchat-relay/internal/dispatch"

	// previewBytes bounds how much of an upstream body is logged.
	previewBytes = 500
)

// MsgAPIKeyRequired is returned when the caller omits the credential.
const MsgAPIKeyRequired = "API key is required"

// Dispatcher relays chat messages. It holds no per-call state and is safe
// for concurrent use.
type Dispatcher struct {
	providers *domain.ProviderTable
	sender    transport.Sender
	logger    *slog.Logger
	tracer    trace.Tracer
}

// Option is a functional option for configuring Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithTracer sets the tracer used for dispatch spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = tracer
	}
}

// New creates a Dispatcher over providers, sending through sender.
func New(providers *domain.ProviderTable, sender transport.Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		providers: providers,
		sender:    sender,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch sends message to the provider named providerID and returns its reply.
//
// Failures are always *Error. A successful upstream reply whose body does not
// have the expected shape is not a failure: it yields a placeholder reply.
func (d *Dispatcher) Dispatch(ctx context.Context, providerID, message, credential string) (string, error) {
	ctx, span := d.tracer.Start(ctx, "dispatch",
		trace.WithAttributes(attribute.String("relay.provider", providerID)),
	)
	defer span.End()

	reply, err := d.dispatch(ctx, providerID, message, credential)
	if err != nil {
		if de, ok := AsError(err); ok {
			span.SetAttributes(
				attribute.String("relay.error_kind", string(de.Kind)),
				attribute.Int("relay.status", de.Status),
			)
		}
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetStatus(codes.Ok, "")
	return reply, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, providerID, message, credential string) (string, error) {
	d.logger.Info("received request", slog.String("provider", providerID))

	if credential == "" {
		return "", &Error{Kind: KindInvalidInput, Status: http.StatusBadRequest, Message: MsgAPIKeyRequired}
	}

	spec, ok := d.providers.Lookup(providerID)
	if !ok {
		return "", &Error{
			Kind:    KindInvalidInput,
			Status:  http.StatusBadRequest,
			Message: InvalidProviderMessage(),
		}
	}

	call, err := adapter.BuildCall(spec, domain.ChatRequest{
		Provider:   providerID,
		Message:    message,
		Credential: credential,
	})
	if err != nil {
		return "", &Error{Kind: KindUpstreamFailure, Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}

	d.logger.Info("sending request",
		slog.String("provider", providerID),
		slog.String("url", transport.RedactURL(call.URL)),
		slog.String("format", spec.Format.String()),
	)
	d.logger.Debug("outbound headers", slog.Any("headers", security.MaskHeaders(call.Header)))

	resp, err := d.sender.Send(ctx, call)
	if err != nil {
		return "", d.upstreamFailure(providerID, err)
	}

	d.logger.Info("response received",
		slog.String("provider", providerID),
		slog.Int("status", resp.StatusCode),
		slog.String("preview", preview(resp.Body)),
	)

	reply, ok := adapter.ParseReply(spec.Format, resp.Body)
	if !ok {
		d.logger.Warn("unexpected response shape, returning placeholder",
			slog.String("provider", providerID),
			slog.String("format", spec.Format.String()),
		)
	}

	return reply, nil
}

// upstreamFailure maps a transport error to the caller-facing status and message.
func (d *Dispatcher) upstreamFailure(providerID string, err error) *Error {
	status := http.StatusInternalServerError
	message := err.Error()

	if te, ok := transport.AsError(err); ok && te.HasResponse() {
		status = te.StatusCode
		message = adapter.ExtractErrorMessage(te.Body, err.Error())
		d.logger.Error("upstream returned error status",
			slog.String("provider", providerID),
			slog.Int("status", status),
			slog.String("body", preview(te.Body)),
		)
	} else {
		d.logger.Error("request failed",
			slog.String("provider", providerID),
			slog.String("error", message),
		)
	}

	return &Error{Kind: KindUpstreamFailure, Status: status, Message: message, Err: err}
}

// InvalidProviderMessage lists the accepted provider identifiers.
func InvalidProviderMessage() string {
	return fmt.Sprintf("Invalid model. Available models: %s", strings.Join(domain.ProviderNames(), ", "))
}

func preview(body []byte) string {
	if len(body) <= previewBytes {
		return string(body)
	}
	return string(body[:previewBytes]) + "..."
}
