// Package handler provides HTTP handlers for the relay.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hpn/qchat-relay/internal/dispatch"
	"github.com/hpn/qchat-relay/internal/domain"
)

// LivenessMessage is returned by GET /.
const LivenessMessage = "QChat API is running"

// Dispatcher relays one chat message. *dispatch.Dispatcher satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, providerID, message, credential string) (string, error)
}

// ChatRequest is the inbound JSON body of POST /chat.
// Pointers distinguish a missing field from an empty one.
type ChatRequest struct {
	Model   *string `json:"model"`
	Message *string `json:"message"`
	APIKey  *string `json:"apiKey"`
}

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse is the failure body of every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ChatHandler serves the relay endpoints.
type ChatHandler struct {
	dispatcher Dispatcher
	providers  *domain.ProviderTable
	logger     *slog.Logger
}

// ChatHandlerOption is a functional option for configuring ChatHandler.
type ChatHandlerOption func(*ChatHandler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ChatHandlerOption {
	return func(h *ChatHandler) {
		h.logger = logger
	}
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(dispatcher Dispatcher, providers *domain.ProviderTable, opts ...ChatHandlerOption) *ChatHandler {
	h := &ChatHandler{
		dispatcher: dispatcher,
		providers:  providers,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleChat handles POST /chat.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}

	if missing := missingFields(req); len(missing) > 0 {
		h.sendError(c, http.StatusUnprocessableEntity, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	// Store provider for logging middleware
	c.Set(ctxKeyProvider, *req.Model)

	reply, err := h.dispatcher.Dispatch(c.Request.Context(), *req.Model, *req.Message, *req.APIKey)
	if err != nil {
		if de, ok := dispatch.AsError(err); ok {
			h.sendError(c, de.Status, de.Message)
			return
		}
		h.logger.Error("dispatch failed with unexpected error", slog.String("error", err.Error()))
		h.sendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// HandleRoot handles GET / as a liveness probe.
func (h *ChatHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": LivenessMessage})
}

// HandleHealth handles GET /health.
func (h *ChatHandler) HandleHealth(c *gin.Context) {
	providers := make([]gin.H, 0, len(domain.KnownProviders))
	for _, spec := range h.providers.Specs() {
		providers = append(providers, gin.H{
			"id":     spec.ID,
			"format": spec.Format.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"providers": providers,
	})
}

func (h *ChatHandler) sendError(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorResponse{Detail: detail})
}

func missingFields(req ChatRequest) []string {
	var missing []string
	if req.Model == nil {
		missing = append(missing, "model")
	}
	if req.Message == nil {
		missing = append(missing, "message")
	}
	if req.APIKey == nil {
		missing = append(missing, "apiKey")
	}
	return missing
}
