// Package main is the entry point for the qchat-relay server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hpn/qchat-relay/internal/config"
	"github.com/hpn/qchat-relay/internal/dispatch"
	"github.com/hpn/qchat-relay/internal/domain"
	"github.com/hpn/qchat-relay/internal/handler"
	"github.com/hpn/qchat-relay/internal/observability"
	"github.com/hpn/qchat-relay/internal/security"
	"github.com/hpn/qchat-relay/internal/transport"
	"github.com/hpn/qchat-relay/internal/ui"
)

func main() {
	// =========================================================================
	// 1. Load configuration (Singleton)
	// =========================================================================
	cfg, err := config.GetConfig()
	if err != nil {
		setupLogger("info", "json").Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// =========================================================================
	// 2. Setup structured logger with secret redaction
	// =========================================================================
	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.UI.Banner {
		ui.PrintBanner()
	}

	logger.Info("starting qchat-relay",
		slog.String("version", ui.Version),
		slog.String("address", cfg.Address()),
		slog.Duration("upstream_timeout", cfg.UpstreamTimeout()),
		slog.Bool("tracing", cfg.Tracing.Enabled),
	)

	// =========================================================================
	// 3. Tracing
	// =========================================================================
	shutdownTracing, err := observability.Setup(context.Background(),
		cfg.Tracing.Enabled, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		logger.Error("failed to setup tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// =========================================================================
	// 4. Wire provider table, transport and dispatcher
	// =========================================================================
	providers := domain.NewProviderTable(cfg.Upstream.Endpoints)

	client := transport.NewClient(
		transport.WithTimeout(cfg.UpstreamTimeout()),
		transport.WithLogger(logger),
	)

	dispatcher := dispatch.New(providers, client, dispatch.WithLogger(logger))

	chatHandler := handler.NewChatHandler(dispatcher, providers, handler.WithLogger(logger))

	// =========================================================================
	// 5. Setup Gin router with middleware
	// =========================================================================
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(chatHandler, logger, cfg.CORS.AllowedOrigins, cfg.UI.Banner)

	// =========================================================================
	// 6. Start HTTP server with graceful shutdown
	// =========================================================================
	addr := cfg.Address()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("address", addr))
		if cfg.UI.Banner {
			ui.PrintStartupInfo(addr, providers.Specs())
		}

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// =========================================================================
	// 7. Graceful shutdown on SIGTERM/SIGINT
	// =========================================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	if cfg.UI.Banner {
		ui.PrintShutdown()
	}

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracer shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped gracefully")
	if cfg.UI.Banner {
		ui.PrintGoodbye()
	}
}

// newRouter builds the gin engine with middleware and routes registered.
func newRouter(h *handler.ChatHandler, logger *slog.Logger, allowedOrigins []string, console bool) *gin.Engine {
	router := gin.New()

	router.Use(handler.RecoveryMiddleware(logger))
	router.Use(handler.RequestIDMiddleware())
	router.Use(handler.CORSMiddleware(allowedOrigins))
	router.Use(handler.LoggingMiddleware(logger, console))

	router.POST("/chat", h.HandleChat)
	router.GET("/", h.HandleRoot)
	router.GET("/health", h.HandleHealth)

	return router
}

// setupLogger creates a structured logger that redacts secrets.
// QCHAT_LOGGING_LEVEL takes precedence over the configured level.
func setupLogger(level, format string) *slog.Logger {
	if envLevel := os.Getenv("QCHAT_LOGGING_LEVEL"); envLevel != "" {
		level = envLevel
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var inner slog.Handler
	if strings.EqualFold(format, "text") {
		inner = slog.NewTextHandler(os.Stdout, opts)
	} else {
		inner = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(security.NewRedactedHandler(inner))
	slog.SetDefault(logger)

	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
