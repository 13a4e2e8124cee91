package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/uchiverify/uchiverify"
	"github.com/uchiverify/uchiverify/config"
	httpx "github.com/uchiverify/uchiverify/internal/http"
	"github.com/uchiverify/uchiverify/internal/observability/statsd"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer builds the router and starts serving in the
// background. The returned server is used for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := fs.Sub(uchiverify.TemplateFS, "web/templates")
	if err != nil {
		return nil, fmt.Errorf("embedded templates: %w", err)
	}
	renderer, err := httpx.NewTemplateRenderer(httpx.TemplateRendererConfig{
		TemplateFS: templates,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	svcs := cfg.Services

	var metrics statsd.Sink
	if svcs.Observability.Metrics != nil {
		metrics = svcs.Observability.Metrics
	}

	// Assign through a nil check so a missing Discord client stays a
	// nil interface and the admin page degrades its guild section.
	var guilds httpx.GuildLister
	if svcs.Discord != nil {
		guilds = svcs.Discord
	}

	router := httpx.NewRouter(httpx.RouterConfig{
		Verify: &httpx.VerifyHandlers{
			Verify:   svcs.Verify,
			Stats:    svcs.Stats,
			Renderer: renderer,
			Logger:   logger,
		},
		API: &httpx.APIHandlers{
			Trivia:  svcs.Trivia,
			Quarter: svcs.Quarter,
			Events:  svcs.Events,
			Stats:   svcs.Stats,
			Logger:  logger,
		},
		Admin: &httpx.AdminHandlers{
			Guilds:        guilds,
			Stats:         svcs.Stats,
			Verifications: svcs.Verifications,
			Renderer:      renderer,
			Logger:        logger,
		},
		AdminPassword: cfg.Config.HTTP.AdminPassword,
		Metrics:       metrics,
		Logger:        logger,
	})

	addr := cfg.Config.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server, nil
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
