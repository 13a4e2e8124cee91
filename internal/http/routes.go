package httpx

import (
	"log/slog"
	"net/http"

	"github.com/uchiverify/uchiverify/internal/observability/statsd"
)

// RouterConfig holds the handlers and middleware settings for the router.
type RouterConfig struct {
	Verify *VerifyHandlers
	API    *APIHandlers
	Admin  *AdminHandlers
	// AdminPassword gates /admin; empty disables the dashboard.
	AdminPassword string
	// Metrics, when set, emits a timing metric per request.
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// NewRouter wires up all routes with logging and panic recovery.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	mux.HandleFunc("GET /auth/start", cfg.Verify.Start)
	mux.HandleFunc("GET /auth/callback", cfg.Verify.Callback)

	mux.HandleFunc("GET /api/articles/random", cfg.API.RandomArticle)
	mux.HandleFunc("GET /api/scav/random", cfg.API.RandomScavItem)
	mux.HandleFunc("GET /api/quarter", cfg.API.QuarterStatus)
	mux.HandleFunc("GET /api/events/random", cfg.API.RandomEvent)
	mux.HandleFunc("GET /api/stats", cfg.API.CommandStats)

	if cfg.Admin != nil {
		adminChain := BasicAuth(cfg.AdminPassword)
		mux.Handle("GET /admin", adminChain(http.HandlerFunc(cfg.Admin.Dashboard)))
	}

	var handler http.Handler = mux
	handler = Recover(logger)(handler)
	if cfg.Metrics != nil {
		handler = Instrument(cfg.Metrics)(handler)
	}
	handler = Logging(logger)(handler)
	return handler
}
