package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotesync/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotesync/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when RouterConfig.Timeout is unset.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string

	Health *handlers.HealthHandler
	Quotes *handlers.QuoteHandler
	Sync   *handlers.SyncHandler

	// Timeout is the per-request deadline of /api/v1. Zero means
	// DefaultRequestTimeout; negative disables it.
	Timeout time.Duration
}

// SetupRouter installs middleware and routes on engine. Middleware order:
//  1. Logging, which seeds the request logger
//  2. Recovery
//  3. Request ID and correlation ID
//  4. OpenTelemetry tracing and metrics
//  5. Timeout, on /api/v1 only
//
// Probe routes under /-/ have no timeout. Nil handlers are skipped.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Logging(middleware.LoggingConfig{Logger: cfg.Logger}),
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)

	if cfg.ServiceName != "" {
		engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	}

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	api := engine.Group("/api/v1")
	api.Use(middleware.Timeout(timeout))

	if cfg.Quotes != nil {
		cfg.Quotes.RegisterRoutes(api)
	}

	if cfg.Sync != nil {
		cfg.Sync.RegisterRoutes(api)
	}
}
