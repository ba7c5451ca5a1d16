package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesync/internal/platform/logging"
)

// probePrefix is the route prefix for health, build, and metrics endpoints.
const probePrefix = "/-/"

// LoggingConfig configures request logging.
type LoggingConfig struct {
	// Logger seeds the request context when nothing upstream has.
	Logger *slog.Logger

	// SkipPaths are exact paths that are never logged. Probe routes under
	// /-/ are always skipped.
	SkipPaths []string
}

// Logging returns middleware that logs one line per completed request. It
// must run before RequestID and CorrelationID so that the logger it places in
// the context is the one they enrich.
//
// The level follows the status: 5xx logs at error, 4xx at warn, the rest at
// info.
func Logging(cfg LoggingConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	base := cfg.Logger
	if base == nil {
		base = slog.Default()
	}

	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), base))

		path := c.Request.URL.Path
		if _, ok := skip[path]; ok || strings.HasPrefix(path, probePrefix) {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		status := c.Writer.Status()
		latency := time.Since(start)

		level := slog.LevelInfo

		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		logging.FromContext(c.Request.Context()).LogAttrs(c.Request.Context(), level, "request completed", attrs...)
	}
}
