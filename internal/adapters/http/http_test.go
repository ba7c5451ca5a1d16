package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotesync/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotesync/internal/adapters/storage"
	"github.com/jsamuelsen/quotesync/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/platform/config"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxRequestSize:  64,
	}
}

func newQuoteHandler(t *testing.T) *handlers.QuoteHandler {
	t.Helper()

	lib := app.NewLibrary(app.LibraryConfig{
		Store:  storage.NewQuoteStore(memory.New()),
		Logger: discardLogger(),
	})
	lib.Load(context.Background())

	return handlers.NewQuoteHandler(app.NewQuoteService(app.QuoteServiceConfig{Library: lib, Logger: discardLogger()}))
}

func TestServer_Addr(t *testing.T) {
	t.Parallel()

	cfg := testServerConfig()
	cfg.Host = "::1"
	cfg.Port = 8080

	assert.Equal(t, "[::1]:8080", New(cfg, discardLogger()).Addr())
}

func TestServer_ServeAndShutdown(t *testing.T) {
	t.Parallel()

	srv := New(testServerConfig(), discardLogger())
	srv.Engine().GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	url := fmt.Sprintf("http://%s/ping", ln.Addr())

	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:noctx // test
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunListenError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testServerConfig()
	cfg.Port = ln.Addr().(*net.TCPAddr).Port

	err = New(cfg, discardLogger()).Run(context.Background())
	assert.ErrorContains(t, err, "listening on")
}

func TestServer_MaxBodySize(t *testing.T) {
	t.Parallel()

	srv := New(testServerConfig(), discardLogger())
	srv.Engine().POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.String(http.StatusOK, "%d", len(body))
	})

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 65))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSetupRouter(t *testing.T) {
	t.Parallel()

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:      discardLogger(),
		ServiceName: "quotesync-test",
		Health:      handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.BuildInfo{}, nil),
		Quotes:      newQuoteHandler(t),
	})

	routes := make(map[string]bool)
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /-/live",
		"GET /-/ready",
		"GET /-/build",
		"GET /-/metrics",
		"GET /api/v1/quotes",
		"POST /api/v1/quotes",
		"DELETE /api/v1/quotes",
		"GET /api/v1/quotes/random",
		"GET /api/v1/categories",
		"GET /api/v1/export",
		"POST /api/v1/import",
		"GET /api/v1/preferences",
		"PUT /api/v1/preferences",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}

	assert.False(t, routes["POST /api/v1/sync"], "sync routes need a handler")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-1")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", w.Header().Get(middleware.HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))
}

func TestSetupRouter_RecoversPanics(t *testing.T) {
	t.Parallel()

	engine := gin.New()
	SetupRouter(engine, RouterConfig{Logger: discardLogger()})
	engine.GET("/api/v1/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
