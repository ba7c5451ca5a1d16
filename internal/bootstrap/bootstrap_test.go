package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/config"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.Storage.Driver = "memory"
	cfg.Services.Remote.BaseURL = baseURL
	cfg.Client.Retry.MaxAttempts = 1

	return cfg
}

func TestBuild(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":101}`))
		default:
			_, _ = w.Write([]byte(`[{"id":1,"title":"Ship it.","body":"write code"}]`))
		}
	}))
	t.Cleanup(remote.Close)

	reg := prometheus.NewRegistry()

	c, err := Build(context.Background(), Options{
		Config:     testConfig(t, remote.URL),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registerer: reg,
		UserAgent:  "quotesync-test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	ctx := context.Background()

	assert.Len(t, c.Quotes.List(ctx, domain.CategoryAll), 5)

	_, err = c.Quotes.Add(ctx, app.AddQuoteInput{Text: "Keep going.", Category: "grit"})
	require.NoError(t, err)

	result, err := c.Sync.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)
	assert.Equal(t, 1, result.Added)

	health := c.Health.CheckAll(ctx)
	assert.Equal(t, ports.HealthStatusHealthy, health.Status)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestBuild_RequiresConfig(t *testing.T) {
	_, err := Build(context.Background(), Options{})
	assert.ErrorContains(t, err, "config is required")
}

func TestBuild_BadStorage(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Storage.Driver = "redis"

	_, err := Build(context.Background(), Options{Config: cfg})
	assert.ErrorContains(t, err, "unknown storage driver")
}
