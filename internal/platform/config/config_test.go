package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "quotesync", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxRequestSize)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.File.Enabled)
	assert.False(t, cfg.Telemetry.Enabled)

	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 3, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.InDelta(t, 2.0, cfg.Client.Retry.Multiplier, 0)
	assert.Equal(t, 5, cfg.Client.CircuitBreaker.MaxFailures)

	assert.Equal(t, DefaultRemoteBaseURL, cfg.Services.Remote.BaseURL)
	assert.Equal(t, "placeholder-api", cfg.Services.Remote.Name)

	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.Equal(t, DefaultSyncPageSize, cfg.Sync.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Sync.StatusResetDelay)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, DefaultStoragePath, cfg.Storage.Path)
}

func TestLoad_Profiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, configDir), 0o750))
	writeFile(t, filepath.Join(dir, configDir, "base.yaml"), "log:\n  level: warn\nsync:\n  page_size: 20\n")
	writeFile(t, filepath.Join(dir, configDir, "test.yaml"), "log:\n  level: error\nstorage:\n  driver: memory\n")

	base, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", base.Log.Level)
	assert.Equal(t, 20, base.Sync.PageSize)
	assert.Equal(t, "sqlite", base.Storage.Driver)

	profiled, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, "error", profiled.Log.Level)
	assert.Equal(t, 20, profiled.Sync.PageSize)
	assert.Equal(t, "memory", profiled.Storage.Driver)

	missing, err := Load("nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "warn", missing.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, configDir), 0o750))
	writeFile(t, filepath.Join(dir, configDir, "base.yaml"), "sync: [unclosed\n")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base.yaml")
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_TELEMETRY_ENABLED", "true")
	t.Setenv("APP_SYNC_PAGE_SIZE", "25")
	t.Setenv("APP_SYNC_RUN_ON_START", "true")
	t.Setenv("APP_SERVICES_REMOTE_BASE_URL", "http://localhost:3000")
	t.Setenv("APP_SERVER_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 25, cfg.Sync.PageSize)
	assert.True(t, cfg.Sync.RunOnStart)
	assert.Equal(t, "http://localhost:3000", cfg.Services.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestEnvKeyMapper(t *testing.T) {
	mapKey := envKeyMapper([]string{"sync.page_size", "log.level"})

	assert.Equal(t, "sync.page_size", mapKey("APP_SYNC_PAGE_SIZE"))
	assert.Equal(t, "log.level", mapKey("APP_LOG_LEVEL"))
	assert.Equal(t, "custom.key", mapKey("APP_CUSTOM_KEY"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, filepath.Join(dir, ".env"), "APP_LOG_LEVEL=debug\nAPP_SYNC_INTERVAL=45s\n")
	writeFile(t, filepath.Join(dir, ".env.local"), "APP_SYNC_INTERVAL=50s\nAPP_SYNC_PAGE_SIZE=7\n")

	t.Setenv("APP_LOG_LEVEL", "error")
	t.Setenv("APP_SYNC_INTERVAL", "")
	require.NoError(t, os.Unsetenv("APP_SYNC_INTERVAL"))
	t.Setenv("APP_SYNC_PAGE_SIZE", "")
	require.NoError(t, os.Unsetenv("APP_SYNC_PAGE_SIZE"))

	require.NoError(t, LoadDotEnv())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level, "existing variables win")
	assert.Equal(t, 45*time.Second, cfg.Sync.Interval, "earlier files win")
	assert.Equal(t, 7, cfg.Sync.PageSize)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
