package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultSyncPageSize is how many remote quotes one sync cycle fetches.
	DefaultSyncPageSize = 10

	// DefaultStoragePath is where the SQLite collection lives.
	DefaultStoragePath = "./data/quotes.db"

	// DefaultRemoteBaseURL serves the /posts resource quotes sync against.
	DefaultRemoteBaseURL = "https://jsonplaceholder.typicode.com"

	envPrefix = "APP_"
	configDir = "configs"
)

// DotEnvFiles are read by LoadDotEnv in order. Variables that are already
// set always win.
var DotEnvFiles = []string{".env", ".env.local"}

// defaults is the lowest configuration layer. Every key a profile or the
// environment may override must appear here so envKeyMapper can find it.
func defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":        "quotesync",
			"version":     "dev",
			"environment": "local",
		},
		"server": map[string]any{
			"port":             8080,
			"host":             "0.0.0.0",
			"read_timeout":     "30s",
			"write_timeout":    "30s",
			"idle_timeout":     "120s",
			"shutdown_timeout": "10s",
			"max_request_size": 1 << 20,
		},
		"log": map[string]any{
			"level":  "info",
			"format": "json",
			"file": map[string]any{
				"enabled":     false,
				"path":        "./logs/quotesync.log",
				"max_size":    50,
				"max_backups": 3,
				"max_age":     14,
				"compress":    true,
			},
		},
		"telemetry": map[string]any{
			"enabled":       false,
			"endpoint":      "",
			"service_name":  "quotesync",
			"sampling_rate": 1.0,
		},
		"client": map[string]any{
			"timeout": "10s",
			"retry": map[string]any{
				"max_attempts":     3,
				"initial_interval": "200ms",
				"max_interval":     "2s",
				"multiplier":       2.0,
				"jitter_factor":    0.1,
			},
			"circuit_breaker": map[string]any{
				"max_failures":    5,
				"timeout":         "30s",
				"half_open_limit": 2,
			},
			"transport": map[string]any{
				"max_idle_conns":          20,
				"max_idle_conns_per_host": 5,
				"idle_conn_timeout":       "90s",
			},
		},
		"services": map[string]any{
			"remote": map[string]any{
				"base_url": DefaultRemoteBaseURL,
				"name":     "placeholder-api",
			},
		},
		"sync": map[string]any{
			"enabled":            true,
			"interval":           "30s",
			"page_size":          DefaultSyncPageSize,
			"status_reset_delay": "5s",
			"run_on_start":       false,
		},
		"storage": map[string]any{
			"driver": "sqlite",
			"path":   DefaultStoragePath,
		},
	}
}

// Load layers defaults, configs/base.yaml, configs/{profile}.yaml, and APP_
// environment variables, later layers winning. Missing YAML files are
// skipped.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{filepath.Join(configDir, "base.yaml")}
	if profile != "" {
		files = append(files, filepath.Join(configDir, profile+".yaml"))
	}

	for _, path := range files {
		if err := loadYAML(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := new(Config)
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv copies DotEnvFiles into the process environment.
func LoadDotEnv() error {
	for _, path := range DotEnvFiles {
		if !exists(path) {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}

	return nil
}

// envKeyMapper turns APP_SYNC_PAGE_SIZE into sync.page_size. Underscores are
// ambiguous, so known keys are matched first; unknown names map every
// underscore to a dot.
func envKeyMapper(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}

	return func(s string) string {
		name := strings.TrimPrefix(s, envPrefix)
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(strings.ToLower(name), "_", ".")
	}
}

func loadYAML(k *koanf.Koanf, path string) error {
	if !exists(path) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
