package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment   string
	HTTPPort      string
	DatabasePath  string
	LedgerSize    int    // in-memory activity ledger capacity
	RetentionDays int    // durable activity mirror retention
	ActorSecret   string // HMAC secret for actor-attribution tokens; empty disables verification
}

// Load reads env vars and falls back to defaults so the server can boot with
// zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:   getEnv("AEGIS_ENV", "development"),
		HTTPPort:      getEnv("AEGIS_HTTP_PORT", "8080"),
		DatabasePath:  getEnv("AEGIS_DB_PATH", filepath.Join("data", "aegis.db")),
		LedgerSize:    getEnvInt("AEGIS_LEDGER_SIZE", 10000),
		RetentionDays: getEnvInt("AEGIS_RETENTION_DAYS", 90),
		ActorSecret:   getEnv("AEGIS_ACTOR_SECRET", ""),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}

	return fallback
}
