// Package config reads the runtime configuration from the
// environment, optionally preloaded from a .env file.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string
}

// Load reads .env when present (ignoring its absence) and resolves
// every setting from the environment with sensible defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:      envOr("FAMIGLIA_PORT", "8080"),
		DBPath:    envOr("FAMIGLIA_DB_PATH", "famiglia.db"),
		LogLevel:  envOr("FAMIGLIA_LOG_LEVEL", "info"),
		LogFormat: envOr("FAMIGLIA_LOG_FORMAT", "text"),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
