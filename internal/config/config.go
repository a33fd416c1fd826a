// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// devSessionSecret is used when SESSION_SECRET is not set. Fine for local
// development, unsafe anywhere else.
const devSessionSecret = "loanbook-dev-secret-change-me"

// Config holds all externalized settings for the application.
type Config struct {
	// DBPath is the SQLite database file location.
	DBPath string

	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string

	// SessionSecret signs session tokens.
	SessionSecret string

	// SessionTTL is how long a login session stays valid.
	SessionTTL time.Duration

	// ExportDir is the directory the spreadsheet export is written to.
	ExportDir string

	// LogLevel is the slog level name (debug, info, warn, error).
	LogLevel string
}

// Load reads the optional .env file at envFile and builds a Config from the
// environment. A missing .env file is not an error; a malformed one is.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		DBPath:        getEnv("DB_PATH", "./data/loanbook.db"),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    24 * time.Hour,
		ExportDir:     getEnv("EXPORT_DIR", defaultExportDir()),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
		}
		cfg.SessionTTL = d
	}

	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET not set, using development default")
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "loan_exports"
	}
	return filepath.Join(home, "Desktop", "loan_exports")
}
