// internal/config/config.go
//
// Environment-driven configuration for the Battleship server.
//
// Environment variables (all optional):
//   PORT=5175                          HTTP listen port
//   LOG_LEVEL=info                     zerolog level (trace|debug|info|warn|error)
//   LOG_FORMAT=json                    "json" or "console"
//   STORE=sqlite                       "sqlite" or "memory"
//   DB_PATH=./data/battleship.db       SQLite file
//   CLIENT_ORIGIN=http://localhost:4200  allowed CORS origin
//   REQUEST_TIMEOUT=10s                per-request handler timeout
//
// A .env file in the working directory is loaded first (development).

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds resolved settings.
type Config struct {
	Port           string
	LogLevel       zerolog.Level
	LogFormat      string
	Store          string
	DBPath         string
	ClientOrigin   string
	RequestTimeout time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv resolves a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	lvl, err := zerolog.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	timeout, err := time.ParseDuration(get("REQUEST_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("REQUEST_TIMEOUT: invalid duration %q", getenv("REQUEST_TIMEOUT"))
	}

	cfg := Config{
		Port:           get("PORT", "5175"),
		LogLevel:       lvl,
		LogFormat:      strings.ToLower(get("LOG_FORMAT", "json")),
		Store:          strings.ToLower(get("STORE", "sqlite")),
		DBPath:         get("DB_PATH", "./data/battleship.db"),
		ClientOrigin:   get("CLIENT_ORIGIN", "http://localhost:4200"),
		RequestTimeout: timeout,
	}
	switch cfg.Store {
	case "sqlite", "memory":
	default:
		return Config{}, fmt.Errorf("STORE: unknown backend %q", cfg.Store)
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT: unknown format %q", cfg.LogFormat)
	}
	return cfg, nil
}
