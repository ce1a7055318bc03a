// Package config loads runtime settings from the environment, with an
// optional .env file and an optional YAML file for container deployments.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is unset.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Config holds all runtime settings.
type Config struct {
	DatabaseURL    string
	ServerPort     string
	RedisURL       string
	KodiHost       string
	KodiPort       string
	CORSOrigins    string
	MigrationsPath string
	FetchUserAgent string
	FetchTimeout   time.Duration
}

// Load reads settings from the environment. A .env file in the working
// directory is merged in first when present; real environment variables
// win over it.
func Load() (*Config, error) {
	// Missing file is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ServerPort:     envOr("SERVER_PORT", "8080"),
		RedisURL:       os.Getenv("REDIS_URL"),
		KodiHost:       os.Getenv("KODI_HOST"),
		KodiPort:       envOr("KODI_PORT", "8080"),
		CORSOrigins:    envOr("CORS_ORIGINS", "*"),
		MigrationsPath: envOr("MIGRATIONS_PATH", "migrations"),
		FetchUserAgent: os.Getenv("FETCHER_USER_AGENT"),
		FetchTimeout:   30 * time.Second,
	}

	if v := os.Getenv("FETCHER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.New("FETCHER_TIMEOUT must be a duration like 30s")
		}
		cfg.FetchTimeout = d
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
