package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for YAML decoding; the timeout travels as a
// duration string ("30s").
type fileConfig struct {
	DatabaseURL    string `yaml:"databaseUrl"`
	ServerPort     string `yaml:"serverPort"`
	RedisURL       string `yaml:"redisUrl"`
	KodiHost       string `yaml:"kodiHost"`
	KodiPort       string `yaml:"kodiPort"`
	CORSOrigins    string `yaml:"corsOrigins"`
	MigrationsPath string `yaml:"migrationsPath"`
	FetchUserAgent string `yaml:"fetchUserAgent"`
	FetchTimeout   string `yaml:"fetchTimeout"`
}

// LoadFromFile reads settings from a YAML file instead of the
// environment. Used by deployments that mount a config file rather than
// inject variables.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	cfg := &Config{
		DatabaseURL:    fc.DatabaseURL,
		ServerPort:     orDefault(fc.ServerPort, "8080"),
		RedisURL:       fc.RedisURL,
		KodiHost:       fc.KodiHost,
		KodiPort:       orDefault(fc.KodiPort, "8080"),
		CORSOrigins:    orDefault(fc.CORSOrigins, "*"),
		MigrationsPath: orDefault(fc.MigrationsPath, "migrations"),
		FetchUserAgent: fc.FetchUserAgent,
		FetchTimeout:   30 * time.Second,
	}
	if fc.FetchTimeout != "" {
		d, err := time.ParseDuration(fc.FetchTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: fetchTimeout: %w", path, err)
		}
		cfg.FetchTimeout = d
	}
	return cfg, nil
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
