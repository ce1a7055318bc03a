package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/channelvault")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("FETCHER_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
}

func TestLoadParsesTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/channelvault")
	t.Setenv("FETCHER_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.FetchTimeout)

	t.Setenv("FETCHER_TIMEOUT", "ninety")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"databaseUrl: postgres://localhost/channelvault\n"+
			"serverPort: \"9090\"\n"+
			"kodiHost: 192.168.1.50\n"+
			"fetchTimeout: 45s\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "192.168.1.50", cfg.KodiHost)
	assert.Equal(t, 45*time.Second, cfg.FetchTimeout)
	// Untouched fields keep their defaults.
	assert.Equal(t, "8080", cfg.KodiPort)
}

func TestLoadFromFileMissingDatabaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serverPort: \"9090\"\n"), 0o644))

	_, err := LoadFromFile(path)
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}
