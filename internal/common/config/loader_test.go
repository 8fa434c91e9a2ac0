// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  postgres:
    host: localhost
    database: roi_navigator
    user: app
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "roi-navigator", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, 25, cfg.Database.Postgres.MaxConnections)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.RateCacheTTL())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_RejectsMissingPostgresHost(t *testing.T) {
	path := writeConfigFile(t, `
database:
  postgres:
    database: roi_navigator
    user: app
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.host")
}

func TestLoadFromFile_RejectsUnknownCacheBackend(t *testing.T) {
	path := writeConfigFile(t, `
database:
  postgres:
    host: localhost
    database: roi_navigator
    user: app
cache:
  backend: memcached
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.backend")
}

func TestLoadFromFile_RedisBackendNeedsAddress(t *testing.T) {
	path := writeConfigFile(t, `
database:
  postgres:
    host: localhost
    database: roi_navigator
    user: app
cache:
  backend: redis
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.redis.address")
}

func TestGetDSN(t *testing.T) {
	pg := PostgresConfig{
		Host:     "db.internal",
		Port:     5432,
		Database: "roi_navigator",
		User:     "app",
		Password: "secret",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=app password=secret dbname=roi_navigator sslmode=require",
		pg.GetDSN(),
	)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 15*time.Second, GetDuration(15000))
}
