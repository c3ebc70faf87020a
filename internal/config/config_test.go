package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.HttpServer.Port)
	assert.Equal(t, "static", cfg.Catalog.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, 12, cfg.Suggest.Limit)
	assert.False(t, cfg.Suggest.DedupeInteractions)
	assert.Equal(t, "memory", cfg.Interactions.Backend)
}

func TestLoad_InvalidCatalogBackend(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "redis")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_HTTPBackendRequiresSourceURL(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "http")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CATALOG_SOURCE_URL", "https://example.com/catalog.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/catalog.json", cfg.Catalog.SourceURL)
}

func TestLoad_PostgresBackendRequiresConnectionDetails(t *testing.T) {
	t.Setenv("INTERACTIONS_BACKEND", "postgres")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_USER", "catalog")
	t.Setenv("POSTGRES_DBNAME", "catalog")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Contains(t, cfg.Postgres.DSN(), "host=localhost")
	assert.Contains(t, cfg.Postgres.DSN(), "port=5432")
}
