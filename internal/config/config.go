package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"HTTP_SERVER_PORT"` specify the environment variable
// name; `default:""` provides a fallback if the variable is not set.
type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"development"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	HttpServer   ServerConfig
	Catalog      CatalogConfig
	Suggest      SuggestConfig
	Interactions InteractionsConfig
	Postgres     PostgresConfig
}

// ServerConfig holds HTTP server-specific configuration.
type ServerConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
}

// CatalogConfig selects and tunes the catalog source and snapshot cache.
type CatalogConfig struct {
	// Backend is one of "static" (embedded dataset), "http" (remote JSON
	// dataset) or "postgres".
	Backend      string        `envconfig:"CATALOG_BACKEND" default:"static"`
	SourceURL    string        `envconfig:"CATALOG_SOURCE_URL"`
	FetchTimeout time.Duration `envconfig:"CATALOG_FETCH_TIMEOUT" default:"5s"`
	CacheTTL     time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"5m"`
}

// SuggestConfig tunes the suggestion pipeline.
type SuggestConfig struct {
	Limit int `envconfig:"SUGGEST_LIMIT" default:"12"`
	// DedupeInteractions counts a product appearing in both the viewed and
	// favorited lists once instead of twice when building the profile.
	DedupeInteractions bool `envconfig:"SUGGEST_DEDUPE_INTERACTIONS" default:"false"`
}

// InteractionsConfig selects where viewed/favorite history is kept.
type InteractionsConfig struct {
	Backend string `envconfig:"INTERACTIONS_BACKEND" default:"memory"` // memory | postgres
}

// PostgresConfig holds PostgreSQL connection details. Only validated when a
// postgres backend is selected.
type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DBName   string `envconfig:"POSTGRES_DBNAME"`
}

// DSN constructs the Data Source Name string for connecting to PostgreSQL.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName)
}

// Load initializes the configuration from environment variables.
// It should be called once during application startup.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}

	switch cfg.Catalog.Backend {
	case "static", "http", "postgres":
	default:
		return nil, fmt.Errorf("invalid CATALOG_BACKEND: %q", cfg.Catalog.Backend)
	}
	if cfg.Catalog.Backend == "http" && cfg.Catalog.SourceURL == "" {
		return nil, fmt.Errorf("CATALOG_SOURCE_URL is required when CATALOG_BACKEND=http")
	}
	if cfg.Catalog.Backend == "postgres" || cfg.Interactions.Backend == "postgres" {
		if cfg.Postgres.Host == "" || cfg.Postgres.User == "" || cfg.Postgres.DBName == "" {
			return nil, fmt.Errorf("POSTGRES_HOST, POSTGRES_USER and POSTGRES_DBNAME are required for postgres backends")
		}
	}
	switch cfg.Interactions.Backend {
	case "memory", "postgres":
	default:
		return nil, fmt.Errorf("invalid INTERACTIONS_BACKEND: %q", cfg.Interactions.Backend)
	}

	return &cfg, nil
}
