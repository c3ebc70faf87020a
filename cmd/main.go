package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"course-catalog-service/internal/api"
	"course-catalog-service/internal/catalog"
	"course-catalog-service/internal/config"
	"course-catalog-service/internal/metrics"
	"course-catalog-service/internal/store"
	"course-catalog-service/internal/suggest"
)

const serviceName = "course-catalog-service"

func main() {
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("error loading configuration")
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info().
		Str("app_env", cfg.AppEnv).
		Str("catalog_backend", cfg.Catalog.Backend).
		Str("interactions_backend", cfg.Interactions.Backend).
		Msg("starting service")

	// --- Database (only when a postgres backend is selected) ---
	var db *sql.DB
	if cfg.Catalog.Backend == "postgres" || cfg.Interactions.Backend == "postgres" {
		db, err = sql.Open("postgres", cfg.Postgres.DSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize database connection")
		}
		defer db.Close()
		if err := db.PingContext(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("failed to ping database")
		}
		logger.Info().Msg("database connection established")
	}

	// --- Catalog source, cache and provider ---
	var source catalog.Source
	switch cfg.Catalog.Backend {
	case "http":
		source = catalog.NewHTTPSource(cfg.Catalog.SourceURL, cfg.Catalog.FetchTimeout, logger)
	case "postgres":
		source = catalog.NewPostgresSource(db, logger)
	default:
		source = catalog.NewStaticSource()
	}
	cache := catalog.NewSnapshotCache(cfg.Catalog.CacheTTL)
	provider := catalog.NewProvider(source, cache, logger)

	// --- Interaction store ---
	var interactions store.InteractionStorer
	memStore := store.NewMemoryStore()
	if cfg.Interactions.Backend == "postgres" {
		interactions = store.NewPostgresStore(db)
	} else {
		interactions = memStore
	}

	// Warm up the snapshot so the first request doesn't pay the fetch, and
	// seed the memory store with the dataset account's history. A failed
	// warm-up is not fatal: requests return 503 until the source recovers.
	warmupCtx, cancelWarmup := context.WithTimeout(context.Background(), cfg.Catalog.FetchTimeout)
	snap, err := provider.Snapshot(warmupCtx)
	cancelWarmup()
	if err != nil {
		logger.Warn().Err(err).Msg("initial catalog fetch failed, serving 503 until the source recovers")
	} else {
		logger.Info().Int("products", snap.Len()).Msg("catalog warmed up")
		if cfg.Interactions.Backend == "memory" {
			memStore.Seed(snap.User())
		}
	}

	// --- Suggestion engine ---
	engine := suggest.NewEngine(cfg.Suggest.Limit, suggest.Options{
		DedupeInteractions: cfg.Suggest.DedupeInteractions,
	}, logger)

	// --- HTTP server ---
	handler := api.NewHTTPHandler(provider, interactions, engine, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(metrics.Middleware)

	router.Get("/api/v1/healthz", healthHandler(provider))
	router.Handle("/metrics", promhttp.Handler())
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      router,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		logger.Info().Str("port", cfg.HttpServer.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	waitForShutdown(logger, server)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

func healthHandler(provider *catalog.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		catalogStatus := "healthy"
		if _, err := provider.Snapshot(ctx); err != nil {
			catalogStatus = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","serviceName":"` + serviceName +
			`","catalog":"` + catalogStatus + `","timestamp":"` +
			time.Now().UTC().Format(time.RFC3339) + `"}`))
	}
}

func waitForShutdown(logger zerolog.Logger, server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("HTTP server graceful shutdown failed")
	} else {
		logger.Info().Msg("HTTP server gracefully shut down")
	}
}
