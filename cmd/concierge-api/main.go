package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/veralis-ai/concierge-engine/internal/cache"
	"github.com/veralis-ai/concierge-engine/internal/config"
	"github.com/veralis-ai/concierge-engine/internal/embedding"
	"github.com/veralis-ai/concierge-engine/internal/knowledge"
	"github.com/veralis-ai/concierge-engine/internal/observability"
	"github.com/veralis-ai/concierge-engine/internal/retrieval"
	"github.com/veralis-ai/concierge-engine/internal/vectorindex"
	"github.com/veralis-ai/concierge-engine/pkg/engine"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("knowledge", cfg.Knowledge.Driver).
		Bool("gateway", cfg.Gateway.URL != "").
		Msg("Starting Concierge API")

	store, err := buildStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize knowledge store")
	}

	cacheClient := buildCache(context.Background(), cfg, logger)
	defer cacheClient.Close()

	eng := engine.New(engine.Options{
		Config: cfg,
		Store:  store,
		Cache:  cacheClient,
		Logger: logger,
	})

	syncVectors(context.Background(), cfg, store, logger)

	router := NewRouter(eng, logger, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		_ = srv.Close()
	}
	logger.Info().Msg("Server stopped")
}

// buildStore hydrates the in-memory store, from SQL when a database driver
// is configured, otherwise from the seed corpus. An empty database gets
// seeded on first start.
func buildStore(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*knowledge.Store, error) {
	store := knowledge.NewStore()

	seed := knowledge.DefaultSeed()
	if cfg.Knowledge.SeedPath != "" {
		loaded, err := knowledge.LoadSeedFile(cfg.Knowledge.SeedPath)
		if err != nil {
			return nil, err
		}
		seed = loaded
	}

	if cfg.Knowledge.Driver == "memory" {
		store.AddAll(seed)
		logger.Info().Int("records", store.Count()).Msg("Knowledge store loaded from seed")
		return store, nil
	}

	db, err := sql.Open(cfg.SQLDriver(), cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := knowledge.NewRepository(db, cfg.Knowledge.Driver)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		for i := range seed {
			if err := repo.Upsert(ctx, &seed[i]); err != nil {
				return nil, err
			}
		}
		logger.Info().Int("records", len(seed)).Msg("Seeded empty knowledge database")
	}

	records, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	store.AddAll(records)
	logger.Info().Int("records", store.Count()).Msg("Knowledge store hydrated from database")
	return store, nil
}

// buildCache connects to Redis when configured, falling back to the memory
// cache on connection failure.
func buildCache(ctx context.Context, cfg *config.Config, logger *observability.Logger) cache.Client {
	if cfg.Cache.Driver != "redis" {
		return cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		PoolSize: cfg.Cache.Redis.PoolSize,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, using in-memory cache")
		return cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}
	logger.Info().Str("addr", cfg.Cache.Redis.Addr).Msg("Connected to Redis cache")
	return client
}

// syncVectors bootstraps the vector index from the knowledge store when
// both the embedder and the index are configured. Failure is logged and the
// pipeline simply runs without the vector stage.
func syncVectors(ctx context.Context, cfg *config.Config, store *knowledge.Store, logger *observability.Logger) {
	if cfg.Embedding.APIKey == "" || cfg.Vector.URL == "" {
		logger.Debug().Msg("Vector sync skipped, embedder or index unconfigured")
		return
	}

	embedder := embedding.NewClient(embedding.Options{
		BaseURL: cfg.Embedding.BaseURL,
		APIKey:  cfg.Embedding.APIKey,
		Model:   cfg.Embedding.Model,
		Timeout: cfg.Embedding.Timeout,
	})
	index := vectorindex.NewHTTPAdapter(vectorindex.HTTPOptions{
		BaseURL:    cfg.Vector.URL,
		APIKey:     cfg.Vector.APIKey,
		Collection: cfg.Vector.Collection,
		Timeout:    cfg.Vector.Timeout,
	})

	n, err := retrieval.SyncIndex(ctx, store, embedder, index)
	if err != nil {
		logger.Warn().Err(err).Msg("Vector index sync failed")
		return
	}
	logger.Info().Int("points", n).Msg("Vector index synced")
}
