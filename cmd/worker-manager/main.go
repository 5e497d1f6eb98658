// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"food-recommender/internal/catalog"
	"food-recommender/internal/common/camunda"
	"food-recommender/internal/common/config"
	"food-recommender/internal/common/database"
	httpclient "food-recommender/internal/common/http"
	"food-recommender/internal/common/logger"
	"food-recommender/internal/common/observability"
	"food-recommender/internal/enrichment"
	"food-recommender/internal/preference"
	"food-recommender/internal/recommend"
	"food-recommender/internal/trending"

	// Recommendation Workers
	lm "food-recommender/internal/workers/recommendation/list-moods"
	sr "food-recommender/internal/workers/recommendation/score-recommendations"

	// Enrichment Workers
	ea "food-recommender/internal/workers/enrichment/enrich-artifact"
	pec "food-recommender/internal/workers/enrichment/purge-enrichment-cache"

	// Preference Workers
	up "food-recommender/internal/workers/preference/update-preferences"
)

// permanent stops retryWithBackoff without further attempts.
type permanent struct{ err error }

func (p permanent) Error() string { return p.err.Error() }
func (p permanent) Unwrap() error { return p.err }

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		var stop permanent
		if errors.As(err, &stop) {
			return fmt.Errorf("%s failed: %w", operationName, stop.err)
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	serviceName := cfg.App.Name
	if serviceName == "" {
		serviceName = "food-recommender"
	}
	obs, err := observability.New(serviceName)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(ctx, cfg.Camunda)
		if err != nil && !camunda.IsRetryable(err) {
			return permanent{err}
		}
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Catalog ---
	var catalogStore catalog.Store
	switch cfg.Catalog.Backend {
	case "elasticsearch":
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
		catalogStore = catalog.NewSearchStore(esClient.Client, cfg.Catalog.Index)
	default:
		catalogStore = catalog.NewPostgresStore(pg.DB, cfg.Catalog.Table)
	}

	// --- Preferences: Redis in front of Postgres ---
	prefStore := preference.NewCachedStore(
		preference.NewPostgresStore(pg.DB),
		preference.NewRedisStore(rdb.Client, config.GetDuration(cfg.Preferences.CacheTTL)),
		log,
	)

	// --- Trending feed (optional) ---
	var trendingSource recommend.TrendingSource
	if cfg.Trending.FeedURL != "" {
		feedClient := httpclient.NewClient(httpclient.Options{
			Name:    "trending",
			Timeout: config.GetDuration(cfg.Trending.Timeout),
		})
		trendingSource = trending.NewFeedSource(cfg.Trending.FeedURL, feedClient, config.GetDuration(cfg.Trending.Refresh))
	} else {
		zapLog.Info("No trending feed configured, popularity uses the built-in keyword list")
	}

	engine := recommend.NewEngine(recommend.ConfigFromSettings(cfg.Recommend), catalogStore, prefStore, trendingSource, log)

	// --- Enrichment caches ---
	enrichStore := enrichment.NewRedisStore(rdb.Client)

	unsplashCfg := cfg.Providers.Unsplash
	unsplash := enrichment.NewUnsplash(
		newProviderClient(enrichment.ProviderUnsplash, unsplashCfg, log),
		unsplashCfg.BaseURL, unsplashCfg.APIKey, unsplashCfg.ResultsPerQuery,
	)
	spoonacularCfg := cfg.Providers.Spoonacular
	spoonacular := enrichment.NewSpoonacular(
		newProviderClient(enrichment.ProviderSpoonacular, spoonacularCfg, log),
		spoonacularCfg.BaseURL, spoonacularCfg.APIKey, spoonacularCfg.ResultsPerQuery,
	)
	for _, p := range []struct {
		name string
		key  string
	}{{enrichment.ProviderUnsplash, unsplashCfg.APIKey}, {enrichment.ProviderSpoonacular, spoonacularCfg.APIKey}} {
		if p.key == "" {
			zapLog.Warn("provider has no API key, lookups will return the fallback", zap.String("provider", p.name))
		}
	}

	imageCache := enrichment.NewCache(unsplash, enrichStore, catalogStore, enrichmentOptions(cfg, cfg.Enrichment.ImageTTL), log)
	recipeCache := enrichment.NewCache(spoonacular, enrichStore, catalogStore, enrichmentOptions(cfg, cfg.Enrichment.RecipeTTL), log)

	sweeper := enrichment.NewSweeper(config.GetDuration(cfg.Enrichment.SweepInterval), log, imageCache, recipeCache)
	go sweeper.Run(ctx)

	// --- Register Workers ---
	runner := camunda.NewRunner(zeebe.Zeebe(), obs, log)

	runner.Start(sr.TaskType, config.GetWorkerConfig(cfg, sr.TaskType),
		sr.NewHandler(sr.LoadConfig(cfg), engine, log).Handle)
	runner.Start(lm.TaskType, config.GetWorkerConfig(cfg, lm.TaskType),
		lm.NewHandler(lm.LoadConfig(cfg), engine, log).Handle)
	runner.Start(ea.TaskTypeImage, config.GetWorkerConfig(cfg, ea.TaskTypeImage),
		ea.NewHandler(ea.LoadConfig(cfg, ea.TaskTypeImage), imageCache, log).Handle)
	runner.Start(ea.TaskTypeRecipe, config.GetWorkerConfig(cfg, ea.TaskTypeRecipe),
		ea.NewHandler(ea.LoadConfig(cfg, ea.TaskTypeRecipe), recipeCache, log).Handle)
	runner.Start(pec.TaskType, config.GetWorkerConfig(cfg, pec.TaskType),
		pec.NewHandler(pec.LoadConfig(cfg), log, imageCache, recipeCache).Handle)
	runner.Start(up.TaskType, config.GetWorkerConfig(cfg, up.TaskType),
		up.NewHandler(up.LoadConfig(cfg), prefStore, log).Handle)

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newHealthMux(zeebe, pg, rdb),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	runner.Stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func newProviderClient(name string, pc config.ProviderConfig, log logger.Logger) *httpclient.Client {
	return httpclient.NewClient(httpclient.Options{
		Name:              name,
		Timeout:           config.GetDuration(pc.Timeout),
		RequestsPerMinute: pc.RequestsPerMinute,
		Burst:             pc.Burst,
		BreakerFailures:   uint32(pc.BreakerFailures),
		BreakerCooldown:   config.GetDuration(pc.BreakerCooldown),
		OnStateChange: func(name, from, to string) {
			log.Warn("provider circuit breaker state changed", map[string]interface{}{
				"provider": name,
				"from":     from,
				"to":       to,
			})
		},
	})
}

func enrichmentOptions(cfg *config.Config, ttl int) enrichment.Options {
	return enrichment.Options{
		MaxURLs:     cfg.Enrichment.MaxURLs,
		TTL:         config.GetDuration(ttl),
		FallbackTTL: config.GetDuration(cfg.Enrichment.FallbackTTL),
		FallbackURL: cfg.Enrichment.FallbackImageURL,
		AdminKey:    cfg.Enrichment.AdminKey,
	}
}

type dependency struct {
	name  string
	check func(ctx context.Context) error
}

func newHealthMux(zeebe *camunda.Client, pg *database.PostgresClient, rdb *database.RedisClient) *http.ServeMux {
	deps := []dependency{
		{"zeebe", zeebe.HealthCheck},
		{"postgres", pg.Ping},
		{"redis", rdb.Ping},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		checks := make(map[string]string, len(deps))
		for _, d := range deps {
			if err := d.check(ctx); err != nil {
				checks[d.name] = err.Error()
				status, code = "not_ready", http.StatusServiceUnavailable
				continue
			}
			checks[d.name] = "ok"
		}
		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
