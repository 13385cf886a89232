package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/alextesy/market-pulse/internal/aggregate"
	"github.com/alextesy/market-pulse/internal/config"
	"github.com/alextesy/market-pulse/internal/database"
	"github.com/alextesy/market-pulse/internal/refdata"
	"github.com/alextesy/market-pulse/internal/runner"
	"github.com/alextesy/market-pulse/internal/scorer"
	"github.com/alextesy/market-pulse/internal/store"
	"github.com/alextesy/market-pulse/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pulse.local.yaml", "path to config file")
	flag.Parse()

	// Optional .env for local development; config env substitution reads it.
	_ = godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting pulse engine",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"timeframe", cfg.Scoring.Timeframe,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	st := store.New(pool, store.RetryConfig{
		MaxRetries: cfg.Store.MaxRetries,
		BaseDelay:  cfg.Store.RetryBaseDelay,
		MaxDelay:   cfg.Store.RetryMaxDelay,
	}, logger)

	if err := st.EnsureSchema(ctx, cfg.Embed.Dims); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	logger.Info("schema ensured", "embedding_dims", cfg.Embed.Dims)

	// Ticker reference registry
	registry := refdata.New(refdata.Config{
		ReconcileInterval:  cfg.Refdata.ReconcileInterval,
		InitialLoadTimeout: time.Minute,
	}, st, logger)

	// Start health server early so startup is observable
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: createHealthHandler(st, registry, logger),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	if err := registry.Start(ctx); err != nil {
		logger.Error("failed to start ticker registry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		registry.Stop(shutdownCtx)
	}()

	logger.Info("ticker registry started", "tickers", registry.Len())

	// Sentiment source
	var sentiments runner.SentimentSource
	if cfg.Scorer.Enabled() {
		client := scorer.NewClient(cfg.Scorer.URL, cfg.Scorer.APIKey,
			scorer.WithLogger(logger),
			scorer.WithTimeout(cfg.Scorer.Timeout),
		)
		sentiments = scorer.NewSource(ctx, client, cfg.Scorer.Timeout)
		logger.Info("sentiment scorer configured", "url", cfg.Scorer.URL)
	} else {
		logger.Warn("no sentiment scorer configured; articles will not qualify as contributors")
	}

	// Aggregation runner
	agg := aggregate.New(aggregate.Config{
		SentimentWeight: cfg.Scoring.SentimentWeight,
		NoveltyWeight:   cfg.Scoring.NoveltyWeight,
		VelocityWeight:  cfg.Scoring.VelocityWeight,
		HalfLife:        cfg.Scoring.HalfLife,
		VelocityCap:     cfg.Scoring.VelocityCap,
		BaselineEpsilon: 1.0,
		MaxContributors: cfg.Scoring.MaxContributors,
	}, nil)

	run := runner.New(runner.Config{
		Interval:        cfg.Runner.Interval,
		Concurrency:     cfg.Runner.Concurrency,
		UnitTimeout:     cfg.Runner.UnitTimeout,
		Timeframe:       cfg.Scoring.Timeframe,
		LookbackBuckets: cfg.Runner.LookbackBuckets,
		NoveltyBuckets:  cfg.Scoring.NoveltyLookbackBuckets,
		BaselineBuckets: cfg.Scoring.VelocityBaselineBuckets,
	}, st, agg, sentiments, logger)

	if err := run.Start(ctx); err != nil {
		logger.Error("failed to start aggregation runner", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		run.Stop(shutdownCtx)
	}()

	logger.Info("pulse engine running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("pulse engine stopped")
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(st *store.Store, registry *refdata.Registry, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		// Check database
		if err := st.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		// Check ticker registry
		tickers := registry.Len()
		health.Components["ticker_registry"] = map[string]any{
			"tickers": tickers,
		}
		if tickers == 0 {
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/tickers", func(w http.ResponseWriter, r *http.Request) {
		tickers := registry.All()

		// Limit to first 100 for debugging
		limit := 100
		showing := tickers
		if len(showing) > limit {
			showing = showing[:limit]
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":   len(tickers),
			"showing": len(showing),
			"tickers": showing,
		})
	})

	return mux
}
