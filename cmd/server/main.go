package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scoreline/scoreline/internal/api"
	"github.com/scoreline/scoreline/internal/config"
	"github.com/scoreline/scoreline/internal/metrics"
	"github.com/scoreline/scoreline/internal/refresher"
	"github.com/scoreline/scoreline/internal/team"
	"github.com/scoreline/scoreline/internal/upstream"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, pinger, closeSource, err := buildSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	cache, err := team.NewLRUCache(cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return fmt.Errorf("creating team cache: %w", err)
	}
	m := metrics.New(cache.Len)
	svc := team.NewService(source, cache, team.WithMetrics(m))

	router, err := api.NewRouter(api.RouterDeps{
		Teams:       svc,
		Cache:       svc,
		SourceKind:  cfg.SourceKind(),
		Pinger:      pinger,
		Version:     cfg.Version,
		OpenAPISpec: api.OpenAPISpec,
		Metrics:     m.Handler(),
		AccessLog:   true,
	})
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	if cfg.SourceKind() != "placeholder" && cfg.RefreshInterval > 0 {
		go refresher.New(svc, cfg.RefreshInterval).Start(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"port", cfg.Port,
			"version", cfg.Version,
			"source", cfg.SourceKind(),
			"cacheSize", cfg.CacheSize,
			"cacheTTL", cfg.CacheTTL.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// buildSource selects the team source from configuration. The returned close
// function is always non-nil.
func buildSource(ctx context.Context, cfg *config.Config) (team.Source, team.Pinger, func(), error) {
	switch cfg.SourceKind() {
	case "upstream":
		client, err := upstream.NewClient(cfg.UpstreamBaseURL,
			upstream.WithAPIKey(cfg.UpstreamAPIKey),
			upstream.WithTimeout(cfg.UpstreamTimeout),
			upstream.WithRetry(cfg.UpstreamRetryAttempts, cfg.UpstreamRetryDelay),
		)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("creating upstream client: %w", err)
		}
		return client, client, func() {}, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database ping failed; health will report degraded", "error", err)
		}
		repo := team.NewRepository(pool)
		return repo, repo, pool.Close, nil

	default:
		slog.Info("no team source configured; unknown teams are served as placeholders")
		return team.PlaceholderSource{}, nil, func() {}, nil
	}
}
