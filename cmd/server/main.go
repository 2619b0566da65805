package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/saurabhbakolia/disaster-response-platform/internal/cache"
	"github.com/saurabhbakolia/disaster-response-platform/internal/config"
	"github.com/saurabhbakolia/disaster-response-platform/internal/database"
	"github.com/saurabhbakolia/disaster-response-platform/internal/feed"
	"github.com/saurabhbakolia/disaster-response-platform/internal/gemini"
	"github.com/saurabhbakolia/disaster-response-platform/internal/geocode"
	"github.com/saurabhbakolia/disaster-response-platform/internal/hub"
	"github.com/saurabhbakolia/disaster-response-platform/internal/logging"
	"github.com/saurabhbakolia/disaster-response-platform/internal/server"
	"github.com/saurabhbakolia/disaster-response-platform/internal/updates"
	"github.com/saurabhbakolia/disaster-response-platform/internal/verify"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config) *goredis.Client {
	opts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to parse Redis URL", "error", err)
		os.Exit(1)
	}

	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	slog.Info("Redis connected")
	return client
}

func runGracefulShutdown(srv *server.Server, generator *feed.Generator, alertHub *hub.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		generator.Stop()
		alertHub.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(cfg)
	defer func() { _ = redisClient.Close() }()

	responseCache := cache.New(cache.NewRedisStore(redisClient), clock, cfg.CacheTTL)

	classifier := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	reportRepo := database.NewReportRepo(pool)
	auditRepo := database.NewAuditRepo(pool)

	verifySvc := verify.NewService(classifier, reportRepo, auditRepo)
	geocodeSvc := geocode.NewService(classifier, responseCache)
	updatesSvc := updates.NewService(updates.NewFEMAFetcher(), responseCache)

	alertHub := hub.New(clock, cfg.MaxAlertClients)
	generator := feed.NewGenerator(alertHub, clock, cfg.FeedInterval, nil)
	if err := generator.Start(); err != nil {
		slog.Error("Failed to start mock feed", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(cfg, alertHub, verifySvc, geocodeSvc, updatesSvc, reportRepo, redisClient, pool)

	done := runGracefulShutdown(srv, generator, alertHub)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
