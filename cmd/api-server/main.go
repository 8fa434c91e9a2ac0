// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"roi-navigator/internal/api"
	"roi-navigator/internal/cache"
	"roi-navigator/internal/common/auth"
	"roi-navigator/internal/common/aws"
	"roi-navigator/internal/common/config"
	"roi-navigator/internal/common/database"
	"roi-navigator/internal/common/logger"
	"roi-navigator/internal/common/observability"
	"roi-navigator/internal/engine"
	"roi-navigator/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting ROI Navigator API server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

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

	// --- Init rate cache backend ---
	var rateCache cache.RateCache
	if cfg.Cache.Backend == "redis" {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")

		rateCache = cache.NewRedis(redisClient.Client, cfg.Cache.RateCacheTTL())
	} else {
		rateCache = cache.NewMemory(cfg.Cache.RateCacheTTL())
	}

	// --- Init external service clients ---
	keycloak := auth.NewKeycloakClient(
		cfg.Auth.Keycloak.URL,
		cfg.Auth.Keycloak.Realm,
		cfg.Auth.Keycloak.ClientID,
		cfg.Auth.Keycloak.ClientSecret,
	)

	var mailer api.CredentialMailer
	if cfg.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Email.Region, cfg.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("SES client init failed", zap.Error(err))
		}
		mailer = sesClient
		zapLog.Info("SES client initialized")
	}

	// --- Wire the application ---
	projectStore := store.NewProjectStore(pg.DB, log)
	settingsStore := store.NewSettingsStore(pg.DB)
	rateProvider := engine.NewRateProvider(rateCache, settingsStore, log)

	server := api.NewServer(
		projectStore,
		settingsStore,
		rateProvider,
		keycloak,
		mailer,
		pg,
		obs,
		log,
	)

	// --- Metrics endpoint ---
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		zapLog.Info("Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	// --- API server ---
	httpServer := &fasthttp.Server{
		Handler:      server.Handler,
		Name:         cfg.App.Name,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		addr := cfg.Server.Addr()
		zapLog.Info("API server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(addr); err != nil {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping API server...")

	if err := httpServer.Shutdown(); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
