package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/taggate/internal/bootstrap"
	"github.com/kailas-cloud/taggate/internal/config"
	"github.com/kailas-cloud/taggate/internal/domain/batch"
	logpkg "github.com/kailas-cloud/taggate/internal/logger"
	"github.com/kailas-cloud/taggate/internal/metrics"
	chiTransport "github.com/kailas-cloud/taggate/internal/transport/chi"
	"github.com/kailas-cloud/taggate/internal/usecase/dispatch"
	"github.com/kailas-cloud/taggate/internal/usecase/gateway"
	healthuc "github.com/kailas-cloud/taggate/internal/usecase/health"
	"github.com/kailas-cloud/taggate/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewServiceLogger("gateway", env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting taggate gateway",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("endpoints", cfg.Dispatch.Endpoints),
	)
	if len(cfg.Dispatch.Endpoints) == 0 {
		logger.Warn("No tagging endpoints configured; every batch will fail with Internal error")
	}

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer storage.Close()
	logger.Info("Connected to database", zap.String("driver", storage.Driver))

	// Register dispatch metrics explicitly (no init())
	metrics.RegisterDispatchMetrics()

	// The router bounds each attempt itself; the client carries no global timeout.
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 32,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	router := dispatch.New(cfg.Dispatch.Endpoints, httpClient, logger).
		WithAttempts(cfg.Dispatch.Attempts).
		WithAttemptTimeout(cfg.Dispatch.AttemptTimeout())

	validator := batch.NewValidator(cfg.Batch.MaxTexts, cfg.Batch.MaxTextLength)
	gatewaySvc := gateway.New(storage.Users, validator, router, storage.Queries)
	healthSvc := healthuc.New(storage.Pinger, router, router.Endpoints())

	r := chiTransport.NewRouter("gateway", logger)
	chiTransport.NewGatewayServer(gatewaySvc, healthSvc, cfg.HTTP.MaxBodyBytes).Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
