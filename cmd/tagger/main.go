package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/taggate/internal/config"
	"github.com/kailas-cloud/taggate/internal/domain/batch"
	domtag "github.com/kailas-cloud/taggate/internal/domain/tagging"
	logpkg "github.com/kailas-cloud/taggate/internal/logger"
	"github.com/kailas-cloud/taggate/internal/metrics"
	chiTransport "github.com/kailas-cloud/taggate/internal/transport/chi"
	healthuc "github.com/kailas-cloud/taggate/internal/usecase/health"
	"github.com/kailas-cloud/taggate/internal/usecase/tagging"
	"github.com/kailas-cloud/taggate/internal/version"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewServiceLogger("tagger-"+cfg.Kind, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tagging worker",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("kind", cfg.Kind),
		zap.Int("max_tags", cfg.MaxTags),
		zap.String("addr", cfg.Addr),
	)

	// Corpora are loaded once and shared read-only by every request.
	corpora, err := domtag.LoadCorpora(cfg.StopWordsPath, cfg.PopularWordsPath)
	if err != nil {
		logger.Fatal("Failed to load corpora", zap.Error(err))
	}
	tagger, err := domtag.New(domtag.Kind(cfg.Kind), corpora, cfg.MaxTags)
	if err != nil {
		logger.Fatal("Failed to build tagger", zap.Error(err))
	}
	logger.Info("Corpora loaded",
		zap.Int("stop_words", corpora.StopWords.Len()),
		zap.Int("popular_words", len(corpora.Popular)),
	)

	metrics.RegisterTaggerMetrics()

	svc := tagging.New(tagger, cfg.Kind)
	validator := batch.NewValidator(cfg.MaxTexts, cfg.MaxTextLength)
	healthSvc := healthuc.New(nil, nil, nil)

	r := chiTransport.NewRouter("tagger", logger)
	chiTransport.NewWorkerServer(svc, validator, healthSvc).Mount(r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
