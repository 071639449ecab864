// Command compdex-web serves the company search form over HTTP.
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/compdex/internal/config"
	dbRedis "github.com/kailas-cloud/compdex/internal/db/redis"
	logpkg "github.com/kailas-cloud/compdex/internal/logger"
	"github.com/kailas-cloud/compdex/internal/metrics"
	"github.com/kailas-cloud/compdex/internal/repository/pagecache"
	chiTransport "github.com/kailas-cloud/compdex/internal/transport/chi"
	"github.com/kailas-cloud/compdex/internal/transport/companiesapi"
	healthuc "github.com/kailas-cloud/compdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/compdex/internal/usecase/search"
	"github.com/kailas-cloud/compdex/internal/version"
)

func main() {
	env := config.GetEnv("local")

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting compdex web form",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterAPIMetrics()

	client := companiesapi.NewClient(&companiesapi.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
		Logger:  logger,
	})

	// Pass nil interface (not typed nil pointer!) when the cache is off.
	var fetcher searchuc.Fetcher = client
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		readyTimeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(context.Background(), readyTimeout); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))

		fetcher = pagecache.New(client, store, cfg.Cache.KeyPrefix, cfg.Cache.TTL(), metrics.PageCacheTotal, logger).
			WithScope(cfg.API.BaseURL)
		cachePinger = store
	}

	searchSvc := searchuc.New(fetcher)
	healthSvc := healthuc.New(cachePinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, chiTransport.Options{
		Token:     cfg.API.Token,
		ExportDir: cfg.Export.Dir,
		Filename:  cfg.Export.Filename,
	}, logger)

	r := chi.NewRouter()
	r.Use(recoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
