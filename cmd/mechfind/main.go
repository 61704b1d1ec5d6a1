package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cardoc/mechfind/internal/bootstrap"
	"github.com/cardoc/mechfind/internal/config"
	logpkg "github.com/cardoc/mechfind/internal/logger"
	"github.com/cardoc/mechfind/internal/metrics"
	chiTransport "github.com/cardoc/mechfind/internal/transport/chi"
	"github.com/cardoc/mechfind/internal/usecase/discovery"
	healthuc "github.com/cardoc/mechfind/internal/usecase/health"
	"github.com/cardoc/mechfind/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mechfind API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Duration("fetch_timeout", cfg.Discovery.FetchTimeout()),
		zap.Bool("coalesce_fetches", cfg.Discovery.CoalesceFetches),
	)

	ctx := context.Background()
	backend, err := bootstrap.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open provider store", zap.Error(err))
	}
	defer backend.Close()

	// Register discovery metrics explicitly (no init())
	metrics.RegisterDiscoveryMetrics()

	engine := discovery.New(backend.SearchStore(cfg.Discovery, logger), logger)
	healthSvc := healthuc.New(backend)

	server := chiTransport.NewServer(engine, healthSvc, cfg.Discovery.FetchTimeout(), logger)
	router := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
