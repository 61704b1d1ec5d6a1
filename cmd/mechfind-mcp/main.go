package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/cardoc/mechfind/internal/bootstrap"
	"github.com/cardoc/mechfind/internal/config"
	logpkg "github.com/cardoc/mechfind/internal/logger"
	"github.com/cardoc/mechfind/internal/metrics"
	mcpTransport "github.com/cardoc/mechfind/internal/transport/mcp"
	"github.com/cardoc/mechfind/internal/usecase/discovery"
	"github.com/cardoc/mechfind/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// stdout carries the MCP protocol; zap configs write to stderr
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mechfind MCP server",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := context.Background()
	backend, err := bootstrap.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open provider store", zap.Error(err))
	}
	defer backend.Close()

	metrics.RegisterDiscoveryMetrics()

	engine := discovery.New(backend.SearchStore(cfg.Discovery, logger), logger)
	server := mcpTransport.NewServer(engine, cfg.Discovery.FetchTimeout(), logger)

	if err := server.Serve(ctx); err != nil {
		logger.Error("MCP server stopped", zap.Error(err))
		backend.Close()
		os.Exit(1)
	}
}
