// Package main serves the scoring tools over MCP stdio using the full
// configuration, so trial content and the audit trail can live in PostgreSQL.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/clinical-scoring-mcp-server/internal/app"
	"github.com/clinical-scoring-mcp-server/internal/config"
	"github.com/clinical-scoring-mcp-server/internal/logging"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Ignoring .env: %v", err)
	}

	configManager, err := config.NewManager(config.WithConfigFile(*configFile))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	if !cfg.MCP.Enabled {
		log.Fatal("MCP is disabled in configuration")
	}

	// stdout is the transport
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.Build(ctx, configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize MCP server")
	}
	defer application.Close()

	if err := application.MCP.RunStdio(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Error("MCP server failed")
		return
	}

	logger.Info("MCP server stopped")
}
