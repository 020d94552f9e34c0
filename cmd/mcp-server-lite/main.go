// Package main provides the standalone MCP entry point for the clinical scoring
// server. It needs no external services: the cache lives in memory and the
// audit trail in SQLite under the data directory.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinical-scoring-mcp-server/internal/config"
	"github.com/clinical-scoring-mcp-server/internal/logging"
	"github.com/clinical-scoring-mcp-server/internal/mcp"
	"github.com/clinical-scoring-mcp-server/internal/setup"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := runSetup(); err != nil {
			log.Fatalf("Setup failed: %v", err)
		}
		return
	}

	cfg := config.LoadLiteConfig()

	// stdout carries the stdio transport, so logs go to stderr.
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	server, err := mcp.NewLiteServer(cfg, mcp.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Error("MCP server failed")
		return
	}

	logger.Info("Clinical scoring MCP server (lite) stopped")
}

// runSetup registers this executable with Claude Desktop.
func runSetup() error {
	binary, err := os.Executable()
	if err != nil {
		return err
	}
	path, err := setup.ClaudeDesktopConfigPath()
	if err != nil {
		return err
	}
	cfg := config.LoadLiteConfig()
	if _, err := setup.Configure(path, setup.Options{BinaryPath: binary, DataDir: cfg.DataDir}); err != nil {
		return err
	}
	fmt.Printf("Registered %s in %s\nRestart Claude Desktop to load it.\n", setup.ServerName, path)
	return nil
}
