package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinical-scoring-mcp-server/internal/audit"
	"github.com/clinical-scoring-mcp-server/internal/cache"
	litecfg "github.com/clinical-scoring-mcp-server/internal/config"
	"github.com/clinical-scoring-mcp-server/internal/content"
	"github.com/clinical-scoring-mcp-server/internal/domain"
	"github.com/clinical-scoring-mcp-server/internal/service"
)

// LiteServer is a lightweight MCP server that requires no external databases.
// It uses an in-memory cache and SQLite for the audit trail.
type LiteServer struct {
	config     *litecfg.LiteConfig
	server     *Server
	auditStore audit.Store
	cache      *cache.MemoryCache
	trials     domain.TrialRepository
	logger     *logrus.Logger
}

// LiteServerOption is a functional option for LiteServer.
type LiteServerOption func(*LiteServer) error

// WithAuditStore sets a custom audit store.
func WithAuditStore(store audit.Store) LiteServerOption {
	return func(s *LiteServer) error {
		s.auditStore = store
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) LiteServerOption {
	return func(s *LiteServer) error {
		s.logger = logger
		return nil
	}
}

// WithTrialRepository replaces the trial catalog.
func WithTrialRepository(repo domain.TrialRepository) LiteServerOption {
	return func(s *LiteServer) error {
		if repo == nil {
			return fmt.Errorf("trial repository is nil")
		}
		s.trials = repo
		return nil
	}
}

// NewLiteServer creates a new lightweight MCP server instance.
func NewLiteServer(cfg *litecfg.LiteConfig, opts ...LiteServerOption) (*LiteServer, error) {
	server := &LiteServer{
		config: cfg,
		logger: logrus.New(),
	}

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if !cfg.AuditDisabled {
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	memCache, err := cache.NewMemoryCache(cfg.CacheMaxItems, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	server.cache = memCache

	if server.auditStore == nil && cfg.AuditDisabled {
		server.auditStore = audit.NopStore{}
	}
	if server.auditStore == nil {
		store, err := audit.NewSQLiteStore(cfg.AuditDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to create audit store: %w", err)
		}
		server.auditStore = store
	}

	if server.trials == nil {
		catalog, err := loadCatalog(cfg.TrialsFile)
		if err != nil {
			return nil, err
		}
		server.trials = catalog
	}

	svc := service.NewScoringService(server.logger, server.trials,
		service.WithCache(memCache, cfg.CacheTTL),
		service.WithAuditStore(server.auditStore),
	)
	server.server = NewServer("clinical-scoring-lite", "v1.0.0", svc, server.logger)

	server.logger.WithFields(logrus.Fields{
		"data_dir":  cfg.DataDir,
		"transport": cfg.Transport,
		"audit":     !cfg.AuditDisabled,
	}).Info("Lite server initialized successfully")
	return server, nil
}

func loadCatalog(path string) (*content.Catalog, error) {
	if path == "" {
		catalog, err := content.DefaultCatalog()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded trial catalog: %w", err)
		}
		return catalog, nil
	}
	catalog, err := content.LoadCatalogFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load trial catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Start serves on the configured transport until ctx is cancelled.
func (s *LiteServer) Start(ctx context.Context) error {
	switch s.config.Transport {
	case "", "stdio":
		return s.server.RunStdio(ctx)
	case "http":
		return s.serveHTTP(ctx)
	default:
		return fmt.Errorf("unsupported transport: %s", s.config.Transport)
	}
}

func (s *LiteServer) serveHTTP(ctx context.Context) error {
	addr := net.JoinHostPort("", strconv.Itoa(s.config.HTTPPort))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.server.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("Serving MCP over streamable HTTP")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("MCP HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// Server returns the tool server.
func (s *LiteServer) Server() *Server {
	return s.server
}

// AuditStore returns the audit store for external access.
func (s *LiteServer) AuditStore() audit.Store {
	return s.auditStore
}

// Cache returns the memory cache for external access.
func (s *LiteServer) Cache() *cache.MemoryCache {
	return s.cache
}

// Close cleans up server resources.
func (s *LiteServer) Close() error {
	if s.auditStore != nil {
		if err := s.auditStore.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close audit store")
			return err
		}
	}
	return nil
}
