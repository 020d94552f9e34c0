// Package app wires configuration into a running scoring service: cache,
// trial content, audit trail and the HTTP and MCP front ends.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/clinical-scoring-mcp-server/internal/api"
	"github.com/clinical-scoring-mcp-server/internal/audit"
	"github.com/clinical-scoring-mcp-server/internal/cache"
	"github.com/clinical-scoring-mcp-server/internal/content"
	"github.com/clinical-scoring-mcp-server/internal/database"
	"github.com/clinical-scoring-mcp-server/internal/domain"
	"github.com/clinical-scoring-mcp-server/internal/mcp"
	"github.com/clinical-scoring-mcp-server/internal/service"
)

// App holds the wired components and the resources that need closing.
type App struct {
	Service *service.ScoringService
	Audit   audit.Store
	API     *api.Server
	MCP     *mcp.Server

	closers []func() error
}

// Build constructs every component selected by the configuration. On error,
// anything already opened is closed.
func Build(ctx context.Context, cm domain.ConfigManager, logger *logrus.Logger) (_ *App, err error) {
	cfg := cm.GetConfig()
	app := &App{}
	defer func() {
		if err != nil {
			if cerr := app.Close(); cerr != nil {
				logger.WithError(cerr).Warn("Failed to release resources after startup error")
			}
		}
	}()

	checks := map[string]api.HealthCheck{}

	local, err := cache.NewMemoryCache(cfg.Cache.MaxItems, cfg.Cache.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	var c cache.Cache = local
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, redisCache.Close)
		checks["redis"] = redisCache.Ping
		c = cache.NewTieredCache(local, redisCache, logger)
		logger.Info("Using Redis-backed tiered cache")
	}

	var db *database.DB
	if cm.UsesPostgres() {
		runner, err := database.NewMigrationRunner(cm.GetDatabaseURL(), cfg.Database.MigrationsPath, logger)
		if err != nil {
			return nil, err
		}
		upErr := runner.Up(ctx)
		if cerr := runner.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close migration runner")
		}
		if upErr != nil {
			return nil, upErr
		}

		db, err = database.NewConnection(ctx, database.ConfigFrom(cfg.Database), logger)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() error { db.Close(); return nil })
		checks["database"] = db.Health
	}

	trials, err := trialRepository(ctx, cfg.Content, db, logger)
	if err != nil {
		return nil, err
	}

	store, err := auditStore(cfg.Audit, cm.GetDatabaseURL())
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.Close)
	app.Audit = store

	app.Service = service.NewScoringService(logger, trials,
		service.WithCache(c, cfg.Cache.DefaultTTL),
		service.WithAuditStore(store),
	)

	app.API = api.NewServer(cm, app.Service, logger)
	for name, check := range checks {
		app.API.AddHealthCheck(name, check)
	}
	if cfg.MCP.Enabled {
		app.MCP = mcp.NewServer(cfg.MCP.ServerName, cfg.MCP.ServerVersion, app.Service, logger)
		app.API.MountMCP(app.MCP.HTTPHandler())
	}
	return app, nil
}

func trialRepository(ctx context.Context, cfg domain.ContentConfig, db *database.DB, logger *logrus.Logger) (domain.TrialRepository, error) {
	switch cfg.Source {
	case "file":
		catalog, err := content.LoadCatalogFile(cfg.TrialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load trial catalog %s: %w", cfg.TrialsFile, err)
		}
		return catalog, nil
	case "postgres":
		repo := content.NewPostgresRepository(db.Pool, logger)
		catalog, err := content.DefaultCatalog()
		if err != nil {
			return nil, err
		}
		records, err := catalog.List(ctx)
		if err != nil {
			return nil, err
		}
		if err := repo.Seed(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to seed trials: %w", err)
		}
		return repo, nil
	default:
		return content.DefaultCatalog()
	}
}

func auditStore(cfg domain.AuditConfig, databaseURL string) (audit.Store, error) {
	switch cfg.Backend {
	case "postgres":
		return audit.NewPostgresStoreFromURL(databaseURL)
	case "sqlite":
		return audit.NewSQLiteStore(cfg.SQLitePath)
	default:
		return audit.NopStore{}, nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
