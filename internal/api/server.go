// Package api exposes the scoring service over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinical-scoring-mcp-server/internal/domain"
	"github.com/clinical-scoring-mcp-server/internal/middleware"
	"github.com/clinical-scoring-mcp-server/internal/service"
)

// Service is the subset of the scoring service used by the HTTP handlers.
type Service interface {
	ListInstruments() []service.InstrumentSummary
	GetInstrument(id string) (*domain.Instrument, error)
	Evaluate(ctx context.Context, params service.EvaluateParams) (*service.EvaluateResult, error)
	Classify(ctx context.Context, in domain.ClassificationInputs) *service.ClassifyResult
	SummarizeRates(ctx context.Context, params service.RatesParams) *service.OutcomeResult
	ListTrials(ctx context.Context) ([]domain.TrialRecord, error)
	SummarizeTrial(ctx context.Context, id string) (*service.TrialSummaryResult, error)
	ListAudit(ctx context.Context, limit, offset int) (*service.AuditPage, error)
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	service       Service
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server

	mu     sync.RWMutex
	checks map[string]HealthCheck
	ready  chan struct{}
	addr   string
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, svc Service, logger *logrus.Logger) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on log level
	if strings.EqualFold(cfg.Logging.Level, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst).Middleware())
	}

	server := &Server{
		configManager: configManager,
		service:       svc,
		logger:        logger,
		router:        router,
		checks:        make(map[string]HealthCheck),
		ready:         make(chan struct{}),
	}

	server.setupRoutes()

	return server
}

// AddHealthCheck registers a named dependency probe reported by /health.
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// MountMCP serves the streamable MCP handler at /mcp. The route skips the
// request timeout because MCP sessions hold long-lived streams.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Any("/mcp", gin.WrapH(h))
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listen address once Ready is closed.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()
	close(s.ready)

	s.logger.WithField("addr", s.addr).Info("HTTP server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	timeout := middleware.RequestTimeout(s.configManager.GetServerConfig().RequestTimeout)
	s.router.GET("/health", timeout, s.handleHealth)

	v1 := s.router.Group("/api/v1", timeout)
	{
		v1.GET("/instruments", s.handleListInstruments)
		v1.GET("/instruments/:id", s.handleGetInstrument)
		v1.POST("/instruments/:id/evaluate", s.handleEvaluate)
		v1.POST("/boston/classify", s.handleClassify)
		v1.GET("/trials", s.handleListTrials)
		v1.GET("/trials/:id/summary", s.handleTrialSummary)
		v1.POST("/trials/summarize", s.handleSummarizeRates)
		v1.GET("/audit", s.handleListAudit)
	}

	s.router.NoRoute(func(c *gin.Context) {
		s.respondError(c, domain.NewMCPError(domain.ErrNotFoundCode, "route not found", c.Request.URL.Path, ""))
	})
}

// handleHealth reports liveness plus the status of registered dependencies.
func (s *Server) handleHealth(c *gin.Context) {
	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	checks := make(map[string]HealthCheck, len(s.checks))
	for k, v := range s.checks {
		checks[k] = v
	}
	s.mu.RUnlock()
	sort.Strings(names)

	status := "healthy"
	code := http.StatusOK
	components := make(map[string]string, len(names))
	for _, name := range names {
		if err := checks[name](c.Request.Context()); err != nil {
			components[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":     status,
		"timestamp":  time.Now().UTC(),
		"version":    s.configManager.GetConfig().MCP.ServerVersion,
		"components": components,
	})
}

// corsMiddleware builds the CORS policy. "*" allows every origin.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.CorrelationHeader},
		ExposeHeaders: []string{"Content-Length", middleware.CorrelationHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
		}
	}
	return cors.New(cfg)
}
