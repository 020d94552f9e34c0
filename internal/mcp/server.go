// Package mcp exposes the scoring service as Model Context Protocol tools,
// resources and prompts.
package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/clinical-scoring-mcp-server/internal/domain"
	"github.com/clinical-scoring-mcp-server/internal/service"
)

// Service is the subset of the scoring service used by the tools.
type Service interface {
	ListInstruments() []service.InstrumentSummary
	GetInstrument(id string) (*domain.Instrument, error)
	Evaluate(ctx context.Context, params service.EvaluateParams) (*service.EvaluateResult, error)
	Classify(ctx context.Context, in domain.ClassificationInputs) *service.ClassifyResult
	SummarizeRates(ctx context.Context, params service.RatesParams) *service.OutcomeResult
	ListTrials(ctx context.Context) ([]domain.TrialRecord, error)
	SummarizeTrial(ctx context.Context, id string) (*service.TrialSummaryResult, error)
}

// Server wraps the MCP SDK server with the clinical scoring tools registered.
type Server struct {
	mcpServer *mcp.Server
	service   Service
	logger    *logrus.Logger
}

// NewServer creates an MCP server and registers its tools, resources and prompts.
func NewServer(name, version string, svc Service, logger *logrus.Logger) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		service:   svc,
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Run serves a single session over transport until it closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	if err := s.mcpServer.Run(ctx, transport); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// RunStdio serves over standard input and output.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("Serving MCP over stdio")
	return s.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler serves the tools over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcpServer }, nil)
}
