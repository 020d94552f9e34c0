package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Resource URIs.
const (
	ResourceInstruments       = "clinical://instruments"
	ResourceInstrumentPattern = "clinical://instruments/{id}"
	ResourceTrials            = "clinical://trials"

	instrumentURIPrefix = "clinical://instruments/"
	jsonMIME            = "application/json"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         ResourceInstruments,
		Name:        "instruments",
		Description: "Catalog of clinical scoring instruments.",
		MIMEType:    jsonMIME,
	}, s.readInstruments)

	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: ResourceInstrumentPattern,
		Name:        "instrument",
		Description: "Full definition of one instrument, including its interpretation table.",
		MIMEType:    jsonMIME,
	}, s.readInstrument)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         ResourceTrials,
		Name:        "trials",
		Description: "Trial catalog used by summarize_trial.",
		MIMEType:    jsonMIME,
	}, s.readTrials)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: jsonMIME, Text: string(data)}},
	}, nil
}

func (s *Server) readInstruments(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.service.ListInstruments())
}

func (s *Server) readInstrument(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	id := strings.TrimPrefix(uri, instrumentURIPrefix)
	inst, err := s.service.GetInstrument(id)
	if err != nil {
		s.logger.WithField("uri", uri).Debug("Instrument resource not found")
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return jsonResource(uri, inst)
}

func (s *Server) readTrials(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	trials, err := s.service.ListTrials(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, trials)
}
