// Package mcp exposes provider search as a Model Context Protocol tool over stdio.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/cardoc/mechfind/internal/domain/search/query"
	"github.com/cardoc/mechfind/internal/domain/search/ranked"
	"github.com/cardoc/mechfind/internal/version"
)

// ServerName is the MCP server name.
const ServerName = "mechfind"

// Searcher runs provider searches.
type Searcher interface {
	Search(ctx context.Context, q *query.SearchQuery) (ranked.Outcome, error)
}

// Server wraps the MCP server with the discovery engine.
type Server struct {
	mcp          *server.MCPServer
	search       Searcher
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewServer creates an MCP server. fetchTimeout bounds each tool call (0 = no bound).
func NewServer(search Searcher, fetchTimeout time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mcp: server.NewMCPServer(
			ServerName,
			version.Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		search:       search,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
	s.registerTools()
	return s
}

// Serve runs the server on stdio and blocks until stdin closes.
func (s *Server) Serve(_ context.Context) error {
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("serve stdio: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchProvidersTool(), s.handleSearchProviders)
}
