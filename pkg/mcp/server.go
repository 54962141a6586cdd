// Package mcp exposes the component registry and validators as MCP
// tools over stdio, for AI assistants working inside a project.
package mcp

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/mcplog"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/util"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/validator"
)

const serverVersion = "0.1.0"

// Server wraps the MCP server with the registry store and validation
// configuration it serves from.
type Server struct {
	mcpServer *server.MCPServer
	store     *registry.Store
	cfg       validator.Config
	cache     *util.FileCache
	logger    *mcplog.Logger // nil when tool-call logging is disabled
	slog      *slog.Logger
}

// NewServer creates the MCP server. The store must already be loaded.
// toolLog may be nil to disable JSONL tool-call logging.
func NewServer(store *registry.Store, cfg validator.Config, toolLog *mcplog.Logger, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := util.NewFileCache(util.DefaultMaxCachedFiles, logger)
	if err != nil {
		return nil, fmt.Errorf("create file cache: %w", err)
	}

	s := &Server{store: store, cfg: cfg, cache: cache, logger: toolLog, slog: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if toolLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("uicanvas", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: getComponentTool(), Handler: s.handleGetComponent},
		server.ServerTool{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
		server.ServerTool{Tool: listLayerTool(), Handler: s.handleListLayer},
		server.ServerTool{Tool: getTokensTool(), Handler: s.handleGetTokens},
		server.ServerTool{Tool: registryStatsTool(), Handler: s.handleRegistryStats},
		server.ServerTool{Tool: validateArchitectureTool(), Handler: s.handleValidateArchitecture},
		server.ServerTool{Tool: validateTokensTool(), Handler: s.handleValidateTokens},
	)

	return s, nil
}

// ServeStdio runs the MCP server on stdin/stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	s.slog.Info("mcp server starting", "version", serverVersion)
	return server.ServeStdio(s.mcpServer)
}

// Close releases the file cache and the tool-call log.
func (s *Server) Close() error {
	err := s.cache.Close()
	if s.logger != nil {
		if cerr := s.logger.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
