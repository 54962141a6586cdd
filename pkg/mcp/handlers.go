package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/tokens"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/validator"
)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleListComponents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.List())
}

func (s *Server) handleGetComponent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, ok := s.store.Get(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("component not found: %s", name)), nil
	}
	return jsonResult(rec)
}

func (s *Server) handleSearchComponents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.store.Search(query))
}

func (s *Server) handleListLayer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("layer")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	layer, ok := registry.ParseLayer(raw)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown layer: %s (expected component, page, or workflow)", raw)), nil
	}
	return jsonResult(s.store.ListByLayer(layer))
}

func (s *Server) handleGetTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	set, err := tokens.Load(s.cfg.StylesheetPath())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	category := request.GetString("category", "")
	out := make([]tokens.Token, 0, set.Len())
	for _, tok := range set.All() {
		if category != "" && string(tok.Category) != category {
			continue
		}
		out = append(out, *tok)
	}
	return jsonResult(out)
}

func (s *Server) handleRegistryStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m := s.store.Manifest()
	stats := map[string]any{
		"totalComponents": len(m.Components),
		"lastUpdated":     m.Stats.LastUpdated,
		"generated":       m.Generated,
	}
	for _, layer := range registry.AllLayers() {
		stats[string(layer)+"s"] = len(m.Layers[layer])
	}
	return jsonResult(stats)
}

func (s *Server) handleValidateArchitecture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := validator.NewArchitectureValidator(s.cfg, s.cache, s.slog).Validate()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Server) handleValidateTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, _, err := validator.NewTokenValidator(s.cfg, s.cache, s.slog).Validate()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}
