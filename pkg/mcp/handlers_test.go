package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/validator"
)

// --- helpers ---

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func testServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "styles/main.css", `:root {
  --primary-color: #3366ff;
  --spacing-md: 16px;
}
.user-card { color: var(--primary-color); padding: var(--spacing-md); }
`)
	writeFile(t, root, "components/user-card.js", "class UserCard extends HTMLElement {}\n")
	writeFile(t, root, "pages/home-page.html", "<!-- Home -->\n<body class=\"home-page\"></body>\n")

	store := registry.NewStore(filepath.Join(root, registry.DefaultManifestPath), nil)
	require.NoError(t, store.Load())
	store.Put(registry.ComponentRecord{
		Name:        "user-card",
		Path:        "components/user-card.js",
		Layer:       registry.LayerComponent,
		Props:       []string{"variant"},
		Description: "Card showing a user.",
		Version:     "1.0.0",
	})
	store.Put(registry.ComponentRecord{
		Name:        "home-page",
		Path:        "pages/home-page.html",
		Layer:       registry.LayerPage,
		Description: "Landing page.",
		Version:     "1.0.0",
	})
	store.Manifest().RebuildLayers()

	s, err := NewServer(store, validator.DefaultConfig(root), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "list_components":
		handler = s.handleListComponents
	case "get_component":
		handler = s.handleGetComponent
	case "search_components":
		handler = s.handleSearchComponents
	case "list_layer":
		handler = s.handleListLayer
	case "get_tokens":
		handler = s.handleGetTokens
	case "registry_stats":
		handler = s.handleRegistryStats
	case "validate_architecture":
		handler = s.handleValidateArchitecture
	case "validate_tokens":
		handler = s.handleValidateTokens
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- list_components ---

func TestHandleListComponents(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("list_components", nil))
	assert.False(t, result.IsError)

	var recs []registry.ComponentRecord
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &recs))
	assert.Len(t, recs, 2)
}

// --- get_component ---

func TestHandleGetComponent(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component", map[string]any{"name": "user-card"}))
	assert.False(t, result.IsError)

	var rec registry.ComponentRecord
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &rec))
	assert.Equal(t, []string{"variant"}, rec.Props)
}

func TestHandleGetComponent_NotFound(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component", map[string]any{"name": "nope"}))
	assert.True(t, result.IsError)
}

func TestHandleGetComponent_MissingArg(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component", nil))
	assert.True(t, result.IsError)
}

// --- search_components ---

func TestHandleSearchComponents(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("search_components", map[string]any{"query": "landing"}))
	assert.False(t, result.IsError)

	var recs []registry.ComponentRecord
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "home-page", recs[0].Name)
}

// --- list_layer ---

func TestHandleListLayer(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("list_layer", map[string]any{"layer": "component"}))
	assert.False(t, result.IsError)

	var recs []registry.ComponentRecord
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "user-card", recs[0].Name)
}

func TestHandleListLayer_Invalid(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("list_layer", map[string]any{"layer": "module"}))
	assert.True(t, result.IsError)
}

// --- get_tokens ---

func TestHandleGetTokens(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_tokens", nil))
	assert.False(t, result.IsError)

	var toks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &toks))
	assert.Len(t, toks, 2)
}

func TestHandleGetTokens_CategoryFilter(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_tokens", map[string]any{"category": "color"}))

	var toks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &toks))
	require.Len(t, toks, 1)
	assert.Equal(t, "--primary-color", toks[0]["name"])
}

// --- registry_stats ---

func TestHandleRegistryStats(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("registry_stats", nil))

	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &stats))
	assert.EqualValues(t, 2, stats["totalComponents"])
	assert.EqualValues(t, 1, stats["components"])
	assert.EqualValues(t, 1, stats["pages"])
	assert.EqualValues(t, 0, stats["workflows"])
}

// --- validators ---

func TestHandleValidateArchitecture(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("validate_architecture", nil))
	assert.False(t, result.IsError)

	var res validator.Result
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &res))
	assert.True(t, res.Passed)
}

func TestHandleValidateTokens(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("validate_tokens", nil))
	assert.False(t, result.IsError)

	var res validator.Result
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &res))
	assert.True(t, res.Passed, "violations: %v", res.Violations)
}
