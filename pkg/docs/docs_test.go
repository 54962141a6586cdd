package docs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
)

func docsStore(t *testing.T) *registry.Store {
	t.Helper()
	s := registry.NewStore(filepath.Join(t.TempDir(), "registry.json"), nil)
	require.NoError(t, s.Load())

	s.Put(registry.ComponentRecord{
		Name:         "user-card",
		Path:         "components/user-card.js",
		Layer:        registry.LayerComponent,
		Props:        []string{"variant", "size"},
		Description:  "Card showing a user.",
		Version:      "2.0.0",
		Dependencies: []string{"avatar-badge.js", "format.js"},
		BEMClasses:   []string{"user-card", "user-card__avatar"},
		LastModified: time.Now().UTC(),
	})
	s.Put(registry.ComponentRecord{
		Name:    "avatar-badge",
		Path:    "components/avatar-badge.js",
		Layer:   registry.LayerComponent,
		Version: "1.0.0",
	})
	s.Put(registry.ComponentRecord{
		Name:    "home-page",
		Path:    "pages/home-page.html",
		Layer:   registry.LayerPage,
		Version: "1.0.0",
	})
	return s
}

func readDoc(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_WritesIndexAndDetailPages(t *testing.T) {
	store := docsStore(t)
	outDir := filepath.Join(t.TempDir(), "docs", "registry")

	require.NoError(t, NewGenerator(outDir, nil).Generate(store))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4) // index + 3 records
}

func TestGenerate_IndexGroupsByLayer(t *testing.T) {
	store := docsStore(t)
	outDir := t.TempDir()
	require.NoError(t, NewGenerator(outDir, nil).Generate(store))

	index := readDoc(t, outDir, "index.html")
	assert.Contains(t, index, "3 components")
	assert.Contains(t, index, "component (2)")
	assert.Contains(t, index, "page (1)")
	assert.Contains(t, index, "workflow (0)")
	assert.Contains(t, index, `<a href="user-card.html">user-card</a>`)
	assert.Contains(t, index, "Card showing a user.")
}

func TestGenerate_DetailPage(t *testing.T) {
	store := docsStore(t)
	outDir := t.TempDir()
	require.NoError(t, NewGenerator(outDir, nil).Generate(store))

	page := readDoc(t, outDir, "user-card.html")

	// Usage snippet is HTML-escaped into the <pre> block.
	assert.Contains(t, page, "&lt;user-card variant=&#34;...&#34; size=&#34;...&#34;&gt;")
	assert.Contains(t, page, "<td>variant</td>")
	assert.Contains(t, page, "<code>user-card__avatar</code>")

	// avatar-badge.js resolves to a registered component; format.js
	// does not.
	assert.Contains(t, page, `<a href="avatar-badge.html">avatar-badge.js</a>`)
	assert.Contains(t, page, "<li>format.js</li>")

	assert.Contains(t, page, `<a href="index.html">`)
}

func TestUsageSnippet(t *testing.T) {
	rec := registry.ComponentRecord{Name: "task-list", Props: []string{"limit"}}
	assert.Equal(t, `<task-list limit="..."></task-list>`, UsageSnippet(rec))
}
