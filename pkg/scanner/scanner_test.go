package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
)

// --- helpers ---

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func testProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "components/user-card.js", `/**
 * Card showing a user.
 * @version 1.2.0
 */
class UserCard extends HTMLElement {
  static get observedAttributes() { return ['variant']; }
}
`)
	writeFile(t, root, "pages/dashboard-page.html", `<!-- Dashboard -->
<body class="dashboard-page"><user-card></user-card></body>
`)
	writeFile(t, root, "workflows/checkout-flow.html", `<!-- Checkout flow -->
<body class="checkout-flow"></body>
`)
	return root
}

func loadedStore(t *testing.T, root string) *registry.Store {
	t.Helper()
	s := registry.NewStore(filepath.Join(root, registry.DefaultManifestPath), nil)
	require.NoError(t, s.Load())
	return s
}

func runScan(t *testing.T, root string, store *registry.Store) *Report {
	t.Helper()
	sc := NewScanner(nil)
	t.Cleanup(sc.Close)
	report, err := sc.Run(root, DefaultScanConfig(), store)
	require.NoError(t, err)
	return report
}

// --- discovery ---

func TestDiscoverFiles_SortedAcrossLayers(t *testing.T) {
	root := testProject(t)
	files, err := DiscoverFiles(root, DefaultScanConfig())
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "components/user-card.js", files[0].Path)
	assert.Equal(t, registry.LayerComponent, files[0].Layer)
	assert.Equal(t, "pages/dashboard-page.html", files[1].Path)
	assert.Equal(t, registry.LayerPage, files[1].Layer)
	assert.Equal(t, "workflows/checkout-flow.html", files[2].Path)
	assert.Equal(t, registry.LayerWorkflow, files[2].Layer)
}

func TestDiscoverFiles_MissingLayerRootIsEmpty(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "components/a-box.js", "class ABox {}")

	files, err := DiscoverFiles(root, DefaultScanConfig())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "components/a-box.js", files[0].Path)
}

func TestDiscoverFiles_ExcludesTestFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "components/a-box.js", "class ABox {}")
	writeFile(t, root, "components/a-box.test.js", "test()")
	writeFile(t, root, "components/node_modules/dep/index.js", "x")

	files, err := DiscoverFiles(root, DefaultScanConfig())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "components/a-box.js", files[0].Path)
}

func TestDiscoverFiles_InvalidPattern(t *testing.T) {
	cfg := DefaultScanConfig()
	cfg.Include = []string{"[bad"}
	_, err := DiscoverFiles(t.TempDir(), cfg)
	assert.Error(t, err)
}

// --- reconciliation ---

func TestRun_FreshScanAddsEverything(t *testing.T) {
	root := testProject(t)
	store := loadedStore(t, root)

	report := runScan(t, root, store)
	assert.Equal(t, 3, report.FilesScanned)
	assert.Equal(t, 3, report.Added)
	assert.Equal(t, 0, report.Updated)

	rec, ok := store.Get("user-card")
	require.True(t, ok)
	assert.Equal(t, registry.LayerComponent, rec.Layer)
	assert.Equal(t, "1.2.0", rec.Version)
	assert.Equal(t, []string{"variant"}, rec.Props)
	assert.Equal(t, int64(len(mustRead(t, root, "components/user-card.js"))), rec.FileSize)

	// Layer projections follow the components map.
	assert.Contains(t, store.Manifest().Layers[registry.LayerPage], "dashboard-page")
	assert.Equal(t, 3, store.Manifest().Stats.TotalComponents)
}

func TestRun_SecondScanIsUnchanged(t *testing.T) {
	root := testProject(t)
	store := loadedStore(t, root)
	runScan(t, root, store)

	report := runScan(t, root, store)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 3, report.Unchanged)
}

func TestRun_ContentChangeCountsAsUpdate(t *testing.T) {
	root := testProject(t)
	store := loadedStore(t, root)
	runScan(t, root, store)

	writeFile(t, root, "components/user-card.js", `/**
 * Card showing a user.
 * @version 1.3.0
 */
class UserCard extends HTMLElement {
  static get observedAttributes() { return ['variant', 'size']; }
}
`)

	report := runScan(t, root, store)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 2, report.Unchanged)

	rec, _ := store.Get("user-card")
	assert.Equal(t, "1.3.0", rec.Version)
	assert.Equal(t, []string{"variant", "size"}, rec.Props)
}

func TestRun_TouchWithoutContentChangeIsUnchanged(t *testing.T) {
	root := testProject(t)
	store := loadedStore(t, root)
	runScan(t, root, store)

	// Rewrite identical content; only mtime moves.
	source := mustRead(t, root, "components/user-card.js")
	writeFile(t, root, "components/user-card.js", string(source))

	report := runScan(t, root, store)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 3, report.Unchanged)
}

func TestRun_DeletedFileKeepsRecord(t *testing.T) {
	root := testProject(t)
	store := loadedStore(t, root)
	runScan(t, root, store)

	require.NoError(t, os.Remove(filepath.Join(root, "pages/dashboard-page.html")))
	report := runScan(t, root, store)

	assert.Equal(t, 2, report.FilesScanned)
	_, ok := store.Get("dashboard-page")
	assert.True(t, ok, "records are never deleted automatically")
}

func TestRun_NameCollisionLastPathWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "components/user-card.js", "// a\nclass A {}")
	writeFile(t, root, "pages/user-card.html", "<!-- Page variant -->\n<body></body>")
	store := loadedStore(t, root)

	runScan(t, root, store)
	rec, ok := store.Get("user-card")
	require.True(t, ok)
	// "pages/user-card.html" sorts after "components/user-card.js".
	assert.Equal(t, registry.LayerPage, rec.Layer)
}

func TestRun_EmptyProject(t *testing.T) {
	root := t.TempDir()
	store := loadedStore(t, root)

	report := runScan(t, root, store)
	assert.Equal(t, 0, report.FilesScanned)
	assert.Equal(t, 0, store.Manifest().Stats.TotalComponents)

	// The manifest file still gets written.
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestComponentName(t *testing.T) {
	assert.Equal(t, "user-card", ComponentName("components/user-card.js"))
	assert.Equal(t, "dashboard-page", ComponentName("pages/dashboard-page.html"))
	assert.Equal(t, "a.b", ComponentName("components/a.b.js"))
}

func mustRead(t *testing.T, root, rel string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return data
}
