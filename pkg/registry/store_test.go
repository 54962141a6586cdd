package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), ".uicanvas", "registry.json"), nil)
	require.NoError(t, s.Load())
	return s
}

func sampleRecord(name string, layer Layer) ComponentRecord {
	return ComponentRecord{
		Name:         name,
		Path:         "components/" + name + ".js",
		Layer:        layer,
		Props:        []string{"variant", "size"},
		Description:  "A " + name,
		Version:      "1.0.0",
		Dependencies: []string{"helpers.js"},
		BEMClasses:   []string{name},
		LastModified: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		FileSize:     512,
	}
}

// --- Load ---

func TestLoad_MissingFileSynthesizesFreshManifest(t *testing.T) {
	s := testStore(t)

	m := s.Manifest()
	require.NotNil(t, m)
	assert.Equal(t, ManifestVersion, m.Version)
	assert.Equal(t, Framework, m.Framework)
	assert.Empty(t, m.Components)
	for _, layer := range AllLayers() {
		assert.NotNil(t, m.Layers[layer])
	}
}

func TestLoad_MalformedFileIsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := NewStore(path, nil)
	err := s.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

// --- Save / round trip ---

func TestSave_RecomputesStats(t *testing.T) {
	s := testStore(t)
	s.Put(sampleRecord("user-card", LayerComponent))
	s.Put(sampleRecord("task-list", LayerComponent))

	require.NoError(t, s.Save())
	assert.Equal(t, 2, s.Manifest().Stats.TotalComponents)
	assert.False(t, s.Manifest().Stats.LastUpdated.IsZero())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := testStore(t)
	s.Put(sampleRecord("user-card", LayerComponent))
	s.Put(sampleRecord("checkout-page", LayerPage))
	s.Manifest().RebuildLayers()
	require.NoError(t, s.Save())

	reloaded := NewStore(s.Path(), nil)
	require.NoError(t, reloaded.Load())

	m := reloaded.Manifest()
	assert.Len(t, m.Components, 2)
	assert.Equal(t, s.Manifest().Stats.TotalComponents, m.Stats.TotalComponents)

	rec, ok := reloaded.Get("user-card")
	require.True(t, ok)
	assert.Equal(t, []string{"variant", "size"}, rec.Props)
	assert.Equal(t, "A user-card", rec.Description)
	assert.Equal(t, LayerComponent, rec.Layer)
	assert.True(t, rec.LastModified.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	assert.Contains(t, m.Layers[LayerPage], "checkout-page")
}

func TestSaveLoad_PreservesUnknownTopLevelKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	doc := `{
  "version": "1.0",
  "framework": "ui-canvas",
  "generated": "2026-01-01T00:00:00Z",
  "components": {},
  "layers": {},
  "stats": {"totalComponents": 0, "lastUpdated": "2026-01-01T00:00:00Z"},
  "pluginSettings": {"theme": "dark"}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	s := NewStore(path, nil)
	require.NoError(t, s.Load())
	s.Put(sampleRecord("user-card", LayerComponent))
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "pluginSettings")
	assert.JSONEq(t, `{"theme": "dark"}`, string(raw["pluginSettings"]))
}

// --- queries ---

func TestGet_AbsentIsNotError(t *testing.T) {
	s := testStore(t)
	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestListByLayer(t *testing.T) {
	s := testStore(t)
	s.Put(sampleRecord("user-card", LayerComponent))
	s.Put(sampleRecord("avatar-badge", LayerComponent))
	s.Put(sampleRecord("checkout-page", LayerPage))

	comps := s.ListByLayer(LayerComponent)
	require.Len(t, comps, 2)
	// Sorted by name.
	assert.Equal(t, "avatar-badge", comps[0].Name)
	assert.Equal(t, "user-card", comps[1].Name)

	assert.Len(t, s.ListByLayer(LayerWorkflow), 0)
}

func TestSearch_CaseInsensitiveNameAndDescription(t *testing.T) {
	s := testStore(t)
	rec := sampleRecord("user-card", LayerComponent)
	rec.Description = "Shows the signed-in profile"
	s.Put(rec)
	s.Put(sampleRecord("task-list", LayerComponent))

	assert.Len(t, s.Search("USER"), 1)
	assert.Len(t, s.Search("profile"), 1)
	assert.Len(t, s.Search("zzz"), 0)
}

// --- record equality ---

func TestMetadataEquals(t *testing.T) {
	a := sampleRecord("user-card", LayerComponent)
	b := a

	// Stat-only differences do not count as changes.
	b.FileSize = 9999
	b.LastModified = b.LastModified.Add(time.Hour)
	assert.True(t, a.MetadataEquals(b))

	b.Props = []string{"variant"}
	assert.False(t, a.MetadataEquals(b))

	c := a
	c.Description = "different"
	assert.False(t, a.MetadataEquals(c))
}

// --- layer projections ---

func TestRebuildLayers_DropsStaleProjections(t *testing.T) {
	s := testStore(t)
	s.Put(sampleRecord("user-card", LayerComponent))
	s.Manifest().RebuildLayers()
	require.Contains(t, s.Manifest().Layers[LayerComponent], "user-card")

	// Move the record to another layer; a rebuild must not leave the old
	// projection behind.
	rec, _ := s.Get("user-card")
	rec.Layer = LayerPage
	s.Put(rec)
	s.Manifest().RebuildLayers()

	assert.NotContains(t, s.Manifest().Layers[LayerComponent], "user-card")
	assert.Contains(t, s.Manifest().Layers[LayerPage], "user-card")
}

func TestParseLayer(t *testing.T) {
	for _, layer := range AllLayers() {
		got, ok := ParseLayer(string(layer))
		assert.True(t, ok)
		assert.Equal(t, layer, got)
	}
	_, ok := ParseLayer("module")
	assert.False(t, ok)
}
