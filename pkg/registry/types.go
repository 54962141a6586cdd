// Package registry defines the component manifest: the on-disk JSON index
// of every discovered component, page, and workflow, plus the Store that
// loads, queries, and persists it.
package registry

import (
	"encoding/json"
	"time"
)

// ManifestVersion is the schema version written to new manifests.
const ManifestVersion = "1.0"

// Framework tags manifests produced by this tool.
const Framework = "ui-canvas"

// Layer is one of the three allowed source-file categories. References
// must only flow from higher to lower layers: component < page < workflow.
type Layer string

const (
	LayerComponent Layer = "component"
	LayerPage      Layer = "page"
	LayerWorkflow  Layer = "workflow"
)

// AllLayers returns the layers in dependency order, lowest first.
func AllLayers() []Layer {
	return []Layer{LayerComponent, LayerPage, LayerWorkflow}
}

// ParseLayer converts a string to a Layer. The bool reports validity.
func ParseLayer(s string) (Layer, bool) {
	switch Layer(s) {
	case LayerComponent, LayerPage, LayerWorkflow:
		return Layer(s), true
	default:
		return "", false
	}
}

// ComponentRecord is one indexed entity. Name is the unique key, derived
// from the filename. Records are never deleted automatically: a record
// whose file disappears stays in the manifest until the registry validator
// flags it.
type ComponentRecord struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Layer        Layer     `json:"layer"`
	Props        []string  `json:"props"`
	Description  string    `json:"description"`
	Version      string    `json:"version"`
	Dependencies []string  `json:"dependencies"`
	BEMClasses   []string  `json:"bemClasses"`
	LastModified time.Time `json:"lastModified"`
	FileSize     int64     `json:"fileSize"`
}

// MetadataEquals compares the extracted metadata of two records: name,
// path, layer, props, description, version, dependencies, and classes.
// File size and modification time are excluded — the scanner detects
// content changes structurally, not by stat.
func (r ComponentRecord) MetadataEquals(other ComponentRecord) bool {
	return r.Name == other.Name &&
		r.Path == other.Path &&
		r.Layer == other.Layer &&
		r.Description == other.Description &&
		r.Version == other.Version &&
		stringSlicesEqual(r.Props, other.Props) &&
		stringSlicesEqual(r.Dependencies, other.Dependencies) &&
		stringSlicesEqual(r.BEMClasses, other.BEMClasses)
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// LayerEntry is the per-layer projection of a record: a derived view
// rebuilt from the components map on every scan.
type LayerEntry struct {
	Path         string    `json:"path"`
	Props        []string  `json:"props"`
	LastModified time.Time `json:"lastModified"`
}

// Stats summarizes the manifest.
type Stats struct {
	TotalComponents int       `json:"totalComponents"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// Manifest is the root registry document. The components map is the
// single source of truth; the layers maps are projections rebuilt from it.
//
// Unknown top-level keys survive a load/save cycle (forward
// compatibility), carried in Extra.
type Manifest struct {
	Version    string                          `json:"version"`
	Framework  string                          `json:"framework"`
	Generated  time.Time                       `json:"generated"`
	Components map[string]ComponentRecord      `json:"components"`
	Layers     map[Layer]map[string]LayerEntry `json:"layers"`
	Stats      Stats                           `json:"stats"`

	Extra map[string]json.RawMessage `json:"-"`
}

// knownManifestKeys are the top-level keys owned by this schema.
var knownManifestKeys = map[string]bool{
	"version":    true,
	"framework":  true,
	"generated":  true,
	"components": true,
	"layers":     true,
	"stats":      true,
}

// manifestAlias avoids recursion in the custom JSON methods.
type manifestAlias Manifest

// UnmarshalJSON decodes a manifest, stashing unknown top-level keys in
// Extra so Save never drops fields written by newer versions.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var alias manifestAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range raw {
		if knownManifestKeys[key] {
			delete(raw, key)
		}
	}
	if len(raw) > 0 {
		alias.Extra = raw
	}

	*m = Manifest(alias)
	m.ensureMaps()
	return nil
}

// MarshalJSON encodes the manifest with any preserved unknown keys merged
// back in.
func (m Manifest) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(manifestAlias(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return known, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for key, value := range m.Extra {
		if !knownManifestKeys[key] {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// NewManifest returns a fresh empty manifest stamped with now.
func NewManifest(now time.Time) *Manifest {
	m := &Manifest{
		Version:   ManifestVersion,
		Framework: Framework,
		Generated: now,
		Stats:     Stats{LastUpdated: now},
	}
	m.ensureMaps()
	return m
}

// ensureMaps initializes nil maps so lookups and writes are always safe.
func (m *Manifest) ensureMaps() {
	if m.Components == nil {
		m.Components = make(map[string]ComponentRecord)
	}
	if m.Layers == nil {
		m.Layers = make(map[Layer]map[string]LayerEntry)
	}
	for _, layer := range AllLayers() {
		if m.Layers[layer] == nil {
			m.Layers[layer] = make(map[string]LayerEntry)
		}
	}
}

// RebuildLayers regenerates the layer projections from the components
// map. Called on every scan so the projections cannot drift.
func (m *Manifest) RebuildLayers() {
	m.Layers = make(map[Layer]map[string]LayerEntry)
	for _, layer := range AllLayers() {
		m.Layers[layer] = make(map[string]LayerEntry)
	}
	for name, rec := range m.Components {
		if _, ok := m.Layers[rec.Layer]; !ok {
			m.Layers[rec.Layer] = make(map[string]LayerEntry)
		}
		m.Layers[rec.Layer][name] = LayerEntry{
			Path:         rec.Path,
			Props:        rec.Props,
			LastModified: rec.LastModified,
		}
	}
}
