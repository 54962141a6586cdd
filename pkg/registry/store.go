package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrParse marks a manifest file that exists but is not valid JSON. It is
// surfaced to the caller, never swallowed: a corrupt manifest needs a
// human decision (fix or re-init), not a silent reset.
var ErrParse = errors.New("manifest parse error")

// DefaultManifestPath is the project-relative manifest location.
const DefaultManifestPath = ".uicanvas/registry.json"

// Store owns the manifest file: load, query, mutate, save.
//
// The write discipline is read-modify-write with no lock; the tool assumes
// one CLI invocation at a time against a project.
type Store struct {
	path     string
	manifest *Manifest
	logger   *slog.Logger

	// now is replaceable for tests.
	now func() time.Time
}

// NewStore creates a store for the manifest at path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return s.path
}

// Manifest returns the loaded manifest. Load must be called first;
// a nil return means it was not.
func (s *Store) Manifest() *Manifest {
	return s.manifest
}

// Load reads the manifest file. A missing file synthesizes a fresh empty
// manifest; a malformed file fails with ErrParse.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.manifest = NewManifest(s.now())
		s.logger.Debug("manifest absent, starting fresh", "path", s.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read manifest %q: %w", s.path, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrParse, s.path, err)
	}
	manifest.ensureMaps()

	s.manifest = &manifest
	s.logger.Debug("manifest loaded",
		"path", s.path, "components", len(manifest.Components))
	return nil
}

// Save recomputes stats and writes the manifest pretty-printed in a single
// write. Parent directories are created as needed. Last writer wins.
func (s *Store) Save() error {
	if s.manifest == nil {
		return fmt.Errorf("save before load")
	}

	s.manifest.Stats.TotalComponents = len(s.manifest.Components)
	s.manifest.Stats.LastUpdated = s.now()

	data, err := json.MarshalIndent(s.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write manifest %q: %w", s.path, err)
	}

	s.logger.Debug("manifest saved",
		"path", s.path, "components", s.manifest.Stats.TotalComponents)
	return nil
}

// Get looks up a record by exact name. Absence is an ok=false, not an
// error.
func (s *Store) Get(name string) (ComponentRecord, bool) {
	rec, ok := s.manifest.Components[name]
	return rec, ok
}

// Put inserts or overwrites a record.
func (s *Store) Put(rec ComponentRecord) {
	s.manifest.Components[rec.Name] = rec
}

// ListByLayer returns all records in a layer, sorted by name.
func (s *Store) ListByLayer(layer Layer) []ComponentRecord {
	var out []ComponentRecord
	for _, rec := range s.manifest.Components {
		if rec.Layer == layer {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// List returns all records sorted by name.
func (s *Store) List() []ComponentRecord {
	out := make([]ComponentRecord, 0, len(s.manifest.Components))
	for _, rec := range s.manifest.Components {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Search returns records whose name or description contains term,
// case-insensitively, sorted by name.
func (s *Store) Search(term string) []ComponentRecord {
	term = strings.ToLower(term)
	var out []ComponentRecord
	for _, rec := range s.manifest.Components {
		if strings.Contains(strings.ToLower(rec.Name), term) ||
			strings.Contains(strings.ToLower(rec.Description), term) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
