package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/extractor"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/parser"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/parser/queries"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
)

// Scanner orchestrates discovery, extraction, and manifest
// reconciliation.
type Scanner struct {
	pm  *parser.Manager
	qm  *queries.Manager
	ext *extractor.Extractor
	log *slog.Logger
}

// Report summarizes one scan.
type Report struct {
	FilesScanned int   `json:"filesScanned"`
	Added        int   `json:"added"`
	Updated      int   `json:"updated"`
	Unchanged    int   `json:"unchanged"`
	Failed       int   `json:"failed"`
	DurationMs   int64 `json:"durationMs"`
}

// NewScanner creates a scanner with its own parser and query managers.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	pm := parser.NewManager(logger)
	qm := queries.NewManager(pm, logger)
	ext := extractor.NewExtractor(pm, qm, logger)
	return &Scanner{pm: pm, qm: qm, ext: ext, log: logger}
}

// Run discovers files under projectRoot and reconciles them into the
// store. The store must already be loaded; Run saves it once at the
// end. Records whose files have disappeared are left in place for the
// registry validator to report.
func (s *Scanner) Run(projectRoot string, cfg ScanConfig, store *registry.Store) (*Report, error) {
	start := time.Now()

	files, err := DiscoverFiles(projectRoot, cfg)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}
	s.log.Info("discovery complete", "files", len(files))

	report := &Report{FilesScanned: len(files)}

	// Files are processed in sorted path order, so when two files map to
	// the same component name the lexically later path wins,
	// deterministically.
	for _, file := range files {
		rec, err := s.scanFile(file)
		if err != nil {
			s.log.Warn("skipping file", "path", file.Path, "error", err)
			report.Failed++
			continue
		}

		existing, ok := store.Get(rec.Name)
		switch {
		case !ok:
			report.Added++
		case existing.MetadataEquals(rec):
			report.Unchanged++
			// Refresh stat fields without counting it as an update.
		default:
			report.Updated++
		}
		store.Put(rec)
	}

	store.Manifest().RebuildLayers()
	if err := store.Save(); err != nil {
		return nil, err
	}

	report.DurationMs = time.Since(start).Milliseconds()
	s.log.Info("scan complete",
		"scanned", report.FilesScanned,
		"added", report.Added,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"failed", report.Failed,
		"ms", report.DurationMs)
	return report, nil
}

// scanFile reads one file and builds its manifest record.
func (s *Scanner) scanFile(file DiscoveredFile) (registry.ComponentRecord, error) {
	info, err := os.Stat(file.AbsPath)
	if err != nil {
		return registry.ComponentRecord{}, fmt.Errorf("stat: %w", err)
	}
	source, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return registry.ComponentRecord{}, fmt.Errorf("read: %w", err)
	}

	meta := s.ext.Extract(file.Path, source)

	return registry.ComponentRecord{
		Name:         ComponentName(file.Path),
		Path:         file.Path,
		Layer:        file.Layer,
		Props:        meta.Props,
		Description:  meta.Description,
		Version:      meta.Version,
		Dependencies: meta.Dependencies,
		BEMClasses:   meta.BEMClasses,
		LastModified: info.ModTime().UTC(),
		FileSize:     info.Size(),
	}, nil
}

// Close releases parser and query resources.
func (s *Scanner) Close() {
	stats := s.pm.GetStats()
	s.log.Debug("parser usage",
		"parsers_created", stats.ParsersCreated,
		"parses_called", stats.ParsesCalled)
	s.qm.Close()
	s.pm.Close()
}

// ComponentName derives the registry key from a file path: the base
// filename with its extension stripped.
func ComponentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
