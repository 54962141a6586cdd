package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
)

// DiscoveredFile is one source file found under a layer root.
type DiscoveredFile struct {
	// Path is the file location relative to the project root, with
	// forward slashes. This is the path stored in the manifest.
	Path string

	// AbsPath is the resolved filesystem path for reading.
	AbsPath string

	// Layer is derived from the root the file was found under.
	Layer registry.Layer
}

// DiscoverFiles walks every configured layer root applying the
// include/exclude globs from cfg. The result is sorted by Path so a
// scan processes files in a deterministic order. Layer roots that do
// not exist contribute zero files without error.
func DiscoverFiles(projectRoot string, cfg ScanConfig) ([]DiscoveredFile, error) {
	for _, pattern := range cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}

	absProject, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	var files []DiscoveredFile
	for _, layer := range registry.AllLayers() {
		root, ok := cfg.LayerRoots[layer]
		if !ok {
			continue
		}
		absRoot := filepath.Join(absProject, root)
		if _, err := os.Stat(absRoot); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Continue walking on errors.
			}

			relPath, err := filepath.Rel(absRoot, path)
			if err != nil {
				relPath = path
			}
			relPath = filepath.ToSlash(relPath)

			for _, pattern := range cfg.Exclude {
				matched, _ := doublestar.PathMatch(pattern, relPath)
				if matched {
					if d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
			}

			if d.IsDir() {
				return nil
			}

			if len(cfg.Include) > 0 {
				matched := false
				for _, pattern := range cfg.Include {
					if m, _ := doublestar.PathMatch(pattern, relPath); m {
						matched = true
						break
					}
				}
				if !matched {
					return nil
				}
			}

			files = append(files, DiscoveredFile{
				Path:    filepath.ToSlash(filepath.Join(root, relPath)),
				AbsPath: path,
				Layer:   layer,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
