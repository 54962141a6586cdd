package validator

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/tokens"
)

// Config locates the project surfaces each validator walks.
type Config struct {
	// ProjectRoot is the directory all other paths are relative to.
	ProjectRoot string

	// Stylesheet is the project-relative main stylesheet path, the only
	// legal home for component-level CSS and token declarations.
	Stylesheet string

	// LayerRoots maps layers to their directories.
	LayerRoots map[registry.Layer]string

	// Exclude glob patterns applied to every validation walk.
	Exclude []string
}

// DefaultConfig matches the default project layout.
func DefaultConfig(projectRoot string) Config {
	return Config{
		ProjectRoot: projectRoot,
		Stylesheet:  tokens.DefaultStylesheetPath,
		LayerRoots: map[registry.Layer]string{
			registry.LayerComponent: "components",
			registry.LayerPage:      "pages",
			registry.LayerWorkflow:  "workflows",
		},
		Exclude: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"coverage/**",
			"docs/**",
			".uicanvas/**",
			"**/*.test.*",
			"**/*.spec.*",
		},
	}
}

// StylesheetPath returns the absolute stylesheet path.
func (c Config) StylesheetPath() string {
	return filepath.Join(c.ProjectRoot, c.Stylesheet)
}

// collectFiles walks the project root and returns project-relative
// paths (forward slashes, sorted) matching the include globs and not
// excluded. Each validator derives its scope from this one walk shape.
func collectFiles(cfg Config, include []string) ([]string, error) {
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	absRoot, err := filepath.Abs(cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
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

		matched := false
		for _, pattern := range include {
			if m, _ := doublestar.PathMatch(pattern, relPath); m {
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// layerOf maps a project-relative path to the layer implied by its
// root directory prefix.
func layerOf(cfg Config, relPath string) (registry.Layer, bool) {
	for _, layer := range registry.AllLayers() {
		root, ok := cfg.LayerRoots[layer]
		if !ok {
			continue
		}
		if matched, _ := doublestar.PathMatch(root+"/**", relPath); matched {
			return layer, true
		}
	}
	return "", false
}
