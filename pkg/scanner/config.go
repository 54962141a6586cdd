// Package scanner discovers source files in the three layer roots,
// extracts metadata from each, and reconciles the results against the
// component manifest.
package scanner

import (
	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
)

// ScanConfig configures discovery and reconciliation.
type ScanConfig struct {
	// LayerRoots maps each layer to its directory, relative to the
	// project root. A missing directory contributes zero files.
	LayerRoots map[registry.Layer]string

	// Include glob patterns for file matching, relative to each layer
	// root.
	Include []string

	// Exclude glob patterns.
	Exclude []string
}

// DefaultScanConfig returns the default layout: components/, pages/,
// workflows/, scanning JS, TS, and HTML sources while skipping tests
// and build output.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		LayerRoots: map[registry.Layer]string{
			registry.LayerComponent: "components",
			registry.LayerPage:      "pages",
			registry.LayerWorkflow:  "workflows",
		},
		Include: []string{
			"**/*.js",
			"**/*.mjs",
			"**/*.ts",
			"**/*.html",
		},
		Exclude: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"coverage/**",
			".uicanvas/**",
			"**/*.test.*",
			"**/*.spec.*",
		},
	}
}
