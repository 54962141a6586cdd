package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/docs"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/scanner"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/tokens"
)

const configPath = ".uicanvas/config.yaml"

// ProjectConfig holds the contents of .uicanvas/config.yaml. Every
// field is optional; zero values fall back to the defaults.
type ProjectConfig struct {
	Version           string            `yaml:"version"`
	Framework         string            `yaml:"framework"`
	ManifestPath      string            `yaml:"manifest_path"`
	Stylesheet        string            `yaml:"stylesheet"`
	DocsDir           string            `yaml:"docs_dir"`
	ReportPath        string            `yaml:"report_path"`
	LayerRoots        map[string]string `yaml:"layer_roots"`
	VisualTestCommand string            `yaml:"visual_test_command"`
}

// loadProjectConfig reads .uicanvas/config.yaml from the current
// directory. Returns an empty config (no error) if the file does not
// exist.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return &cfg, nil
}

// resolve applies the fallback chain flag > config file > default.
func resolve(flagValue, configValue, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if configValue != "" {
		return configValue
	}
	return defaultValue
}

func (c *ProjectConfig) manifestPath(flagValue string) string {
	return resolve(flagValue, c.ManifestPath, registry.DefaultManifestPath)
}

func (c *ProjectConfig) stylesheet(flagValue string) string {
	return resolve(flagValue, c.Stylesheet, tokens.DefaultStylesheetPath)
}

func (c *ProjectConfig) docsDir(flagValue string) string {
	return resolve(flagValue, c.DocsDir, docs.DefaultOutDir)
}

func (c *ProjectConfig) reportPath(flagValue string) string {
	return resolve(flagValue, c.ReportPath, tokens.DefaultReportPath)
}

// layerRoots starts from the default layout and applies any overrides
// from the config file, keyed by layer name.
func (c *ProjectConfig) layerRoots() map[registry.Layer]string {
	roots := scanner.DefaultScanConfig().LayerRoots
	for name, dir := range c.LayerRoots {
		if layer, ok := registry.ParseLayer(name); ok && dir != "" {
			roots[layer] = dir
		}
	}
	return roots
}

// writeDefaultConfig creates .uicanvas/config.yaml with the default
// settings spelled out. Refuses to overwrite an existing file.
func writeDefaultConfig() error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	roots := make(map[string]string)
	for layer, dir := range scanner.DefaultScanConfig().LayerRoots {
		roots[string(layer)] = dir
	}
	cfg := ProjectConfig{
		Version:      registry.ManifestVersion,
		Framework:    registry.Framework,
		ManifestPath: registry.DefaultManifestPath,
		Stylesheet:   tokens.DefaultStylesheetPath,
		DocsDir:      docs.DefaultOutDir,
		ReportPath:   tokens.DefaultReportPath,
		LayerRoots:   roots,
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}
