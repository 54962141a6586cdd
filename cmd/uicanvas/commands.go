package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/docs"
	mcpserver "github.com/sati-bodhi/ui-canvas-framework/pkg/mcp"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/mcplog"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/scanner"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/tokens"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/util"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/validator"
)

func newCache() (*util.FileCache, error) {
	return util.NewFileCache(util.DefaultMaxCachedFiles, slog.Default())
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}

// loadStore loads the manifest, resolving the path through the
// fallback chain.
func loadStore(cfg *ProjectConfig, flagPath string) (*registry.Store, error) {
	store := registry.NewStore(cfg.manifestPath(flagPath), slog.Default())
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// validatorConfig builds the shared validator configuration for the
// current directory.
func validatorConfig(cfg *ProjectConfig) validator.Config {
	vcfg := validator.DefaultConfig(".")
	vcfg.Stylesheet = cfg.stylesheet("")
	vcfg.LayerRoots = cfg.layerRoots()
	return vcfg
}

// scanConfig builds the scanner configuration, honoring layer-root
// overrides from the config file.
func scanConfig(cfg *ProjectConfig) scanner.ScanConfig {
	sc := scanner.DefaultScanConfig()
	sc.LayerRoots = cfg.layerRoots()
	return sc
}

// --- registry subcommands ---

func runRegistry(cfg *ProjectConfig, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: uicanvas registry {init|scan|list|info|docs|validate}")
		return 1
	}

	switch args[0] {
	case "init":
		return runRegistryInit(cfg)
	case "scan":
		return runRegistryScan(cfg, args[1:])
	case "list":
		return runRegistryList(cfg, args[1:])
	case "info":
		return runRegistryInfo(cfg, args[1:])
	case "docs":
		return runRegistryDocs(cfg, args[1:])
	case "validate":
		return runRegistryValidate(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown registry subcommand: %s\n", args[0])
		return 1
	}
}

func runRegistryInit(cfg *ProjectConfig) int {
	if err := writeDefaultConfig(); err != nil {
		return fail(err)
	}

	for _, dir := range cfg.layerRoots() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fail(err)
		}
	}

	stylesheet := cfg.stylesheet("")
	if _, err := os.Stat(stylesheet); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(stylesheet), 0755); err != nil {
			return fail(err)
		}
		seed := ":root {\n  /* Design tokens live here. */\n}\n"
		if err := os.WriteFile(stylesheet, []byte(seed), 0644); err != nil {
			return fail(err)
		}
	}

	store, err := loadStore(cfg, "")
	if err != nil {
		return fail(err)
	}
	if err := store.Save(); err != nil {
		return fail(err)
	}

	fmt.Println("Initialized ui-canvas project")
	fmt.Printf("  config:     %s\n", configPath)
	fmt.Printf("  manifest:   %s\n", store.Path())
	fmt.Printf("  stylesheet: %s\n", stylesheet)
	return 0
}

func runRegistryScan(cfg *ProjectConfig, args []string) int {
	store, err := loadStore(cfg, flagValue(args, "--manifest"))
	if err != nil {
		return fail(err)
	}

	sc := scanner.NewScanner(slog.Default())
	defer sc.Close()

	report, err := sc.Run(".", scanConfig(cfg), store)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Scanned %d files: %d added, %d updated, %d unchanged",
		report.FilesScanned, report.Added, report.Updated, report.Unchanged)
	if report.Failed > 0 {
		fmt.Printf(", %d failed", report.Failed)
	}
	fmt.Printf(" (%dms)\n", report.DurationMs)
	return 0
}

func runRegistryList(cfg *ProjectConfig, args []string) int {
	store, err := loadStore(cfg, "")
	if err != nil {
		return fail(err)
	}

	var records []registry.ComponentRecord
	if raw := flagValue(args, "--layer"); raw != "" {
		layer, ok := registry.ParseLayer(raw)
		if !ok {
			return fail(fmt.Errorf("unknown layer %q (expected component, page, or workflow)", raw))
		}
		records = store.ListByLayer(layer)
	} else {
		records = store.List()
	}

	if len(records) == 0 {
		fmt.Println("No components registered. Run `uicanvas registry scan` first.")
		return 0
	}
	for _, rec := range records {
		fmt.Printf("%-24s %-10s %s\n", rec.Name, rec.Layer, rec.Path)
	}
	return 0
}

func runRegistryInfo(cfg *ProjectConfig, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: uicanvas registry info <name>")
		return 1
	}

	store, err := loadStore(cfg, "")
	if err != nil {
		return fail(err)
	}

	rec, ok := store.Get(args[0])
	if !ok {
		return fail(fmt.Errorf("component not found: %s", args[0]))
	}

	fmt.Printf("%s (%s)\n", rec.Name, rec.Layer)
	fmt.Printf("  path:         %s\n", rec.Path)
	fmt.Printf("  version:      %s\n", rec.Version)
	if rec.Description != "" {
		fmt.Printf("  description:  %s\n", rec.Description)
	}
	if len(rec.Props) > 0 {
		fmt.Printf("  props:        %v\n", rec.Props)
	}
	if len(rec.Dependencies) > 0 {
		fmt.Printf("  dependencies: %v\n", rec.Dependencies)
	}
	if len(rec.BEMClasses) > 0 {
		fmt.Printf("  bem classes:  %v\n", rec.BEMClasses)
	}
	fmt.Printf("  usage:        %s\n", docs.UsageSnippet(rec))
	return 0
}

func runRegistryDocs(cfg *ProjectConfig, args []string) int {
	store, err := loadStore(cfg, "")
	if err != nil {
		return fail(err)
	}

	outDir := cfg.docsDir(flagValue(args, "--out"))
	if err := docs.NewGenerator(outDir, slog.Default()).Generate(store); err != nil {
		return fail(err)
	}
	fmt.Printf("Documentation written to %s\n", outDir)
	return 0
}

func runRegistryValidate(cfg *ProjectConfig) int {
	store, err := loadStore(cfg, "")
	if err != nil {
		return fail(err)
	}

	report := validator.NewRegistryValidator(validatorConfig(cfg), slog.Default()).Validate(store)
	printViolations(report.Result.Violations)
	fmt.Printf("%d records: %d valid, %d stale\n", report.Total, report.Valid, report.Stale)
	if !report.Result.Passed {
		return 1
	}
	return 0
}

// --- validators ---

func runTokens(cfg *ProjectConfig, args []string) int {
	vcfg := validatorConfig(cfg)
	cache, err := newCache()
	if err != nil {
		return fail(err)
	}
	defer cache.Close()

	result, set, err := validator.NewTokenValidator(vcfg, cache, slog.Default()).Validate()
	if err != nil {
		return fail(err)
	}

	printViolations(result.Violations)
	fmt.Println(result.Summary())

	if hasFlag(args, "--report") {
		report := tokens.BuildReport(set, vcfg.Stylesheet, time.Now())
		path := cfg.reportPath("")
		if err := tokens.WriteReport(path, report); err != nil {
			return fail(err)
		}
		fmt.Printf("Token report written to %s\n", path)
	}

	if !result.Passed {
		return 1
	}
	return 0
}

func runValidateArchitecture(cfg *ProjectConfig) int {
	cache, err := newCache()
	if err != nil {
		return fail(err)
	}
	defer cache.Close()

	result, err := validator.NewArchitectureValidator(validatorConfig(cfg), cache, slog.Default()).Validate()
	if err != nil {
		return fail(err)
	}

	printViolations(result.Violations)
	fmt.Println(result.Summary())
	if !result.Passed {
		return 1
	}
	return 0
}

func runValidateAll(cfg *ProjectConfig) int {
	store, err := loadStore(cfg, "")
	if err != nil {
		return fail(err)
	}

	runner, err := validator.NewRunner(validatorConfig(cfg), slog.Default())
	if err != nil {
		return fail(err)
	}
	defer runner.Close()
	runner.VisualTestCommand = cfg.VisualTestCommand

	report, err := runner.Run(store)
	if err != nil {
		return fail(err)
	}

	printViolations(report.Architecture.Violations)
	printViolations(report.Tokens.Violations)
	printViolations(report.Registry.Result.Violations)

	fmt.Println(report.Architecture.Summary())
	fmt.Println(report.Tokens.Summary())
	fmt.Println(report.Registry.Result.Summary())
	if report.VisualTests != nil {
		fmt.Println(report.VisualTests.Summary())
	}

	if !report.Passed {
		return 1
	}
	fmt.Println("All validations passed")
	return 0
}

// --- serve / watch ---

func runServe(cfg *ProjectConfig, args []string) int {
	store, err := loadStore(cfg, "")
	if err != nil {
		return fail(err)
	}

	toolLog, err := mcplog.NewLogger(flagValue(args, "--log"))
	if err != nil {
		return fail(err)
	}

	srv, err := mcpserver.NewServer(store, validatorConfig(cfg), toolLog, slog.Default())
	if err != nil {
		return fail(err)
	}
	defer srv.Close()

	if err := srv.ServeStdio(); err != nil {
		return fail(err)
	}
	return 0
}

func runWatch(cfg *ProjectConfig) int {
	store, err := loadStore(cfg, "")
	if err != nil {
		return fail(err)
	}

	sc := scanner.NewScanner(slog.Default())
	defer sc.Close()

	scanCfg := scanConfig(cfg)
	if _, err := sc.Run(".", scanCfg, store); err != nil {
		return fail(err)
	}

	w, err := scanner.NewWatcher(sc, store, ".", scanCfg, slog.Default())
	if err != nil {
		return fail(err)
	}
	w.OnScan = func(r *scanner.Report) {
		fmt.Printf("rescan: %d added, %d updated, %d unchanged\n", r.Added, r.Updated, r.Unchanged)
	}
	if err := w.Start(); err != nil {
		return fail(err)
	}
	defer w.Stop()

	fmt.Println("Watching for changes (ctrl-c to stop)")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return 0
}

// --- output helpers ---

func printViolations(violations []validator.Violation) {
	for _, v := range violations {
		loc := v.File
		if v.Line > 0 {
			loc = fmt.Sprintf("%s:%d", v.File, v.Line)
		}
		fmt.Printf("  [%s] %s %s — %s\n", v.Severity, v.Type, loc, v.Message)
		if v.Suggestion != "" {
			fmt.Printf("      hint: %s\n", v.Suggestion)
		}
	}
}
