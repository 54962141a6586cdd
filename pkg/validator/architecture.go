package validator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/util"
)

// reservedSelectors are component-level class selectors owned by the
// main stylesheet. Redeclaring one anywhere else splits the source of
// truth for that component's styling.
var reservedSelectors = []string{
	".card",
	".btn",
	".badge",
	".modal",
	".form-field",
	".nav-bar",
}

// Inline-CSS patterns in component sources.
var (
	styleAttrRe     = regexp.MustCompile(`\bstyle\s*=\s*["']`)
	styleBlockRe    = regexp.MustCompile(`<style[\s>]`)
	styleMutationRe = regexp.MustCompile(`\.style\.[A-Za-z]+\s*=|\.style\s*\[`)
	innerHTMLRe     = regexp.MustCompile(`\.innerHTML\s*=`)
)

// divClassRe captures the class attribute of div tags for the
// raw-markup check.
var divClassRe = regexp.MustCompile(`<div[^>]*class\s*=\s*["']([^"']+)["']`)

// relativeRefRe captures relative import/src/href targets for the
// layer-direction check.
var relativeRefRe = regexp.MustCompile(`(?:from\s+|import\s+|require\(\s*|src\s*=\s*|href\s*=\s*)["']((?:\.\.?/)[^"']+)["']`)

// ArchitectureValidator enforces the three structural rules: CSS single
// source of truth, web-component-only markup in pages and workflows,
// and the strict layer reference order component < page < workflow.
type ArchitectureValidator struct {
	cfg    Config
	cache  *util.FileCache
	logger *slog.Logger
}

// NewArchitectureValidator creates a validator sharing cache across
// passes.
func NewArchitectureValidator(cfg Config, cache *util.FileCache, logger *slog.Logger) *ArchitectureValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchitectureValidator{cfg: cfg, cache: cache, logger: logger}
}

// Validate runs all architecture checks. The pass succeeds only with
// zero violations of any severity.
func (av *ArchitectureValidator) Validate() (*Result, error) {
	var violations []Violation

	stylesheetOK := true
	if _, err := os.Stat(av.cfg.StylesheetPath()); err != nil {
		stylesheetOK = false
		violations = append(violations, Violation{
			Type:       TypeMissingStylesheet,
			File:       av.cfg.Stylesheet,
			Message:    fmt.Sprintf("Main stylesheet not found: %s", av.cfg.Stylesheet),
			Severity:   SeverityError,
			Suggestion: "Create the stylesheet or point the config at the right file",
		})
	}

	// The remaining CSS checks only make sense against an existing
	// stylesheet.
	if stylesheetOK {
		inline, err := av.checkInlineCSS()
		if err != nil {
			return nil, err
		}
		violations = append(violations, inline...)

		duplicates, err := av.checkDuplicateRules()
		if err != nil {
			return nil, err
		}
		violations = append(violations, duplicates...)
	}

	rawMarkup, err := av.checkRawMarkup()
	if err != nil {
		return nil, err
	}
	violations = append(violations, rawMarkup...)

	layers, err := av.checkLayerDirection()
	if err != nil {
		return nil, err
	}
	violations = append(violations, layers...)

	result := newResult("architecture", violations)
	errors, warnings := result.Counts()
	av.logger.Info("architecture validation complete",
		"passed", result.Passed, "errors", errors, "warnings", warnings)
	return result, nil
}

// checkInlineCSS scans component sources for styling that bypasses the
// main stylesheet.
func (av *ArchitectureValidator) checkInlineCSS() ([]Violation, error) {
	root, ok := av.cfg.LayerRoots[registry.LayerComponent]
	if !ok {
		return nil, nil
	}
	files, err := collectFiles(av.cfg, []string{
		root + "/**/*.js",
		root + "/**/*.mjs",
		root + "/**/*.ts",
		root + "/**/*.html",
	})
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, file := range files {
		source, err := av.cache.GetString(filepath.Join(av.cfg.ProjectRoot, file))
		if err != nil {
			av.logger.Warn("skipping unreadable file", "path", file, "error", err)
			continue
		}

		for i, line := range strings.Split(source, "\n") {
			var detail string
			switch {
			case innerHTMLRe.MatchString(line) && styleAttrRe.MatchString(line):
				detail = "style-bearing innerHTML assignment"
			case styleAttrRe.MatchString(line):
				detail = "inline style attribute"
			case styleBlockRe.MatchString(line):
				detail = "<style> block"
			case styleMutationRe.MatchString(line):
				detail = "direct style property mutation"
			default:
				continue
			}
			violations = append(violations, Violation{
				Type:       TypeInlineCSS,
				File:       file,
				Line:       i + 1,
				Message:    fmt.Sprintf("Inline CSS detected (%s)", detail),
				Severity:   SeverityError,
				Suggestion: fmt.Sprintf("Move the styling into %s", av.cfg.Stylesheet),
			})
		}
	}
	return violations, nil
}

// checkDuplicateRules flags reserved component selectors redeclared
// anywhere outside the main stylesheet: other CSS files, <style> blocks
// in HTML, and CSS-in-JS template strings alike.
func (av *ArchitectureValidator) checkDuplicateRules() ([]Violation, error) {
	files, err := collectFiles(av.cfg, []string{"**/*.css", "**/*.html", "**/*.js", "**/*.mjs", "**/*.ts"})
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, file := range files {
		if file == av.cfg.Stylesheet {
			continue
		}
		source, err := av.cache.GetString(filepath.Join(av.cfg.ProjectRoot, file))
		if err != nil {
			av.logger.Warn("skipping unreadable file", "path", file, "error", err)
			continue
		}

		for i, line := range strings.Split(source, "\n") {
			for _, selector := range reservedSelectors {
				if !declaresSelector(line, selector) {
					continue
				}
				// Selector position only, not mentions in values.
				if !strings.Contains(line, "{") && !strings.HasSuffix(strings.TrimSpace(line), ",") {
					continue
				}
				violations = append(violations, Violation{
					Type:       TypeDuplicateCSSRule,
					File:       file,
					Line:       i + 1,
					Message:    fmt.Sprintf("Reserved selector %q redeclared outside the main stylesheet", selector),
					Severity:   SeverityError,
					Suggestion: fmt.Sprintf("Keep %s rules in %s", selector, av.cfg.Stylesheet),
				})
				break
			}
		}
	}
	return violations, nil
}

// declaresSelector reports whether line contains selector followed by a
// non-identifier character, so ".card" matches ".card {" but not
// ".cards-overview" or ".card__title".
func declaresSelector(line, selector string) bool {
	for at := 0; ; {
		i := strings.Index(line[at:], selector)
		if i < 0 {
			return false
		}
		end := at + i + len(selector)
		if end >= len(line) || !isIdentByte(line[end]) {
			return true
		}
		at = end
	}
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// checkRawMarkup flags card-shaped div markup in page and workflow
// HTML; those trees must compose custom elements, not rebuild them.
func (av *ArchitectureValidator) checkRawMarkup() ([]Violation, error) {
	var include []string
	for _, layer := range []registry.Layer{registry.LayerPage, registry.LayerWorkflow} {
		if root, ok := av.cfg.LayerRoots[layer]; ok {
			include = append(include, root+"/**/*.html")
		}
	}
	if len(include) == 0 {
		return nil, nil
	}
	files, err := collectFiles(av.cfg, include)
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, file := range files {
		source, err := av.cache.GetString(filepath.Join(av.cfg.ProjectRoot, file))
		if err != nil {
			av.logger.Warn("skipping unreadable file", "path", file, "error", err)
			continue
		}

		for i, line := range strings.Split(source, "\n") {
			for _, m := range divClassRe.FindAllStringSubmatch(line, -1) {
				for _, token := range strings.Fields(m[1]) {
					if !strings.Contains(token, "card") {
						continue
					}
					violations = append(violations, Violation{
						Type:       TypeRawHTML,
						File:       file,
						Line:       i + 1,
						Message:    fmt.Sprintf("Raw div markup with class %q", token),
						Severity:   SeverityError,
						Suggestion: fmt.Sprintf("Use the <%s> custom element instead", token),
					})
					break
				}
			}
		}
	}
	return violations, nil
}

// checkLayerDirection enforces the strict partial order: component
// files reference neither pages nor workflows; page files do not
// reference workflows. Workflows may reference both lower layers.
func (av *ArchitectureValidator) checkLayerDirection() ([]Violation, error) {
	// Layers each file may NOT reference.
	forbidden := map[registry.Layer][]registry.Layer{
		registry.LayerComponent: {registry.LayerPage, registry.LayerWorkflow},
		registry.LayerPage:      {registry.LayerWorkflow},
	}

	var include []string
	for layer := range forbidden {
		if root, ok := av.cfg.LayerRoots[layer]; ok {
			include = append(include,
				root+"/**/*.js", root+"/**/*.mjs", root+"/**/*.ts", root+"/**/*.html")
		}
	}
	files, err := collectFiles(av.cfg, include)
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, file := range files {
		layer, ok := layerOf(av.cfg, file)
		if !ok {
			continue
		}
		source, err := av.cache.GetString(filepath.Join(av.cfg.ProjectRoot, file))
		if err != nil {
			av.logger.Warn("skipping unreadable file", "path", file, "error", err)
			continue
		}

		for i, line := range strings.Split(source, "\n") {
			for _, m := range relativeRefRe.FindAllStringSubmatch(line, -1) {
				ref := m[1]
				for _, target := range forbidden[layer] {
					root, ok := av.cfg.LayerRoots[target]
					if !ok {
						continue
					}
					if strings.Contains(ref, root+"/") {
						violations = append(violations, Violation{
							Type:       TypeLayerViolation,
							File:       file,
							Line:       i + 1,
							Message:    fmt.Sprintf("%s-layer file references %s-layer path %q", layer, target, ref),
							Severity:   SeverityError,
							Suggestion: "References must only flow from higher to lower layers (component < page < workflow)",
						})
					}
				}
			}
		}
	}
	return violations, nil
}
