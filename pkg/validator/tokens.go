package validator

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/tokens"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/util"
)

var (
	varRefRe = regexp.MustCompile(`var\(\s*(--[A-Za-z][A-Za-z0-9-]*)`)

	hexColorRe   = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b`)
	pxRemRe      = regexp.MustCompile(`\b\d+(?:\.\d+)?(?:px|rem)\b`)
	rgbaRe       = regexp.MustCompile(`\brgba?\(`)
	fontFamilyRe = regexp.MustCompile(`font-family\s*:`)

	// Class-name sources for the BEM naming check.
	classValueRe    = regexp.MustCompile(`(?:class|className)\s*=\s*["']([^"']+)["']`)
	cssClassSelRe   = regexp.MustCompile(`\.([a-zA-Z][a-zA-Z0-9_-]*)`)
	cssSelectorLine = regexp.MustCompile(`[,{]\s*$|\{`)
)

// TokenValidator checks design-token discipline: every var() reference
// resolves, every declared token is used, styling values outside the
// main stylesheet go through tokens, and class names follow the BEM
// grammar.
type TokenValidator struct {
	cfg    Config
	cache  *util.FileCache
	logger *slog.Logger
}

// NewTokenValidator creates a token validator sharing cache across
// passes.
func NewTokenValidator(cfg Config, cache *util.FileCache, logger *slog.Logger) *TokenValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenValidator{cfg: cfg, cache: cache, logger: logger}
}

// Validate extracts the token set from the main stylesheet, then walks
// every CSS/HTML/JS file counting usages and collecting violations.
// The counted set is returned for report generation. The pass fails on
// any violation, warning or error.
func (tv *TokenValidator) Validate() (*Result, *tokens.Set, error) {
	set, err := tokens.Load(tv.cfg.StylesheetPath())
	if err != nil {
		return nil, nil, err
	}

	files, err := collectFiles(tv.cfg, []string{
		"**/*.css", "**/*.html", "**/*.js", "**/*.mjs", "**/*.ts",
	})
	if err != nil {
		return nil, nil, err
	}

	var violations []Violation
	for _, file := range files {
		source, err := tv.cache.GetString(filepath.Join(tv.cfg.ProjectRoot, file))
		if err != nil {
			tv.logger.Warn("skipping unreadable file", "path", file, "error", err)
			continue
		}
		violations = append(violations, tv.checkFile(file, source, set)...)
	}

	// Unused after the full walk: strictly zero uses.
	for _, tok := range set.Unused() {
		violations = append(violations, Violation{
			Type:       TypeUnusedTokens,
			File:       tv.cfg.Stylesheet,
			Message:    fmt.Sprintf("Token %s is declared but never used", tok.Name),
			Severity:   SeverityWarning,
			Suggestion: fmt.Sprintf("Remove %s or reference it via var(%s)", tok.Name, tok.Name),
		})
	}

	result := newResult("tokens", violations)
	errors, warnings := result.Counts()
	tv.logger.Info("token validation complete",
		"tokens", set.Len(), "passed", result.Passed,
		"errors", errors, "warnings", warnings)
	return result, set, nil
}

func (tv *TokenValidator) checkFile(file, source string, set *tokens.Set) []Violation {
	var violations []Violation
	isStylesheet := file == tv.cfg.Stylesheet
	isCSS := strings.HasSuffix(file, ".css")
	flaggedNames := make(map[string]bool)

	for i, line := range strings.Split(source, "\n") {
		lineNo := i + 1

		// Usage counting and unknown references, everywhere.
		for _, m := range varRefRe.FindAllStringSubmatch(line, -1) {
			name := m[1]
			if !set.Increment(name) {
				violations = append(violations, Violation{
					Type:       TypeUnknownToken,
					File:       file,
					Line:       lineNo,
					Message:    fmt.Sprintf("Reference to unknown token %s", name),
					Severity:   SeverityError,
					Suggestion: fmt.Sprintf("Declare %s in %s or fix the reference", name, tv.cfg.Stylesheet),
				})
			}
		}

		// Hardcoded styling values are legal only in the main stylesheet;
		// elsewhere they are flagged unless the line is a comment or
		// carries the fallback/default escape hatch.
		if !isStylesheet && !isExemptLine(line) {
			if detail := hardcodedValue(line); detail != "" {
				violations = append(violations, Violation{
					Type:       TypeHardcodedValue,
					File:       file,
					Line:       lineNo,
					Message:    fmt.Sprintf("Hardcoded %s outside the main stylesheet", detail),
					Severity:   SeverityWarning,
					Suggestion: "Use a design token via var(--...)",
				})
			}
		}

		// BEM naming over class-name tokens, deduped per file. The main
		// stylesheet gets no carve-out here; its selectors are where most
		// class names are born.
		for _, name := range classNames(line, isCSS) {
			if flaggedNames[name] || IsValidClassName(name) {
				continue
			}
			flaggedNames[name] = true
			violations = append(violations, Violation{
				Type:       TypeNamingViolation,
				File:       file,
				Line:       lineNo,
				Message:    fmt.Sprintf("Class %q does not follow block__element--modifier naming", name),
				Severity:   SeverityWarning,
				Suggestion: "Rename to the BEM grammar or use an is-/has-/js- state prefix",
			})
		}
	}
	return violations
}

// isExemptLine reports whether hardcoded-value checks skip a line:
// comment lines, and lines that declare the value as a fallback or
// default.
func isExemptLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range []string{"//", "/*", "*", "<!--"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	lower := strings.ToLower(line)
	return strings.Contains(lower, "fallback") || strings.Contains(lower, "default")
}

// hardcodedValue names the first hardcoded styling literal on a line,
// or "" when the line is clean.
func hardcodedValue(line string) string {
	switch {
	case hexColorRe.MatchString(line):
		return "hex color"
	case rgbaRe.MatchString(line):
		return "rgba() color"
	case pxRemRe.MatchString(line):
		return "px/rem value"
	case fontFamilyRe.MatchString(line) && !strings.Contains(line, "var("):
		return "font-family declaration"
	default:
		return ""
	}
}

// classNames extracts class-name tokens from a line: class/className
// attribute values everywhere, plus class selectors in CSS.
func classNames(line string, isCSS bool) []string {
	var names []string
	for _, m := range classValueRe.FindAllStringSubmatch(line, -1) {
		names = append(names, strings.Fields(m[1])...)
	}
	if isCSS && cssSelectorLine.MatchString(line) {
		for _, m := range cssClassSelRe.FindAllStringSubmatch(line, -1) {
			names = append(names, m[1])
		}
	}
	return names
}
