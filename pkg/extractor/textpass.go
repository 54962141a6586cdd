package extractor

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Text-heuristic pass. These patterns are deliberately shallow: the tool
// lints source trees, it does not compile them. Template literals and HTML
// markup are matched as text because no grammar covers embedded markup.

var (
	versionRe = regexp.MustCompile(`@version\s+(\d+\.\d+\.\d+)`)

	// class="…" inside markup or template literals.
	classAttrRe = regexp.MustCompile(`class\s*=\s*["']([^"']+)["']`)

	// Relative src/href references in HTML.
	htmlDepRe = regexp.MustCompile(`(?:src|href)\s*=\s*["']\./([^"']+)["']`)

	// Fallbacks for when the AST pass is unavailable.
	fallbackPropsRe  = regexp.MustCompile(`static\s+get\s+(?:observedAttributes|props)\s*\(\)\s*\{\s*return\s*\[([^\]]*)\]`)
	fallbackImportRe = regexp.MustCompile(`(?:import\s+[^'"]*?|from\s+|require\(\s*)['"](\./[^'"]+)['"]`)

	htmlCommentRe = regexp.MustCompile(`<!--\s*([^\n>]+?)\s*(?:-->|\n)`)
)

// extractDescription returns the first line of the first block comment
// that opens with /** and is immediately followed by a text line. For HTML
// it falls back to the first <!-- --> comment line.
func extractDescription(text string) string {
	if idx := strings.Index(text, "/**"); idx >= 0 {
		rest := text[idx+len("/**"):]
		for _, line := range strings.Split(rest, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "/") || strings.HasPrefix(line, "@") {
				return ""
			}
			return strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(line, "*/")), "*/")
		}
		return ""
	}

	if m := htmlCommentRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractVersion returns the first @version tag value, or "".
func extractVersion(text string) string {
	if m := versionRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// markupClasses returns the first token of each class="…" attribute value
// found in markup or template literals, in document order.
func markupClasses(text string) []string {
	var out []string
	for _, m := range classAttrRe.FindAllStringSubmatch(text, -1) {
		if token := firstToken(m[1]); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// htmlDependencies returns relative src/href targets with the "./" prefix
// stripped.
func htmlDependencies(text string) []string {
	var out []string
	for _, m := range htmlDepRe.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// fallbackProps extracts the declared-props array by regex when no AST is
// available. Malformed lists degrade to an empty slice.
func fallbackProps(text string) []string {
	m := fallbackPropsRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	var props []string
	for _, entry := range strings.Split(m[1], ",") {
		entry = strings.Trim(strings.TrimSpace(entry), `'"`+"`")
		if entry != "" {
			props = append(props, entry)
		}
	}
	return props
}

// fallbackImports extracts relative import paths by regex, "./" stripped.
func fallbackImports(text string) []string {
	var out []string
	for _, m := range fallbackImportRe.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimPrefix(m[1], "./"))
	}
	return out
}

// firstToken returns the first whitespace-separated token of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// appendUnique appends values not already present, preserving order.
func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// isHTMLFile reports whether the path names an HTML document.
func isHTMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}
