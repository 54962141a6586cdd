package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a supported source language for AST extraction.
// Component files in the canvas architecture are plain web-component
// JavaScript; TypeScript is accepted for page and workflow modules.
type Language int

const (
	// LanguageJavaScript represents JavaScript (.js, .mjs, .cjs files).
	LanguageJavaScript Language = iota
	// LanguageTypeScript represents TypeScript (.ts, .mts files).
	LanguageTypeScript
	// LanguageUnknown represents a file the parser cannot handle.
	// Such files fall back to text-only extraction.
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageJavaScript:
		return "javascript"
	case LanguageTypeScript:
		return "typescript"
	default:
		return "unknown"
	}
}

// DetectLanguage detects the source language from a file path.
// Returns LanguageUnknown for extensions the parser does not support
// (HTML and CSS are handled by regex heuristics, not the parser).
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".js", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	default:
		return LanguageUnknown
	}
}

// SupportedLanguages returns all languages the parser can handle.
func SupportedLanguages() []Language {
	return []Language{LanguageJavaScript, LanguageTypeScript}
}
