// Package validator implements the three static-analysis passes over a
// project: architecture rules, design-token usage, and registry
// consistency, plus the runner that executes them in sequence.
package validator

import "fmt"

// Severity grades a violation. Errors indicate broken rules; warnings
// indicate drift worth fixing.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Architecture violation types.
const (
	TypeMissingStylesheet = "MISSING_STYLESHEET"
	TypeInlineCSS         = "INLINE_CSS_DETECTED"
	TypeDuplicateCSSRule  = "DUPLICATE_CSS_RULE"
	TypeRawHTML           = "RAW_HTML_DETECTED"
	TypeLayerViolation    = "LAYER_VIOLATION"
)

// Token violation types.
const (
	TypeUnknownToken    = "unknown-token"
	TypeUnusedTokens    = "unused-tokens"
	TypeHardcodedValue  = "hardcoded-value"
	TypeNamingViolation = "naming-violation"
)

// Registry violation types.
const (
	TypeFileNotFound  = "FILE_NOT_FOUND"
	TypeInvalidName   = "INVALID_NAME"
	TypeLayerMismatch = "LAYER_MISMATCH"
)

// Violation is one static-analysis finding. It is a result value, not
// an error: violations flow through to the final report.
type Violation struct {
	Type       string   `json:"type"`
	File       string   `json:"file"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Line       int      `json:"line,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Details    string   `json:"details,omitempty"`
}

// Result is the outcome of one validation pass. Passed is false
// whenever the pass recorded any violation, of either severity.
type Result struct {
	Name       string      `json:"name"`
	Violations []Violation `json:"violations"`
	Passed     bool        `json:"passed"`
}

// Counts returns (errors, warnings).
func (r *Result) Counts() (int, int) {
	var errors, warnings int
	for _, v := range r.Violations {
		switch v.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// Summary renders a one-line pass/fail summary.
func (r *Result) Summary() string {
	errors, warnings := r.Counts()
	if r.Passed {
		return fmt.Sprintf("%s: PASS", r.Name)
	}
	return fmt.Sprintf("%s: FAIL (%d errors, %d warnings)", r.Name, errors, warnings)
}

func newResult(name string, violations []Violation) *Result {
	return &Result{
		Name:       name,
		Violations: violations,
		Passed:     len(violations) == 0,
	}
}
