// Package tokens extracts design tokens (CSS custom properties) from
// the project's main stylesheet and tracks how often each is used.
// Tokens are extracted fresh on every run; nothing persists between
// invocations.
package tokens

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultStylesheetPath is the project-relative main stylesheet, the
// sole source of token declarations.
const DefaultStylesheetPath = "styles/main.css"

// Category buckets a token by the concern its name suggests.
type Category string

const (
	CategoryColor      Category = "color"
	CategorySpacing    Category = "spacing"
	CategoryTypography Category = "typography"
	CategoryBorder     Category = "border"
	CategoryShadow     Category = "shadow"
	CategorySize       Category = "size"
	CategoryOther      Category = "other"
)

// Token is one declared custom property. UsageCount is incremented as
// validation walks the project's files.
type Token struct {
	Name          string   `json:"name"`
	DeclaredValue string   `json:"declaredValue"`
	UsageCount    int      `json:"usageCount"`
	Category      Category `json:"category"`
}

// declRe matches `--name: value;` custom-property declarations.
var declRe = regexp.MustCompile(`--([A-Za-z][A-Za-z0-9-]*)\s*:\s*([^;]+);`)

// Set is the token universe for one validation run. Declaration order
// is preserved.
type Set struct {
	tokens []*Token
	byName map[string]*Token
}

// Parse extracts every `--name: value` declaration from stylesheet
// source. A name declared twice keeps its first value.
func Parse(source []byte) *Set {
	s := &Set{byName: make(map[string]*Token)}
	for _, m := range declRe.FindAllStringSubmatch(string(source), -1) {
		name := "--" + m[1]
		if _, ok := s.byName[name]; ok {
			continue
		}
		tok := &Token{
			Name:          name,
			DeclaredValue: strings.TrimSpace(m[2]),
			Category:      Categorize(name),
		}
		s.tokens = append(s.tokens, tok)
		s.byName[name] = tok
	}
	return s
}

// Load reads the main stylesheet and parses its tokens. A missing
// stylesheet is fatal: without it there is no token universe to
// validate against.
func Load(stylesheetPath string) (*Set, error) {
	source, err := os.ReadFile(stylesheetPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("main stylesheet not found at %s (create it or point the config at the right file)", stylesheetPath)
		}
		return nil, fmt.Errorf("read stylesheet %q: %w", stylesheetPath, err)
	}
	return Parse(source), nil
}

// Get looks up a token by its full `--name`.
func (s *Set) Get(name string) (*Token, bool) {
	tok, ok := s.byName[name]
	return tok, ok
}

// Increment bumps a token's usage counter. Returns false for names not
// in the set.
func (s *Set) Increment(name string) bool {
	tok, ok := s.byName[name]
	if !ok {
		return false
	}
	tok.UsageCount++
	return true
}

// All returns the tokens in declaration order.
func (s *Set) All() []*Token {
	return s.tokens
}

// Len returns the number of declared tokens.
func (s *Set) Len() int {
	return len(s.tokens)
}

// Unused returns tokens with zero recorded uses, in declaration order.
func (s *Set) Unused() []*Token {
	var out []*Token
	for _, tok := range s.tokens {
		if tok.UsageCount == 0 {
			out = append(out, tok)
		}
	}
	return out
}

// categoryHints maps name substrings to categories, checked in order.
var categoryHints = []struct {
	substrings []string
	category   Category
}{
	{[]string{"color", "-bg", "background"}, CategoryColor},
	{[]string{"spacing", "space", "gap", "margin", "padding"}, CategorySpacing},
	{[]string{"font", "text", "line-height", "letter"}, CategoryTypography},
	{[]string{"border", "radius", "outline"}, CategoryBorder},
	{[]string{"shadow"}, CategoryShadow},
	{[]string{"size", "width", "height"}, CategorySize},
}

// Categorize buckets a token name by substring hints. Names matching
// nothing fall into "other".
func Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, hint := range categoryHints {
		for _, sub := range hint.substrings {
			if strings.Contains(lower, sub) {
				return hint.category
			}
		}
	}
	return CategoryOther
}
