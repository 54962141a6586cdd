// Package extractor pulls structural metadata out of component, page, and
// workflow source files. JavaScript and TypeScript files get a tree-sitter
// AST pass; HTML and everything else fall back to text heuristics. The
// contract is best-effort: a pattern that does not match yields an empty
// value, never an error.
package extractor

// Metadata holds the structural facts extracted from one source file.
type Metadata struct {
	// Props are the component's declared attributes, in declaration order.
	Props []string `json:"props"`
	// Description is the first line of the leading doc comment, if any.
	Description string `json:"description"`
	// Version is the @version tag value; defaults to "1.0.0".
	Version string `json:"version"`
	// Dependencies are relative import paths ("./" prefix stripped).
	Dependencies []string `json:"dependencies"`
	// BEMClasses are the first tokens of class-attribute strings.
	BEMClasses []string `json:"bemClasses"`
}

// DefaultVersion is used when a source file carries no @version tag.
const DefaultVersion = "1.0.0"
