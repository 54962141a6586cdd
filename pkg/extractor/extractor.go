package extractor

import (
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/parser"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/parser/queries"
)

// Extractor performs per-file metadata extraction.
//
// Each file is parsed at most once; all queries run against the same tree.
// Files the parser cannot handle (HTML, CSS) or that fail to parse degrade
// to the text-heuristic pass alone.
type Extractor struct {
	parserManager *parser.Manager
	queryManager  *queries.Manager
	logger        *slog.Logger
}

// NewExtractor creates an extractor on top of a parser and query manager.
func NewExtractor(pm *parser.Manager, qm *queries.Manager, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		parserManager: pm,
		queryManager:  qm,
		logger:        logger,
	}
}

// Extract returns best-effort metadata for one source file. It never
// fails: missing patterns produce zero values and parse problems are
// logged and absorbed.
func (e *Extractor) Extract(filePath string, source []byte) Metadata {
	meta := Metadata{Version: DefaultVersion}
	text := string(source)

	astOK := false
	if lang := parser.DetectLanguage(filePath); lang != parser.LanguageUnknown {
		astOK = e.extractAST(filePath, source, lang, &meta)
	}

	if !astOK {
		// Regex fallbacks for what the AST pass would have found.
		meta.Props = fallbackProps(text)
		meta.Dependencies = appendUnique(meta.Dependencies, fallbackImports(text)...)
	}

	// Text heuristics apply to every file.
	if desc := extractDescription(text); desc != "" {
		meta.Description = desc
	}
	if v := extractVersion(text); v != "" {
		meta.Version = v
	}
	meta.BEMClasses = appendUnique(meta.BEMClasses, markupClasses(text)...)
	if isHTMLFile(filePath) {
		meta.Dependencies = appendUnique(meta.Dependencies, htmlDependencies(text)...)
	}

	return meta
}

// extractAST runs the import, props, and class queries over a single parse
// of the file. Returns false when the file could not be parsed at all.
func (e *Extractor) extractAST(filePath string, source []byte, lang parser.Language, meta *Metadata) bool {
	tree, err := e.parserManager.Parse(source, lang)
	if err != nil {
		e.logger.Warn("parse failed, falling back to text pass",
			"file", filePath, "error", err)
		return false
	}
	defer tree.Close()

	for _, src := range e.capture(tree, source, lang, queries.QueryTypeImports, "import.source") {
		if strings.HasPrefix(src, "./") {
			meta.Dependencies = appendUnique(meta.Dependencies, strings.TrimPrefix(src, "./"))
		}
	}

	for _, name := range e.capture(tree, source, lang, queries.QueryTypeProps, "props.name") {
		name = strings.TrimSpace(name)
		if name != "" {
			meta.Props = append(meta.Props, name)
		}
	}

	for _, value := range e.capture(tree, source, lang, queries.QueryTypeClasses, "class.value") {
		if token := firstToken(value); token != "" {
			meta.BEMClasses = appendUnique(meta.BEMClasses, token)
		}
	}

	return true
}

// capture executes one query and collects the texts of the named capture,
// in source order. Query problems are logged and yield nil.
func (e *Extractor) capture(tree *ts.Tree, source []byte, lang parser.Language, qtype queries.QueryType, name string) []string {
	query, err := e.queryManager.GetQuery(lang, qtype)
	if err != nil {
		e.logger.Warn("query unavailable", "type", qtype.String(), "error", err)
		return nil
	}

	matches, err := e.queryManager.Execute(tree, query, source)
	if err != nil {
		e.logger.Warn("query failed", "type", qtype.String(), "error", err)
		return nil
	}

	var out []string
	for _, match := range matches {
		for _, c := range match.Captures {
			if c.Name == name {
				out = append(out, c.Text)
			}
		}
	}
	return out
}
