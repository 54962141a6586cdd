// Package queries provides tree-sitter query compilation, caching, and
// execution for the extractor's AST passes.
package queries

import (
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/parser"
)

// QueryType identifies which extraction query to run.
type QueryType int

const (
	// QueryTypeImports extracts module import sources.
	QueryTypeImports QueryType = iota
	// QueryTypeProps extracts the declared-props static getter array.
	QueryTypeProps
	// QueryTypeClasses extracts class-attribute string assignments.
	QueryTypeClasses
)

// String returns the string representation of a QueryType.
func (qt QueryType) String() string {
	switch qt {
	case QueryTypeImports:
		return "imports"
	case QueryTypeProps:
		return "props"
	case QueryTypeClasses:
		return "classes"
	default:
		return "unknown"
	}
}

// queryKey uniquely identifies a compiled query (language + type).
type queryKey struct {
	lang  parser.Language
	qtype QueryType
}

// Manager compiles tree-sitter queries lazily and caches them per
// language/type pair. Safe for concurrent use; Close frees the compiled
// queries.
type Manager struct {
	parserManager *parser.Manager
	cache         map[queryKey]*ts.Query
	mutex         sync.RWMutex
	logger        *slog.Logger
}

// NewManager creates a query manager bound to a parser manager (needed for
// grammar pointers during compilation).
func NewManager(pm *parser.Manager, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		parserManager: pm,
		cache:         make(map[queryKey]*ts.Query),
		logger:        logger,
	}
}

// GetQuery returns the compiled query for a language and type, compiling
// it on first access.
func (m *Manager) GetQuery(lang parser.Language, qtype QueryType) (*ts.Query, error) {
	key := queryKey{lang: lang, qtype: qtype}

	m.mutex.RLock()
	query, exists := m.cache[key]
	m.mutex.RUnlock()
	if exists {
		return query, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if query, exists = m.cache[key]; exists {
		return query, nil
	}

	queryString, err := queryString(lang, qtype)
	if err != nil {
		return nil, err
	}

	langPtr, err := m.parserManager.LanguagePointer(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to get language pointer for %s: %w", lang, err)
	}

	query, qerr := ts.NewQuery(ts.NewLanguage(langPtr), queryString)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile %s query for %s: %s", qtype, lang, qerr.Message)
	}

	m.cache[key] = query
	m.logger.Debug("compiled query", "language", lang.String(), "type", qtype.String())

	return query, nil
}

// queryString returns the query source for a language/type pair.
func queryString(lang parser.Language, qtype QueryType) (string, error) {
	switch lang {
	case parser.LanguageJavaScript:
		switch qtype {
		case QueryTypeImports:
			return JSImports, nil
		case QueryTypeProps:
			return JSProps, nil
		case QueryTypeClasses:
			return JSClasses, nil
		}
	case parser.LanguageTypeScript:
		switch qtype {
		case QueryTypeImports:
			return TSImports, nil
		case QueryTypeProps:
			return TSProps, nil
		case QueryTypeClasses:
			return TSClasses, nil
		}
	}
	return "", fmt.Errorf("no %s query for language %s", qtype, lang)
}

// Capture is one captured node from a query match.
type Capture struct {
	// Name is the capture name from the query (e.g. "import.source").
	Name string
	// Text is the matched source text.
	Text string
	// Line is the 1-based start line of the captured node.
	Line int
}

// Match is a single pattern match with its captures.
type Match struct {
	Captures []Capture
}

// Execute runs a compiled query over a parse tree and returns structured
// matches. The source is needed to resolve capture text and predicates.
func (m *Manager) Execute(tree *ts.Tree, query *ts.Query, source []byte) ([]Match, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	iter := cursor.Matches(query, tree.RootNode(), source)
	captureNames := query.CaptureNames()

	var matches []Match
	for {
		match := iter.Next()
		if match == nil {
			break
		}

		var captures []Capture
		for _, capture := range match.Captures {
			var name string
			if int(capture.Index) < len(captureNames) {
				name = captureNames[capture.Index]
			}
			captures = append(captures, Capture{
				Name: name,
				Text: capture.Node.Utf8Text(source),
				Line: int(capture.Node.StartPosition().Row) + 1,
			})
		}
		matches = append(matches, Match{Captures: captures})
	}

	return matches, nil
}

// Close releases all compiled queries. The Manager cannot be used after.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.logger.Debug("closing query manager", "queries_compiled", len(m.cache))

	for key, query := range m.cache {
		if query != nil {
			query.Close()
		}
		delete(m.cache, key)
	}
	return nil
}
