package services

import (
	"regexp"
	"strings"
)

// QueryMode suggests which retrieval branches suit a query.
type QueryMode string

// Available query modes.
const (
	// QuerySemantic favours the vector branch: conceptual questions
	// with no exact-match markers.
	QuerySemantic QueryMode = "semantic"

	// QueryLexical favours the full-text branch: quoted phrases,
	// filenames, identifiers that embeddings blur.
	QueryLexical QueryMode = "lexical"

	// QueryHybrid runs both branches. The safe default.
	QueryHybrid QueryMode = "hybrid"
)

// filenamePattern matches tokens that look like file names or paths,
// e.g. "report.pdf", "src/main.go", "config.yaml".
var filenamePattern = regexp.MustCompile(`^[\w./-]+\.[A-Za-z0-9]{1,5}$`)

// questionWords open conceptual queries that embeddings handle well.
var questionWords = map[string]bool{
	"what": true, "why": true, "how": true, "when": true,
	"who": true, "where": true, "which": true, "explain": true,
	"describe": true, "summarize": true, "summarise": true,
}

// ClassifyQuery suggests a retrieval mode for the query using light
// lexical heuristics. It is a pure function so the routing decision stays
// testable without any model invocation; callers may override it.
func ClassifyQuery(query string) QueryMode {
	query = strings.TrimSpace(query)
	if query == "" {
		return QueryHybrid
	}

	// Quoted phrases signal an exact-match intent.
	if strings.Count(query, `"`) >= 2 {
		return QueryLexical
	}

	fields := strings.Fields(query)
	for _, f := range fields {
		if filenamePattern.MatchString(f) && strings.Contains(f, ".") {
			return QueryLexical
		}
	}

	// Single bare identifier-ish tokens (snake_case, CamelCase mixes)
	// match better by keyword than by meaning.
	if len(fields) == 1 && strings.ContainsAny(fields[0], "_-") {
		return QueryLexical
	}

	if questionWords[strings.ToLower(fields[0])] && len(fields) >= 3 {
		return QuerySemantic
	}

	return QueryHybrid
}
