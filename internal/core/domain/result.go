package domain

// MatchedVia records which retrieval branch (or branches) produced a result.
type MatchedVia string

// Match provenance values.
const (
	// MatchedSemantic means the result came from the vector branch only.
	MatchedSemantic MatchedVia = "semantic"

	// MatchedLexical means the result came from the full-text branch only.
	MatchedLexical MatchedVia = "lexical"

	// MatchedBoth means both branches returned the chunk.
	MatchedBoth MatchedVia = "both"
)

// String returns the string representation.
func (m MatchedVia) String() string {
	return string(m)
}

// ScoredResult is a chunk plus its relevance scores from hybrid retrieval.
//
// SemanticScore and LexicalScore are normalized to [0,1] and are nil when
// the corresponding branch did not return the chunk. An absent component
// score means absent, never worst-case: the combined score is computed
// only from the scores that exist.
type ScoredResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Document is the owning document's metadata, hydrated from the
	// document store after merge.
	Document DocumentRef

	// SemanticScore is the normalized vector similarity, nil if the
	// chunk was not retrieved via the vector branch.
	SemanticScore *float64

	// LexicalScore is the normalized full-text relevance, nil if the
	// chunk was not retrieved via the text branch.
	LexicalScore *float64

	// CombinedScore is the final ranking score in [0,1]. Always set.
	CombinedScore float64

	// MatchedVia records which branch(es) produced this result.
	MatchedVia MatchedVia

	// Snippet is a highlighted excerpt from the lexical engine when
	// available, otherwise a generated highlight.
	Snippet string
}
