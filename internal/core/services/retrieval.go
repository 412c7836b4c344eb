package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/core/ports/driven"
	"github.com/confluo-search/confluo/internal/core/ports/driving"
	"github.com/confluo-search/confluo/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultBranchTimeout bounds each retrieval branch independently.
const DefaultBranchTimeout = 5 * time.Second

// candidate holds intermediate per-branch results before merge.
type candidate struct {
	chunkID string
	score   float64 // normalized to [0,1]
	snippet string
}

// merged accumulates a chunk's scores across branches.
type merged struct {
	chunkID  string
	semantic *float64
	lexical  *float64
	combined float64
	order    int // first-seen ordinal: vector branch first, then lexical
	snippet  string
}

// Options tunes the hybrid merge behaviour.
type Options struct {
	// OverfetchFactor multiplies the requested limit when querying each
	// source. Deduplication shrinks the merged pool; without headroom
	// the final list could fall short of the limit even when enough
	// relevant chunks exist. Zero means domain.DefaultOverfetchFactor.
	OverfetchFactor int

	// BranchTimeout bounds each branch independently. A branch that
	// exceeds it degrades exactly like an unreachable index. Zero means
	// DefaultBranchTimeout.
	BranchTimeout time.Duration
}

// RetrievalService combines semantic and lexical retrieval into a single
// deduplicated, ranked result list. It holds no mutable state between
// calls; every HybridSearch invocation is independent and safe to run
// from concurrent requests.
type RetrievalService struct {
	docStore         driven.DocumentStore
	searchIndex      driven.SearchEngine
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	overfetch        int
	branchTimeout    time.Duration
}

// NewRetrievalService creates a new retrieval service.
// The vectorIndex and embeddingService parameters are optional (can be
// nil); without them searches degrade to lexical-only.
func NewRetrievalService(
	docStore driven.DocumentStore,
	searchIndex driven.SearchEngine,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	opts Options,
) *RetrievalService {
	if opts.OverfetchFactor <= 0 {
		opts.OverfetchFactor = domain.DefaultOverfetchFactor
	}
	if opts.BranchTimeout <= 0 {
		opts.BranchTimeout = DefaultBranchTimeout
	}
	return &RetrievalService{
		docStore:         docStore,
		searchIndex:      searchIndex,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		overfetch:        opts.OverfetchFactor,
		branchTimeout:    opts.BranchTimeout,
	}
}

// HybridSearch performs hybrid retrieval for the request.
func (s *RetrievalService) HybridSearch(
	ctx context.Context, req domain.RetrievalRequest,
) ([]domain.ScoredResult, error) {
	logger.Section("Hybrid Retrieval")

	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.Normalized()

	logger.Debug("Query: %q", req.Query)
	logger.Debug("Limit: %d, weights: semantic=%.2f text=%.2f, threshold=%.2f",
		req.Limit, req.SemanticWeight, req.TextWeight, req.Threshold)

	// Each source is asked for more than the final limit so that
	// post-merge deduplication does not leave the list short.
	fetchK := req.Limit * s.overfetch
	if fetchK < req.Limit {
		fetchK = req.Limit
	}
	logger.Debug("Per-source fetch: %d candidates", fetchK)

	// Fan out the two branches. They are independent I/O-bound calls
	// with no data dependency; serializing them would double tail
	// latency for nothing. Failure in one never aborts the other.
	var semantic, lexical []candidate
	var semErr, lexErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		semantic, semErr = s.vectorBranch(ctx, req, fetchK)
	}()

	go func() {
		defer wg.Done()
		lexical, lexErr = s.lexicalBranch(ctx, req, fetchK)
	}()

	wg.Wait()

	if semErr != nil && lexErr != nil {
		if isTimeout(semErr) && isTimeout(lexErr) {
			logger.Warn("Both branches timed out")
			return nil, fmt.Errorf("%w: semantic=%v, lexical=%v",
				domain.ErrRetrievalTimeout, semErr, lexErr)
		}
		logger.Warn("Both branches failed")
		return nil, fmt.Errorf("%w: semantic=%v, lexical=%v",
			domain.ErrRetrievalUnavailable, semErr, lexErr)
	}
	if semErr != nil {
		logger.Warn("Vector branch degraded: %v", semErr)
		semantic = nil
	}
	if lexErr != nil {
		logger.Warn("Lexical branch degraded: %v", lexErr)
		lexical = nil
	}

	logger.Debug("Candidates: %d semantic, %d lexical", len(semantic), len(lexical))

	ranked := s.merge(semantic, lexical, req)
	logger.Debug("Merged: %d unique candidates", len(ranked))

	results, err := s.hydrate(ctx, ranked, req.Query)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}

	if len(results) > req.Limit {
		results = results[:req.Limit]
	}
	logger.Info("Final results: %d", len(results))

	return results, nil
}

// vectorBranch embeds the query and runs nearest-neighbour retrieval.
// Scores returned are normalized similarities with the request threshold
// already applied.
func (s *RetrievalService) vectorBranch(
	ctx context.Context, req domain.RetrievalRequest, k int,
) ([]candidate, error) {
	if s.vectorIndex == nil || s.embeddingService == nil {
		return nil, domain.ErrIndexUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.branchTimeout)
	defer cancel()

	// Embedding is a blocking prerequisite of this branch, not a
	// parallel step: the index cannot be queried without the vector.
	vector, err := s.embeddingService.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vector))

	hits, err := s.vectorIndex.QueryVectors(ctx, vector, k, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	logger.Debug("Vector branch: %d hits", len(hits))

	// Cosine distance in [0,2] becomes similarity before normalization
	// so that higher always means more relevant past this point.
	raw := make([]float64, len(hits))
	for i, h := range hits {
		raw[i] = 1 - h.Distance
	}
	normalized := NormalizeScores(raw)

	candidates := make([]candidate, 0, len(hits))
	for i, h := range hits {
		// Threshold is a floor on the normalized semantic score, not
		// on raw distance.
		if req.Threshold > 0 && normalized[i] < req.Threshold {
			continue
		}
		candidates = append(candidates, candidate{
			chunkID: h.ChunkID,
			score:   normalized[i],
		})
	}
	return candidates, nil
}

// lexicalBranch runs full-text retrieval. Scores returned are normalized.
func (s *RetrievalService) lexicalBranch(
	ctx context.Context, req domain.RetrievalRequest, limit int,
) ([]candidate, error) {
	if s.searchIndex == nil {
		return nil, domain.ErrIndexUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.branchTimeout)
	defer cancel()

	hits, err := s.searchIndex.QueryText(ctx, req.Query, limit, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("text query: %w", err)
	}
	logger.Debug("Lexical branch: %d hits", len(hits))

	raw := make([]float64, len(hits))
	for i, h := range hits {
		raw[i] = h.Relevance
	}
	normalized := NormalizeScores(raw)

	candidates := make([]candidate, len(hits))
	for i, h := range hits {
		candidates[i] = candidate{
			chunkID: h.ChunkID,
			score:   normalized[i],
			snippet: h.Snippet,
		}
	}
	return candidates, nil
}

// merge deduplicates the two candidate lists by chunk ID, combines
// scores, and sorts deterministically.
//
// A chunk present in both branches combines both weighted scores. A chunk
// present in one branch is scored from its available term alone,
// renormalized by the weight actually used: weighting an absent score as
// zero would bury exact lexical hits under weak semantic matches, and one
// source's blind spot must not be penalized by the other source's
// weighting share. Both cases reduce to the same rule - divide the
// weighted sum by the sum of the weights actually used.
func (s *RetrievalService) merge(
	semantic, lexical []candidate, req domain.RetrievalRequest,
) []merged {
	pool := make(map[string]*merged, len(semantic)+len(lexical))
	ordered := make([]*merged, 0, len(semantic)+len(lexical))

	for _, c := range semantic {
		score := c.score
		m := &merged{
			chunkID:  c.chunkID,
			semantic: &score,
			order:    len(ordered),
		}
		pool[c.chunkID] = m
		ordered = append(ordered, m)
	}

	for _, c := range lexical {
		score := c.score
		if m, ok := pool[c.chunkID]; ok {
			m.lexical = &score
			if m.snippet == "" {
				m.snippet = c.snippet
			}
			continue
		}
		m := &merged{
			chunkID: c.chunkID,
			lexical: &score,
			order:   len(ordered),
			snippet: c.snippet,
		}
		pool[c.chunkID] = m
		ordered = append(ordered, m)
	}

	for _, m := range ordered {
		var weighted, weightSum float64
		if m.semantic != nil {
			weighted += *m.semantic * req.SemanticWeight
			weightSum += req.SemanticWeight
		}
		if m.lexical != nil {
			weighted += *m.lexical * req.TextWeight
			weightSum += req.TextWeight
		}
		if weightSum > 0 {
			m.combined = weighted / weightSum
		}
	}

	// Descending by combined score. Ties rank dual-source hits above
	// single-source ones, then fall back to first-seen order (vector
	// branch first, then lexical) so that equal inputs always produce
	// identical output ordering.
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.combined != b.combined {
			return a.combined > b.combined
		}
		aBoth := a.semantic != nil && a.lexical != nil
		bBoth := b.semantic != nil && b.lexical != nil
		if aBoth != bBoth {
			return aBoth
		}
		return a.order < b.order
	})

	out := make([]merged, len(ordered))
	for i, m := range ordered {
		out[i] = *m
	}
	return out
}

// hydrate turns merged candidates into presentable results with chunk
// text and document metadata. Lookups go through the store in single
// batched round trips; chunks superseded since indexing are skipped.
func (s *RetrievalService) hydrate(
	ctx context.Context, ranked []merged, query string,
) ([]domain.ScoredResult, error) {
	if len(ranked) == 0 {
		return []domain.ScoredResult{}, nil
	}
	if s.docStore == nil {
		return nil, errors.New("document store unavailable")
	}

	ids := make([]string, len(ranked))
	for i, m := range ranked {
		ids[i] = m.chunkID
	}

	chunks, err := s.docStore.GetChunks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}

	docIDs := make([]string, 0, len(chunks))
	seenDocs := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		if !seenDocs[c.DocumentID] {
			seenDocs[c.DocumentID] = true
			docIDs = append(docIDs, c.DocumentID)
		}
	}

	docs, err := s.docStore.GetDocuments(ctx, docIDs)
	if err != nil {
		return nil, fmt.Errorf("get documents: %w", err)
	}

	results := make([]domain.ScoredResult, 0, len(ranked))
	for _, m := range ranked {
		chunk, ok := chunks[m.chunkID]
		if !ok {
			logger.Debug("Chunk %s superseded, skipping", m.chunkID)
			continue
		}
		doc, ok := docs[chunk.DocumentID]
		if !ok {
			logger.Debug("Document %s gone, skipping chunk %s", chunk.DocumentID, m.chunkID)
			continue
		}

		snippet := m.snippet
		if snippet == "" {
			snippet = generateSnippet(chunk.Text, query)
		}

		results = append(results, domain.ScoredResult{
			Chunk:         chunk,
			Document:      doc,
			SemanticScore: m.semantic,
			LexicalScore:  m.lexical,
			CombinedScore: m.combined,
			MatchedVia:    matchedVia(m),
			Snippet:       snippet,
		})
	}
	return results, nil
}

func matchedVia(m merged) domain.MatchedVia {
	switch {
	case m.semantic != nil && m.lexical != nil:
		return domain.MatchedBoth
	case m.semantic != nil:
		return domain.MatchedSemantic
	default:
		return domain.MatchedLexical
	}
}

// isTimeout reports whether a branch failure was a deadline, as opposed
// to an unreachable collaborator.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// generateSnippet picks the first sentence containing a query term.
// Used for semantic-only hits, where the lexical engine supplied nothing.
func generateSnippet(content, query string) string {
	const maxSnippet = 200

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return truncate(content, maxSnippet)
	}

	for _, sentence := range splitSentences(content) {
		lower := strings.ToLower(sentence)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return truncate(sentence, maxSnippet)
			}
		}
	}
	return truncate(content, maxSnippet)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// splitSentences splits content on common terminators.
func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
