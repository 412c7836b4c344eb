package domain

import (
	"fmt"
	"time"
)

// Default request parameters.
const (
	// DefaultLimit is the result count used when a request does not set one.
	DefaultLimit = 10

	// DefaultSemanticWeight is the vector branch share of the combined score.
	DefaultSemanticWeight = 0.6

	// DefaultTextWeight is the full-text branch share of the combined score.
	DefaultTextWeight = 0.4

	// DefaultOverfetchFactor is the per-source candidate multiplier.
	// Deduplication shrinks the merged pool, so each source is asked for
	// more than the final limit.
	DefaultOverfetchFactor = 3
)

// SearchFilter restricts candidates by document metadata. The same filter
// is applied to both retrieval branches so their result sets are comparable.
type SearchFilter struct {
	// Category matches DocumentRef.Category exactly when non-empty.
	Category string

	// Tags requires every listed tag to be present on the document.
	Tags []string

	// UploadedAfter excludes documents uploaded before this time when set.
	UploadedAfter time.Time

	// UploadedBefore excludes documents uploaded after this time when set.
	UploadedBefore time.Time
}

// IsZero reports whether the filter imposes no constraints.
func (f SearchFilter) IsZero() bool {
	return f.Category == "" && len(f.Tags) == 0 &&
		f.UploadedAfter.IsZero() && f.UploadedBefore.IsZero()
}

// Matches reports whether the document satisfies the filter.
func (f SearchFilter) Matches(doc DocumentRef) bool {
	if f.Category != "" && doc.Category != f.Category {
		return false
	}
	for _, tag := range f.Tags {
		if !doc.HasTag(tag) {
			return false
		}
	}
	if !f.UploadedAfter.IsZero() && doc.UploadedAt.Before(f.UploadedAfter) {
		return false
	}
	if !f.UploadedBefore.IsZero() && doc.UploadedAt.After(f.UploadedBefore) {
		return false
	}
	return true
}

// RetrievalRequest describes a single hybrid search call.
type RetrievalRequest struct {
	// Query is the search text. Must be non-empty.
	Query string

	// Limit bounds the final result list, never the per-source fan-out.
	// Zero means DefaultLimit.
	Limit int

	// Filter optionally restricts candidates by document metadata.
	Filter SearchFilter

	// SemanticWeight is the vector branch weight in [0,1].
	// Zero together with a zero TextWeight selects the defaults.
	SemanticWeight float64

	// TextWeight is the full-text branch weight in [0,1].
	TextWeight float64

	// Threshold is a floor on the normalized semantic score. Candidates
	// from the vector branch scoring below it are discarded before merge.
	// Zero disables thresholding.
	Threshold float64
}

// Normalized returns a copy of the request with defaults applied.
// It does not validate; call Validate first.
func (r RetrievalRequest) Normalized() RetrievalRequest {
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.SemanticWeight == 0 && r.TextWeight == 0 {
		r.SemanticWeight = DefaultSemanticWeight
		r.TextWeight = DefaultTextWeight
	}
	return r
}

// Validate checks the request against the invariants a caller must honour.
// All violations wrap ErrInvalidRequest so callers can fail fast before
// any branch is contacted.
func (r RetrievalRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("%w: query must not be empty", ErrInvalidRequest)
	}
	if r.Limit < 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidRequest, r.Limit)
	}
	if r.SemanticWeight < 0 || r.SemanticWeight > 1 {
		return fmt.Errorf("%w: semantic weight %v outside [0,1]", ErrInvalidRequest, r.SemanticWeight)
	}
	if r.TextWeight < 0 || r.TextWeight > 1 {
		return fmt.Errorf("%w: text weight %v outside [0,1]", ErrInvalidRequest, r.TextWeight)
	}
	if r.Threshold < 0 || r.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidRequest, r.Threshold)
	}
	return nil
}
