package domain

import "errors"

// Domain errors represent retrieval failures the core distinguishes.
// These are distinct from infrastructure errors; adapters translate
// transport-level failures into this taxonomy at the boundary.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest indicates a malformed retrieval request
	// (empty query, negative limit, out-of-range weights). Fails fast,
	// before any branch is contacted.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderUnavailable indicates the embedding provider cannot be
	// reached or rejected authentication. Recoverable for the vector
	// branch only; the text branch proceeds.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrProviderRateLimited indicates the embedding provider throttled
	// the request. Distinguished from ErrProviderUnavailable so callers
	// can back off instead of failing fast.
	ErrProviderRateLimited = errors.New("embedding provider rate limited")

	// ErrIndexUnavailable indicates a vector or full-text index cannot
	// be reached. Recoverable per branch: the affected branch degrades
	// to empty results rather than failing the call.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrRetrievalTimeout indicates every retrieval branch exceeded its
	// time budget. A single slow branch degrades instead.
	ErrRetrievalTimeout = errors.New("retrieval timed out")

	// ErrRetrievalUnavailable indicates every retrieval branch failed
	// outright. Distinct from an empty result set: "could not ask" is
	// not "no data found".
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
)
