package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, the vector branch is disabled.
//
// Implementations translate provider failures into the domain taxonomy:
// network and auth failures become domain.ErrProviderUnavailable,
// throttling becomes domain.ErrProviderRateLimited. No retry logic lives
// here; retries are a policy decision made by callers.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	// This is fixed by the model and must match the vector index
	// configuration; a mismatch is a configuration error, never
	// something to coerce at query time.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
