package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, content is still indexed for
// lexical search and similarity queries fail with
// domain.ErrEmbeddingUnavailable.
//
// Implementations may include:
//   - OpenAI-compatible APIs (text-embedding-3-small, -large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text. The
	// vector's length is backend-determined and drives index field
	// selection.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model returns the name of the embedding model being used. It
	// keys the embedding cache.
	Model() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at startup before committing to similarity mode.
	Ping(ctx context.Context) error
}

// EmbeddingCache stores embeddings keyed by model and content hash.
// Optional; a nil cache means every chunk is embedded on every pass.
type EmbeddingCache interface {
	// Get returns the cached vector, or domain.ErrNotFound.
	Get(ctx context.Context, model, contentHash string) ([]float32, error)

	// Put stores a vector. Overwrites silently.
	Put(ctx context.Context, model, contentHash string, vector []float32) error

	// Close releases resources.
	Close() error
}
