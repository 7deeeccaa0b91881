package driven

import "context"

// EmbeddingService generates vector embeddings for text.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable and properly configured.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Encoder is the embedding provider every RAG engine shares.
// Implementations are safe for concurrent use.
type Encoder interface {
	// Encode embeds texts as passages, or as queries when asQuery is set.
	// Returned vectors have unit length.
	Encode(ctx context.Context, texts []string, asQuery bool) ([][]float32, error)

	// Dimensions returns the vector size.
	Dimensions() int
}
