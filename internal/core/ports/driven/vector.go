package driven

import (
	"context"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

// VectorStore holds named collections of vector records.
// Collections are independent; operations on different names need no coordination.
type VectorStore interface {
	// CollectionExists reports whether the named collection exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// CreateCollection creates an empty collection. Creating an existing
	// collection with the same dimension is a no-op.
	CreateCollection(ctx context.Context, name string, dimension int, metric domain.DistanceMetric) error

	// Dimension returns the vector size the collection was created with.
	Dimension(ctx context.Context, name string) (int, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context, name string) (int, error)

	// Upsert inserts or overwrites records by id. Either all records are
	// written or none are.
	Upsert(ctx context.Context, name string, records []domain.VectorRecord) error

	// Query returns up to limit hits ordered by descending similarity,
	// ties broken by ascending id.
	Query(ctx context.Context, name string, vector []float32, limit int) ([]domain.ScoredChunk, error)

	// DeleteCollection removes the collection and its records.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases resources.
	Close() error
}
