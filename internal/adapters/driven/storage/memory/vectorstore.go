package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/storage/scoring"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type collection struct {
	dimension int
	records   map[uint64]domain.VectorRecord
}

// VectorStore is an in-memory implementation of driven.VectorStore.
// Contents are lost when the process exits.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		collections: make(map[string]*collection),
	}
}

// CollectionExists reports whether the named collection exists.
func (s *VectorStore) CollectionExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	return ok, nil
}

// CreateCollection creates an empty collection.
func (s *VectorStore) CreateCollection(_ context.Context, name string, dimension int, metric domain.DistanceMetric) error {
	if name == "" || dimension <= 0 {
		return fmt.Errorf("%w: collection %q with dimension %d", domain.ErrInvalidInput, name, dimension)
	}
	if metric != "" && metric != domain.DistanceCosine {
		return fmt.Errorf("%w: unsupported metric %q", domain.ErrInvalidInput, metric)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[name]; ok {
		if c.dimension != dimension {
			return fmt.Errorf("%w: collection %q has dimension %d, not %d",
				domain.ErrDimensionMismatch, name, c.dimension, dimension)
		}
		return nil
	}
	s.collections[name] = &collection{
		dimension: dimension,
		records:   make(map[uint64]domain.VectorRecord),
	}
	return nil
}

// Dimension returns the vector size of the collection.
func (s *VectorStore) Dimension(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.get(name)
	if err != nil {
		return 0, err
	}
	return c.dimension, nil
}

// Count returns the number of records in the collection.
func (s *VectorStore) Count(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.get(name)
	if err != nil {
		return 0, err
	}
	return len(c.records), nil
}

// Upsert validates every record before writing any of them.
func (s *VectorStore) Upsert(_ context.Context, name string, records []domain.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(name)
	if err != nil {
		return err
	}
	for _, r := range records {
		if len(r.Vector) != c.dimension {
			return fmt.Errorf("%w: record %d has %d values, collection %q expects %d",
				domain.ErrDimensionMismatch, r.ID, len(r.Vector), name, c.dimension)
		}
	}
	for _, r := range records {
		r.Vector = slices.Clone(r.Vector)
		c.records[r.ID] = r
	}
	return nil
}

// Query returns the closest records by cosine similarity.
func (s *VectorStore) Query(_ context.Context, name string, vector []float32, limit int) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.get(name)
	if err != nil {
		return nil, err
	}
	if len(vector) != c.dimension {
		return nil, fmt.Errorf("%w: query has %d values, collection %q expects %d",
			domain.ErrDimensionMismatch, len(vector), name, c.dimension)
	}

	hits := make([]scoring.Hit, 0, len(c.records))
	for _, id := range slices.Sorted(maps.Keys(c.records)) {
		r := c.records[id]
		hits = append(hits, scoring.Hit{ID: id, Score: scoring.Cosine(vector, r.Vector), Chunk: r.Payload})
	}
	return scoring.Rank(hits, limit), nil
}

// DeleteCollection removes the collection. Deleting a missing collection is not an error.
func (s *VectorStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}

// get must be called with the lock held.
func (s *VectorStore) get(name string) (*collection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrCollectionNotFound, name)
	}
	return c, nil
}
