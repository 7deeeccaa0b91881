package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/storage/scoring"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
)

// vectorStore implements driven.VectorStore with exhaustive cosine search.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CollectionExists reports whether the named collection exists.
func (s *vectorStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	_, err := s.dimension(ctx, s.store.db, name)
	if errors.Is(err, domain.ErrCollectionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateCollection creates an empty collection.
func (s *vectorStore) CreateCollection(ctx context.Context, name string, dimension int, metric domain.DistanceMetric) error {
	if name == "" || dimension <= 0 {
		return fmt.Errorf("%w: collection %q with dimension %d", domain.ErrInvalidInput, name, dimension)
	}
	if metric == "" {
		metric = domain.DistanceCosine
	}
	if metric != domain.DistanceCosine {
		return fmt.Errorf("%w: unsupported metric %q", domain.ErrInvalidInput, metric)
	}

	existing, err := s.dimension(ctx, s.store.db, name)
	switch {
	case err == nil && existing == dimension:
		return nil
	case err == nil:
		return fmt.Errorf("%w: collection %q has dimension %d, not %d",
			domain.ErrDimensionMismatch, name, existing, dimension)
	case !errors.Is(err, domain.ErrCollectionNotFound):
		return err
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO collections (name, dimension, metric, created_at) VALUES (?, ?, ?, ?)
	`, name, dimension, string(metric), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", name, err)
	}
	return nil
}

// Dimension returns the vector size of the collection.
func (s *vectorStore) Dimension(ctx context.Context, name string) (int, error) {
	return s.dimension(ctx, s.store.db, name)
}

// Count returns the number of records in the collection.
func (s *vectorStore) Count(ctx context.Context, name string) (int, error) {
	if _, err := s.dimension(ctx, s.store.db, name); err != nil {
		return 0, err
	}

	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vector_records WHERE collection = ?", name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting records in %q: %w", name, err)
	}
	return count, nil
}

// Upsert writes all records in one transaction.
func (s *vectorStore) Upsert(ctx context.Context, name string, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	dim, err := s.dimension(ctx, tx, name)
	if err != nil {
		return err
	}
	for _, r := range records {
		if len(r.Vector) != dim {
			return fmt.Errorf("%w: record %d has %d values, collection %q expects %d",
				domain.ErrDimensionMismatch, r.ID, len(r.Vector), name, dim)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vector_records (collection, id, vector, text, title, source_document, ordinal)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			vector = excluded.vector,
			text = excluded.text,
			title = excluded.title,
			source_document = excluded.source_document,
			ordinal = excluded.ordinal
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		// SQLite integers are signed; ids beyond int64 are rejected by the driver.
		if _, err := stmt.ExecContext(ctx, name, int64(r.ID), float32SliceToBytes(r.Vector),
			r.Payload.Text, r.Payload.Title, r.Payload.SourceDocument, r.Payload.Ordinal); err != nil {
			return fmt.Errorf("upserting record %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// Query scans the whole collection and returns the closest records.
func (s *vectorStore) Query(ctx context.Context, name string, vector []float32, limit int) ([]domain.ScoredChunk, error) {
	dim, err := s.dimension(ctx, s.store.db, name)
	if err != nil {
		return nil, err
	}
	if len(vector) != dim {
		return nil, fmt.Errorf("%w: query has %d values, collection %q expects %d",
			domain.ErrDimensionMismatch, len(vector), name, dim)
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, vector, text, title, source_document, ordinal
		FROM vector_records WHERE collection = ?
	`, name)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", name, err)
	}
	defer rows.Close()

	var hits []scoring.Hit
	for rows.Next() {
		var id int64
		var blob []byte
		var chunk domain.Chunk
		if err := rows.Scan(&id, &blob, &chunk.Text, &chunk.Title, &chunk.SourceDocument, &chunk.Ordinal); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		hits = append(hits, scoring.Hit{
			ID:    uint64(id),
			Score: scoring.Cosine(vector, bytesToFloat32Slice(blob)),
			Chunk: chunk,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return scoring.Rank(hits, limit), nil
}

// DeleteCollection removes the collection and its records.
// Deleting a missing collection is not an error.
func (s *vectorStore) DeleteCollection(ctx context.Context, name string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM vector_records WHERE collection = ?", name); err != nil {
		return fmt.Errorf("deleting records of %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}
	return tx.Commit()
}

// Close is a no-op; the owning Store closes the database.
func (s *vectorStore) Close() error {
	return nil
}

func (s *vectorStore) dimension(ctx context.Context, q querier, name string) (int, error) {
	var dim int
	err := q.QueryRowContext(ctx, "SELECT dimension FROM collections WHERE name = ?", name).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", domain.ErrCollectionNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("looking up collection %q: %w", name, err)
	}
	return dim, nil
}
