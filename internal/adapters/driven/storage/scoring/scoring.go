// Package scoring holds the similarity ranking shared by the vector stores.
package scoring

import (
	"cmp"
	"math"
	"slices"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

// Hit is a scored record before it is returned to the caller.
type Hit struct {
	ID    uint64
	Score float64
	Chunk domain.Chunk
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a
// zero vector. Both must have the same length.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Rank orders hits by descending score, ties by ascending id, and keeps the
// first limit of them.
func Rank(hits []Hit, limit int) []domain.ScoredChunk {
	if limit <= 0 || len(hits) == 0 {
		return nil
	}

	slices.SortFunc(hits, func(a, b Hit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	hits = hits[:min(limit, len(hits))]
	out := make([]domain.ScoredChunk, len(hits))
	for i, h := range hits {
		out[i] = domain.ScoredChunk{Score: h.Score, Chunk: h.Chunk}
	}
	return out
}
