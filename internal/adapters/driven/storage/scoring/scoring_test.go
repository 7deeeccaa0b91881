package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 1}, []float32{-1, -1}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 0}))
}

func TestRank(t *testing.T) {
	hits := []Hit{
		{ID: 3, Score: 0.5, Chunk: domain.Chunk{Title: "c"}},
		{ID: 1, Score: 0.9, Chunk: domain.Chunk{Title: "a"}},
		{ID: 2, Score: 0.5, Chunk: domain.Chunk{Title: "b"}},
		{ID: 0, Score: 0.1, Chunk: domain.Chunk{Title: "d"}},
	}

	got := Rank(hits, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Chunk.Title)
	assert.Equal(t, "b", got[1].Chunk.Title, "ties break by ascending id")
	assert.Equal(t, "c", got[2].Chunk.Title)

	assert.Nil(t, Rank(hits, 0))
	assert.Nil(t, Rank(nil, 5))
	assert.Len(t, Rank(hits, 10), 4)
}
