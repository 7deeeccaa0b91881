// Package hashing provides an offline embedding service based on signed
// feature hashing of word and stem features. It needs no model download and
// is deterministic, which makes it the default for local runs and tests.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = 1024
	DefaultStemLength = 5
)

// Config holds configuration for the hashing embedder.
type Config struct {
	// Dimensions is the vector size (default: 1024).
	Dimensions int

	// StemLength is the rune prefix added as an extra feature for longer
	// words, a crude stand-in for stemming inflected languages (default: 5).
	// Negative disables stems.
	StemLength int
}

// EmbeddingService embeds text by hashing its features into a fixed vector.
type EmbeddingService struct {
	dimensions int
	stemLength int
}

// NewEmbeddingService creates a hashing embedder.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.StemLength == 0 {
		cfg.StemLength = DefaultStemLength
	}
	return &EmbeddingService{
		dimensions: cfg.Dimensions,
		stemLength: cfg.StemLength,
	}
}

// Embed generates a vector for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, s.dimensions)
	for _, word := range Tokenize(text) {
		s.add(vec, "w:"+word, 1)
		if s.stemLength > 0 {
			runes := []rune(word)
			if len(runes) > s.stemLength {
				s.add(vec, "s:"+string(runes[:s.stemLength]), 0.5)
			}
		}
	}
	return vec, nil
}

// EmbedBatch generates vectors for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (s *EmbeddingService) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := sum % uint64(s.dimensions)
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return fmt.Sprintf("hashing-%d", s.dimensions)
}

// Ping always succeeds; there is nothing to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// Tokenize lower-cases text and splits it into letter/digit runs.
// "ё" is folded to "е" as Russian legal texts use both spellings.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ReplaceAll(strings.ToLower(text), "ё", "е"), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
