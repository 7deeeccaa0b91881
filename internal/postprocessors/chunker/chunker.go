// Package chunker splits legal texts into titled structural chunks.
package chunker

import (
	"iter"
	"regexp"
	"slices"
	"strings"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

// DefaultMaxChunkChars bounds the text of one chunk.
const DefaultMaxChunkChars = 3000

// DefaultFallbackChars bounds the single chunk used when structure is missing.
const DefaultFallbackChars = 3000

// markerPattern matches article, chapter and section headings in English and Russian.
var markerPattern = regexp.MustCompile(
	`(?i)(?:article|статья)\s+\d+\.?|(?:chapter|глава)\s+\d+|(?:section|раздел)\s+[IVXLCDM]+\b`,
)

// Chunker splits document text on structural markers.
// It holds no resources and is safe for concurrent use.
type Chunker struct {
	maxChunkChars int
	fallbackChars int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChunkChars sets the per-chunk character cap.
func WithMaxChunkChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChunkChars = n
		}
	}
}

// WithFallbackChars sets the size of the fallback chunk.
func WithFallbackChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.fallbackChars = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxChunkChars: DefaultMaxChunkChars,
		fallbackChars: DefaultFallbackChars,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the chunker name.
func (c *Chunker) Name() string {
	return "legal-structure"
}

// All yields the chunks of text in document order. The sequence is lazy and
// may be iterated more than once.
func (c *Chunker) All(text, documentName string) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		header := normalizeSpace(documentName)
		if header == "" {
			header = "document"
		}
		ordinal := 0
		for segment, isMarker := range segments(text) {
			if isMarker {
				header = normalizeSpace(segment)
				continue
			}
			body := strings.TrimSpace(segment)
			if body == "" {
				continue
			}
			chunk := domain.Chunk{
				Text:           truncateRunes(header+"\n"+body, c.maxChunkChars),
				Title:          header,
				SourceDocument: documentName,
				Ordinal:        ordinal,
			}
			ordinal++
			if !yield(chunk) {
				return
			}
		}
	}
}

// Chunk returns the chunks of text in document order.
func (c *Chunker) Chunk(text, documentName string) []domain.Chunk {
	return slices.Collect(c.All(text, documentName))
}

// Fallback returns one chunk covering the beginning of text.
func (c *Chunker) Fallback(text, documentName string) domain.Chunk {
	title := normalizeSpace(documentName)
	if title == "" {
		title = "document"
	}
	return domain.Chunk{
		Text:           truncateRunes(strings.TrimSpace(text), c.fallbackChars),
		Title:          title,
		SourceDocument: documentName,
	}
}

// Build chunks text for indexing. When structure yields at most one chunk the
// single fallback chunk is used instead. Blank text is an error.
func (c *Chunker) Build(text, documentName string) ([]domain.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrNoChunks
	}
	chunks := c.Chunk(text, documentName)
	if len(chunks) <= 1 {
		return []domain.Chunk{c.Fallback(text, documentName)}, nil
	}
	return chunks, nil
}

// segments splits text on markers, yielding each piece and whether it is a marker.
// Text without markers is yielded as one plain segment.
func segments(text string) iter.Seq2[string, bool] {
	return func(yield func(string, bool) bool) {
		prev := 0
		for _, loc := range markerPattern.FindAllStringIndex(text, -1) {
			if !yield(text[prev:loc[0]], false) {
				return
			}
			if !yield(text[loc[0]:loc[1]], true) {
				return
			}
			prev = loc[1]
		}
		yield(text[prev:], false)
	}
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
