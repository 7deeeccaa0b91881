package domain

// Chunk is a retrievable unit of a document.
// Chunks are derived, never mutated after creation.
type Chunk struct {
	// Text is the header line followed by the body.
	Text string

	// Title is the nearest enclosing structural heading, or the document name.
	// Never empty.
	Title string

	// SourceDocument is the name of the document the chunk came from.
	SourceDocument string

	// Ordinal is the position within the document, for traceability only.
	Ordinal int
}

// DistanceMetric is the similarity measure declared by a collection.
type DistanceMetric string

// Supported metrics.
const (
	DistanceCosine DistanceMetric = "cosine"
)

// VectorRecord is one entry of a collection.
type VectorRecord struct {
	ID      uint64
	Vector  []float32
	Payload Chunk
}

// ScoredChunk is a query hit.
type ScoredChunk struct {
	// Score is the cosine similarity, higher is closer.
	Score float64

	Chunk Chunk
}

// Answer is the explicit result of a successful question.
type Answer struct {
	// Text is the model answer after display truncation.
	Text string

	// Sources are the retrieved chunks the answer was conditioned on.
	Sources []ScoredChunk

	// Truncated reports whether Text was cut to the display cap.
	Truncated bool
}
