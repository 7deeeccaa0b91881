package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown provider or document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding model could not be loaded.
	// Every RAG capability is disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector store is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// RAG pipeline errors.

	// ErrSourceUnavailable indicates the document fetch failed or returned unusable content.
	// No index mutation happens.
	ErrSourceUnavailable = errors.New("document source unavailable")

	// ErrValidationFailed indicates fetched content failed identity or sanity checks.
	ErrValidationFailed = errors.New("document validation failed")

	// ErrIndexBuildFailed indicates embedding or vector store work failed during initialisation.
	ErrIndexBuildFailed = errors.New("index build failed")

	// ErrRetrievalEmpty indicates a query legitimately found nothing to answer from.
	ErrRetrievalEmpty = errors.New("no relevant chunks retrieved")

	// ErrGenerationFailed indicates the language model call failed or timed out.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrEngineFailed indicates the engine is in the Failed state and will not retry on its own.
	ErrEngineFailed = errors.New("engine failed")

	// ErrNoChunks indicates a document produced zero retrievable chunks.
	ErrNoChunks = errors.New("document produced no chunks")

	// Vector store errors.

	// ErrCollectionNotFound indicates the named collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrDimensionMismatch indicates a vector length differs from the collection dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// Dispatch errors.

	// ErrUnknownDocument indicates no document is registered under the given id.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrUnknownTrigger indicates no search engine is bound to the given trigger.
	ErrUnknownTrigger = errors.New("unknown trigger")
)
