package driven

import (
	"context"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

// DocumentFetcher scrapes a document's current text from its source site.
type DocumentFetcher interface {
	// Fetch downloads and extracts the plain text of doc.
	Fetch(ctx context.Context, doc domain.LegalDocument) (*domain.DocumentText, error)
}

// LegalTextStore caches raw document text between runs.
type LegalTextStore interface {
	// Get returns the cached text. Returns nil and no error when nothing is cached.
	Get(ctx context.Context, documentID string) (*domain.DocumentText, error)

	// Save replaces the cached text for text.DocumentID.
	Save(ctx context.Context, text *domain.DocumentText) error

	// Delete removes the cached text.
	Delete(ctx context.Context, documentID string) error
}

// DocumentSource gives one document identity cache-backed access to its text.
type DocumentSource interface {
	// Document returns the identity this source serves.
	Document() domain.LegalDocument

	// IsLoaded reports whether text is cached.
	IsLoaded(ctx context.Context) (bool, error)

	// GetText returns the cached text, empty when nothing is cached.
	GetText(ctx context.Context) (string, error)

	// UpdateFromSource fetches fresh text and caches it.
	// Returns true when the cached text changed.
	UpdateFromSource(ctx context.Context) (bool, error)
}
