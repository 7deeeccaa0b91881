package services

import (
	"context"
	"fmt"
	"time"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// Ensure CachedSource implements the interface.
var _ driven.DocumentSource = (*CachedSource)(nil)

// CachedSource serves one document's text from the local cache and
// refreshes it from the fetcher on demand.
type CachedSource struct {
	doc       domain.LegalDocument
	fetcher   driven.DocumentFetcher
	store     driven.LegalTextStore
	validator DocumentValidator
}

// NewCachedSource creates a source. A nil validator uses the built-in one.
func NewCachedSource(
	doc domain.LegalDocument,
	fetcher driven.DocumentFetcher,
	store driven.LegalTextStore,
	validator DocumentValidator,
) *CachedSource {
	if validator == nil {
		validator = NewValidator()
	}
	return &CachedSource{doc: doc, fetcher: fetcher, store: store, validator: validator}
}

// Document returns the identity this source serves.
func (s *CachedSource) Document() domain.LegalDocument {
	return s.doc
}

// IsLoaded reports whether text is cached.
func (s *CachedSource) IsLoaded(ctx context.Context) (bool, error) {
	text, err := s.store.Get(ctx, s.doc.ID)
	if err != nil {
		return false, fmt.Errorf("get cached text: %w", err)
	}
	return text != nil && text.Text != "", nil
}

// GetText returns the cached text, empty when nothing is cached.
func (s *CachedSource) GetText(ctx context.Context) (string, error) {
	text, err := s.store.Get(ctx, s.doc.ID)
	if err != nil {
		return "", fmt.Errorf("get cached text: %w", err)
	}
	if text == nil {
		return "", nil
	}
	return text.Text, nil
}

// UpdateFromSource fetches the document and caches it when it passes
// validation. Text that fails validation never replaces the cache.
func (s *CachedSource) UpdateFromSource(ctx context.Context) (bool, error) {
	if s.fetcher == nil {
		return false, fmt.Errorf("%w: no fetcher for %s", domain.ErrSourceUnavailable, s.doc.ID)
	}

	fetched, err := s.fetcher.Fetch(ctx, s.doc)
	if err != nil {
		return false, fmt.Errorf("fetch %s: %w", s.doc.ID, err)
	}
	if fetched == nil {
		return false, fmt.Errorf("%w: fetcher returned nothing for %s", domain.ErrSourceUnavailable, s.doc.ID)
	}
	if err := s.validator.Validate(fetched.Text, s.doc); err != nil {
		return false, err
	}

	current, err := s.GetText(ctx)
	if err != nil {
		return false, err
	}
	if current == fetched.Text {
		logger.Debug("%s: source text unchanged", s.doc.ID)
		return false, nil
	}

	sourceURL := fetched.SourceURL
	if sourceURL == "" {
		sourceURL = s.doc.SourceURL
	}
	err = s.store.Save(ctx, &domain.DocumentText{
		DocumentID: s.doc.ID,
		Text:       fetched.Text,
		SourceURL:  sourceURL,
		UpdatedAt:  time.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("save text for %s: %w", s.doc.ID, err)
	}

	logger.Info("%s: cached %d characters from %s", s.doc.ID, len([]rune(fetched.Text)), sourceURL)
	return true, nil
}
