package memory

import (
	"context"
	"sync"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
)

// Ensure TextStore implements the interface.
var _ driven.LegalTextStore = (*TextStore)(nil)

// TextStore is an in-memory implementation of driven.LegalTextStore.
type TextStore struct {
	mu    sync.RWMutex
	texts map[string]domain.DocumentText
}

// NewTextStore creates a new in-memory text store.
func NewTextStore() *TextStore {
	return &TextStore{
		texts: make(map[string]domain.DocumentText),
	}
}

// Get returns the cached text, or nil when nothing is cached.
func (s *TextStore) Get(_ context.Context, documentID string) (*domain.DocumentText, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.texts[documentID]
	if !ok {
		return nil, nil
	}
	return &text, nil
}

// Save replaces the cached text.
func (s *TextStore) Save(_ context.Context, text *domain.DocumentText) error {
	if text == nil || text.DocumentID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[text.DocumentID] = *text
	return nil
}

// Delete removes the cached text.
func (s *TextStore) Delete(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.texts, documentID)
	return nil
}
