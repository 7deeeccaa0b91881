package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
)

// textStore implements driven.LegalTextStore.
type textStore struct {
	store *Store
}

var _ driven.LegalTextStore = (*textStore)(nil)

// Get returns the cached text, or nil and no error when nothing is cached.
func (s *textStore) Get(ctx context.Context, documentID string) (*domain.DocumentText, error) {
	var text domain.DocumentText
	var sourceURL sql.NullString
	var updatedAt string

	err := s.store.db.QueryRowContext(ctx, `
		SELECT document_id, text, source_url, updated_at
		FROM legal_texts WHERE document_id = ?
	`, documentID).Scan(&text.DocumentID, &text.Text, &sourceURL, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying legal text: %w", err)
	}

	text.SourceURL = sourceURL.String
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		text.UpdatedAt = t
	}
	return &text, nil
}

// Save replaces the cached text for the document.
func (s *textStore) Save(ctx context.Context, text *domain.DocumentText) error {
	if text == nil || text.DocumentID == "" {
		return domain.ErrInvalidInput
	}

	updatedAt := text.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO legal_texts (document_id, text, source_url, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			text = excluded.text,
			source_url = excluded.source_url,
			updated_at = excluded.updated_at
	`, text.DocumentID, text.Text, nullString(text.SourceURL), updatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving legal text: %w", err)
	}
	return nil
}

// Delete removes the cached text.
func (s *textStore) Delete(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM legal_texts WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting legal text: %w", err)
	}
	return nil
}
