package driving

import (
	"context"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

// SearchEngine binds one RAG engine to one chat trigger.
type SearchEngine interface {
	// Trigger returns the chat trigger id.
	Trigger() string

	// Document returns the document behind the trigger.
	Document() domain.LegalDocument

	// OnTrigger puts the session into awaiting-question mode and returns the prompt to show.
	OnTrigger(session *domain.Session) string

	// OnMessage answers the question, records it on the session and returns
	// the display text.
	OnMessage(ctx context.Context, session *domain.Session, text string) string
}

// Dispatcher multiplexes search engines behind one chat surface.
type Dispatcher interface {
	// Engines lists registered search engines in registration order.
	Engines() []SearchEngine

	// HandleTrigger routes a trigger to its engine.
	HandleTrigger(sessionID, trigger string) (string, error)

	// HandleMessage routes free text to the engine the session awaits.
	// Returns false when the session is not awaiting a question.
	HandleMessage(ctx context.Context, sessionID, text string) (string, bool)

	// Session returns a copy of the session state.
	Session(sessionID string) (domain.Session, bool)

	// Reset clears the session (navigation away from search).
	Reset(sessionID string)
}

// RefreshService re-scrapes documents and rebuilds their indexes.
type RefreshService interface {
	// Refresh updates one document. Returns true when its text changed
	// and the index was rebuilt.
	Refresh(ctx context.Context, documentID string) (bool, error)

	// RefreshAll updates every document and returns how many changed.
	RefreshAll(ctx context.Context) (int, error)
}
