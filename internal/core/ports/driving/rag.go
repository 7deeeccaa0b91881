package driving

import (
	"context"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

// RAGEngine answers questions about exactly one legal document.
type RAGEngine interface {
	// Document returns the identity this engine serves.
	Document() domain.LegalDocument

	// State returns the current lifecycle state.
	State() domain.EngineState

	// Status reports state, collection size and the last failure.
	Status(ctx context.Context) domain.EngineStatus

	// WarmUp drives the engine to Ready. Concurrent callers share one build.
	WarmUp(ctx context.Context) error

	// Rebuild re-reads the source and replaces the collection once the new
	// records are encoded.
	Rebuild(ctx context.Context) error

	// Ask answers a question, returning a typed error for every failure kind.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// AnswerQuestion answers a question and never fails: failures become
	// fixed user-facing messages.
	AnswerQuestion(ctx context.Context, question string) string
}
