package mcp

import (
	"context"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

// mockEngine is a mock implementation of driving.RAGEngine.
type mockEngine struct {
	doc      domain.LegalDocument
	state    domain.EngineState
	chunks   int
	answer   *domain.Answer
	err      error
	question string
}

func newMockEngine(id string) *mockEngine {
	doc, _ := domain.LookupDocument(id)
	return &mockEngine{doc: doc, state: domain.EngineReady, chunks: 3}
}

func (m *mockEngine) Document() domain.LegalDocument { return m.doc }

func (m *mockEngine) State() domain.EngineState { return m.state }

func (m *mockEngine) Status(_ context.Context) domain.EngineStatus {
	return domain.EngineStatus{Document: m.doc, State: m.state, Chunks: m.chunks}
}

func (m *mockEngine) WarmUp(_ context.Context) error { return m.err }

func (m *mockEngine) Rebuild(_ context.Context) error { return m.err }

func (m *mockEngine) Ask(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

func (m *mockEngine) AnswerQuestion(_ context.Context, _ string) string {
	if m.err != nil {
		return domain.MessageUnavailable
	}
	return m.answer.Text
}

// mockSource is a mock implementation of driven.DocumentSource.
type mockSource struct {
	doc  domain.LegalDocument
	text string
	err  error
}

func (m *mockSource) Document() domain.LegalDocument { return m.doc }

func (m *mockSource) IsLoaded(_ context.Context) (bool, error) { return m.text != "", m.err }

func (m *mockSource) GetText(_ context.Context) (string, error) { return m.text, m.err }

func (m *mockSource) UpdateFromSource(_ context.Context) (bool, error) { return false, m.err }
