package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
)

// --- Mock implementations shared by the RAG tests ---

const constitutionText = `Конституция Республики Беларусь
Раздел I Основы конституционного строя
Статья 1. Республика Беларусь - унитарное демократическое социальное правовое государство.
Статья 2. Человек, его права, свободы и гарантии их реализации являются высшей ценностью и целью общества.
Статья 3. Единственным источником государственной власти и носителем суверенитета является народ.
`

const childRightsText = `Закон О правах ребенка
Глава 1 Общие положения
Статья 1. Ребенком является каждое физическое лицо до достижения им восемнадцати лет.
Статья 2. Каждый ребенок имеет право на жизнь в семье и на заботу родителей.
Статья 3. Государство защищает права несовершеннолетних граждан.
`

func testDocument(t interface{ Fatalf(string, ...any) }, id string) domain.LegalDocument {
	doc, ok := domain.LookupDocument(id)
	if !ok {
		t.Fatalf("unknown document %q", id)
	}
	return doc
}

// mockEncoder embeds text as keyword counts over a fixed vocabulary, so
// similarity is predictable in tests.
type mockEncoder struct {
	vocabulary   []string
	passageCalls atomic.Int32
	queryCalls   atomic.Int32
	err          error
}

func newMockEncoder() *mockEncoder {
	return &mockEncoder{
		vocabulary: []string{"власт", "народ", "свобод", "ребен", "семь", "восемнадцат", "государств"},
	}
}

func (m *mockEncoder) Encode(_ context.Context, texts []string, asQuery bool) ([][]float32, error) {
	if asQuery {
		m.queryCalls.Add(1)
	} else {
		m.passageCalls.Add(1)
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		vec := make([]float32, len(m.vocabulary))
		for j, word := range m.vocabulary {
			vec[j] = float32(strings.Count(lower, word))
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEncoder) Dimensions() int {
	return len(m.vocabulary)
}

// mockLLM records chat requests and returns a canned answer.
type mockLLM struct {
	mu       sync.Mutex
	calls    int
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	answer   string
	err      error
	block    bool
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return m.Chat(ctx, []driven.ChatMessage{{Role: "user", Content: prompt}}, driven.ChatOptions{})
}

func (m *mockLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.messages = messages
	m.opts = opts
	block, answer, err := m.block, m.answer, m.err
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return answer, err
}

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockLLM) ModelName() string           { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockSource serves fixed text for one document.
type mockSource struct {
	doc domain.LegalDocument

	mu          sync.Mutex
	text        string
	loaded      bool
	fetchText   string
	fetchErr    error
	getErr      error
	fetches     int
	gets        int
}

func (m *mockSource) Document() domain.LegalDocument {
	return m.doc
}

func (m *mockSource) IsLoaded(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded, nil
}

func (m *mockSource) GetText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.text, nil
}

func (m *mockSource) UpdateFromSource(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.fetchErr != nil {
		return false, m.fetchErr
	}
	changed := m.text != m.fetchText
	m.text = m.fetchText
	m.loaded = true
	return changed, nil
}

func (m *mockSource) setText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.fetchText = text
	m.loaded = true
}

func (m *mockSource) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

func loadedSource(doc domain.LegalDocument, text string) *mockSource {
	return &mockSource{doc: doc, text: text, fetchText: text, loaded: true}
}

// mockFetcher returns canned text for any document.
type mockFetcher struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (m *mockFetcher) Fetch(_ context.Context, doc domain.LegalDocument) (*domain.DocumentText, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &domain.DocumentText{DocumentID: doc.ID, Text: m.text, SourceURL: doc.SourceURL}, nil
}

var errBoom = errors.New("boom")
