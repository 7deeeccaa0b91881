package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driving"
	"github.com/alexuwunya/pravo-bot/internal/logger"
	"github.com/alexuwunya/pravo-bot/internal/postprocessors/chunker"
)

// Ensure RAGEngine implements the interface.
var _ driving.RAGEngine = (*RAGEngine)(nil)

// DocumentChunker splits a document into retrievable chunks.
type DocumentChunker interface {
	Build(text, documentName string) ([]domain.Chunk, error)
}

// DocumentValidator decides whether text may be indexed as a document.
type DocumentValidator interface {
	Validate(text string, doc domain.LegalDocument) error
}

// EngineDeps are the collaborators a RAG engine needs. Encoder and
// VectorStore are shared by every engine. Chunker and Validator default to the
// structural chunker and the built-in validator; Prompts defaults to the
// built-in prompts.
type EngineDeps struct {
	Encoder     driven.Encoder
	VectorStore driven.VectorStore
	LLM         driven.LLMService
	Chunker     DocumentChunker
	Validator   DocumentValidator
	Prompts     driven.PromptStore
}

// RAGEngine answers questions about one legal document from its own collection.
type RAGEngine struct {
	doc      domain.LegalDocument
	source   driven.DocumentSource
	deps     EngineDeps
	settings domain.RAGSettings

	// mu serialises initialisation and rebuilds.
	mu sync.Mutex

	stateMu sync.RWMutex
	state   domain.EngineState
	lastErr error
	chunks  int
	readyAt time.Time
}

// NewRAGEngine creates an engine in the Uninitialized state. No work is done
// until the first question or WarmUp.
func NewRAGEngine(
	doc domain.LegalDocument,
	source driven.DocumentSource,
	deps EngineDeps,
	settings domain.RAGSettings,
) *RAGEngine {
	if deps.Chunker == nil {
		deps.Chunker = chunker.New(chunker.WithMaxChunkChars(settings.MaxChunkChars))
	}
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}

	defaults := domain.DefaultRAGSettings()
	if settings.TopK <= 0 {
		settings.TopK = defaults.TopK
	}
	if settings.DisplayCap <= 3 {
		settings.DisplayCap = defaults.DisplayCap
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = defaults.MaxTokens
	}
	if settings.LLMTimeout <= 0 {
		settings.LLMTimeout = defaults.LLMTimeout
	}

	return &RAGEngine{
		doc:      doc,
		source:   source,
		deps:     deps,
		settings: settings,
	}
}

// Document returns the identity this engine serves.
func (e *RAGEngine) Document() domain.LegalDocument {
	return e.doc
}

// State returns the current lifecycle state without waiting for a build.
func (e *RAGEngine) State() domain.EngineState {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.state
}

// Status reports the engine state. For a ready engine the chunk count is
// read from the collection.
func (e *RAGEngine) Status(ctx context.Context) domain.EngineStatus {
	e.stateMu.RLock()
	status := domain.EngineStatus{
		Document: e.doc,
		State:    e.state,
		Chunks:   e.chunks,
		ReadyAt:  e.readyAt,
	}
	if e.lastErr != nil {
		status.LastError = e.lastErr.Error()
	}
	e.stateMu.RUnlock()

	if status.State == domain.EngineReady {
		if count, err := e.deps.VectorStore.Count(ctx, e.doc.Collection); err == nil {
			status.Chunks = count
		}
	}
	return status
}

// WarmUp drives the engine to Ready. Callers arriving during a build wait
// for it and share its outcome.
func (e *RAGEngine) WarmUp(ctx context.Context) error {
	if e.State() == domain.EngineReady {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stateMu.RLock()
	state, lastErr := e.state, e.lastErr
	e.stateMu.RUnlock()

	switch state {
	case domain.EngineReady:
		return nil
	case domain.EngineFailed:
		if !e.settings.RetryFailedInit {
			return fmt.Errorf("%w: %w", domain.ErrEngineFailed, lastErr)
		}
		logger.Debug("%s: retrying failed initialisation", e.doc.ID)
	}

	return e.initialise(ctx, false)
}

// Rebuild re-reads the source and replaces the collection. The old
// collection is only dropped once the new records are encoded, so a failed
// or cancelled rebuild of a Ready engine keeps answering from the old index.
// It also recovers a Failed engine.
func (e *RAGEngine) Rebuild(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialise(ctx, true)
}

// initialise must be called with e.mu held.
func (e *RAGEngine) initialise(ctx context.Context, rebuild bool) error {
	logger.Section("Index: " + e.doc.Name)
	start := time.Now()

	e.stateMu.Lock()
	previous := e.state
	e.state = domain.EngineInitializing
	e.stateMu.Unlock()

	count, mutated, err := e.build(ctx, rebuild)
	if err != nil {
		switch {
		case mutated && ctx.Err() != nil:
			// The collection may be half written; the next WarmUp checks it again.
			e.setState(domain.EngineUninitialized, nil, 0)
			return fmt.Errorf("%s: %w", e.doc.ID, err)
		case ctx.Err() != nil:
			e.restoreState(previous)
			return fmt.Errorf("%s: %w", e.doc.ID, err)
		case !mutated && previous == domain.EngineReady:
			logger.Warn("%s: rebuild failed, keeping the current index: %v", e.doc.ID, err)
			e.restoreState(previous)
			return err
		}
		logger.Warn("%s: initialisation failed: %v", e.doc.ID, err)
		e.setState(domain.EngineFailed, err, 0)
		return err
	}

	e.setState(domain.EngineReady, nil, count)
	logger.Debug("%s: ready with %d chunks in %v", e.doc.ID, count, time.Since(start))
	return nil
}

// build indexes the document. The bool reports whether the collection was
// touched before the error.
func (e *RAGEngine) build(ctx context.Context, rebuild bool) (int, bool, error) {
	collection := e.doc.Collection

	text, err := e.loadText(ctx)
	if err != nil {
		return 0, false, err
	}
	logger.Debug("%s: loaded %d characters", e.doc.ID, len([]rune(text)))

	if err := e.deps.Validator.Validate(text, e.doc); err != nil {
		return 0, false, err
	}

	exists, err := e.deps.VectorStore.CollectionExists(ctx, collection)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w: %w", domain.ErrIndexBuildFailed, domain.ErrVectorIndexUnavailable, err)
	}
	if exists && !rebuild {
		count, reusable, err := e.reusable(ctx)
		if err != nil {
			return 0, false, err
		}
		if reusable {
			logger.Debug("%s: reusing collection %q with %d records", e.doc.ID, collection, count)
			return count, false, nil
		}
	}

	chunks, err := e.deps.Chunker.Build(text, e.doc.Name)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, err)
	}
	logger.Debug("%s: %d chunks", e.doc.ID, len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := e.deps.Encoder.Encode(ctx, texts, false)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, err)
	}
	if len(vectors) != len(chunks) || len(vectors) == 0 || len(vectors[0]) == 0 {
		return 0, false, fmt.Errorf("%w: encoder returned %d vectors for %d chunks",
			domain.ErrIndexBuildFailed, len(vectors), len(chunks))
	}

	if exists {
		if err := e.deps.VectorStore.DeleteCollection(ctx, collection); err != nil {
			return 0, true, fmt.Errorf("%w: delete collection %q: %w", domain.ErrIndexBuildFailed, collection, err)
		}
	}
	if err := e.deps.VectorStore.CreateCollection(ctx, collection, len(vectors[0]), domain.DistanceCosine); err != nil {
		return 0, true, fmt.Errorf("%w: create collection %q: %w", domain.ErrIndexBuildFailed, collection, err)
	}

	records := make([]domain.VectorRecord, len(chunks))
	for i, c := range chunks {
		records[i] = domain.VectorRecord{ID: uint64(i), Vector: vectors[i], Payload: c}
	}
	if err := e.deps.VectorStore.Upsert(ctx, collection, records); err != nil {
		return 0, true, fmt.Errorf("%w: upsert into %q: %w", domain.ErrIndexBuildFailed, collection, err)
	}

	return len(records), true, nil
}

// reusable reports whether the existing collection has records of the
// encoder's dimension.
func (e *RAGEngine) reusable(ctx context.Context) (int, bool, error) {
	collection := e.doc.Collection

	count, err := e.deps.VectorStore.Count(ctx, collection)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w: %w", domain.ErrIndexBuildFailed, domain.ErrVectorIndexUnavailable, err)
	}
	if count == 0 {
		logger.Debug("%s: collection %q is empty, rebuilding", e.doc.ID, collection)
		return 0, false, nil
	}

	stored, err := e.deps.VectorStore.Dimension(ctx, collection)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w: %w", domain.ErrIndexBuildFailed, domain.ErrVectorIndexUnavailable, err)
	}
	want, err := e.encoderDimension(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, err)
	}
	if stored != want {
		logger.Warn("%s: collection %q has %d dimensions, encoder produces %d, re-embedding",
			e.doc.ID, collection, stored, want)
		return 0, false, nil
	}
	return count, true, nil
}

// encoderDimension asks the encoder for its vector size, encoding the
// document name when the model is not loaded yet.
func (e *RAGEngine) encoderDimension(ctx context.Context) (int, error) {
	if dim := e.deps.Encoder.Dimensions(); dim > 0 {
		return dim, nil
	}
	vectors, err := e.deps.Encoder.Encode(ctx, []string{e.doc.Name}, true)
	if err != nil {
		return 0, err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return 0, fmt.Errorf("%w: encoder returned no vector", domain.ErrEmbeddingUnavailable)
	}
	return len(vectors[0]), nil
}

func (e *RAGEngine) loadText(ctx context.Context) (string, error) {
	if e.source == nil {
		return "", fmt.Errorf("%w: no source for %s", domain.ErrSourceUnavailable, e.doc.ID)
	}

	loaded, err := e.source.IsLoaded(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	if !loaded {
		logger.Debug("%s: no cached text, fetching from source", e.doc.ID)
		if _, err := e.source.UpdateFromSource(ctx); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
	}

	text, err := e.source.GetText(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s has no text", domain.ErrSourceUnavailable, e.doc.ID)
	}
	return text, nil
}

// restoreState puts back a state without touching the error or counters.
func (e *RAGEngine) restoreState(state domain.EngineState) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.state = state
}

func (e *RAGEngine) setState(state domain.EngineState, err error, chunks int) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.state = state
	e.lastErr = err
	e.chunks = chunks
	if state == domain.EngineReady {
		e.readyAt = time.Now()
	}
}

// Ask answers a question from this engine's collection only.
func (e *RAGEngine) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	if err := e.WarmUp(ctx); err != nil {
		return nil, err
	}

	hits, err := e.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrRetrievalEmpty, e.doc.ID)
	}

	text, err := e.generate(ctx, question, hits)
	if err != nil {
		return nil, err
	}

	answer := &domain.Answer{Text: text, Sources: hits}
	answer.Text, answer.Truncated = Truncate(text, e.settings.DisplayCap)
	return answer, nil
}

func (e *RAGEngine) retrieve(ctx context.Context, question string) ([]domain.ScoredChunk, error) {
	vectors, err := e.deps.Encoder.Encode(ctx, []string{question}, true)
	if err != nil {
		return nil, fmt.Errorf("encode question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: encoder returned %d vectors for a question",
			domain.ErrEmbeddingUnavailable, len(vectors))
	}

	hits, err := e.deps.VectorStore.Query(ctx, e.doc.Collection, vectors[0], e.settings.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: query %q: %w", domain.ErrVectorIndexUnavailable, e.doc.Collection, err)
	}

	if e.settings.MinScore > 0 {
		kept := hits[:0]
		for _, h := range hits {
			if h.Score >= e.settings.MinScore {
				kept = append(kept, h)
			}
		}
		hits = kept
	}

	logger.Debug("%s: %d hits for %q", e.doc.ID, len(hits), question)
	return hits, nil
}

func (e *RAGEngine) generate(ctx context.Context, question string, hits []domain.ScoredChunk) (string, error) {
	if e.deps.LLM == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, domain.ErrLLMUnavailable)
	}

	system := fmt.Sprintf(e.prompt(driven.PromptAnswerSystem, domain.DefaultAnswerSystemPrompt),
		e.doc.Name, domain.RefusalAnswer)
	user := fmt.Sprintf(e.prompt(driven.PromptAnswerUser, domain.DefaultAnswerUserPrompt),
		e.doc.Name, BuildContext(hits), question)

	llmCtx, cancel := context.WithTimeout(ctx, e.settings.LLMTimeout)
	defer cancel()

	start := time.Now()
	text, err := e.deps.LLM.Chat(llmCtx, []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, driven.ChatOptions{
		MaxTokens:   e.settings.MaxTokens,
		Temperature: e.settings.Temperature,
	})
	if err != nil {
		logger.Warn("%s: generation failed: %v", e.doc.ID, err)
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	logger.Debug("%s: answer generated in %v", e.doc.ID, time.Since(start))

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty answer", domain.ErrGenerationFailed)
	}
	return text, nil
}

func (e *RAGEngine) prompt(name, fallback string) string {
	if e.deps.Prompts == nil {
		return fallback
	}
	prompt, err := e.deps.Prompts.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// AnswerQuestion answers a question and maps every failure to a fixed message.
func (e *RAGEngine) AnswerQuestion(ctx context.Context, question string) string {
	answer, err := e.Ask(ctx, question)
	if err != nil {
		return FailureMessage(err)
	}
	return answer.Text
}

// FailureMessage maps an Ask error to the message shown to a chat user.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return domain.MessageEmptyQuestion
	case errors.Is(err, domain.ErrRetrievalEmpty):
		return domain.MessageNoRelevantInfo
	case errors.Is(err, domain.ErrGenerationFailed):
		return domain.MessageGenerationFailed
	default:
		return domain.MessageUnavailable
	}
}

// BuildContext renders hits as numbered context entries separated by blank
// lines. A chunk text that repeats its title is rendered without it.
func BuildContext(hits []domain.ScoredChunk) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		body := strings.TrimSpace(strings.TrimPrefix(h.Chunk.Text, h.Chunk.Title))
		parts[i] = fmt.Sprintf("[Документ %d] %s: %s", i+1, h.Chunk.Title, body)
	}
	return strings.Join(parts, "\n\n")
}

// Truncate cuts text to limit runes, replacing the tail with "...".
// Reports whether the text was cut.
func Truncate(text string, limit int) (string, bool) {
	runes := []rune(text)
	if limit <= 3 || len(runes) <= limit {
		return text, false
	}
	return string(runes[:limit-3]) + "...", true
}
