package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/embedding"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/embedding/hashing"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/storage/memory"
	"github.com/alexuwunya/pravo-bot/internal/postprocessors/chunker"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
)

type ragFixture struct {
	encoder *mockEncoder
	vectors *memory.VectorStore
	llm     *mockLLM
}

func newRAGFixture() *ragFixture {
	return &ragFixture{
		encoder: newMockEncoder(),
		vectors: memory.NewVectorStore(),
		llm:     &mockLLM{answer: "Ответ по статье 3."},
	}
}

func (f *ragFixture) deps() EngineDeps {
	return EngineDeps{Encoder: f.encoder, VectorStore: f.vectors, LLM: f.llm}
}

func (f *ragFixture) engine(source *mockSource, settings domain.RAGSettings) *RAGEngine {
	return NewRAGEngine(source.doc, source, f.deps(), settings)
}

func TestRAGEngine_NewIsUninitialized(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	engine := f.engine(loadedSource(doc, constitutionText), domain.DefaultRAGSettings())

	assert.Equal(t, domain.EngineUninitialized, engine.State())
	assert.Equal(t, doc, engine.Document())
	assert.Equal(t, int32(0), f.encoder.passageCalls.Load())
}

func TestRAGEngine_AnswersFromContext(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	engine := f.engine(loadedSource(doc, constitutionText), domain.DefaultRAGSettings())

	answer, err := engine.Ask(context.Background(), "  Кто является источником государственной власти?  ")
	require.NoError(t, err)

	assert.Equal(t, "Ответ по статье 3.", answer.Text)
	assert.False(t, answer.Truncated)
	require.NotEmpty(t, answer.Sources)
	assert.Contains(t, answer.Sources[0].Chunk.Text, "источником государственной власти")
	assert.Equal(t, domain.EngineReady, engine.State())

	require.Equal(t, 1, f.llm.callCount())
	require.Len(t, f.llm.messages, 2)
	system, user := f.llm.messages[0], f.llm.messages[1]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, doc.Name)
	assert.Contains(t, system.Content, domain.RefusalAnswer)
	assert.Equal(t, "user", user.Role)
	assert.Contains(t, user.Content, "[Документ 1]")
	assert.Contains(t, user.Content, "Вопрос: Кто является источником государственной власти?")
	assert.Equal(t, 1024, f.llm.opts.MaxTokens)
}

func TestRAGEngine_InitialisesAtMostOnce(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	engine := f.engine(loadedSource(doc, constitutionText), domain.DefaultRAGSettings())

	const callers = 16
	var wg sync.WaitGroup
	answers := make([]string, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			answers[i] = engine.AnswerQuestion(context.Background(), "Что является высшей ценностью?")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.encoder.passageCalls.Load())
	assert.Equal(t, int32(callers), f.encoder.queryCalls.Load())
	for _, a := range answers {
		assert.Equal(t, "Ответ по статье 3.", a)
	}
}

func TestRAGEngine_FetchesWhenNothingCached(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	source := &mockSource{doc: doc, fetchText: constitutionText}
	engine := f.engine(source, domain.DefaultRAGSettings())

	require.NoError(t, engine.WarmUp(context.Background()))
	assert.Equal(t, 1, source.fetchCount())

	status := engine.Status(context.Background())
	assert.Equal(t, domain.EngineReady, status.State)
	assert.Positive(t, status.Chunks)
	assert.False(t, status.ReadyAt.IsZero())
	assert.Empty(t, status.LastError)
}

func TestRAGEngine_ReusesExistingCollection(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	source := loadedSource(doc, constitutionText)

	require.NoError(t, f.engine(source, domain.DefaultRAGSettings()).WarmUp(context.Background()))
	require.Equal(t, int32(1), f.encoder.passageCalls.Load())

	restarted := f.engine(source, domain.DefaultRAGSettings())
	require.NoError(t, restarted.WarmUp(context.Background()))

	assert.Equal(t, int32(1), f.encoder.passageCalls.Load(), "existing records are not re-encoded")
	assert.Equal(t, domain.EngineReady, restarted.State())
}

func TestRAGEngine_EmptyContextSkipsModel(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	settings := domain.DefaultRAGSettings()
	settings.MinScore = 0.5
	engine := f.engine(loadedSource(doc, constitutionText), settings)

	_, err := engine.Ask(context.Background(), "Какая погода завтра?")
	assert.ErrorIs(t, err, domain.ErrRetrievalEmpty)
	assert.Equal(t, domain.MessageNoRelevantInfo, engine.AnswerQuestion(context.Background(), "Какая погода завтра?"))
	assert.Equal(t, 0, f.llm.callCount())
}

func TestRAGEngine_EmptyQuestion(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	engine := f.engine(loadedSource(doc, constitutionText), domain.DefaultRAGSettings())

	_, err := engine.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.MessageEmptyQuestion, engine.AnswerQuestion(context.Background(), ""))
	assert.Equal(t, domain.EngineUninitialized, engine.State())
	assert.Equal(t, int32(0), f.encoder.passageCalls.Load())
}

func TestRAGEngine_DocumentIsolation(t *testing.T) {
	f := newRAGFixture()
	constitution := testDocument(t, domain.DocumentConstitution)
	childRights := testDocument(t, domain.DocumentChildRights)

	engineA := f.engine(loadedSource(constitution, constitutionText), domain.DefaultRAGSettings())
	engineB := f.engine(loadedSource(childRights, childRightsText), domain.DefaultRAGSettings())

	ctx := context.Background()
	answerB, err := engineB.Ask(ctx, "С какого возраста ребенок считается взрослым, восемнадцати лет?")
	require.NoError(t, err)
	answerA, err := engineA.Ask(ctx, "Кто такой ребенок?")
	require.NoError(t, err)

	for _, hit := range answerB.Sources {
		assert.Equal(t, childRights.Name, hit.Chunk.SourceDocument)
	}
	for _, hit := range answerA.Sources {
		assert.Equal(t, constitution.Name, hit.Chunk.SourceDocument)
	}
	assert.Contains(t, answerB.Sources[0].Chunk.Text, "восемнадцати")

	exists, err := f.vectors.CollectionExists(ctx, constitution.Collection)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = f.vectors.CollectionExists(ctx, childRights.Collection)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRAGEngine_ForeignTextFailsValidation(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	engine := f.engine(loadedSource(doc, childRightsText), domain.DefaultRAGSettings())

	got := engine.AnswerQuestion(context.Background(), "Какие права у ребенка?")

	assert.Equal(t, domain.MessageUnavailable, got)
	assert.Equal(t, domain.EngineFailed, engine.State())
	assert.Equal(t, 0, f.llm.callCount())
	assert.Equal(t, int32(0), f.encoder.passageCalls.Load())

	exists, err := f.vectors.CollectionExists(context.Background(), doc.Collection)
	require.NoError(t, err)
	assert.False(t, exists)

	status := engine.Status(context.Background())
	assert.Contains(t, status.LastError, "validation failed")
}

func TestRAGEngine_FailedIsTerminal(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	source := &mockSource{doc: doc, fetchErr: errBoom}
	engine := f.engine(source, domain.DefaultRAGSettings())

	ctx := context.Background()
	_, err := engine.Ask(ctx, "Кто является источником власти?")
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Equal(t, domain.EngineFailed, engine.State())

	_, err = engine.Ask(ctx, "Кто является источником власти?")
	assert.ErrorIs(t, err, domain.ErrEngineFailed)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Equal(t, 1, source.fetchCount(), "a failed engine does not retry by itself")
}

func TestRAGEngine_RetryFailedInit(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	source := &mockSource{doc: doc, fetchErr: errBoom}
	settings := domain.DefaultRAGSettings()
	settings.RetryFailedInit = true
	engine := f.engine(source, settings)

	ctx := context.Background()
	require.Error(t, engine.WarmUp(ctx))
	assert.Equal(t, domain.EngineFailed, engine.State())

	source.mu.Lock()
	source.fetchErr = nil
	source.fetchText = constitutionText
	source.mu.Unlock()

	require.NoError(t, engine.WarmUp(ctx))
	assert.Equal(t, domain.EngineReady, engine.State())
	assert.Equal(t, 2, source.fetchCount())
}

func TestRAGEngine_CancelledInitIsNotCached(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	engine := f.engine(loadedSource(doc, constitutionText), domain.DefaultRAGSettings())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, engine.WarmUp(ctx))
	assert.Equal(t, domain.EngineUninitialized, engine.State())

	require.NoError(t, engine.WarmUp(context.Background()))
	assert.Equal(t, domain.EngineReady, engine.State())
}

func TestRAGEngine_Rebuild(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	source := loadedSource(doc, constitutionText)
	engine := f.engine(source, domain.DefaultRAGSettings())

	ctx := context.Background()
	require.NoError(t, engine.WarmUp(ctx))
	before := engine.Status(ctx).Chunks

	source.setText(constitutionText + "Статья 4. Демократия в Республике Беларусь осуществляется на основе разнообразия политических институтов, идеологий и мнений.\n")
	require.NoError(t, engine.Rebuild(ctx))

	assert.Equal(t, before+1, engine.Status(ctx).Chunks)
	assert.Equal(t, int32(2), f.encoder.passageCalls.Load())
}

func TestRAGEngine_RebuildRecoversFailedEngine(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	source := loadedSource(doc, childRightsText)
	engine := f.engine(source, domain.DefaultRAGSettings())

	ctx := context.Background()
	require.Error(t, engine.WarmUp(ctx))
	require.Equal(t, domain.EngineFailed, engine.State())

	source.setText(constitutionText)
	require.NoError(t, engine.Rebuild(ctx))
	assert.Equal(t, domain.EngineReady, engine.State())
}

// cancellingEncoder cancels the build context when passages are encoded.
type cancellingEncoder struct {
	*mockEncoder
	cancel context.CancelFunc
}

func (c *cancellingEncoder) Encode(ctx context.Context, texts []string, asQuery bool) ([][]float32, error) {
	if !asQuery {
		c.cancel()
		return nil, ctx.Err()
	}
	return c.mockEncoder.Encode(ctx, texts, asQuery)
}

// cancellingVectors cancels the build context on the first upsert.
type cancellingVectors struct {
	*memory.VectorStore
	cancel context.CancelFunc
	fired  atomic.Bool
}

func (c *cancellingVectors) Upsert(ctx context.Context, name string, records []domain.VectorRecord) error {
	if c.fired.CompareAndSwap(false, true) {
		c.cancel()
		return ctx.Err()
	}
	return c.VectorStore.Upsert(ctx, name, records)
}

func TestRAGEngine_FailedRebuildKeepsIndex(t *testing.T) {
	tests := []struct {
		name        string
		breakSource func(source *mockSource)
		wantErr     error
	}{
		{
			name:        "source unavailable",
			breakSource: func(source *mockSource) {
				source.mu.Lock()
				source.getErr = errBoom
				source.mu.Unlock()
			},
			wantErr: domain.ErrSourceUnavailable,
		},
		{
			name:        "foreign text",
			breakSource: func(source *mockSource) { source.setText(childRightsText) },
			wantErr:     domain.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRAGFixture()
			doc := testDocument(t, domain.DocumentConstitution)
			source := loadedSource(doc, constitutionText)
			engine := f.engine(source, domain.DefaultRAGSettings())

			ctx := context.Background()
			require.NoError(t, engine.WarmUp(ctx))
			before, err := f.vectors.Count(ctx, doc.Collection)
			require.NoError(t, err)

			tt.breakSource(source)
			assert.ErrorIs(t, engine.Rebuild(ctx), tt.wantErr)

			assert.Equal(t, domain.EngineReady, engine.State())
			after, err := f.vectors.Count(ctx, doc.Collection)
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.Equal(t, int32(1), f.encoder.passageCalls.Load())
			assert.Equal(t, "Ответ по статье 3.", engine.AnswerQuestion(ctx, "Кто является источником власти?"))
		})
	}
}

func TestRAGEngine_RebuildCancelledDuringEncoding(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	source := loadedSource(doc, constitutionText)

	ctx := context.Background()
	require.NoError(t, f.engine(source, domain.DefaultRAGSettings()).WarmUp(ctx))

	rebuildCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	deps := f.deps()
	deps.Encoder = &cancellingEncoder{mockEncoder: f.encoder, cancel: cancel}
	engine := NewRAGEngine(doc, source, deps, domain.DefaultRAGSettings())
	require.NoError(t, engine.WarmUp(ctx))

	assert.ErrorIs(t, engine.Rebuild(rebuildCtx), context.Canceled)

	assert.Equal(t, domain.EngineReady, engine.State())
	exists, err := f.vectors.CollectionExists(ctx, doc.Collection)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "Ответ по статье 3.", engine.AnswerQuestion(ctx, "Кто является источником власти?"))
	assert.Equal(t, 1, f.llm.callCount())
}

func TestRAGEngine_RebuildCancelledAfterDelete(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	source := loadedSource(doc, constitutionText)

	ctx := context.Background()
	rebuildCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	vectors := &cancellingVectors{VectorStore: f.vectors, cancel: cancel}
	vectors.fired.Store(true)

	deps := f.deps()
	deps.VectorStore = vectors
	engine := NewRAGEngine(doc, source, deps, domain.DefaultRAGSettings())
	require.NoError(t, engine.WarmUp(ctx))

	vectors.fired.Store(false)
	assert.ErrorIs(t, engine.Rebuild(rebuildCtx), context.Canceled)
	assert.Equal(t, domain.EngineUninitialized, engine.State(), "a half-written index is not reported ready")

	assert.Equal(t, "Ответ по статье 3.", engine.AnswerQuestion(ctx, "Кто является источником власти?"))
	assert.Equal(t, domain.EngineReady, engine.State())
	count, err := f.vectors.Count(ctx, doc.Collection)
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestRAGEngine_ReembedsOnDimensionChange(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	source := loadedSource(doc, constitutionText)

	ctx := context.Background()
	require.NoError(t, f.engine(source, domain.DefaultRAGSettings()).WarmUp(ctx))

	wider := newMockEncoder()
	wider.vocabulary = append(wider.vocabulary, "суверен")
	deps := f.deps()
	deps.Encoder = wider
	restarted := NewRAGEngine(doc, source, deps, domain.DefaultRAGSettings())

	require.NoError(t, restarted.WarmUp(ctx))
	assert.Equal(t, int32(1), wider.passageCalls.Load())

	dim, err := f.vectors.Dimension(ctx, doc.Collection)
	require.NoError(t, err)
	assert.Equal(t, wider.Dimensions(), dim)
	assert.Equal(t, "Ответ по статье 3.", restarted.AnswerQuestion(ctx, "Кто является носителем суверенитета?"))
}

func TestRAGEngine_ReembedsOnDimensionChange_LazyEncoder(t *testing.T) {
	vectors := memory.NewVectorStore()
	doc := testDocument(t, domain.DocumentConstitution)
	source := loadedSource(doc, constitutionText)
	llm := &mockLLM{answer: "Ответ."}

	engineWith := func(dims int) *RAGEngine {
		encoder := embedding.NewStaticProvider(hashing.NewEmbeddingService(hashing.Config{Dimensions: dims}), embedding.Config{})
		return NewRAGEngine(doc, source, EngineDeps{Encoder: encoder, VectorStore: vectors, LLM: llm}, domain.DefaultRAGSettings())
	}

	ctx := context.Background()
	require.NoError(t, engineWith(16).WarmUp(ctx))

	restarted := engineWith(32)
	require.NoError(t, restarted.WarmUp(ctx))

	dim, err := vectors.Dimension(ctx, doc.Collection)
	require.NoError(t, err)
	assert.Equal(t, 32, dim)
	assert.Equal(t, "Ответ.", restarted.AnswerQuestion(ctx, "Кто является источником власти?"))
}

func TestRetrieval_RanksMatchingArticleFirst(t *testing.T) {
	ctx := context.Background()
	text := "Article 1. Citizens have the right to X.\n\nArticle 2. Citizens have the right to Y."

	chunks, err := chunker.New().Build(text, "Constitution")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	encoder := embedding.NewStaticProvider(hashing.NewEmbeddingService(hashing.Config{}), embedding.Config{})
	texts := []string{chunks[0].Text, chunks[1].Text}
	passages, err := encoder.Encode(ctx, texts, false)
	require.NoError(t, err)

	store := memory.NewVectorStore()
	require.NoError(t, store.CreateCollection(ctx, "articles", encoder.Dimensions(), domain.DistanceCosine))
	require.NoError(t, store.Upsert(ctx, "articles", []domain.VectorRecord{
		{ID: 0, Vector: passages[0], Payload: chunks[0]},
		{ID: 1, Vector: passages[1], Payload: chunks[1]},
	}))

	query, err := encoder.Encode(ctx, []string{"right to X"}, true)
	require.NoError(t, err)
	hits, err := store.Query(ctx, "articles", query[0], 5)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "Article 1.", hits[0].Chunk.Title)
	assert.Equal(t, "Article 2.", hits[1].Chunk.Title)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestRAGEngine_EncoderFailure(t *testing.T) {
	f := newRAGFixture()
	f.encoder.err = domain.ErrEmbeddingUnavailable
	doc := testDocument(t, domain.DocumentConstitution)
	engine := f.engine(loadedSource(doc, constitutionText), domain.DefaultRAGSettings())

	_, err := engine.Ask(context.Background(), "Кто является источником власти?")
	assert.ErrorIs(t, err, domain.ErrIndexBuildFailed)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Equal(t, domain.MessageUnavailable, engine.AnswerQuestion(context.Background(), "Кто?"))
}

func TestRAGEngine_GenerationFailures(t *testing.T) {
	tests := []struct {
		name string
		llm  driven.LLMService
	}{
		{name: "model error", llm: &mockLLM{err: errBoom}},
		{name: "empty answer", llm: &mockLLM{answer: "   "}},
		{name: "no model configured", llm: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRAGFixture()
			doc := testDocument(t, domain.DocumentConstitution)
			deps := f.deps()
			deps.LLM = tt.llm
			engine := NewRAGEngine(doc, loadedSource(doc, constitutionText), deps, domain.DefaultRAGSettings())

			_, err := engine.Ask(context.Background(), "Кто является источником власти?")
			assert.ErrorIs(t, err, domain.ErrGenerationFailed)
			assert.Equal(t, domain.MessageGenerationFailed,
				engine.AnswerQuestion(context.Background(), "Кто является источником власти?"))
			assert.Equal(t, domain.EngineReady, engine.State(), "generation failures leave the index alone")
		})
	}
}

func TestRAGEngine_GenerationTimeout(t *testing.T) {
	f := newRAGFixture()
	f.llm.block = true
	doc := testDocument(t, domain.DocumentConstitution)
	settings := domain.DefaultRAGSettings()
	settings.LLMTimeout = 20 * time.Millisecond
	engine := f.engine(loadedSource(doc, constitutionText), settings)

	start := time.Now()
	_, err := engine.Ask(context.Background(), "Кто является источником власти?")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRAGEngine_TruncatesLongAnswers(t *testing.T) {
	f := newRAGFixture()
	f.llm.answer = strings.Repeat("я", 5000)
	doc := testDocument(t, domain.DocumentConstitution)
	engine := f.engine(loadedSource(doc, constitutionText), domain.DefaultRAGSettings())

	answer, err := engine.Ask(context.Background(), "Кто является источником власти?")
	require.NoError(t, err)

	assert.True(t, answer.Truncated)
	assert.Equal(t, 4000, utf8.RuneCountInString(answer.Text))
	assert.True(t, strings.HasSuffix(answer.Text, "..."))
}

type stubPrompts map[string]string

func (p stubPrompts) Load(name string) (string, error) {
	if s, ok := p[name]; ok {
		return s, nil
	}
	return "", domain.ErrNotFound
}

func (p stubPrompts) Reload() {}

func TestRAGEngine_UsesPromptStore(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentConstitution)
	deps := f.deps()
	deps.Prompts = stubPrompts{driven.PromptAnswerSystem: "Отвечай по документу %[1]s. Иначе: %[2]s"}
	engine := NewRAGEngine(doc, loadedSource(doc, constitutionText), deps, domain.DefaultRAGSettings())

	_, err := engine.Ask(context.Background(), "Кто является источником власти?")
	require.NoError(t, err)

	assert.Equal(t, "Отвечай по документу "+doc.Name+". Иначе: "+domain.RefusalAnswer, f.llm.messages[0].Content)
	assert.Contains(t, f.llm.messages[1].Content, "Контекст из документа")
}

// ==================== Helper Tests ====================

func TestTruncate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		limit     int
		want      string
		truncated bool
	}{
		{name: "short", text: "abc", limit: 10, want: "abc"},
		{name: "exact", text: "abcde", limit: 5, want: "abcde"},
		{name: "cut", text: "abcdefgh", limit: 6, want: "abc...", truncated: true},
		{name: "runes", text: "привет мир", limit: 7, want: "прив...", truncated: true},
		{name: "tiny limit", text: "abcdef", limit: 3, want: "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := Truncate(tt.text, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.truncated, truncated)
		})
	}
}

func TestBuildContext(t *testing.T) {
	hits := []domain.ScoredChunk{
		{Score: 0.9, Chunk: domain.Chunk{Title: "Статья 1.", Text: "первый"}},
		{Score: 0.5, Chunk: domain.Chunk{Title: "Статья 2.", Text: "второй"}},
	}
	assert.Equal(t, "[Документ 1] Статья 1.: первый\n\n[Документ 2] Статья 2.: второй", BuildContext(hits))
	assert.Empty(t, BuildContext(nil))
}

func TestBuildContext_DropsRepeatedTitle(t *testing.T) {
	hits := []domain.ScoredChunk{
		{Chunk: domain.Chunk{Title: "Статья 3.", Text: "Статья 3.\nЕдинственным источником власти является народ."}},
		{Chunk: domain.Chunk{Title: "Фрагмент", Text: "текст без заголовка"}},
	}
	assert.Equal(t,
		"[Документ 1] Статья 3.: Единственным источником власти является народ.\n\n[Документ 2] Фрагмент: текст без заголовка",
		BuildContext(hits))
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, domain.MessageEmptyQuestion, FailureMessage(domain.ErrInvalidInput))
	assert.Equal(t, domain.MessageNoRelevantInfo, FailureMessage(domain.ErrRetrievalEmpty))
	assert.Equal(t, domain.MessageGenerationFailed, FailureMessage(domain.ErrGenerationFailed))
	assert.Equal(t, domain.MessageUnavailable, FailureMessage(domain.ErrEngineFailed))
	assert.Equal(t, domain.MessageUnavailable, FailureMessage(domain.ErrSourceUnavailable))
	assert.Equal(t, domain.MessageUnavailable, FailureMessage(errBoom))
}
