package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexuwunya/pravo-bot/internal/app"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
)

const testConstitution = `Конституция Республики Беларусь
Раздел I Основы конституционного строя
Статья 1. Республика Беларусь - унитарное демократическое социальное правовое государство.
Статья 2. Человек, его права, свободы и гарантии их реализации являются высшей ценностью и целью общества.
Статья 3. Единственным источником государственной власти и носителем суверенитета является народ.
`

const testChildRights = `Закон О правах ребенка
Глава 1 Общие положения
Статья 1. Ребенком является каждое физическое лицо до достижения им восемнадцати лет.
Статья 2. Каждый ребенок имеет право на жизнь в семье и на заботу родителей.
`

const testAnswer = "Источником власти является народ."

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, doc domain.LegalDocument) (*domain.DocumentText, error) {
	text := testConstitution
	if doc.ID == domain.DocumentChildRights {
		text = testChildRights
	}
	return &domain.DocumentText{DocumentID: doc.ID, Text: text, SourceURL: doc.SourceURL}, nil
}

type stubLLM struct {
	mu    sync.Mutex
	calls int
}

func (s *stubLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return "", nil
}

func (s *stubLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return testAnswer, nil
}

func (s *stubLLM) ModelName() string { return "stub" }

func (s *stubLLM) Ping(context.Context) error { return nil }

func (s *stubLLM) Close() error { return nil }

// setupTestApp injects an in-memory application for the duration of a test.
func setupTestApp(t *testing.T) *app.App {
	t.Helper()

	a, err := app.New(app.Options{
		ConfigDir: t.TempDir(),
		Ephemeral: true,
		Fetcher:   stubFetcher{},
		LLM:       &stubLLM{},
	})
	require.NoError(t, err)

	SetApp(a)
	t.Cleanup(func() {
		SetApp(nil)
		assert.NoError(t, a.Close())
	})
	return a
}

// executeCommand runs the root command with args and returns everything it printed.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores flag variables that persist between Execute calls.
func resetFlags() {
	askJSON = false
	askSources = false
	statusJSON = false
	indexRebuild = false
	scheduleHistoryLimit = 10
}
