package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/storage/memory"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

func TestCachedSource_Lifecycle(t *testing.T) {
	ctx := context.Background()
	doc := testDocument(t, domain.DocumentConstitution)
	fetcher := &mockFetcher{text: constitutionText}
	store := memory.NewTextStore()
	source := NewCachedSource(doc, fetcher, store, nil)

	loaded, err := source.IsLoaded(ctx)
	require.NoError(t, err)
	assert.False(t, loaded)

	text, err := source.GetText(ctx)
	require.NoError(t, err)
	assert.Empty(t, text)

	changed, err := source.UpdateFromSource(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	loaded, err = source.IsLoaded(ctx)
	require.NoError(t, err)
	assert.True(t, loaded)

	text, err = source.GetText(ctx)
	require.NoError(t, err)
	assert.Equal(t, constitutionText, text)

	cached, err := store.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.SourceURL, cached.SourceURL)
	assert.False(t, cached.UpdatedAt.IsZero())

	changed, err = source.UpdateFromSource(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "same text is not a change")
	assert.Equal(t, 2, fetcher.calls)
}

func TestCachedSource_InvalidTextKeepsCache(t *testing.T) {
	ctx := context.Background()
	doc := testDocument(t, domain.DocumentConstitution)
	fetcher := &mockFetcher{text: constitutionText}
	store := memory.NewTextStore()
	source := NewCachedSource(doc, fetcher, store, nil)

	_, err := source.UpdateFromSource(ctx)
	require.NoError(t, err)

	fetcher.text = childRightsText
	changed, err := source.UpdateFromSource(ctx)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.False(t, changed)

	text, err := source.GetText(ctx)
	require.NoError(t, err)
	assert.Equal(t, constitutionText, text)
}

func TestCachedSource_FetchError(t *testing.T) {
	doc := testDocument(t, domain.DocumentConstitution)
	source := NewCachedSource(doc, &mockFetcher{err: domain.ErrSourceUnavailable}, memory.NewTextStore(), nil)

	_, err := source.UpdateFromSource(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	_, err = NewCachedSource(doc, nil, memory.NewTextStore(), nil).UpdateFromSource(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestCachedSource_FeedsEngine(t *testing.T) {
	f := newRAGFixture()
	doc := testDocument(t, domain.DocumentChildRights)
	source := NewCachedSource(doc, &mockFetcher{text: childRightsText}, memory.NewTextStore(), nil)
	engine := NewRAGEngine(doc, source, f.deps(), domain.DefaultRAGSettings())

	answer, err := engine.Ask(context.Background(), "До скольки лет лицо считается ребенком, до восемнадцати?")
	require.NoError(t, err)
	assert.Contains(t, answer.Sources[0].Chunk.Text, "восемнадцати")
}
