package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui/styles"
)

func sampleEntries(h *HistoryList) {
	h.Add(Entry{Question: "Кто является источником власти?", Reply: "Народ."})
	h.Add(Entry{Question: "С какого возраста наступает совершеннолетие?", Reply: "С восемнадцати лет."})
	h.Add(Entry{Question: "Что такое референдум?", Reply: "Форма народовластия."})
}

func TestNewHistoryList(t *testing.T) {
	list := NewHistoryList(styles.DefaultStyles())

	require.NotNil(t, list)
	assert.Equal(t, 0, list.Selected())
	assert.True(t, list.IsEmpty())
}

func TestNewHistoryList_NilStyles(t *testing.T) {
	list := NewHistoryList(nil)

	require.NotNil(t, list)
	assert.NotNil(t, list.styles)
}

func TestHistoryList_Init(t *testing.T) {
	assert.Nil(t, NewHistoryList(nil).Init())
}

func TestHistoryList_AddSelectsNewest(t *testing.T) {
	list := NewHistoryList(nil)

	sampleEntries(list)

	assert.Equal(t, 3, list.Count())
	assert.Equal(t, 2, list.Selected())
	require.NotNil(t, list.SelectedEntry())
	assert.Equal(t, "Форма народовластия.", list.SelectedEntry().Reply)
}

func TestHistoryList_Entries(t *testing.T) {
	list := NewHistoryList(nil)
	sampleEntries(list)

	entries := list.Entries()

	require.Len(t, entries, 3)
	assert.Equal(t, "Кто является источником власти?", entries[0].Question)
}

func TestHistoryList_Clear(t *testing.T) {
	list := NewHistoryList(nil)
	sampleEntries(list)

	list.Clear()

	assert.True(t, list.IsEmpty())
	assert.Equal(t, 0, list.Selected())
	assert.Nil(t, list.SelectedEntry())
}

func TestHistoryList_SetSelected(t *testing.T) {
	list := NewHistoryList(nil)
	sampleEntries(list)

	list.SetSelected(1)
	assert.Equal(t, 1, list.Selected())

	list.SetSelected(5)
	assert.Equal(t, 1, list.Selected())

	list.SetSelected(-1)
	assert.Equal(t, 1, list.Selected())
}

func TestHistoryList_SelectedEntry_Empty(t *testing.T) {
	assert.Nil(t, NewHistoryList(nil).SelectedEntry())
}

func TestHistoryList_MoveUpDown(t *testing.T) {
	list := NewHistoryList(nil)
	sampleEntries(list)

	list.MoveUp()
	list.MoveUp()
	list.MoveUp()
	assert.Equal(t, 0, list.Selected())

	list.MoveDown()
	assert.Equal(t, 1, list.Selected())

	list.MoveDown()
	list.MoveDown()
	assert.Equal(t, 2, list.Selected())
}

func TestHistoryList_Update_Keys(t *testing.T) {
	list := NewHistoryList(nil)
	sampleEntries(list)

	list.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, list.Selected())

	list.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, list.Selected())

	list.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, list.Selected())

	list.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, list.Selected())
}

func TestHistoryList_View_Empty(t *testing.T) {
	view := NewHistoryList(nil).View()

	assert.Contains(t, view, "No questions yet")
}

func TestHistoryList_View_WithEntries(t *testing.T) {
	list := NewHistoryList(nil)
	sampleEntries(list)

	view := list.View()

	assert.Contains(t, view, "History (3)")
	assert.Contains(t, view, "С какого возраста наступает совершеннолетие?")
	assert.Contains(t, view, ">")
}

func TestHistoryList_View_LongQuestionIsTruncatedByRunes(t *testing.T) {
	list := NewHistoryList(nil)
	list.SetDimensions(30, 10)
	list.Add(Entry{Question: strings.Repeat("я", 100)})

	view := list.View()

	assert.Contains(t, view, "...")
	assert.NotContains(t, view, strings.Repeat("я", 30))
}

func TestHistoryList_SetDimensions(t *testing.T) {
	list := NewHistoryList(nil)

	list.SetDimensions(100, 20)

	assert.Equal(t, 100, list.Width())
	assert.Equal(t, 20, list.Height())
}

func TestHistoryList_DefaultDimensions(t *testing.T) {
	list := NewHistoryList(nil)

	assert.Equal(t, 80, list.Width())
	assert.Equal(t, 10, list.Height())
}
