// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui/styles"
)

// Entry is one question with the reply shown for it.
type Entry struct {
	Question string
	Reply    string
}

// HistoryList displays the questions asked in this session in a navigable list.
type HistoryList struct {
	entries  []Entry
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewHistoryList creates a new history list component.
func NewHistoryList(s *styles.Styles) *HistoryList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &HistoryList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the history list.
func (h *HistoryList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (h *HistoryList) Update(msg tea.Msg) (*HistoryList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			h.MoveUp()
		case "down", "j":
			h.MoveDown()
		}
	}
	return h, nil
}

// View renders the history list.
func (h *HistoryList) View() string {
	if len(h.entries) == 0 {
		return h.styles.Muted.Render("No questions yet")
	}

	lines := make([]string, 0, len(h.entries)+2)
	lines = append(lines, h.styles.Subtitle.Render(fmt.Sprintf("History (%d)", len(h.entries))), "")

	// One line per entry
	visibleCount := h.height - 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if h.selected >= visibleCount {
		start = h.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(h.entries))

	for i := start; i < end; i++ {
		lines = append(lines, h.renderEntry(i))
	}

	return strings.Join(lines, "\n")
}

// renderEntry formats a single question line.
func (h *HistoryList) renderEntry(index int) string {
	question := h.entries[index].Question
	if strings.TrimSpace(question) == "" {
		question = "(empty)"
	}
	question = truncate(question, max(h.width-6, 10))

	if index == h.selected {
		return h.styles.Selected.Render("> " + question)
	}
	return h.styles.Normal.Render("  " + question)
}

// truncate shortens s to at most limit runes, ending with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// Add appends an entry and selects it.
func (h *HistoryList) Add(entry Entry) {
	h.entries = append(h.entries, entry)
	h.selected = len(h.entries) - 1
}

// Entries returns the recorded entries, oldest first.
func (h *HistoryList) Entries() []Entry {
	return h.entries
}

// Clear removes all entries.
func (h *HistoryList) Clear() {
	h.entries = nil
	h.selected = 0
}

// Selected returns the index of the selected entry.
func (h *HistoryList) Selected() int {
	return h.selected
}

// SetSelected sets the selected index.
func (h *HistoryList) SetSelected(index int) {
	if index >= 0 && index < len(h.entries) {
		h.selected = index
	}
}

// SelectedEntry returns the currently selected entry, or nil if none.
func (h *HistoryList) SelectedEntry() *Entry {
	if len(h.entries) == 0 || h.selected < 0 || h.selected >= len(h.entries) {
		return nil
	}
	return &h.entries[h.selected]
}

// MoveUp moves selection up.
func (h *HistoryList) MoveUp() {
	if h.selected > 0 {
		h.selected--
	}
}

// MoveDown moves selection down.
func (h *HistoryList) MoveDown() {
	if h.selected < len(h.entries)-1 {
		h.selected++
	}
}

// SetDimensions sets the component dimensions.
func (h *HistoryList) SetDimensions(width, height int) {
	h.width = width
	h.height = height
}

// Width returns the current width.
func (h *HistoryList) Width() int {
	return h.width
}

// Height returns the current height.
func (h *HistoryList) Height() int {
	return h.height
}

// Count returns the number of entries.
func (h *HistoryList) Count() int {
	return len(h.entries)
}

// IsEmpty returns whether the list is empty.
func (h *HistoryList) IsEmpty() bool {
	return len(h.entries) == 0
}
