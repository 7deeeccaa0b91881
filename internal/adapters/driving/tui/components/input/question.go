// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui/styles"
)

// DefaultCharLimit caps the length of a typed question.
const DefaultCharLimit = 1000

// QuestionInput wraps a bubbles textinput with question-specific styling.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewQuestionInput creates a new question input component.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Введите ваш вопрос..."
	ti.Focus()
	ti.CharLimit = DefaultCharLimit
	ti.Width = 50

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the question input.
func (s *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the question input.
func (s *QuestionInput) View() string {
	label := s.styles.Title.Render("Вопрос: ")
	input := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Value returns the current input value.
func (s *QuestionInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *QuestionInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (s *QuestionInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *QuestionInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *QuestionInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *QuestionInput) SetWidth(width int) {
	s.width = width
	// Account for label and padding
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *QuestionInput) Width() int {
	return s.width
}

// Reset clears the input.
func (s *QuestionInput) Reset() {
	s.textinput.Reset()
}
