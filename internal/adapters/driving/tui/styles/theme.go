// Package styles holds the colour palette and lipgloss styles of the pravo TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette.
type Theme struct {
	// Accent marks titles and the focused question label.
	Accent lipgloss.Color

	// Document marks the active legal document and selected menu entries.
	Document lipgloss.Color

	// Text is the default foreground.
	Text lipgloss.Color

	// Faint is used for prompts, hints and idle state.
	Faint lipgloss.Color

	// Alert is used for failures.
	Alert lipgloss.Color

	// Frame is the border colour of the input and answer boxes.
	Frame lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the palette used when none is configured.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:   lipgloss.Color("#C8313E"),
		Document: lipgloss.Color("#4AA657"),
		Text:     lipgloss.Color("#E6E6E6"),
		Faint:    lipgloss.Color("#8A8F98"),
		Alert:    lipgloss.Color("#FF6B6B"),
		Frame:    lipgloss.Color("#4B5263"),
		Bar:      lipgloss.Color("#1C1F26"),
	}
}

// Styles are the rendered styles derived from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style

	// MenuItem and MenuCursor render unselected and selected menu rows.
	MenuItem   lipgloss.Style
	MenuCursor lipgloss.Style

	// InputField frames the question input.
	InputField lipgloss.Style

	// Answer frames the reply of the selected history entry.
	Answer lipgloss.Style

	StatusBar lipgloss.Style
}

// NewStyles derives styles from theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Document),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Text),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Faint),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text).
			Background(theme.Accent),

		Error: lipgloss.NewStyle().
			Foreground(theme.Alert),

		MenuItem: lipgloss.NewStyle().
			Foreground(theme.Text),

		MenuCursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Document),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame).
			Padding(0, 1),

		Answer: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Document).
			Foreground(theme.Text).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Faint).
			Background(theme.Bar).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// AnswerBox returns the answer style wrapped to fit a terminal of the given width.
func (s *Styles) AnswerBox(width int) lipgloss.Style {
	return s.Answer.Width(max(width-4, 20))
}
