package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for name, c := range map[string]lipgloss.Color{
		"accent":   theme.Accent,
		"document": theme.Document,
		"text":     theme.Text,
		"faint":    theme.Faint,
		"alert":    theme.Alert,
		"frame":    theme.Frame,
		"bar":      theme.Bar,
	} {
		assert.NotEmpty(t, string(c), name)
	}
}

func TestDefaultTheme_SignalColoursDiffer(t *testing.T) {
	theme := DefaultTheme()

	assert.NotEqual(t, theme.Accent, theme.Document)
	assert.NotEqual(t, theme.Accent, theme.Alert)
	assert.NotEqual(t, theme.Document, theme.Alert)
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	s := NewStyles(theme)

	require.NotNil(t, s)
	assert.Same(t, theme, s.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.NotNil(t, s.Theme())
}

func TestStyles_AllStylesInitialised(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"title":       s.Title,
		"subtitle":    s.Subtitle,
		"normal":      s.Normal,
		"muted":       s.Muted,
		"selected":    s.Selected,
		"error":       s.Error,
		"menu item":   s.MenuItem,
		"menu cursor": s.MenuCursor,
		"input":       s.InputField,
		"answer":      s.Answer,
		"status bar":  s.StatusBar,
	} {
		assert.NotEqual(t, lipgloss.Style{}, style, name)
	}
}

func TestStyles_RenderKeepsText(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Title.Render("Pravo"), "Pravo")
	assert.Contains(t, s.Error.Render("Сервис недоступен"), "Сервис недоступен")
}

func TestStyles_AnswerBox(t *testing.T) {
	s := DefaultStyles()

	t.Run("wraps to terminal width", func(t *testing.T) {
		out := s.AnswerBox(40).Render(strings.Repeat("народ ", 20))
		for _, line := range strings.Split(out, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), 40)
		}
	})

	t.Run("narrow terminals keep a minimum width", func(t *testing.T) {
		assert.Equal(t, 20, s.AnswerBox(5).GetWidth())
	})
}
