// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui/components/input"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui/components/list"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui/components/status"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui/keymap"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui/messages"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui/styles"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driving"
)

// View asks questions about one document through the dispatcher and keeps
// the answers of the visit in a history list.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	history   *list.HistoryList
	statusbar *status.Bar
	spinner   spinner.Model

	dispatcher driving.Dispatcher
	ctx        context.Context
	sessionID  string

	trigger string
	name    string
	prompt  string

	width      int
	height     int
	ready      bool
	err        error
	thinking   bool
	focusInput bool // true = typing a question, false = browsing history
}

// NewView creates a new ask view. An empty session id gets a random one.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	dispatcher driving.Dispatcher,
	sessionID string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		history:    list.NewHistoryList(s),
		statusbar:  status.NewBar(s, km),
		spinner:    sp,
		dispatcher: dispatcher,
		ctx:        context.Background(),
		sessionID:  sessionID,
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Open binds the view to a document trigger and starts a fresh visit.
func (v *View) Open(trigger, name string) tea.Cmd {
	v.Reset()
	v.trigger = trigger
	v.name = name

	if v.dispatcher == nil {
		v.setError(ErrNoDispatcher)
		return nil
	}

	prompt, err := v.dispatcher.HandleTrigger(v.sessionID, trigger)
	if err != nil {
		v.setError(err)
		return nil
	}
	v.prompt = prompt
	return v.input.Init()
}

// Close returns the session to idle.
func (v *View) Close() {
	if v.dispatcher != nil {
		v.dispatcher.Reset(v.sessionID)
	}
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.thinking = false
		v.setError(msg.Err)
		return v, nil

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc always leaves the document
	if msg.Type == tea.KeyEsc {
		v.Close()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.thinking {
		return v, nil
	}

	if msg.Type == tea.KeyTab {
		v.toggleFocus()
		return v, nil
	}

	if !v.focusInput {
		var cmd tea.Cmd
		v.history, cmd = v.history.Update(msg)
		return v, cmd
	}

	if msg.Type == tea.KeyEnter {
		question := v.input.Value()
		v.thinking = true
		v.err = nil
		v.statusbar.SetState(status.StateThinking)
		v.statusbar.SetMessage("")
		return v, tea.Batch(v.performAsk(question), v.spinner.Tick)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// toggleFocus switches between the input and the history list.
func (v *View) toggleFocus() {
	if v.focusInput && v.history.IsEmpty() {
		return
	}
	v.focusInput = !v.focusInput
	if v.focusInput {
		v.input.Focus()
	} else {
		v.input.Blur()
	}
	v.statusbar.SetHistoryFocus(!v.focusInput)
}

// performAsk re-arms the session when needed and routes the question.
func (v *View) performAsk(question string) tea.Cmd {
	dispatcher, ctx, sessionID, trigger := v.dispatcher, v.ctx, v.sessionID, v.trigger
	return func() tea.Msg {
		if dispatcher == nil {
			return messages.ErrorOccurred{Err: ErrNoDispatcher}
		}

		session, ok := dispatcher.Session(sessionID)
		if !ok || session.Mode != domain.SessionAwaitingQuestion || session.Trigger != trigger {
			if _, err := dispatcher.HandleTrigger(sessionID, trigger); err != nil {
				return messages.ErrorOccurred{Err: err}
			}
		}

		reply, handled := dispatcher.HandleMessage(ctx, sessionID, question)
		return messages.AnswerReceived{Question: question, Reply: reply, Handled: handled}
	}
}

// handleAnswer records a reply in the history.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.thinking = false
	if !msg.Handled {
		v.setError(ErrSessionIdle)
		return
	}

	// Blank questions only refresh the prompt
	if strings.TrimSpace(msg.Question) == "" {
		v.prompt = msg.Reply
		v.statusbar.SetState(status.StateReady)
		return
	}

	v.err = nil
	v.history.Add(list.Entry{Question: msg.Question, Reply: msg.Reply})
	v.input.Reset()
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetAnswerCount(v.history.Count())
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)

	header := v.styles.Title.Render("Pravo")
	if v.name != "" {
		header += v.styles.Subtitle.Render(" · " + v.name)
	}
	sections = append(sections, header, "")

	if v.prompt != "" {
		sections = append(sections, v.styles.Muted.Render(v.prompt), "")
	}

	sections = append(sections, v.input.View(), "")

	if v.thinking {
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Ищу ответ..."), "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if entry := v.history.SelectedEntry(); entry != nil {
		answer := v.styles.AnswerBox(v.width).Render(entry.Reply)
		sections = append(sections, answer, "")
	}

	sections = append(sections, v.history.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.history.SetDimensions(width, max(height/3, 3))
	v.statusbar.SetWidth(width)
}

// Reset clears the visit back to an empty input.
func (v *View) Reset() {
	v.trigger = ""
	v.name = ""
	v.prompt = ""
	v.err = nil
	v.thinking = false
	v.focusInput = true
	v.input.Reset()
	v.input.Focus()
	v.history.Clear()
	v.statusbar.Clear()
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// SessionID returns the dispatcher session this view drives.
func (v *View) SessionID() string {
	return v.sessionID
}

// Trigger returns the trigger of the open document.
func (v *View) Trigger() string {
	return v.trigger
}

// Prompt returns the text shown above the input.
func (v *View) Prompt() string {
	return v.prompt
}

// Question returns the text currently typed.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the typed text.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// History returns the answered questions of this visit.
func (v *View) History() []list.Entry {
	return v.history.Entries()
}

// Thinking reports whether a question is in flight.
func (v *View) Thinking() bool {
	return v.thinking
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
