// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the document selection menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input and answer view.
	ViewAsk
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// DocumentChosen is sent when a document is picked from the menu.
type DocumentChosen struct {
	Trigger string
	Name    string
}

// QuestionAsked is a command to answer a question about the chosen document.
type QuestionAsked struct {
	Question string
}

// AnswerReceived carries the display reply back to the model.
// Handled is false when the session was not awaiting a question.
type AnswerReceived struct {
	Question string
	Reply    string
	Handled  bool
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
