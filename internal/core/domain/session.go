package domain

import "time"

// SessionMode is the conversational mode of a chat session.
type SessionMode string

// Session modes.
const (
	SessionIdle             SessionMode = "idle"
	SessionAwaitingQuestion SessionMode = "awaiting_question"
)

// Session is the transient state the chat adapter keeps per user.
type Session struct {
	// ID identifies the chat user or conversation.
	ID string

	// Mode is the current conversational mode.
	Mode SessionMode

	// Trigger is the search trigger the session is bound to while awaiting a question.
	Trigger string

	// LastChunk is the best chunk retrieved for the last answer.
	LastChunk *ScoredChunk

	// LastAnswer is the last generated answer.
	LastAnswer string

	// UpdatedAt is the last time the session changed.
	UpdatedAt time.Time
}

// Reset clears the session back to idle.
func (s *Session) Reset() {
	s.Mode = SessionIdle
	s.Trigger = ""
	s.LastChunk = nil
	s.LastAnswer = ""
	s.UpdatedAt = time.Now()
}
