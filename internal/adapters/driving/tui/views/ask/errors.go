package ask

import "errors"

// Error definitions for the ask view.
var (
	// ErrNoDispatcher indicates that no dispatcher was provided.
	ErrNoDispatcher = errors.New("dispatcher is required")

	// ErrSessionIdle indicates the dispatcher dropped the question because
	// the session was not awaiting one.
	ErrSessionIdle = errors.New("session is not awaiting a question")
)
