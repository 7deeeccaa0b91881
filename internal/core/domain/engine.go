package domain

import "time"

// EngineState is the lifecycle state of a RAG engine.
type EngineState int

// Engine states. Ready and Failed are terminal until a rebuild.
const (
	EngineUninitialized EngineState = iota
	EngineInitializing
	EngineReady
	EngineFailed
)

// String returns the string representation.
func (s EngineState) String() string {
	switch s {
	case EngineUninitialized:
		return "uninitialized"
	case EngineInitializing:
		return "initializing"
	case EngineReady:
		return "ready"
	case EngineFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EngineStatus is a point-in-time report about one engine.
type EngineStatus struct {
	Document  LegalDocument
	State     EngineState
	Chunks    int
	LastError string
	ReadyAt   time.Time
}
