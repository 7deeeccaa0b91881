// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The RAG engine, its validator, the chat-facing search engine adapter and
// the refresh scheduler live here. Services never import adapters.
package services
