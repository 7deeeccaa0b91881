// Package mcp provides an MCP (Model Context Protocol) server adapter for pravo.
// It lets AI assistants ask questions about the indexed legal documents.
package mcp

import "errors"

// ErrMissingEngines is returned when no RAG engine is provided.
var ErrMissingEngines = errors.New("mcp: at least one RAG engine is required")
