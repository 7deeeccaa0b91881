package mcp

import (
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driving"
)

// Ports aggregates the ports required by the MCP server.
type Ports struct {
	// Engines answer questions, one per document.
	Engines []driving.RAGEngine

	// Sources serve raw document text. Optional; without them the document
	// content resource is not found.
	Sources []driven.DocumentSource
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if len(p.Engines) == 0 {
		return ErrMissingEngines
	}
	for _, e := range p.Engines {
		if e == nil {
			return ErrMissingEngines
		}
	}
	return nil
}

// engine finds an engine by document id or trigger.
func (p *Ports) engine(key string) (driving.RAGEngine, bool) {
	for _, e := range p.Engines {
		doc := e.Document()
		if doc.ID == key || doc.Trigger == key {
			return e, true
		}
	}
	return nil, false
}

// source finds a source by document id.
func (p *Ports) source(documentID string) (driven.DocumentSource, bool) {
	for _, s := range p.Sources {
		if s != nil && s.Document().ID == documentID {
			return s, true
		}
	}
	return nil, false
}
