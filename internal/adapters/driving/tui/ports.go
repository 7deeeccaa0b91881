// Package tui provides an interactive terminal user interface for pravo.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Dispatcher routes document triggers and questions to search engines.
	Dispatcher driving.Dispatcher
}

// NewPorts creates a new Ports aggregate.
func NewPorts(dispatcher driving.Dispatcher) *Ports {
	return &Ports{Dispatcher: dispatcher}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Dispatcher == nil {
		return ErrMissingDispatcher
	}
	return nil
}
