package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driving"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// Ensure the adapters implement their interfaces.
var (
	_ driving.SearchEngine = (*SearchEngine)(nil)
	_ driving.Dispatcher   = (*Dispatcher)(nil)
)

// SearchEngine binds one RAG engine to one chat trigger.
type SearchEngine struct {
	trigger    string
	engine     driving.RAGEngine
	displayCap int
}

// NewSearchEngine creates a search engine. The trigger defaults to the
// document's trigger and the display cap to the default.
func NewSearchEngine(engine driving.RAGEngine, trigger string, displayCap int) *SearchEngine {
	if trigger == "" {
		trigger = engine.Document().Trigger
	}
	if displayCap <= 3 {
		displayCap = domain.DefaultRAGSettings().DisplayCap
	}
	return &SearchEngine{trigger: trigger, engine: engine, displayCap: displayCap}
}

// Trigger returns the chat trigger id.
func (s *SearchEngine) Trigger() string {
	return s.trigger
}

// Document returns the document behind the trigger.
func (s *SearchEngine) Document() domain.LegalDocument {
	return s.engine.Document()
}

// Engine returns the underlying RAG engine.
func (s *SearchEngine) Engine() driving.RAGEngine {
	return s.engine
}

// OnTrigger puts the session into awaiting-question mode.
func (s *SearchEngine) OnTrigger(session *domain.Session) string {
	session.Reset()
	session.Mode = domain.SessionAwaitingQuestion
	session.Trigger = s.trigger
	return fmt.Sprintf("🔍 Поиск по документу: \"%s\"\n\nВведите ваш вопрос текстом:", s.Document().Name)
}

// OnMessage answers text as a question. Blank text keeps the session waiting;
// any other message returns it to idle.
func (s *SearchEngine) OnMessage(ctx context.Context, session *domain.Session, text string) string {
	if strings.TrimSpace(text) == "" {
		session.UpdatedAt = time.Now()
		return domain.MessageEmptyQuestion
	}

	answer, err := s.engine.Ask(ctx, text)
	session.Mode = domain.SessionIdle
	session.Trigger = ""
	session.UpdatedAt = time.Now()
	if err != nil {
		logger.Debug("%s: %v", s.trigger, err)
		session.LastChunk = nil
		session.LastAnswer = ""
		return FailureMessage(err)
	}

	session.LastAnswer = answer.Text
	session.LastChunk = nil
	if len(answer.Sources) > 0 {
		best := answer.Sources[0]
		session.LastChunk = &best
	}

	reply, _ := Truncate(fmt.Sprintf("📜 %s\n\n%s", s.Document().Name, answer.Text), s.displayCap)
	return reply
}

// Dispatcher routes triggers and messages to search engines and keeps
// per-session state in memory.
type Dispatcher struct {
	mu       sync.RWMutex
	engines  []*SearchEngine
	byTrig   map[string]*SearchEngine
	sessions map[string]*domain.Session
	// epochs counts triggers and resets per session so an answer that
	// finishes late does not overwrite them.
	epochs map[string]uint64
}

// NewDispatcher creates a dispatcher with the given engines registered.
func NewDispatcher(engines ...*SearchEngine) *Dispatcher {
	d := &Dispatcher{
		byTrig:   make(map[string]*SearchEngine),
		sessions: make(map[string]*domain.Session),
		epochs:   make(map[string]uint64),
	}
	for _, e := range engines {
		if err := d.Register(e); err != nil {
			logger.Warn("dispatcher: %v", err)
		}
	}
	return d
}

// NewSessionID returns a fresh session id for callers without one.
func NewSessionID() string {
	return uuid.New().String()
}

// Register adds an engine. Triggers must be unique.
func (d *Dispatcher) Register(engine *SearchEngine) error {
	if engine == nil || engine.Trigger() == "" {
		return fmt.Errorf("%w: search engine without trigger", domain.ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byTrig[engine.Trigger()]; exists {
		return fmt.Errorf("%w: trigger %q already registered", domain.ErrInvalidInput, engine.Trigger())
	}
	d.byTrig[engine.Trigger()] = engine
	d.engines = append(d.engines, engine)
	return nil
}

// Engines lists registered engines in registration order.
func (d *Dispatcher) Engines() []driving.SearchEngine {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]driving.SearchEngine, len(d.engines))
	for i, e := range d.engines {
		out[i] = e
	}
	return out
}

// Triggers lists registered triggers in registration order.
func (d *Dispatcher) Triggers() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.engines))
	for i, e := range d.engines {
		out[i] = e.Trigger()
	}
	return out
}

// Lookup returns the engine for a trigger or document id.
func (d *Dispatcher) Lookup(key string) (*SearchEngine, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if e, ok := d.byTrig[key]; ok {
		return e, true
	}
	for _, e := range d.engines {
		if e.Document().ID == key {
			return e, true
		}
	}
	return nil, false
}

// HandleTrigger routes a trigger to its engine.
func (d *Dispatcher) HandleTrigger(sessionID, trigger string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	engine, ok := d.byTrig[trigger]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTrigger, trigger)
	}
	d.epochs[sessionID]++
	return engine.OnTrigger(d.session(sessionID)), nil
}

// HandleMessage answers text for a session awaiting a question.
// Returns false when the session is idle. A trigger or reset that arrives
// while the question is answered wins over the answer's session update.
func (d *Dispatcher) HandleMessage(ctx context.Context, sessionID, text string) (string, bool) {
	d.mu.RLock()
	current, ok := d.sessions[sessionID]
	epoch := d.epochs[sessionID]
	var (
		session domain.Session
		engine  *SearchEngine
	)
	if ok {
		session = *current
		engine = d.byTrig[session.Trigger]
	}
	d.mu.RUnlock()

	if !ok || session.Mode != domain.SessionAwaitingQuestion || engine == nil {
		return "", false
	}

	reply := engine.OnMessage(ctx, &session, text)

	d.mu.Lock()
	if d.epochs[sessionID] == epoch {
		d.sessions[sessionID] = &session
	}
	d.mu.Unlock()
	return reply, true
}

// Session returns a copy of the session state.
func (d *Dispatcher) Session(sessionID string) (domain.Session, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sessions[sessionID]
	if !ok {
		return domain.Session{}, false
	}
	return *s, true
}

// Reset clears the session.
func (d *Dispatcher) Reset(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.sessions[sessionID]; ok {
		d.epochs[sessionID]++
		s.Reset()
	}
}

// session must be called with d.mu held for writing.
func (d *Dispatcher) session(id string) *domain.Session {
	s, ok := d.sessions[id]
	if !ok {
		s = &domain.Session{ID: id, Mode: domain.SessionIdle}
		d.sessions[id] = s
	}
	return s
}
