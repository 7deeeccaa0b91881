// Package app wires the adapters and core services into a running bot.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/ai"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/config/file"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/source/etalonline"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/storage/memory"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/storage/sqlite"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driving"
	"github.com/alexuwunya/pravo-bot/internal/core/services"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// Options control how the application is assembled. Zero values select the
// production adapters.
type Options struct {
	// ConfigDir holds config.toml and the prompts directory (default: ~/.pravo).
	ConfigDir string

	// DataDir overrides the data_dir setting.
	DataDir string

	// Ephemeral keeps texts, vectors and scheduler state in memory.
	Ephemeral bool

	// Fetcher replaces the etalonline scraper.
	Fetcher driven.DocumentFetcher

	// Encoder replaces the configured embedding provider.
	Encoder driven.Encoder

	// LLM replaces the configured language model.
	LLM driven.LLMService
}

// App holds the assembled services.
type App struct {
	Settings   domain.AppSettings
	Config     driven.ConfigStore
	ConfigPath string
	Prompts    *file.PromptStore

	Texts          driven.LegalTextStore
	Vectors        driven.VectorStore
	SchedulerStore driven.SchedulerStore

	Dispatcher *services.Dispatcher
	Refresh    *services.RefreshService
	Scheduler  *services.Scheduler

	// Warnings are non-fatal setup problems, such as a missing LLM key.
	Warnings []string

	engines []*services.RAGEngine
	sources map[string]*services.CachedSource
	closers []func() error
}

// DefaultConfigDir returns ~/.pravo.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".pravo"), nil
}

// New assembles the application. Engines are created Uninitialized; nothing
// is fetched or indexed until WarmUp or the first question.
func New(opts Options) (*App, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	a := &App{
		Config:     cfg,
		ConfigPath: cfg.Path(),
		Settings:   services.LoadSettings(cfg),
		sources:    make(map[string]*services.CachedSource),
	}

	if opts.DataDir != "" {
		a.Settings.DataDir = opts.DataDir
	}
	if a.Settings.DataDir == "" {
		a.Settings.DataDir = filepath.Join(configDir, "data")
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, err
	}
	a.Prompts = prompts

	if err := a.openStorage(opts.Ephemeral); err != nil {
		return nil, err
	}

	encoder, llm := a.openAI(opts)

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = etalonline.NewFetcher(etalonline.Config{})
	}

	validator := services.NewValidator()
	deps := services.EngineDeps{
		Encoder:     encoder,
		VectorStore: a.Vectors,
		LLM:         llm,
		Validator:   validator,
		Prompts:     prompts,
	}

	a.Dispatcher = services.NewDispatcher()
	var targets []services.RefreshTarget
	for _, doc := range domain.Catalog() {
		source := services.NewCachedSource(doc, fetcher, a.Texts, validator)
		engine := services.NewRAGEngine(doc, source, deps, a.Settings.RAG)

		a.sources[doc.ID] = source
		a.engines = append(a.engines, engine)
		targets = append(targets, services.RefreshTarget{Source: source, Engine: engine})

		if err := a.Dispatcher.Register(services.NewSearchEngine(engine, doc.Trigger, a.Settings.RAG.DisplayCap)); err != nil {
			a.Close() //nolint:errcheck
			return nil, fmt.Errorf("register %s: %w", doc.ID, err)
		}
	}

	a.Refresh = services.NewRefreshService(targets...)
	a.Scheduler = services.NewScheduler(a.Settings.Scheduler, a.SchedulerStore, a.Refresh)

	for _, w := range a.Warnings {
		logger.Debug("setup: %s", w)
	}
	return a, nil
}

// openStorage selects SQLite or in-memory stores.
func (a *App) openStorage(ephemeral bool) error {
	if ephemeral {
		a.Texts = memory.NewTextStore()
		a.Vectors = memory.NewVectorStore()
		a.SchedulerStore = memory.NewSchedulerStore()
		return nil
	}

	store, err := sqlite.NewStore(a.Settings.DataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.closers = append(a.closers, store.Close)
	a.Texts = store.TextStore()
	a.Vectors = store.VectorStore()
	a.SchedulerStore = store.SchedulerStore()
	return nil
}

// openAI builds the encoder and the language model unless both are injected.
func (a *App) openAI(opts Options) (driven.Encoder, driven.LLMService) {
	encoder, llm := opts.Encoder, opts.LLM
	if encoder != nil && llm != nil {
		return encoder, llm
	}

	result := ai.Initialise(a.Settings)
	a.closers = append(a.closers, func() error {
		result.Close()
		return nil
	})
	if encoder == nil {
		encoder = result.Encoder
	}
	if llm == nil {
		llm = result.LLMService
		a.Warnings = append(a.Warnings, result.Warnings...)
	}
	return encoder, llm
}

// Engines returns the RAG engines in catalog order.
func (a *App) Engines() []driving.RAGEngine {
	engines := make([]driving.RAGEngine, len(a.engines))
	for i, e := range a.engines {
		engines[i] = e
	}
	return engines
}

// Engine finds an engine by document id or trigger.
func (a *App) Engine(key string) (driving.RAGEngine, error) {
	for _, e := range a.engines {
		doc := e.Document()
		if doc.ID == key || doc.Trigger == key {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDocument, key)
}

// Source returns the cached source of a document.
func (a *App) Source(documentID string) (driven.DocumentSource, error) {
	source, ok := a.sources[documentID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDocument, documentID)
	}
	return source, nil
}

// WarmUp builds every engine in parallel and returns the failures by document id.
func (a *App) WarmUp(ctx context.Context) map[string]error {
	return services.WarmUpAll(ctx, a.Engines())
}

// WatchPrompts reloads prompts on file changes until ctx is cancelled.
func (a *App) WatchPrompts(ctx context.Context) error {
	return file.NewPromptWatcher(a.Prompts, func(name string) {
		logger.Info("prompt %s reloaded", name)
	}).Run(ctx)
}

// Close releases storage and model clients.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
