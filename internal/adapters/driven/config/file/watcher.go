package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// PromptWatcher reloads a PromptStore whenever a prompt file in its
// directory is written, created, removed or renamed.
type PromptWatcher struct {
	store    *PromptStore
	onReload func(name string)
}

// NewPromptWatcher creates a watcher for the store's directory.
// onReload, if not nil, is called with the prompt name after each reload.
func NewPromptWatcher(store *PromptStore, onReload func(name string)) *PromptWatcher {
	return &PromptWatcher{store: store, onReload: onReload}
}

// Run watches until ctx is cancelled.
func (w *PromptWatcher) Run(ctx context.Context) error {
	dir := w.store.Dir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Debug("watching prompts in %s", dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".txt" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.store.Reload()
			name := strings.TrimSuffix(filepath.Base(event.Name), ".txt")
			logger.Info("prompt %q changed, reloaded", name)
			if w.onReload != nil {
				w.onReload(name)
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prompt watcher: %v", err)
		}
	}
}
