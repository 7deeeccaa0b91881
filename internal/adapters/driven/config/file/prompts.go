package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// ErrPromptPlaceholders is returned by Validate when an edited prompt dropped
// a placeholder the answer builder fills in.
var ErrPromptPlaceholders = errors.New("prompt is missing placeholders")

// promptTemplate is a built-in prompt and the placeholders it must keep.
type promptTemplate struct {
	text         string
	placeholders []string
}

var builtinPrompts = map[string]promptTemplate{
	driven.PromptAnswerSystem: {
		text:         domain.DefaultAnswerSystemPrompt,
		placeholders: []string{"%[1]s", "%[2]s"},
	},
	driven.PromptAnswerUser: {
		text:         domain.DefaultAnswerUserPrompt,
		placeholders: []string{"%[1]s", "%[2]s", "%[3]s"},
	},
}

// PromptStore serves answer prompts from <dir>/<name>.txt.
//
// The directory is seeded with the built-in prompts on first Load, never
// overwriting files the user already has. A file that is missing, unreadable
// or has lost a placeholder is replaced by the built-in prompt for that load.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore returns a store rooted at dir, or ~/.pravo/prompts when dir
// is empty. No files are touched until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".pravo", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the prompt called name.
func (s *PromptStore) Load(name string) (string, error) {
	builtin, known := builtinPrompts[name]

	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		if known {
			return builtin.text, nil
		}
		return "", fmt.Errorf("prompt %q: %w", name, s.seedErr)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	text, err := s.read(name)
	switch {
	case err != nil && !known:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case err != nil:
		logger.Debug("prompt %s: %v, using built-in", name, err)
		text = builtin.text
	case known && Validate(name, text) != nil:
		logger.Warn("prompt %s.txt lost its placeholders, using built-in", name)
		text = builtin.text
	}

	s.mu.Lock()
	if existing, ok := s.cache[name]; ok {
		text = existing
	} else {
		s.cache[name] = text
	}
	s.mu.Unlock()
	return text, nil
}

// Reload drops cached prompts so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Validate reports whether text keeps every placeholder the named built-in
// prompt uses. Unknown names are always valid.
func Validate(name, text string) error {
	builtin, ok := builtinPrompts[name]
	if !ok {
		return nil
	}
	var missing []string
	for _, p := range builtin.placeholders {
		if !strings.Contains(text, p) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s needs %s", ErrPromptPlaceholders, name, strings.Join(missing, ", "))
	}
	return nil
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	for name, builtin := range builtinPrompts {
		if err := writeIfAbsent(filepath.Join(s.dir, name+".txt"), builtin.text); err != nil {
			s.seedErr = fmt.Errorf("seed prompt %q: %w", name, err)
			return
		}
	}
	if err := writeIfAbsent(filepath.Join(s.dir, "README.md"), promptReadme); err != nil {
		s.seedErr = fmt.Errorf("seed prompt readme: %w", err)
	}
}

func writeIfAbsent(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}

const promptReadme = `# Prompts

Prompts used to answer questions about legal documents.

- answer_system.txt: instructions restricting the model to the retrieved articles.
  %[1]s is the document name, %[2]s the refusal answer.
- answer_user.txt: the retrieved articles and the question.
  %[1]s is the document name, %[2]s the articles, %[3]s the question.

A running pravo chat, pravo tui or pravo mcp picks up edits immediately.
If an edit drops a placeholder the built-in prompt is used instead;
pravo config check reports which file is affected.
`
