package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/ai"
	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/config/file"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and edit ~/.pravo/config.toml.

Keys use dot notation, for example llm.model or rag.top_k.
Durations are written as Go durations such as 30s or 24h.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Values are stored as booleans, integers or
numbers when they parse as one, otherwise as strings.

When the value is omitted for an *.api_key key it is read from the terminal
without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the embedding model and LLM are reachable",
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

// configStore returns the running application's store, or opens the file
// directly so that config commands never touch storage.
func configStore() (driven.ConfigStore, error) {
	appMu.Lock()
	a := application
	appMu.Unlock()
	if a != nil {
		return a.Config, nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	return store, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}
	settings := services.LoadSettings(store)

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", describeAPIKey(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", describeAPIKey(settings.LLM.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.RAG.TopK)
	cmd.Printf("  Min score: %.2f\n", settings.RAG.MinScore)
	cmd.Printf("  Max chunk chars: %d\n", settings.RAG.MaxChunkChars)
	cmd.Printf("  Display cap: %d\n", settings.RAG.DisplayCap)
	cmd.Printf("  Max tokens: %d\n", settings.RAG.MaxTokens)
	cmd.Printf("  LLM timeout: %s\n", settings.RAG.LLMTimeout)
	cmd.Printf("  Retry failed init: %t\n", settings.RAG.RetryFailedInit)
	cmd.Println()

	refresh := settings.Scheduler.GetTaskConfig(domain.TaskIDDocumentRefresh)
	cmd.Println("[Scheduler]")
	cmd.Printf("  Enabled: %t\n", settings.Scheduler.Enabled)
	cmd.Printf("  Refresh: %t every %s\n", refresh.Enabled, refresh.Interval)
	cmd.Printf("  Max attempts: %d\n", settings.Scheduler.MaxAttempts)
	cmd.Println()

	cmd.Printf("Config file: %s\n", store.Path())
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}
	val, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("%w: key %q is not set", domain.ErrNotFound, args[0])
	}
	if isSecretKey(args[0]) {
		if s, ok := val.(string); ok {
			val = maskAPIKey(s)
		}
	}
	cmd.Println(val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !isKnownKey(key) {
		return fmt.Errorf("%w: unknown key %q (known keys: %s)",
			domain.ErrInvalidInput, key, strings.Join(knownKeys(), ", "))
	}

	var raw string
	switch {
	case len(args) == 2:
		raw = args[1]
	case isSecretKey(key):
		cmd.Printf("Enter %s: ", key)
		raw = readPassword(cmd)
		cmd.Println()
		if raw == "" {
			return errors.New("value is required")
		}
	default:
		return fmt.Errorf("%w: value is required for %s", domain.ErrInvalidInput, key)
	}

	store, err := configStore()
	if err != nil {
		return err
	}
	if err := store.Set(key, parseValue(raw)); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	shown := raw
	if isSecretKey(key) {
		shown = maskAPIKey(raw)
	}
	cmd.Printf("%s = %s\n", key, shown)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}
	settings := services.LoadSettings(store)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var failed bool

	cmd.Printf("Embedding (%s)... ", settings.Embedding.Provider)
	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	switch {
	case err != nil:
		failed = true
		cmd.Printf("FAILED: %v\n", err)
	case embedder == nil:
		failed = true
		cmd.Println("not configured")
	default:
		cmd.Printf("OK (%s, %d dimensions)\n", embedder.ModelName(), embedder.Dimensions())
		embedder.Close()
	}

	cmd.Printf("LLM (%s)... ", settings.LLM.Provider)
	llm, err := ai.CreateAndValidateLLMService(ctx, &settings.LLM)
	switch {
	case err != nil:
		failed = true
		cmd.Printf("FAILED: %v\n", err)
	case llm == nil:
		failed = true
		cmd.Println("not configured")
	default:
		cmd.Printf("OK (%s)\n", llm.ModelName())
		llm.Close()
	}

	promptDir := filepath.Join(filepath.Dir(store.Path()), "prompts")
	for _, name := range []string{driven.PromptAnswerSystem, driven.PromptAnswerUser} {
		cmd.Printf("Prompt %s... ", name)
		data, err := os.ReadFile(filepath.Join(promptDir, name+".txt"))
		switch {
		case errors.Is(err, os.ErrNotExist):
			cmd.Println("built-in")
		case err != nil:
			failed = true
			cmd.Printf("FAILED: %v\n", err)
		default:
			if err := file.Validate(name, string(data)); err != nil {
				failed = true
				cmd.Printf("FAILED: %v\n", err)
			} else {
				cmd.Println("OK")
			}
		}
	}

	if failed {
		return errors.New("configuration check failed")
	}
	return nil
}

// Helper functions.

var configKeys = []string{
	services.KeyDataDir,
	services.KeyEmbeddingProvider, services.KeyEmbeddingModel, services.KeyEmbeddingBaseURL,
	services.KeyEmbeddingAPIKey, services.KeyEmbeddingDimensions,
	services.KeyLLMProvider, services.KeyLLMModel, services.KeyLLMBaseURL, services.KeyLLMAPIKey,
	services.KeyLLMReferer, services.KeyLLMTitle,
	services.KeyRAGTopK, services.KeyRAGMinScore, services.KeyRAGMaxChunkChars, services.KeyRAGDisplayCap,
	services.KeyRAGMaxTokens, services.KeyRAGTemperature, services.KeyRAGLLMTimeout,
	services.KeyRAGRetryFailedInit, services.KeyRAGWarmUpOnStart,
	services.KeySchedulerEnabled, services.KeySchedulerMaxAttempts, services.KeySchedulerBaseBackoff,
	services.KeySchedulerRefreshEnabled, services.KeySchedulerRefreshInterval,
}

func knownKeys() []string {
	keys := append([]string(nil), configKeys...)
	sort.Strings(keys)
	return keys
}

func isKnownKey(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}
	return false
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, ".api_key")
}

// parseValue keeps TOML types so that integer and boolean lookups work.
func parseValue(raw string) any {
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func describeAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(cmd *cobra.Command) string {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
