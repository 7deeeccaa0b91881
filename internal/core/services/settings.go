package services

import (
	"os"
	"time"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// Configuration keys.
const (
	KeyDataDir = "data_dir"

	KeyEmbeddingProvider   = "embedding.provider"
	KeyEmbeddingModel      = "embedding.model"
	KeyEmbeddingBaseURL    = "embedding.base_url"
	KeyEmbeddingAPIKey     = "embedding.api_key"
	KeyEmbeddingDimensions = "embedding.dimensions"

	KeyLLMProvider = "llm.provider"
	KeyLLMModel    = "llm.model"
	KeyLLMBaseURL  = "llm.base_url"
	KeyLLMAPIKey   = "llm.api_key"
	KeyLLMReferer  = "llm.referer"
	KeyLLMTitle    = "llm.title"

	KeyRAGTopK            = "rag.top_k"
	KeyRAGMinScore        = "rag.min_score"
	KeyRAGMaxChunkChars   = "rag.max_chunk_chars"
	KeyRAGDisplayCap      = "rag.display_cap"
	KeyRAGMaxTokens       = "rag.max_tokens"
	KeyRAGTemperature     = "rag.temperature"
	KeyRAGLLMTimeout      = "rag.llm_timeout"
	KeyRAGRetryFailedInit = "rag.retry_failed_init"
	KeyRAGWarmUpOnStart   = "rag.warm_up_on_start"

	KeySchedulerEnabled         = "scheduler.enabled"
	KeySchedulerMaxAttempts     = "scheduler.max_attempts"
	KeySchedulerBaseBackoff     = "scheduler.base_backoff"
	KeySchedulerRefreshEnabled  = "scheduler.refresh.enabled"
	KeySchedulerRefreshInterval = "scheduler.refresh.interval"
)

// Environment variables that override the LLM API key, in priority order.
const (
	EnvLLMAPIKey        = "PRAVO_LLM_API_KEY"
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
)

// LoadSettings builds application settings from the config store, falling
// back to the defaults for every missing key. A nil store yields the defaults.
func LoadSettings(store driven.ConfigStore) domain.AppSettings {
	settings := domain.DefaultAppSettings()
	if store != nil {
		r := settingsReader{store: store}

		r.str(KeyDataDir, &settings.DataDir)

		if r.str(KeyEmbeddingProvider, (*string)(&settings.Embedding.Provider)) {
			// A different provider does not inherit the default model.
			settings.Embedding.Model = ""
		}
		r.str(KeyEmbeddingModel, &settings.Embedding.Model)
		r.str(KeyEmbeddingBaseURL, &settings.Embedding.BaseURL)
		r.str(KeyEmbeddingAPIKey, &settings.Embedding.APIKey)
		r.integer(KeyEmbeddingDimensions, &settings.Embedding.Dimensions)

		if r.str(KeyLLMProvider, (*string)(&settings.LLM.Provider)) && settings.LLM.Provider != domain.AIProviderOpenAI {
			settings.LLM.Model = ""
			settings.LLM.BaseURL = ""
		}
		r.str(KeyLLMModel, &settings.LLM.Model)
		r.str(KeyLLMBaseURL, &settings.LLM.BaseURL)
		r.str(KeyLLMAPIKey, &settings.LLM.APIKey)
		r.str(KeyLLMReferer, &settings.LLM.Referer)
		r.str(KeyLLMTitle, &settings.LLM.Title)

		r.integer(KeyRAGTopK, &settings.RAG.TopK)
		r.float(KeyRAGMinScore, &settings.RAG.MinScore)
		r.integer(KeyRAGMaxChunkChars, &settings.RAG.MaxChunkChars)
		r.integer(KeyRAGDisplayCap, &settings.RAG.DisplayCap)
		r.integer(KeyRAGMaxTokens, &settings.RAG.MaxTokens)
		r.float(KeyRAGTemperature, &settings.RAG.Temperature)
		r.duration(KeyRAGLLMTimeout, &settings.RAG.LLMTimeout)
		r.boolean(KeyRAGRetryFailedInit, &settings.RAG.RetryFailedInit)
		r.boolean(KeyRAGWarmUpOnStart, &settings.RAG.WarmUpOnStart)

		r.boolean(KeySchedulerEnabled, &settings.Scheduler.Enabled)
		r.integer(KeySchedulerMaxAttempts, &settings.Scheduler.MaxAttempts)
		r.duration(KeySchedulerBaseBackoff, &settings.Scheduler.BaseBackoff)
		refresh := settings.Scheduler.GetTaskConfig(domain.TaskIDDocumentRefresh)
		r.boolean(KeySchedulerRefreshEnabled, &refresh.Enabled)
		r.duration(KeySchedulerRefreshInterval, &refresh.Interval)
		if !settings.Scheduler.Enabled {
			refresh.Enabled = false
		}
		settings.Scheduler.TaskConfigs[domain.TaskIDDocumentRefresh] = refresh
	}

	for _, env := range []string{EnvLLMAPIKey, EnvOpenRouterAPIKey} {
		if key := os.Getenv(env); key != "" {
			settings.LLM.APIKey = key
			break
		}
	}

	return settings
}

// settingsReader copies present keys into settings fields.
type settingsReader struct {
	store driven.ConfigStore
}

func (r settingsReader) str(key string, dst *string) bool {
	if v := r.store.GetString(key); v != "" {
		*dst = v
		return true
	}
	return false
}

func (r settingsReader) integer(key string, dst *int) {
	if v := r.store.GetInt(key); v > 0 {
		*dst = v
	}
}

func (r settingsReader) float(key string, dst *float64) {
	if _, ok := r.store.Get(key); ok {
		*dst = r.store.GetFloat(key)
	}
}

func (r settingsReader) boolean(key string, dst *bool) {
	if _, ok := r.store.Get(key); ok {
		*dst = r.store.GetBool(key)
	}
}

func (r settingsReader) duration(key string, dst *time.Duration) {
	raw, ok := r.store.Get(key)
	if !ok {
		return
	}
	d := r.store.GetDuration(key)
	if d <= 0 {
		logger.Warn("config: ignoring %s = %v: not a positive duration", key, raw)
		return
	}
	*dst = d
}
