// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driven/embedding"
	hashingembed "github.com/alexuwunya/pravo-bot/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/alexuwunya/pravo-bot/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/alexuwunya/pravo-bot/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/alexuwunya/pravo-bot/internal/adapters/driven/llm/ollama"
	openaillm "github.com/alexuwunya/pravo-bot/internal/adapters/driven/llm/openai"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	Encoder    *embedding.Provider
	LLMService driven.LLMService
	Warnings   []string // Non-fatal issues; the affected service is left nil.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Encoder != nil {
		r.Encoder.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds the encoder and the language model from settings.
// The encoder loads lazily on first use. A misconfigured LLM is reported as a
// warning so retrieval-only commands keep working.
func Initialise(settings domain.AppSettings) *InitResult {
	result := &InitResult{
		Encoder: NewEncoder(settings.Embedding, embedding.Config{}),
	}

	llm, err := CreateLLMService(&settings.LLM)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
	case llm == nil:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("LLM provider %q is not configured, set llm.api_key or PRAVO_LLM_API_KEY", settings.LLM.Provider))
	default:
		result.LLMService = llm
	}
	return result
}

// NewEncoder returns a lazily loaded encoder. The model is created and pinged
// the first time a text is encoded.
func NewEncoder(settings domain.EmbeddingSettings, cfg embedding.Config) *embedding.Provider {
	return embedding.NewProvider(func(ctx context.Context) (driven.EmbeddingService, error) {
		svc, err := CreateAndValidateEmbeddingService(ctx, &settings)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, fmt.Errorf("%w: provider %q is not configured",
				domain.ErrEmbeddingUnavailable, settings.Provider)
		}
		return svc, nil
	}, cfg)
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'pravo config set embedding.provider' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	case domain.AIProviderHashing:
		return hashingembed.NewEmbeddingService(hashingembed.Config{Dimensions: dimensions}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Referer: settings.Referer,
			Title:   settings.Title,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
