package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"ollama is valid", AIProviderOllama, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"hashing is valid", AIProviderHashing, true},
		{"empty is invalid", AIProvider(""), false},
		{"anthropic is invalid", AIProvider("anthropic"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "Feature hashing (offline)", AIProviderHashing.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
	assert.True(t, AIProviderHashing.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{"hashing needs nothing", EmbeddingSettings{Provider: AIProviderHashing}, true},
		{"ollama needs no key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key or url", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai self-hosted url", EmbeddingSettings{Provider: AIProviderOpenAI, BaseURL: "http://tei:8080/v1"}, true},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk"}, true},
		{"invalid provider", EmbeddingSettings{Provider: "nope"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{"ollama", LLMSettings{Provider: AIProviderOllama}, true},
		{"openai with key", LLMSettings{Provider: AIProviderOpenAI, APIKey: "sk"}, true},
		{"openai without key", LLMSettings{Provider: AIProviderOpenAI}, false},
		{"hashing cannot generate", LLMSettings{Provider: AIProviderHashing}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, AIProviderHashing, settings.Embedding.Provider)
	assert.Equal(t, AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "https://openrouter.ai/api/v1", settings.LLM.BaseURL)
	assert.Equal(t, 5, settings.RAG.TopK)
	assert.Zero(t, settings.RAG.MinScore)
	assert.Equal(t, 3000, settings.RAG.MaxChunkChars)
	assert.Equal(t, 4000, settings.RAG.DisplayCap)
	assert.Equal(t, 30*time.Second, settings.RAG.LLMTimeout)
	assert.False(t, settings.RAG.RetryFailedInit)
}

func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	assert.Equal(t, 1024, dims["intfloat/multilingual-e5-large"])
	assert.Equal(t, 768, dims["nomic-embed-text"])
	assert.Zero(t, dims["unknown-model"])
}
