package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is any OpenAI-compatible API (OpenAI, OpenRouter, TEI, Infinity).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderHashing is the offline feature-hashing embedder. Embeddings only.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI-compatible endpoints).
	APIKey string

	// Dimensions overrides the model's known vector size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" && e.BaseURL == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the bearer token.
	APIKey string

	// Referer and Title are sent as OpenRouter attribution headers when set.
	Referer string
	Title   string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHashing {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RAGSettings tunes retrieval and answer synthesis.
type RAGSettings struct {
	// TopK is how many chunks are retrieved per question.
	TopK int

	// MinScore drops hits below this cosine similarity. Zero disables the threshold.
	MinScore float64

	// MaxChunkChars bounds a chunk's text.
	MaxChunkChars int

	// DisplayCap bounds an answer shown to the user.
	DisplayCap int

	// MaxTokens bounds the model's answer.
	MaxTokens int

	// Temperature is passed to the model.
	Temperature float64

	// LLMTimeout bounds one language model call.
	LLMTimeout time.Duration

	// RetryFailedInit lets the next question re-run a failed initialisation.
	RetryFailedInit bool

	// WarmUpOnStart builds every engine when the process starts.
	WarmUpOnStart bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// DataDir holds the SQLite database and prompt files.
	DataDir string

	Embedding EmbeddingSettings
	LLM       LLMSettings
	RAG       RAGSettings
	Scheduler SchedulerConfig
}

// DefaultRAGSettings returns the reference retrieval parameters.
func DefaultRAGSettings() RAGSettings {
	return RAGSettings{
		TopK:          5,
		MaxChunkChars: 3000,
		DisplayCap:    4000,
		MaxTokens:     1024,
		Temperature:   0.2,
		LLMTimeout:    30 * time.Second,
		WarmUpOnStart: true,
	}
}

// DefaultAppSettings returns sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderHashing,
			Model:    "hashing-1024",
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    "qwen/qwen3-30b-a3b:free",
			BaseURL:  "https://openrouter.ai/api/v1",
			Referer:  "https://t.me/detpravo_bot",
			Title:    "RAG Assistant",
		},
		RAG:       DefaultRAGSettings(),
		Scheduler: DefaultSchedulerConfig(),
	}
}

// EmbeddingDimensions returns known embedding model dimensions.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"intfloat/multilingual-e5-large": 1024,
		"intfloat/multilingual-e5-base":  768,
		"intfloat/multilingual-e5-small": 384,
		"nomic-embed-text":               768,
		"mxbai-embed-large":              1024,
		"bge-m3":                         1024,
		"text-embedding-3-small":         1536,
		"text-embedding-3-large":         3072,
		"hashing-1024":                   1024,
	}
}
