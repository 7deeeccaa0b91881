// Package embedding provides the process-wide embedding provider shared by
// every RAG engine, plus model adapters in its subpackages.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.Encoder = (*Provider)(nil)

// Prefixes of the asymmetric E5 convention. Passages and queries must use
// the prefixes they were trained with or retrieval quality silently drops.
const (
	PassagePrefix = "passage: "
	QueryPrefix   = "query: "
)

// Default configuration values.
const (
	DefaultBatchSize  = 32
	DefaultMaxRetries = 3
	DefaultRetryBase  = 500 * time.Millisecond
)

// Loader creates the underlying model client. It is called at most once
// successfully per Provider.
type Loader func(ctx context.Context) (driven.EmbeddingService, error)

// Config holds Provider configuration.
type Config struct {
	// BatchSize bounds texts per model call (default: 32).
	BatchSize int

	// MaxRetries bounds retries of a failed batch (default: 3).
	MaxRetries uint64

	// RetryBase is the first backoff delay (default: 500ms).
	RetryBase time.Duration
}

// Provider wraps an embedding model with lazy loading, the passage/query
// prefix convention and unit-length normalisation.
type Provider struct {
	loader Loader
	cfg    Config

	mu      sync.Mutex
	svc     driven.EmbeddingService
	loadErr error
}

// NewProvider creates a provider. No model work happens until first use.
func NewProvider(loader Loader, cfg Config) *Provider {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = DefaultRetryBase
	}
	return &Provider{loader: loader, cfg: cfg}
}

// NewStaticProvider wraps an already constructed service.
func NewStaticProvider(svc driven.EmbeddingService, cfg Config) *Provider {
	return NewProvider(func(context.Context) (driven.EmbeddingService, error) {
		return svc, nil
	}, cfg)
}

// Load loads the model if it is not loaded yet. A load failure is remembered
// and returned to every later caller; cancellation is not remembered.
func (p *Provider) Load(ctx context.Context) error {
	_, err := p.service(ctx)
	return err
}

func (p *Provider) service(ctx context.Context) (driven.EmbeddingService, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.svc != nil {
		return p.svc, nil
	}
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	if p.loader == nil {
		p.loadErr = fmt.Errorf("%w: no embedding model configured", domain.ErrEmbeddingUnavailable)
		return nil, p.loadErr
	}

	logger.Section("Embedding Model")
	start := time.Now()
	svc, err := p.loader(ctx)
	if err != nil {
		wrapped := fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		if ctx.Err() == nil {
			p.loadErr = wrapped
		}
		logger.Error("embedding model load failed: %v", err)
		return nil, wrapped
	}
	if svc == nil {
		p.loadErr = fmt.Errorf("%w: loader returned no service", domain.ErrEmbeddingUnavailable)
		return nil, p.loadErr
	}

	p.svc = svc
	logger.Debug("loaded %s (%d dims) in %v", svc.ModelName(), svc.Dimensions(), time.Since(start))
	return svc, nil
}

// Encode embeds texts with the passage prefix, or the query prefix when
// asQuery is set, and normalises every vector to unit length.
func (p *Provider) Encode(ctx context.Context, texts []string, asQuery bool) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	svc, err := p.service(ctx)
	if err != nil {
		return nil, err
	}

	prefix := PassagePrefix
	if asQuery {
		prefix = QueryPrefix
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += p.cfg.BatchSize {
		end := min(start+p.cfg.BatchSize, len(texts))

		batch := make([]string, end-start)
		for i, text := range texts[start:end] {
			batch[i] = prefix + text
		}

		embedded, err := p.embedBatch(ctx, svc, batch)
		if err != nil {
			return nil, fmt.Errorf("encode batch %d-%d: %w", start, end, err)
		}
		if len(embedded) != len(batch) {
			return nil, fmt.Errorf("encode batch %d-%d: got %d vectors for %d texts",
				start, end, len(embedded), len(batch))
		}
		for _, vec := range embedded {
			vectors = append(vectors, Normalize(vec))
		}
	}

	return vectors, nil
}

func (p *Provider) embedBatch(ctx context.Context, svc driven.EmbeddingService, batch []string) ([][]float32, error) {
	var result [][]float32
	backoff := retry.WithMaxRetries(p.cfg.MaxRetries, retry.NewExponential(p.cfg.RetryBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		vectors, err := svc.EmbedBatch(ctx, batch)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			logger.Debug("embedding batch failed, retrying: %v", err)
			return retry.RetryableError(err)
		}
		result = vectors
		return nil
	})
	return result, err
}

// Dimensions returns the vector size of the loaded model, or 0 before loading.
func (p *Provider) Dimensions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.svc == nil {
		return 0
	}
	return p.svc.Dimensions()
}

// ModelName returns the loaded model name, or an empty string before loading.
func (p *Provider) ModelName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.svc == nil {
		return ""
	}
	return p.svc.ModelName()
}

// Close releases the loaded model.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.svc == nil {
		return nil
	}
	err := p.svc.Close()
	p.svc = nil
	return err
}

// Normalize scales vec to unit length in place and returns it.
// A zero vector is returned unchanged.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i, v := range vec {
		vec[i] = float32(float64(v) / norm)
	}
	return vec
}
