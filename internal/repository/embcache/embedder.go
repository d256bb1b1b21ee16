package embcache

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

// CachedEmbedder is a caching decorator over an embedding provider.
// Concurrent misses for the same normalized key are collapsed into a single
// provider call via singleflight. Provider failures leave the cache
// unmodified.
type CachedEmbedder struct {
	inner      domain.Embedder
	cache      *Cache
	group      singleflight.Group
	maxBatch   int
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// maxBatch bounds the texts per provider call; <=0 disables the bound.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Embedder,
	cache *Cache,
	maxBatch int,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		cache:      cache,
		maxBatch:   maxBatch,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Stats exposes the underlying cache counters.
func (c *CachedEmbedder) Stats() Stats { return c.cache.Stats() }

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if vec, ok := c.cache.Get(text); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	c.incCache("miss")

	key := Key(text)
	v, err, _ := c.group.Do(key, func() (any, error) {
		result, err := c.inner.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		c.cache.Put(text, result.Embedding)
		return result, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	return v.(domain.EmbeddingResult), nil
}

// BatchEmbed serves cached texts locally and sends only the misses to the
// provider, split into chunks of at most maxBatch texts. On provider error
// the whole batch fails and the cache is left untouched.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}

	missIdx := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))
	seen := make(map[string][]int, len(texts)) // normalized key → positions needing it

	for i, text := range texts {
		if vec, ok := c.cache.Get(text); ok {
			c.incCache("hit")
			out.Embeddings[i] = vec
			continue
		}
		c.incCache("miss")

		key := Key(text)
		if positions, dup := seen[key]; dup {
			seen[key] = append(positions, i)
			continue
		}
		seen[key] = []int{i}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	chunk := c.maxBatch
	if chunk <= 0 {
		chunk = len(missTexts)
	}
	vectors := make([][]float32, 0, len(missTexts))
	for start := 0; start < len(missTexts); start += chunk {
		end := start + chunk
		if end > len(missTexts) {
			end = len(missTexts)
		}
		res, err := c.batchInner(ctx, missTexts[start:end])
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		if len(res.Embeddings) != end-start {
			return domain.BatchEmbeddingResult{}, fmt.Errorf(
				"batch embed: got %d vectors for %d texts: %w",
				len(res.Embeddings), end-start, domain.ErrEmbeddingProviderError)
		}
		vectors = append(vectors, res.Embeddings...)
		out.PromptTokens += res.PromptTokens
		out.TotalTokens += res.TotalTokens
	}

	for j, i := range missIdx {
		vec := vectors[j]
		c.cache.Put(texts[i], vec)
		for _, pos := range seen[Key(texts[i])] {
			out.Embeddings[pos] = vec
		}
	}
	return out, nil
}

// batchInner prefers the provider's native batch endpoint.
func (c *CachedEmbedder) batchInner(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := c.inner.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, c.inner, texts)
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
