package embcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

// --- Mocks ---

type mockEmbedder struct {
	mu         sync.Mutex
	embedCalls int
	batchCalls int
	batchSizes []int
	err        error
	delay      time.Duration
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	m.embedCalls++
	m.mu.Unlock()
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{
		Embedding:   []float32{float32(len(text))},
		TotalTokens: 7,
	}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.mu.Lock()
	m.batchCalls++
	m.batchSizes = append(m.batchSizes, len(texts))
	m.mu.Unlock()
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	out := domain.BatchEmbeddingResult{TotalTokens: 7 * len(texts)}
	for _, t := range texts {
		out.Embeddings = append(out.Embeddings, []float32{float32(len(t))})
	}
	return out, nil
}

func newCached(inner domain.Embedder, maxEntries int, ttl time.Duration) *CachedEmbedder {
	return New(inner, NewCache(maxEntries, ttl), 0, nil, zap.NewNop())
}

// --- Tests ---

func TestEmbedSecondCallIsHit(t *testing.T) {
	inner := &mockEmbedder{}
	c := newCached(inner, 10, time.Hour)

	first, err := c.Embed(context.Background(), "goan breakfast ideas")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	second, err := c.Embed(context.Background(), "goan breakfast ideas")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if inner.embedCalls != 1 {
		t.Errorf("inner called %d times, want 1", inner.embedCalls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("cache hit reported %d tokens, want 0", second.TotalTokens)
	}
	if len(first.Embedding) != len(second.Embedding) {
		t.Error("hit returned different vector")
	}
	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit / 1 miss", stats)
	}
}

func TestEmbedKeyNormalization(t *testing.T) {
	inner := &mockEmbedder{}
	c := newCached(inner, 10, time.Hour)

	if _, err := c.Embed(context.Background(), "Goan Breakfast"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Embed(context.Background(), "  goan breakfast  "); err != nil {
		t.Fatal(err)
	}
	if inner.embedCalls != 1 {
		t.Errorf("inner called %d times, want 1 for case/whitespace variants", inner.embedCalls)
	}
}

func TestCacheLRUEviction(t *testing.T) {
	cache := NewCache(2, time.Hour)
	cache.Put("a", []float32{1})
	cache.Put("b", []float32{2})

	// Touch "a" so "b" is the eviction victim.
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("a missing before eviction")
	}
	cache.Put("c", []float32{3})

	if _, ok := cache.Get("b"); ok {
		t.Error("least-recently-used entry not evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("recently used entry evicted")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("new entry missing")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	cache := NewCache(10, time.Minute)
	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Put("a", []float32{1})
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("entry missing before expiry")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := cache.Get("a"); ok {
		t.Error("expired entry served")
	}
	if cache.Stats().Size != 0 {
		t.Errorf("expired entry still counted, size = %d", cache.Stats().Size)
	}
}

func TestEmbedErrorLeavesCacheUntouched(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	c := newCached(inner, 10, time.Hour)

	if _, err := c.Embed(context.Background(), "query"); err == nil {
		t.Fatal("Embed() error = nil, want provider error")
	}
	if c.Stats().Size != 0 {
		t.Errorf("failed embed cached, size = %d", c.Stats().Size)
	}
}

func TestEmbedCollapsesConcurrentMisses(t *testing.T) {
	inner := &mockEmbedder{delay: 20 * time.Millisecond}
	c := newCached(inner, 10, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Embed(context.Background(), "same query"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	inner.mu.Lock()
	calls := inner.embedCalls
	inner.mu.Unlock()
	if calls > 2 {
		t.Errorf("inner called %d times for one key, singleflight not collapsing", calls)
	}
}

func TestBatchEmbedSingleProviderCall(t *testing.T) {
	inner := &mockEmbedder{}
	c := newCached(inner, 10, time.Hour)

	// Pre-warm one entry.
	if _, err := c.Embed(context.Background(), "warm"); err != nil {
		t.Fatal(err)
	}

	res, err := c.BatchEmbed(context.Background(), []string{"warm", "cold one", "cold two", "Cold One"})
	if err != nil {
		t.Fatalf("BatchEmbed() error = %v", err)
	}
	if inner.batchCalls != 1 {
		t.Errorf("batch calls = %d, want exactly 1", inner.batchCalls)
	}
	for i, vec := range res.Embeddings {
		if len(vec) == 0 {
			t.Errorf("position %d has no vector", i)
		}
	}
	// Duplicate key positions share one vector.
	if res.Embeddings[1][0] != res.Embeddings[3][0] {
		t.Error("duplicate texts got different vectors")
	}
}

func TestBatchEmbedSplitsOversizedMissBatch(t *testing.T) {
	inner := &mockEmbedder{}
	c := New(inner, NewCache(10, time.Hour), 2, nil, zap.NewNop())

	texts := []string{"one", "two", "three", "four", "five"}
	res, err := c.BatchEmbed(context.Background(), texts)
	if err != nil {
		t.Fatalf("BatchEmbed() error = %v", err)
	}
	if inner.batchCalls != 3 {
		t.Errorf("batch calls = %d, want 3 for 5 misses at limit 2", inner.batchCalls)
	}
	for _, size := range inner.batchSizes {
		if size > 2 {
			t.Errorf("provider batch of %d texts exceeds limit 2", size)
		}
	}
	for i, vec := range res.Embeddings {
		if len(vec) == 0 {
			t.Errorf("position %d has no vector", i)
		}
	}
	if res.TotalTokens != 7*len(texts) {
		t.Errorf("TotalTokens = %d, want %d summed across chunks", res.TotalTokens, 7*len(texts))
	}
}

func TestBatchEmbedAllHitsSkipsProvider(t *testing.T) {
	inner := &mockEmbedder{}
	c := newCached(inner, 10, time.Hour)

	for _, text := range []string{"a", "b"} {
		if _, err := c.Embed(context.Background(), text); err != nil {
			t.Fatal(err)
		}
	}
	inner.mu.Lock()
	inner.batchCalls = 0
	inner.mu.Unlock()

	if _, err := c.BatchEmbed(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("BatchEmbed() error = %v", err)
	}
	if inner.batchCalls != 0 {
		t.Errorf("provider called %d times for all-hit batch, want 0", inner.batchCalls)
	}
}
