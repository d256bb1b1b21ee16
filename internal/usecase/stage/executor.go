package stage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/logger"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/metrics"
)

// Executor runs all queries of a single retrieval stage concurrently
// against the index, tolerating partial failure. A stage fails only
// when every one of its queries fails.
type Executor struct {
	embedder Embedder
	searcher Searcher
	timeout  time.Duration
}

func NewExecutor(embedder Embedder, searcher Searcher, timeout time.Duration) *Executor {
	return &Executor{
		embedder: embedder,
		searcher: searcher,
		timeout:  timeout,
	}
}

// Run executes every query of the stage and merges the hits into one
// StageResult. A stage's queries are paraphrases of each other, so the
// same candidate routinely comes back from several of them; duplicates
// are collapsed by ID, keeping the highest similarity. Per-query
// failures are recorded in StageResult.Errors; the returned error is
// non-nil only when no query succeeded.
func (e *Executor) Run(ctx context.Context, stageName string, queries []domain.Query) (domain.StageResult, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var (
		mu         sync.Mutex
		candidates []domain.Candidate
		queryErrs  []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		q := q
		g.Go(func() error {
			hits, err := e.runQuery(gctx, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				queryErrs = append(queryErrs, fmt.Sprintf("%s: %v", q.Text, err))
				log.Warn("stage query failed",
					zap.String("stage", stageName),
					zap.String("query", q.Text),
					zap.Error(err),
				)
				return nil
			}
			candidates = append(candidates, hits...)
			return nil
		})
	}
	_ = g.Wait()

	merged := collapseByID(candidates)

	elapsed := time.Since(start)
	result := domain.StageResult{
		Stage:         stageName,
		Candidates:    merged,
		QueriesIssued: len(queries),
		Errors:        queryErrs,
		ElapsedMs:     elapsed.Milliseconds(),
	}

	metrics.StageDuration.WithLabelValues(stageName).Observe(elapsed.Seconds())
	metrics.StageQueryFailures.WithLabelValues(stageName).Add(float64(len(queryErrs)))
	metrics.CandidatesTotal.WithLabelValues(stageName, "retrieved").Add(float64(len(merged)))

	if len(queries) > 0 && len(queryErrs) == len(queries) {
		return result, fmt.Errorf("stage %s: %w", stageName, domain.ErrStageFailed)
	}
	return result, nil
}

// collapseByID drops duplicate candidates, keeping the occurrence with
// the highest similarity.
func collapseByID(candidates []domain.Candidate) []domain.Candidate {
	if len(candidates) == 0 {
		return candidates
	}
	seen := make(map[string]int, len(candidates)) // candidate ID -> index in out
	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if i, dup := seen[c.ID]; dup {
			if c.Similarity > out[i].Similarity {
				out[i] = c
			}
			continue
		}
		seen[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}

func (e *Executor) runQuery(ctx context.Context, q domain.Query) ([]domain.Candidate, error) {
	emb, err := e.embedder.Embed(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := e.searcher.Search(ctx, emb.Embedding, q.TopK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return hits, nil
}
