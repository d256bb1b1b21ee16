package retrieval

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/logger"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/metrics"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/aggregate"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/rank"
)

// Engine orchestrates the full retrieval pipeline: query planning, parallel
// stage execution, per-stage filtering, re-ranking, diversity selection and
// final aggregation.
type Engine struct {
	builder    QueryBuilder
	executor   StageExecutor
	filter     Filter
	ranker     Ranker
	selector   Selector
	aggregator Aggregator

	requestTimeout time.Duration
	targetCount    int
}

func NewEngine(
	builder QueryBuilder,
	executor StageExecutor,
	filter Filter,
	ranker Ranker,
	selector Selector,
	aggregator Aggregator,
	requestTimeout time.Duration,
	targetCount int,
) *Engine {
	return &Engine{
		builder:        builder,
		executor:       executor,
		filter:         filter,
		ranker:         ranker,
		selector:       selector,
		aggregator:     aggregator,
		requestTimeout: requestTimeout,
		targetCount:    targetCount,
	}
}

// Retrieve runs one request end to end. Configuration errors (invalid
// constraints or weight profiles) fail the request; stage-level failures
// degrade it instead, and the result says so.
func (e *Engine) Retrieve(ctx context.Context, req domain.RetrievalRequest) (*domain.AggregatedContext, error) {
	log := logger.FromContext(ctx)

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.requestTimeout)
	defer cancel()

	plan := e.builder.Build(&req)
	intent := rank.DetectIntent(req.FreeText, req.Constraints)
	log.Info("retrieval plan built",
		zap.Int("stages", len(plan)),
		zap.String("intent", string(intent)),
	)

	selections := make([]aggregate.StageSelection, len(plan))

	g, gctx := errgroup.WithContext(ctx)
	for i, sq := range plan {
		i, sq := i, sq
		g.Go(func() error {
			sel, err := e.runStage(gctx, sq.Stage, sq.Queries, req.Constraints, intent)
			if err != nil {
				// A bad weight profile is a deployment bug, not a degraded
				// stage. Fail the whole request.
				if errors.Is(err, domain.ErrInvalidWeights) {
					return err
				}
				log.Warn("stage lost",
					zap.String("stage", sq.Stage),
					zap.Error(err),
				)
				sel.Lost = true
			}
			selections[i] = sel
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := e.aggregator.Merge(ctx, selections)
	if agg.Degraded {
		metrics.RequestsDegradedTotal.Inc()
	}
	log.Info("retrieval complete",
		zap.Int("items", len(agg.Items)),
		zap.Int("size_bytes", agg.TotalSizeBytes),
		zap.Bool("truncated", agg.Truncated),
		zap.Bool("degraded", agg.Degraded),
	)
	return &agg, nil
}

// runStage executes, filters, ranks and diversity-selects one stage. The
// returned selection carries the stage name and error count even on
// failure so aggregation can report what was lost.
func (e *Engine) runStage(ctx context.Context, stage string, queries []domain.Query, cs domain.ConstraintSet, intent rank.Intent) (aggregate.StageSelection, error) {
	sel := aggregate.StageSelection{Stage: stage}

	result, err := e.executor.Run(ctx, stage, queries)
	sel.ErrorCount = len(result.Errors)
	if err != nil {
		return sel, err
	}

	filtered := e.filter.Apply(ctx, stage, result.Candidates, cs)
	ranked, err := e.ranker.Rank(ctx, filtered, cs, intent)
	if err != nil {
		return sel, err
	}

	sel.Items = e.selector.Select(ctx, ranked, e.targetCount)
	metrics.CandidatesTotal.WithLabelValues(stage, "selected").Add(float64(len(sel.Items)))
	return sel, nil
}
