package retrieval

import (
	"context"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/aggregate"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/querybuilder"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/rank"
)

// QueryBuilder turns a request into a deterministic per-stage query plan.
type QueryBuilder interface {
	Build(req *domain.RetrievalRequest) []querybuilder.StageQueries
}

// StageExecutor runs one stage's queries against the index.
type StageExecutor interface {
	Run(ctx context.Context, stage string, queries []domain.Query) (domain.StageResult, error)
}

// Filter narrows a stage's candidates against the constraint set.
type Filter interface {
	Apply(ctx context.Context, stage string, candidates []domain.Candidate, cs domain.ConstraintSet) []domain.Candidate
}

// Ranker re-scores candidates with the intent's weight profile.
type Ranker interface {
	Rank(ctx context.Context, candidates []domain.Candidate, cs domain.ConstraintSet, intent rank.Intent) ([]domain.ScoredCandidate, error)
}

// Selector picks a diverse top-k from a ranked list.
type Selector interface {
	Select(ctx context.Context, ranked []domain.ScoredCandidate, k int) []domain.ScoredCandidate
}

// Aggregator merges stage selections into the final bounded context.
type Aggregator interface {
	Merge(ctx context.Context, selections []aggregate.StageSelection) domain.AggregatedContext
}
