package filterpipe

import (
	"context"

	"go.uber.org/zap"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/logger"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/metrics"
)

// Pipeline applies constraint predicates in a fixed order, cheapest and
// most selective first. Order is observable only through survivor logs;
// the surviving set itself is order-independent.
type Pipeline struct {
	predicates []Predicate
}

func New() *Pipeline {
	return &Pipeline{predicates: defaultPredicates()}
}

// Apply filters the candidates of one stage against the constraint set.
// Each active predicate logs its survivor count so over-filtering is
// diagnosable from a single request trace.
func (p *Pipeline) Apply(ctx context.Context, stage string, candidates []domain.Candidate, cs domain.ConstraintSet) []domain.Candidate {
	log := logger.FromContext(ctx)

	survivors := candidates
	for _, pred := range p.predicates {
		if !pred.Active(cs) {
			continue
		}
		before := len(survivors)
		untagged := 0
		kept := survivors[:0:0]
		for _, c := range survivors {
			if pred.Keep(c, cs) {
				kept = append(kept, c)
				continue
			}
			if pred.Name == predicateDiet && c.Meta.Diet == domain.DietAny {
				untagged++
			}
		}
		survivors = kept
		log.Debug("filter applied",
			zap.String("stage", stage),
			zap.String("predicate", pred.Name),
			zap.Int("before", before),
			zap.Int("after", len(survivors)),
		)
		if pred.Name == predicateDiet && before > len(survivors) {
			log.Warn("diet filter dropped candidates",
				zap.String("stage", stage),
				zap.String("diet", string(cs.Diet)),
				zap.Int("dropped", before-len(survivors)),
				zap.Int("untagged", untagged),
			)
		}
		if len(survivors) == 0 {
			break
		}
	}

	metrics.CandidatesTotal.WithLabelValues(stage, "filtered").Add(float64(len(survivors)))
	return survivors
}
