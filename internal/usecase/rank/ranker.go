package rank

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/logger"
)

// neutralScore is used whenever a candidate carries no metadata for a
// feature. Unknown never rewards and never punishes.
const neutralScore = 0.5

// Ranker blends raw vector similarity with nutrition-aware feature
// scores. All features normalize to [0, 1] before weighting.
type Ranker struct {
	proteinCeilingG float64
	carbCeilingG    float64
}

func NewRanker(proteinCeilingG, carbCeilingG float64) *Ranker {
	return &Ranker{
		proteinCeilingG: proteinCeilingG,
		carbCeilingG:    carbCeilingG,
	}
}

// Rank scores and orders the candidates for one stage. Ties break on raw
// similarity descending, then candidate ID ascending, so the ordering
// is fully deterministic.
func (r *Ranker) Rank(ctx context.Context, candidates []domain.Candidate, cs domain.ConstraintSet, intent Intent) ([]domain.ScoredCandidate, error) {
	weights := WeightsFor(intent)
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		features := map[string]float64{
			FeatureSimilarity: clamp01(c.Similarity),
			FeatureProtein:    r.proteinScore(c.Meta.ProteinG),
			FeatureGlycemic:   glycemicScore(c.Meta.GI),
			FeatureBudget:     budgetScore(c.Meta, cs.Budget),
			FeaturePrepTime:   prepTimeScore(c.Meta.PrepMins, cs.MaxPrepMins),
			FeatureCarbs:      r.carbScore(c.Meta.CarbsG, cs.LowCarb),
		}
		total := 0.0
		for name, w := range weights {
			total += w * features[name]
		}
		scored = append(scored, domain.ScoredCandidate{
			Candidate:     c,
			ReRankScore:   total,
			FeatureScores: features,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].ReRankScore != scored[j].ReRankScore {
			return scored[i].ReRankScore > scored[j].ReRankScore
		}
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].ID < scored[j].ID
	})

	logger.FromContext(ctx).Debug("candidates ranked",
		zap.String("intent", string(intent)),
		zap.Int("count", len(scored)),
	)
	return scored, nil
}

// proteinScore rewards protein linearly up to the ceiling. More protein
// past the ceiling earns no extra credit.
func (r *Ranker) proteinScore(proteinG *float64) float64 {
	if proteinG == nil {
		return neutralScore
	}
	return clamp01(*proteinG / r.proteinCeilingG)
}

// carbScore depends on mode. In low-carb mode fewer carbs is strictly
// better. Otherwise moderate is best: the score peaks at half the
// ceiling and falls off toward zero and toward the ceiling.
func (r *Ranker) carbScore(carbsG *float64, lowCarb bool) float64 {
	if carbsG == nil {
		return neutralScore
	}
	if lowCarb {
		return clamp01(1 - *carbsG/r.carbCeilingG)
	}
	mid := r.carbCeilingG / 2
	dist := *carbsG - mid
	if dist < 0 {
		dist = -dist
	}
	return clamp01(1 - dist/mid)
}

func glycemicScore(gi domain.GlycemicIndex) float64 {
	switch gi {
	case domain.GILow:
		return 1.0
	case domain.GIMedium:
		return 0.7
	case domain.GIHigh:
		return 0.3
	}
	return neutralScore
}

// budgetScore is 1.0 when the candidate fits the budget and decays
// linearly to 0 at twice the budget ceiling. Without a budget constraint
// or candidate cost data the feature stays neutral.
func budgetScore(meta domain.Metadata, budget domain.BudgetRange) float64 {
	if budget.Max <= 0 {
		return neutralScore
	}
	cost := meta.BudgetMax
	if cost == nil {
		cost = meta.BudgetMin
	}
	if cost == nil {
		return neutralScore
	}
	if *cost <= budget.Max {
		return 1.0
	}
	return clamp01(2 - *cost/budget.Max)
}

// prepTimeScore mirrors budgetScore for preparation time: full credit
// within the limit, linear decay to 0 at twice the limit.
func prepTimeScore(prepMins *int, maxPrepMins int) float64 {
	if maxPrepMins <= 0 || prepMins == nil {
		return neutralScore
	}
	if *prepMins <= maxPrepMins {
		return 1.0
	}
	return clamp01(2 - float64(*prepMins)/float64(maxPrepMins))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
