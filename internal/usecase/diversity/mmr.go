package diversity

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/logger"
)

// Metadata similarity weights. They sum to 1.0 so pairwise similarity
// stays in [0, 1].
const (
	weightRegion   = 0.30
	weightCategory = 0.25
	weightDiet     = 0.20
	weightProtein  = 0.15
	weightCarbs    = 0.10
)

// Gram scales for macro closeness. Differences at or beyond the scale
// count as fully dissimilar.
const (
	proteinScaleG = 30.0
	carbScaleG    = 60.0
)

// poolFactor bounds how deep into the ranked list MMR looks. The pool is
// poolFactor*k, keeping selection linear in k rather than in the full
// candidate count.
const poolFactor = 3

// Selector picks a diverse top-k from a ranked candidate list using
// maximal marginal relevance over metadata similarity. Vectors are not
// needed; two meals are redundant when their attributes coincide, not
// when their embeddings do.
type Selector struct {
	lambda float64
}

// NewSelector builds a selector with the given relevance/diversity
// trade-off. Lambda 1 is pure relevance, lambda 0 pure diversity;
// out-of-range values are clamped.
func NewSelector(lambda float64) *Selector {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &Selector{lambda: lambda}
}

// Select returns up to k candidates from the ranked list. The first pick
// is always the top-ranked candidate; each following pick maximizes
// lambda*relevance - (1-lambda)*maxSimilarityToSelected. Ties keep the
// incoming rank order.
func (s *Selector) Select(ctx context.Context, ranked []domain.ScoredCandidate, k int) []domain.ScoredCandidate {
	if k <= 0 || len(ranked) == 0 {
		return nil
	}

	pool := ranked
	if limit := poolFactor * k; len(pool) > limit {
		pool = pool[:limit]
	}
	if k > len(pool) {
		k = len(pool)
	}

	selected := make([]domain.ScoredCandidate, 0, k)
	remaining := make([]domain.ScoredCandidate, len(pool))
	copy(remaining, pool)

	selected = append(selected, remaining[0])
	remaining = remaining[1:]

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := s.marginalScore(remaining[0], selected)
		for i := 1; i < len(remaining); i++ {
			score := s.marginalScore(remaining[i], selected)
			if score > bestScore {
				bestIdx = i
				bestScore = score
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	logger.FromContext(ctx).Debug("diversity selection",
		zap.Int("pool", len(pool)),
		zap.Int("selected", len(selected)),
	)
	return selected
}

func (s *Selector) marginalScore(c domain.ScoredCandidate, selected []domain.ScoredCandidate) float64 {
	maxSim := 0.0
	for _, sel := range selected {
		if sim := metaSimilarity(c.Meta, sel.Meta); sim > maxSim {
			maxSim = sim
		}
	}
	return s.lambda*c.ReRankScore - (1-s.lambda)*maxSim
}

// metaSimilarity measures attribute overlap between two candidates.
// Unknown macro values contribute a neutral half credit.
func metaSimilarity(a, b domain.Metadata) float64 {
	sim := 0.0
	if a.Region != "" && strings.EqualFold(a.Region, b.Region) {
		sim += weightRegion
	}
	if a.Category != "" && strings.EqualFold(a.Category, b.Category) {
		sim += weightCategory
	}
	if a.Diet != domain.DietAny && a.Diet == b.Diet {
		sim += weightDiet
	}
	sim += weightProtein * closeness(a.ProteinG, b.ProteinG, proteinScaleG)
	sim += weightCarbs * closeness(a.CarbsG, b.CarbsG, carbScaleG)
	return sim
}

func closeness(a, b *float64, scale float64) float64 {
	if a == nil || b == nil {
		return 0.5
	}
	diff := *a - *b
	if diff < 0 {
		diff = -diff
	}
	if diff >= scale {
		return 0
	}
	return 1 - diff/scale
}
