package rank

import (
	"fmt"
	"math"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

// Ranking feature names. FeatureScores entries and weight keys share them.
const (
	FeatureSimilarity = "similarity"
	FeatureProtein    = "protein"
	FeatureGlycemic   = "glycemic"
	FeatureBudget     = "budget"
	FeaturePrepTime   = "prep_time"
	FeatureCarbs      = "carbs"
)

// Weights assigns one weight per ranking feature. A valid profile sums
// to 1.0 so re-rank scores stay comparable across intents.
type Weights map[string]float64

const weightSumTolerance = 1e-6

// Validate checks the profile sums to 1.0 and has no negative weights.
func (w Weights) Validate() error {
	sum := 0.0
	for name, v := range w {
		if v < 0 {
			return fmt.Errorf("weight %s is negative: %w", name, domain.ErrInvalidWeights)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights sum to %.6f: %w", sum, domain.ErrInvalidWeights)
	}
	return nil
}

// intentWeights holds the per-intent profiles. Every intent keeps
// similarity dominant and shifts mass toward the feature the intent
// cares about.
var intentWeights = map[Intent]Weights{
	IntentGeneral: {
		FeatureSimilarity: 0.40,
		FeatureProtein:    0.12,
		FeatureGlycemic:   0.16,
		FeatureBudget:     0.10,
		FeaturePrepTime:   0.07,
		FeatureCarbs:      0.15,
	},
	IntentHighProtein: {
		FeatureSimilarity: 0.30,
		FeatureProtein:    0.30,
		FeatureGlycemic:   0.12,
		FeatureBudget:     0.08,
		FeaturePrepTime:   0.05,
		FeatureCarbs:      0.15,
	},
	IntentBloodSugar: {
		FeatureSimilarity: 0.30,
		FeatureProtein:    0.10,
		FeatureGlycemic:   0.28,
		FeatureBudget:     0.07,
		FeaturePrepTime:   0.05,
		FeatureCarbs:      0.20,
	},
	IntentBudget: {
		FeatureSimilarity: 0.32,
		FeatureProtein:    0.10,
		FeatureGlycemic:   0.12,
		FeatureBudget:     0.26,
		FeaturePrepTime:   0.06,
		FeatureCarbs:      0.14,
	},
	IntentQuick: {
		FeatureSimilarity: 0.32,
		FeatureProtein:    0.10,
		FeatureGlycemic:   0.13,
		FeatureBudget:     0.08,
		FeaturePrepTime:   0.25,
		FeatureCarbs:      0.12,
	},
}

// WeightsFor returns the profile for the intent, falling back to the
// general profile for unrecognized intents.
func WeightsFor(intent Intent) Weights {
	if w, ok := intentWeights[intent]; ok {
		return w
	}
	return intentWeights[IntentGeneral]
}
