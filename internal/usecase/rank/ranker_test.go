package rank

import (
	"context"
	"math"
	"testing"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func newTestRanker() *Ranker { return NewRanker(30, 60) }

func TestAllWeightProfilesSumToOne(t *testing.T) {
	for intent, w := range intentWeights {
		if err := w.Validate(); err != nil {
			t.Errorf("intent %s: %v", intent, err)
		}
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("intent %s weights sum to %f", intent, sum)
		}
	}
}

func TestWeightsValidateRejectsBadProfiles(t *testing.T) {
	bad := Weights{FeatureSimilarity: 0.5, FeatureProtein: 0.2}
	if err := bad.Validate(); err == nil {
		t.Error("under-weighted profile passed validation")
	}
	negative := Weights{FeatureSimilarity: 1.2, FeatureProtein: -0.2}
	if err := negative.Validate(); err == nil {
		t.Error("negative weight passed validation")
	}
}

func TestRankOrdersByScore(t *testing.T) {
	candidates := []domain.Candidate{
		{ID: "weak", Similarity: 0.5, Meta: domain.Metadata{GI: domain.GIHigh}},
		{ID: "strong", Similarity: 0.9, Meta: domain.Metadata{GI: domain.GILow, ProteinG: fptr(25)}},
	}
	scored, err := newTestRanker().Rank(context.Background(), candidates, domain.ConstraintSet{}, IntentGeneral)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if scored[0].ID != "strong" {
		t.Errorf("top candidate = %s, want strong", scored[0].ID)
	}
	if scored[0].ReRankScore <= scored[1].ReRankScore {
		t.Error("scores not descending")
	}
}

func TestRankMissingMetadataIsNeutral(t *testing.T) {
	scored, err := newTestRanker().Rank(context.Background(),
		[]domain.Candidate{{ID: "bare", Similarity: 0.8}},
		domain.ConstraintSet{}, IntentGeneral)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	fs := scored[0].FeatureScores
	for _, feature := range []string{FeatureProtein, FeatureGlycemic, FeatureBudget, FeaturePrepTime, FeatureCarbs} {
		if fs[feature] != neutralScore {
			t.Errorf("feature %s = %f, want neutral %f", feature, fs[feature], neutralScore)
		}
	}
}

func TestRankTieBreaksBySimilarityThenID(t *testing.T) {
	candidates := []domain.Candidate{
		{ID: "b", Similarity: 0.7},
		{ID: "a", Similarity: 0.7},
		{ID: "c", Similarity: 0.9},
	}
	// Identical metadata, so only similarity and ID can separate them.
	scored, err := newTestRanker().Rank(context.Background(), candidates, domain.ConstraintSet{}, IntentGeneral)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if scored[i].ID != id {
			t.Errorf("rank[%d] = %s, want %s", i, scored[i].ID, id)
		}
	}
}

func TestProteinScoreCapsAtCeiling(t *testing.T) {
	r := newTestRanker()
	if got := r.proteinScore(fptr(45)); got != 1.0 {
		t.Errorf("proteinScore(45) = %f, want capped 1.0", got)
	}
	if got := r.proteinScore(fptr(15)); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("proteinScore(15) = %f, want 0.5", got)
	}
}

func TestGlycemicScore(t *testing.T) {
	tests := []struct {
		gi   domain.GlycemicIndex
		want float64
	}{
		{domain.GILow, 1.0},
		{domain.GIMedium, 0.7},
		{domain.GIHigh, 0.3},
		{domain.GIUnknown, neutralScore},
	}
	for _, tt := range tests {
		if got := glycemicScore(tt.gi); got != tt.want {
			t.Errorf("glycemicScore(%q) = %f, want %f", tt.gi, got, tt.want)
		}
	}
}

func TestBudgetScoreDecay(t *testing.T) {
	budget := domain.BudgetRange{Max: 100}
	within := domain.Metadata{BudgetMax: fptr(80)}
	if got := budgetScore(within, budget); got != 1.0 {
		t.Errorf("within-budget score = %f, want 1.0", got)
	}
	over := domain.Metadata{BudgetMax: fptr(150)}
	if got := budgetScore(over, budget); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("1.5x budget score = %f, want 0.5", got)
	}
	far := domain.Metadata{BudgetMax: fptr(300)}
	if got := budgetScore(far, budget); got != 0 {
		t.Errorf("3x budget score = %f, want 0", got)
	}
}

func TestCarbScoreDirectionByMode(t *testing.T) {
	r := newTestRanker()
	low := fptr(10.0)
	high := fptr(55.0)

	if r.carbScore(low, true) <= r.carbScore(high, true) {
		t.Error("low-carb mode should prefer fewer carbs")
	}
	mid := fptr(30.0)
	if r.carbScore(mid, false) != 1.0 {
		t.Errorf("moderate mode midpoint score = %f, want 1.0", r.carbScore(mid, false))
	}
	if r.carbScore(mid, false) <= r.carbScore(high, false) {
		t.Error("moderate mode should peak at midpoint")
	}
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		name     string
		freeText string
		cs       domain.ConstraintSet
		want     Intent
	}{
		{"text protein", "need more protein in meals", domain.ConstraintSet{}, IntentHighProtein},
		{"text sugar", "managing blood sugar spikes", domain.ConstraintSet{}, IntentBloodSugar},
		{"text budget", "cheap meal options", domain.ConstraintSet{}, IntentBudget},
		{"low carb flag", "", domain.ConstraintSet{LowCarb: true}, IntentBloodSugar},
		{"macro target", "", domain.ConstraintSet{Macros: domain.MacroTargets{ProteinG: 25}}, IntentHighProtein},
		{"prep limit", "", domain.ConstraintSet{MaxPrepMins: 20}, IntentQuick},
		{"default", "what should I eat", domain.ConstraintSet{}, IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectIntent(tt.freeText, tt.cs); got != tt.want {
				t.Errorf("DetectIntent() = %s, want %s", got, tt.want)
			}
		})
	}
}
