package diversity

import (
	"context"
	"fmt"
	"testing"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func scored(id string, score float64, meta domain.Metadata) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Candidate:   domain.Candidate{ID: id, Meta: meta},
		ReRankScore: score,
	}
}

func TestSelectBounds(t *testing.T) {
	var ranked []domain.ScoredCandidate
	for i := 0; i < 20; i++ {
		ranked = append(ranked, scored(fmt.Sprintf("c%02d", i), 1.0-float64(i)*0.01, domain.Metadata{}))
	}

	sel := NewSelector(0.7)
	got := sel.Select(context.Background(), ranked, 5)
	if len(got) != 5 {
		t.Fatalf("selected %d, want 5", len(got))
	}

	// Every pick must come from the bounded pool.
	pool := make(map[string]struct{})
	for _, c := range ranked[:poolFactor*5] {
		pool[c.ID] = struct{}{}
	}
	for _, c := range got {
		if _, ok := pool[c.ID]; !ok {
			t.Errorf("pick %s is outside the candidate pool", c.ID)
		}
	}
}

func TestSelectFirstPickIsTopRanked(t *testing.T) {
	ranked := []domain.ScoredCandidate{
		scored("best", 0.9, domain.Metadata{Region: "goan"}),
		scored("second", 0.8, domain.Metadata{Region: "goan"}),
	}
	got := NewSelector(0.7).Select(context.Background(), ranked, 2)
	if got[0].ID != "best" {
		t.Errorf("first pick = %s, want best", got[0].ID)
	}
}

func TestSelectPrefersDiverseCandidates(t *testing.T) {
	goan := domain.Metadata{Region: "goan", Category: "breakfast", Diet: domain.DietVegetarian, ProteinG: fptr(20), CarbsG: fptr(30)}
	punjabi := domain.Metadata{Region: "punjabi", Category: "dinner", Diet: domain.DietVegan, ProteinG: fptr(5), CarbsG: fptr(55)}

	ranked := []domain.ScoredCandidate{
		scored("goan-1", 0.90, goan),
		scored("goan-2", 0.89, goan),
		scored("punjabi-1", 0.85, punjabi),
	}
	got := NewSelector(0.5).Select(context.Background(), ranked, 2)
	if got[1].ID != "punjabi-1" {
		t.Errorf("second pick = %s, want the diverse punjabi-1", got[1].ID)
	}
}

func TestSelectPureRelevanceKeepsRankOrder(t *testing.T) {
	ranked := []domain.ScoredCandidate{
		scored("a", 0.9, domain.Metadata{Region: "goan"}),
		scored("b", 0.8, domain.Metadata{Region: "goan"}),
		scored("c", 0.7, domain.Metadata{Region: "punjabi"}),
	}
	got := NewSelector(1.0).Select(context.Background(), ranked, 3)
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("pick[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestSelectHandlesSmallInput(t *testing.T) {
	sel := NewSelector(0.7)
	if got := sel.Select(context.Background(), nil, 5); got != nil {
		t.Errorf("Select(nil) = %v, want nil", got)
	}
	one := []domain.ScoredCandidate{scored("only", 0.5, domain.Metadata{})}
	if got := sel.Select(context.Background(), one, 5); len(got) != 1 {
		t.Errorf("selected %d from single candidate, want 1", len(got))
	}
}

func TestMetaSimilarityWeights(t *testing.T) {
	a := domain.Metadata{Region: "goan", Category: "breakfast", Diet: domain.DietVegan, ProteinG: fptr(10), CarbsG: fptr(20)}

	if got := metaSimilarity(a, a); got < 0.999 || got > 1.001 {
		t.Errorf("self similarity = %f, want 1.0", got)
	}

	b := domain.Metadata{Region: "punjabi", Category: "dinner", Diet: domain.DietNonVegetarian, ProteinG: fptr(40), CarbsG: fptr(80)}
	if got := metaSimilarity(a, b); got != 0 {
		t.Errorf("disjoint similarity = %f, want 0", got)
	}
}
