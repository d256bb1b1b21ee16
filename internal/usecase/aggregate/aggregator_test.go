package aggregate

import (
	"context"
	"strings"
	"testing"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func item(id string, score float64, content string) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Candidate: domain.Candidate{
			ID:      id,
			Content: content,
			Meta: domain.Metadata{
				Region:   "goan",
				Diet:     domain.DietVegetarian,
				ProteinG: fptr(18),
				CarbsG:   fptr(35),
				GI:       domain.GILow,
			},
		},
		ReRankScore: score,
	}
}

func TestMergeDedupesKeepingHigherScore(t *testing.T) {
	agg := New(100000)
	out := agg.Merge(context.Background(), []StageSelection{
		{Stage: domain.StageMealTemplates, Items: []domain.ScoredCandidate{
			item("shared", 0.6, "poha with peanuts"),
			item("meals-only", 0.5, "ragi dosa"),
		}},
		{Stage: domain.StageSymptomGuidance, Items: []domain.ScoredCandidate{
			item("shared", 0.9, "poha with peanuts"),
		}},
	})

	if len(out.Items) != 2 {
		t.Fatalf("got %d items, want 2 after dedupe", len(out.Items))
	}
	for _, it := range out.Items {
		if it.ID == "shared" {
			if it.ReRankScore != 0.9 {
				t.Errorf("kept score %f for duplicate, want higher 0.9", it.ReRankScore)
			}
			if it.Stage != domain.StageSymptomGuidance {
				t.Errorf("kept stage %s, want the higher-scored stage", it.Stage)
			}
		}
	}
}

func TestMergeRespectsByteBudget(t *testing.T) {
	big := strings.Repeat("nutrition guidance text ", 20)
	agg := New(600)
	out := agg.Merge(context.Background(), []StageSelection{
		{Stage: domain.StageMealTemplates, Items: []domain.ScoredCandidate{
			item("a", 0.9, big),
			item("b", 0.8, big),
			item("c", 0.7, big),
		}},
	})

	if !out.Truncated {
		t.Error("Truncated = false, want true")
	}
	if out.TotalSizeBytes > 600 {
		t.Errorf("TotalSizeBytes = %d, exceeds budget 600", out.TotalSizeBytes)
	}
	if len(out.Items) == 0 {
		t.Error("budget too small admitted nothing; want at least one item")
	}
}

func TestMergeSizeMatchesSummaries(t *testing.T) {
	agg := New(100000)
	out := agg.Merge(context.Background(), []StageSelection{
		{Stage: domain.StageMealTemplates, Items: []domain.ScoredCandidate{
			item("a", 0.9, "moong dal chilla"),
			item("b", 0.8, "besan cheela with vegetables"),
		}},
	})

	total := 0
	for _, it := range out.Items {
		total += len(it.Summary)
	}
	if out.TotalSizeBytes != total {
		t.Errorf("TotalSizeBytes = %d, summaries total %d", out.TotalSizeBytes, total)
	}
}

func TestMergeCarriesStageErrorsAndDegraded(t *testing.T) {
	agg := New(100000)
	out := agg.Merge(context.Background(), []StageSelection{
		{Stage: domain.StageMealTemplates, Items: []domain.ScoredCandidate{item("a", 0.9, "x")}},
		{Stage: domain.StageLabGuidance, ErrorCount: 2, Lost: true},
	})

	if out.StageErrors[domain.StageLabGuidance] != 2 {
		t.Errorf("StageErrors = %v, want lab_guidance: 2", out.StageErrors)
	}
	if !out.Degraded {
		t.Error("Degraded = false, want true for a lost stage")
	}
}

func TestMergeTruncationKeepsLaterStageHealth(t *testing.T) {
	big := strings.Repeat("nutrition guidance text ", 20)
	agg := New(600)
	out := agg.Merge(context.Background(), []StageSelection{
		{Stage: domain.StageMealTemplates, Items: []domain.ScoredCandidate{
			item("a", 0.9, big),
			item("b", 0.8, big),
			item("c", 0.7, big),
		}},
		{Stage: domain.StageLabGuidance, ErrorCount: 3, Lost: true},
	})

	if !out.Truncated {
		t.Fatal("Truncated = false, want true")
	}
	if !out.Degraded {
		t.Error("Degraded = false although a later stage was lost")
	}
	if out.StageErrors[domain.StageLabGuidance] != 3 {
		t.Errorf("StageErrors = %v, want lab_guidance: 3 despite truncation", out.StageErrors)
	}
}

func TestSummarizeIncludesNutritionAttributes(t *testing.T) {
	s := summarize(item("a", 0.9, "palak paneer with brown rice"), domain.StageMealTemplates)

	for _, want := range []string{"palak paneer", "protein 18g", "carbs 35g", "GI low", "region goan", "diet vegetarian"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestSummarizeExcerptsLongContent(t *testing.T) {
	long := strings.Repeat("word ", 500)
	s := summarize(item("a", 0.9, long), domain.StageMealTemplates)
	if len(s) > maxExcerptBytes+200 {
		t.Errorf("summary length %d, excerpt not applied", len(s))
	}
	if !strings.Contains(s, "...") {
		t.Error("truncated excerpt missing ellipsis")
	}
}
