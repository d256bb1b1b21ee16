package aggregate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/logger"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/metrics"
)

// maxExcerptBytes bounds the raw content portion of an item summary so a
// single verbose document cannot eat the whole context budget.
const maxExcerptBytes = 600

// StageSelection is one stage's final picks after filter, rank and
// diversity selection.
type StageSelection struct {
	Stage      string
	Items      []domain.ScoredCandidate
	ErrorCount int
	Lost       bool
}

// Aggregator merges per-stage selections into the final context under a
// byte budget.
type Aggregator struct {
	budgetBytes int
}

func New(budgetBytes int) *Aggregator {
	return &Aggregator{budgetBytes: budgetBytes}
}

// Merge combines selections in the given order, dropping duplicate IDs
// (the higher re-rank score wins) and appending serialized summaries until
// the byte budget is reached. Selections must arrive in a deterministic
// stage order; Merge preserves it.
func (a *Aggregator) Merge(ctx context.Context, selections []StageSelection) domain.AggregatedContext {
	log := logger.FromContext(ctx)

	out := domain.AggregatedContext{
		StageErrors: make(map[string]int),
	}
	best := make(map[string]int) // candidate ID -> index in out.Items

	// Stage health is recorded for every selection before any item is
	// serialized, so a budget-truncated context still reports the stages
	// that degraded behind it.
	for _, sel := range selections {
		if sel.ErrorCount > 0 {
			out.StageErrors[sel.Stage] = sel.ErrorCount
		}
		if sel.Lost {
			out.Degraded = true
		}
	}

	for _, sel := range selections {
		if out.Truncated {
			break
		}
		for _, item := range sel.Items {
			if idx, seen := best[item.ID]; seen {
				log.Debug("duplicate candidate across stages",
					zap.String("id", item.ID),
					zap.String("stage", sel.Stage),
					zap.String("kept_stage", out.Items[idx].Stage),
				)
				if item.ReRankScore > out.Items[idx].ReRankScore {
					size := len(out.Items[idx].Summary)
					summary := summarize(item, sel.Stage)
					if out.TotalSizeBytes-size+len(summary) > a.budgetBytes {
						continue
					}
					out.Items[idx] = domain.ContextItem{
						ScoredCandidate: item,
						Stage:           sel.Stage,
						Summary:         summary,
					}
					out.TotalSizeBytes += len(summary) - size
				}
				continue
			}

			summary := summarize(item, sel.Stage)
			if out.TotalSizeBytes+len(summary) > a.budgetBytes {
				out.Truncated = true
				metrics.ContextTruncatedTotal.Inc()
				log.Info("context budget reached",
					zap.Int("budget_bytes", a.budgetBytes),
					zap.Int("items", len(out.Items)),
				)
				break
			}
			best[item.ID] = len(out.Items)
			out.Items = append(out.Items, domain.ContextItem{
				ScoredCandidate: item,
				Stage:           sel.Stage,
				Summary:         summary,
			})
			out.TotalSizeBytes += len(summary)
		}
	}
	return out
}

// summarize renders one candidate for the generation prompt. Nutrition
// attributes always accompany the excerpt so the generator never sees
// bare text it could misattribute.
func summarize(item domain.ScoredCandidate, stage string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", stage, excerpt(item.Content))

	var attrs []string
	if item.Meta.ProteinG != nil {
		attrs = append(attrs, fmt.Sprintf("protein %.0fg", *item.Meta.ProteinG))
	}
	if item.Meta.CarbsG != nil {
		attrs = append(attrs, fmt.Sprintf("carbs %.0fg", *item.Meta.CarbsG))
	}
	if item.Meta.FatsG != nil {
		attrs = append(attrs, fmt.Sprintf("fats %.0fg", *item.Meta.FatsG))
	}
	if item.Meta.GI != domain.GIUnknown {
		attrs = append(attrs, "GI "+string(item.Meta.GI))
	}
	if item.Meta.BudgetMin != nil && item.Meta.BudgetMax != nil {
		attrs = append(attrs, fmt.Sprintf("budget %.0f-%.0f", *item.Meta.BudgetMin, *item.Meta.BudgetMax))
	}
	if item.Meta.Region != "" {
		attrs = append(attrs, "region "+item.Meta.Region)
	}
	if item.Meta.Diet != domain.DietAny {
		attrs = append(attrs, "diet "+string(item.Meta.Diet))
	}
	if len(attrs) > 0 {
		b.WriteString(strings.Join(attrs, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

func excerpt(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= maxExcerptBytes {
		return content
	}
	cut := content[:maxExcerptBytes]
	if idx := strings.LastIndexByte(cut, ' '); idx > maxExcerptBytes/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
