package chi

import (
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

// RetrieveRequest is the POST /v1/retrieve body.
type RetrieveRequest struct {
	Category  string   `json:"category,omitempty"`
	FreeText  string   `json:"free_text,omitempty"`
	Diet      string   `json:"diet,omitempty"`
	Allergens []string `json:"allergens,omitempty"`
	Cuisines  []string `json:"cuisines,omitempty"`

	Budget *BudgetDTO `json:"budget,omitempty"`
	Macros *MacrosDTO `json:"macros,omitempty"`

	MaxPrepMins int  `json:"max_prep_mins,omitempty"`
	LowCarb     bool `json:"low_carb,omitempty"`
}

// BudgetDTO is a per-meal cost range. Max 0 means unconstrained above.
type BudgetDTO struct {
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`
}

// MacrosDTO carries per-meal macro targets in grams.
type MacrosDTO struct {
	ProteinG  float64 `json:"protein_g,omitempty"`
	CarbsG    float64 `json:"carbs_g,omitempty"`
	FatsG     float64 `json:"fats_g,omitempty"`
	Tolerance float64 `json:"tolerance,omitempty"`
}

// RetrieveResponse is the POST /v1/retrieve reply.
type RetrieveResponse struct {
	Items       []ContextItemDTO `json:"items"`
	SizeBytes   int              `json:"size_bytes"`
	Truncated   bool             `json:"truncated"`
	Degraded    bool             `json:"degraded"`
	StageErrors map[string]int   `json:"stage_errors,omitempty"`
}

// ContextItemDTO is one selected knowledge item.
type ContextItemDTO struct {
	ID         string             `json:"id"`
	Stage      string             `json:"stage"`
	Summary    string             `json:"summary"`
	Score      float64            `json:"score"`
	Similarity float64            `json:"similarity"`
	Features   map[string]float64 `json:"features,omitempty"`
}

// ErrorResponse is the uniform JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toDomainRequest(req RetrieveRequest) domain.RetrievalRequest {
	allergens := make([]domain.AllergenCategory, 0, len(req.Allergens))
	for _, a := range req.Allergens {
		allergens = append(allergens, domain.AllergenCategory(a))
	}

	cs := domain.ConstraintSet{
		Diet:        domain.ParseDietType(req.Diet),
		Allergens:   allergens,
		Cuisines:    req.Cuisines,
		MaxPrepMins: req.MaxPrepMins,
		LowCarb:     req.LowCarb,
	}
	if req.Budget != nil {
		cs.Budget = domain.BudgetRange{Min: req.Budget.Min, Max: req.Budget.Max}
	}
	if req.Macros != nil {
		cs.Macros = domain.MacroTargets{
			ProteinG:  req.Macros.ProteinG,
			CarbsG:    req.Macros.CarbsG,
			FatsG:     req.Macros.FatsG,
			Tolerance: req.Macros.Tolerance,
		}
	}

	return domain.RetrievalRequest{
		Category:    req.Category,
		FreeText:    req.FreeText,
		Constraints: cs,
	}
}

func toResponse(agg *domain.AggregatedContext) RetrieveResponse {
	items := make([]ContextItemDTO, 0, len(agg.Items))
	for _, it := range agg.Items {
		items = append(items, ContextItemDTO{
			ID:         it.ID,
			Stage:      it.Stage,
			Summary:    it.Summary,
			Score:      it.ReRankScore,
			Similarity: it.Similarity,
			Features:   it.FeatureScores,
		})
	}
	return RetrieveResponse{
		Items:       items,
		SizeBytes:   agg.TotalSizeBytes,
		Truncated:   agg.Truncated,
		Degraded:    agg.Degraded,
		StageErrors: agg.StageErrors,
	}
}
