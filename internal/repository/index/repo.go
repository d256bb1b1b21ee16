package index

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/db"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

// Hash field names used by the offline ingestion pipeline.
const (
	fieldContent     = "content"
	fieldDiet        = "diet"
	fieldRegion      = "region"
	fieldCategory    = "category"
	fieldIngredients = "ingredients"
	fieldProtein     = "protein_g"
	fieldCarbs       = "carbs_g"
	fieldFats        = "fats_g"
	fieldGI          = "glycemic_index"
	fieldBudgetMin   = "budget_min"
	fieldBudgetMax   = "budget_max"
	fieldPrepMins    = "prep_mins"
)

var returnFields = []string{
	"__vector_score",
	fieldContent, fieldDiet, fieldRegion, fieldCategory, fieldIngredients,
	fieldProtein, fieldCarbs, fieldFats, fieldGI,
	fieldBudgetMin, fieldBudgetMax, fieldPrepMins,
}

// Repository is the ANN index client. It maps raw hash fields into typed
// candidate metadata; malformed fields become "missing", never zero.
type Repository struct {
	store     db.Searcher
	indexName string
	keyPrefix string
	logger    *zap.Logger
}

var _ domain.IndexSearcher = (*Repository)(nil)

// New creates an index repository over the given store.
func New(store db.Searcher, indexName string, logger *zap.Logger) *Repository {
	return &Repository{
		store:     store,
		indexName: indexName,
		keyPrefix: indexName + ":",
		logger:    logger,
	}
}

// Search implements domain.IndexSearcher.
func (r *Repository) Search(ctx context.Context, vector []float32, k int) ([]domain.Candidate, error) {
	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName,
		Vector:       vector,
		K:            k,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w: %w", domain.ErrIndexUnavailable, err)
	}

	candidates := make([]domain.Candidate, 0, len(res.Entries))
	for _, e := range res.Entries {
		candidates = append(candidates, r.toCandidate(e))
	}
	return candidates, nil
}

func (r *Repository) toCandidate(e db.SearchEntry) domain.Candidate {
	meta := domain.Metadata{
		Diet:     domain.ParseDietType(e.Fields[fieldDiet]),
		Region:   strings.TrimSpace(e.Fields[fieldRegion]),
		Category: strings.TrimSpace(e.Fields[fieldCategory]),
		GI:       domain.ParseGlycemicIndex(e.Fields[fieldGI]),

		ProteinG:  r.parseFloat(e.Key, fieldProtein, e.Fields[fieldProtein]),
		CarbsG:    r.parseFloat(e.Key, fieldCarbs, e.Fields[fieldCarbs]),
		FatsG:     r.parseFloat(e.Key, fieldFats, e.Fields[fieldFats]),
		BudgetMin: r.parseFloat(e.Key, fieldBudgetMin, e.Fields[fieldBudgetMin]),
		BudgetMax: r.parseFloat(e.Key, fieldBudgetMax, e.Fields[fieldBudgetMax]),
		PrepMins:  r.parseInt(e.Key, fieldPrepMins, e.Fields[fieldPrepMins]),
	}
	if !meta.Diet.IsValid() {
		// Unrecognized diet tag is treated as untagged.
		meta.Diet = domain.DietAny
	}
	if raw := strings.TrimSpace(e.Fields[fieldIngredients]); raw != "" {
		parts := strings.Split(raw, ",")
		meta.Ingredients = make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				meta.Ingredients = append(meta.Ingredients, p)
			}
		}
	}

	return domain.Candidate{
		ID:         strings.TrimPrefix(e.Key, r.keyPrefix),
		Content:    e.Fields[fieldContent],
		Similarity: e.Score,
		Meta:       meta,
	}
}

// parseFloat returns nil for absent, empty, or malformed values.
func (r *Repository) parseFloat(key, field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		r.logger.Debug("malformed numeric metadata, treating as missing",
			zap.String("key", key), zap.String("field", field), zap.String("value", raw))
		return nil
	}
	return &v
}

func (r *Repository) parseInt(key, field, raw string) *int {
	f := r.parseFloat(key, field, raw)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}
