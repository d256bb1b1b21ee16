package domain

// Stage names. Each stage is an independently executed group of related
// queries against the same index.
const (
	StageMealTemplates        = "meal_templates"
	StageSymptomGuidance      = "symptom_guidance"
	StageLabGuidance          = "lab_guidance"
	StageIngredientSubstitute = "ingredient_substitutes"
	StageSupplements          = "supplements"
)

// Query is one search query string bound to a stage. Immutable once built.
type Query struct {
	Text  string
	Stage string
	TopK  int
}

// StageResult is the flat candidate set one stage produced. It is created
// once per stage per request and never mutated; later pipeline steps build
// new slices.
type StageResult struct {
	Stage         string
	Candidates    []Candidate
	QueriesIssued int
	Errors        []string
	ElapsedMs     int64
}

// Failed reports whether the stage produced nothing because every query
// errored out.
func (r *StageResult) Failed() bool {
	return len(r.Candidates) == 0 && len(r.Errors) > 0 && len(r.Errors) >= r.QueriesIssued
}
