package domain

import "strings"

// GlycemicIndex is a coarse GI band.
type GlycemicIndex string

// Glycemic index bands. GIUnknown means the source item carried no GI tag.
const (
	GIUnknown GlycemicIndex = ""
	GILow     GlycemicIndex = "low"
	GIMedium  GlycemicIndex = "medium"
	GIHigh    GlycemicIndex = "high"
)

// ParseGlycemicIndex maps raw index metadata to a GI band. Unrecognized
// values are treated as unknown, never as a default band.
func ParseGlycemicIndex(s string) GlycemicIndex {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return GILow
	case "medium", "med":
		return GIMedium
	case "high":
		return GIHigh
	}
	return GIUnknown
}

// Metadata holds the semantic attributes used by filtering and ranking.
// Numeric fields are pointers: nil means "unknown", which ranks and filters
// differently from an explicit zero.
type Metadata struct {
	Diet        DietType
	Region      string
	Category    string
	Ingredients []string

	ProteinG *float64
	CarbsG   *float64
	FatsG    *float64

	GI GlycemicIndex

	BudgetMin *float64
	BudgetMax *float64

	PrepMins *int
}

// Candidate is one retrieved knowledge item. Similarity comes from the
// external index and is never recomputed locally.
type Candidate struct {
	ID         string
	Content    string
	Similarity float64
	Meta       Metadata
}

// ScoredCandidate is a candidate annotated by the re-ranker. FeatureScores
// keeps one entry per ranking feature for explainability and tests.
type ScoredCandidate struct {
	Candidate
	ReRankScore   float64
	FeatureScores map[string]float64
}
