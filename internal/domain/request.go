package domain

import "strings"

// RetrievalRequest is the validated caller intent driving one retrieval run.
type RetrievalRequest struct {
	// Category is the meal-time focus (breakfast, lunch, dinner, snack).
	// Empty means no meal-time focus.
	Category string
	// FreeText carries the user's symptom/lab context verbatim.
	FreeText    string
	Constraints ConstraintSet
}

// Normalize clamps constraints and canonicalizes text fields in place.
func (r *RetrievalRequest) Normalize() {
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.FreeText = strings.TrimSpace(r.FreeText)
	r.Constraints.Clamp()
}

// Validate reports configuration errors that must fail the request.
func (r *RetrievalRequest) Validate() error {
	return r.Constraints.Validate()
}
