package filterpipe

import (
	"strings"
	"unicode"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

// defaultMacroTolerance widens macro target bands when the caller did not
// supply a tolerance of their own.
const defaultMacroTolerance = 0.25

// predicateDiet is named so the pipeline can single out its rejections;
// dropping a candidate over diet is the strictest call this package makes.
const predicateDiet = "diet"

// Predicate decides whether one candidate survives a constraint group.
// Active reports whether the constraint is set at all; inactive predicates
// are skipped and do not appear in survivor logs.
type Predicate struct {
	Name   string
	Active func(cs domain.ConstraintSet) bool
	Keep   func(c domain.Candidate, cs domain.ConstraintSet) bool
}

func defaultPredicates() []Predicate {
	return []Predicate{
		{
			Name:   predicateDiet,
			Active: func(cs domain.ConstraintSet) bool { return cs.Diet != domain.DietAny },
			Keep:   keepDiet,
		},
		{
			Name:   "allergens",
			Active: func(cs domain.ConstraintSet) bool { return len(cs.Allergens) > 0 },
			Keep:   keepAllergens,
		},
		{
			Name:   "cuisine",
			Active: func(cs domain.ConstraintSet) bool { return len(cs.Cuisines) > 0 },
			Keep:   keepCuisine,
		},
		{
			Name:   "budget",
			Active: func(cs domain.ConstraintSet) bool { return !cs.Budget.IsZero() },
			Keep:   keepBudget,
		},
		{
			Name:   "macros",
			Active: func(cs domain.ConstraintSet) bool { return !cs.Macros.IsZero() },
			Keep:   keepMacros,
		},
		{
			Name:   "prep_time",
			Active: func(cs domain.ConstraintSet) bool { return cs.MaxPrepMins > 0 },
			Keep:   keepPrepTime,
		},
	}
}

// keepDiet is the one strict predicate: an untagged candidate fails an
// active diet constraint because serving a wrong-diet meal is worse than
// serving nothing.
func keepDiet(c domain.Candidate, cs domain.ConstraintSet) bool {
	accepted, ok := dietAccepts[cs.Diet]
	if !ok {
		return true
	}
	return accepted[c.Meta.Diet]
}

func keepAllergens(c domain.Candidate, cs domain.ConstraintSet) bool {
	haystack := strings.ToLower(strings.Join(c.Meta.Ingredients, " ") + " " + c.Content)
	for _, allergen := range cs.Allergens {
		for _, kw := range allergenKeywords[allergen] {
			if containsWord(haystack, kw) {
				return false
			}
		}
	}
	return true
}

func keepCuisine(c domain.Candidate, cs domain.ConstraintSet) bool {
	if c.Meta.Region == "" {
		return true
	}
	region := strings.ToLower(c.Meta.Region)
	for _, cuisine := range cs.Cuisines {
		if region == strings.ToLower(strings.TrimSpace(cuisine)) {
			return true
		}
	}
	return false
}

func keepBudget(c domain.Candidate, cs domain.ConstraintSet) bool {
	if c.Meta.BudgetMin == nil && c.Meta.BudgetMax == nil {
		return true
	}
	if c.Meta.BudgetMax != nil && *c.Meta.BudgetMax < cs.Budget.Min {
		return false
	}
	if cs.Budget.Max > 0 && c.Meta.BudgetMin != nil && *c.Meta.BudgetMin > cs.Budget.Max {
		return false
	}
	return true
}

func keepMacros(c domain.Candidate, cs domain.ConstraintSet) bool {
	tol := cs.Macros.Tolerance
	if tol == 0 {
		tol = defaultMacroTolerance
	}
	if !withinBand(c.Meta.ProteinG, cs.Macros.ProteinG, tol) {
		return false
	}
	if !withinBand(c.Meta.CarbsG, cs.Macros.CarbsG, tol) {
		return false
	}
	if !withinBand(c.Meta.FatsG, cs.Macros.FatsG, tol) {
		return false
	}
	return true
}

func keepPrepTime(c domain.Candidate, cs domain.ConstraintSet) bool {
	if c.Meta.PrepMins == nil {
		return true
	}
	return *c.Meta.PrepMins <= cs.MaxPrepMins
}

// withinBand checks value against target*(1±tol). Unknown values and unset
// targets both pass.
func withinBand(value *float64, target, tol float64) bool {
	if target == 0 || value == nil {
		return true
	}
	lo := target * (1 - tol)
	hi := target * (1 + tol)
	return *value >= lo && *value <= hi
}

// containsWord reports whether word occurs in text on word boundaries.
// "nut" must not match "coconut" or "nutmeg".
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(word)
		if boundaryAt(text, idx-1) && boundaryAt(text, end) {
			return true
		}
		start = idx + 1
	}
}

func boundaryAt(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	r := rune(text[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
