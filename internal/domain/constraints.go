package domain

import "strings"

// DietType classifies a dietary pattern.
type DietType string

// Supported diet types.
const (
	DietAny           DietType = ""
	DietVegetarian    DietType = "vegetarian"
	DietVegan         DietType = "vegan"
	DietNonVegetarian DietType = "non-vegetarian"
	DietJain          DietType = "jain"
	DietEggetarian    DietType = "eggetarian"
)

// IsValid reports whether the diet type is a known value.
func (d DietType) IsValid() bool {
	switch d {
	case DietAny, DietVegetarian, DietVegan, DietNonVegetarian, DietJain, DietEggetarian:
		return true
	}
	return false
}

// ParseDietType normalizes a caller-supplied diet string.
func ParseDietType(s string) DietType {
	return DietType(strings.ToLower(strings.TrimSpace(s)))
}

// AllergenCategory names a group of allergen ingredients (keyword lists
// live in the filter pipeline, maintained as data).
type AllergenCategory string

// Supported allergen categories.
const (
	AllergenGluten    AllergenCategory = "gluten"
	AllergenDairy     AllergenCategory = "dairy"
	AllergenNuts      AllergenCategory = "nuts"
	AllergenSoy       AllergenCategory = "soy"
	AllergenShellfish AllergenCategory = "shellfish"
	AllergenEgg       AllergenCategory = "egg"
)

// BudgetRange is a currency-agnostic per-meal cost range. Max==0 means
// unconstrained above.
type BudgetRange struct {
	Min float64
	Max float64
}

// IsZero reports whether no budget constraint is set.
func (b BudgetRange) IsZero() bool { return b.Min == 0 && b.Max == 0 }

// MacroTargets are per-meal macro goals in grams. Zero target means the
// macro is unconstrained. Tolerance widens the accepted band on both sides.
type MacroTargets struct {
	ProteinG  float64
	CarbsG    float64
	FatsG     float64
	Tolerance float64
}

// IsZero reports whether no macro constraint is set.
func (m MacroTargets) IsZero() bool {
	return m.ProteinG == 0 && m.CarbsG == 0 && m.FatsG == 0
}

// ConstraintSet carries every structured filter/preference input attached to
// a request. All fields are optional; the zero value means unconstrained.
type ConstraintSet struct {
	Diet        DietType
	Allergens   []AllergenCategory
	Cuisines    []string
	Budget      BudgetRange
	Macros      MacroTargets
	MaxPrepMins int
	LowCarb     bool
}

// Clamp bounds for caller-supplied numerics.
const (
	maxBudgetValue  = 100000
	maxMacroGrams   = 500
	maxPrepMinutes  = 24 * 60
	maxToleranceVal = 1.0
)

// Clamp normalizes out-of-range numeric constraints in place. Minor caller
// errors are corrected rather than rejected so the pipeline stays usable.
func (c *ConstraintSet) Clamp() {
	if c.Budget.Min < 0 {
		c.Budget.Min = 0
	}
	if c.Budget.Max < 0 {
		c.Budget.Max = 0
	}
	if c.Budget.Max > maxBudgetValue {
		c.Budget.Max = maxBudgetValue
	}
	if c.Budget.Max > 0 && c.Budget.Min > c.Budget.Max {
		c.Budget.Min, c.Budget.Max = c.Budget.Max, c.Budget.Min
	}
	c.Macros.ProteinG = clampFloat(c.Macros.ProteinG, 0, maxMacroGrams)
	c.Macros.CarbsG = clampFloat(c.Macros.CarbsG, 0, maxMacroGrams)
	c.Macros.FatsG = clampFloat(c.Macros.FatsG, 0, maxMacroGrams)
	c.Macros.Tolerance = clampFloat(c.Macros.Tolerance, 0, maxToleranceVal)
	if c.MaxPrepMins < 0 {
		c.MaxPrepMins = 0
	}
	if c.MaxPrepMins > maxPrepMinutes {
		c.MaxPrepMins = maxPrepMinutes
	}
}

// Validate checks enum fields. Numeric fields are clamped, not rejected.
func (c *ConstraintSet) Validate() error {
	if !c.Diet.IsValid() {
		return ErrInvalidConstraints
	}
	return nil
}

// ActiveCount counts active constraint groups. It drives the per-query topK
// tier: tighter downstream filtering needs a larger candidate pool.
func (c *ConstraintSet) ActiveCount() int {
	n := 0
	if c.Diet != DietAny {
		n++
	}
	if len(c.Allergens) > 0 {
		n++
	}
	if len(c.Cuisines) > 0 {
		n++
	}
	if !c.Budget.IsZero() {
		n++
	}
	if !c.Macros.IsZero() {
		n++
	}
	if c.MaxPrepMins > 0 {
		n++
	}
	return n
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
