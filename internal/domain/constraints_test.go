package domain

import (
	"errors"
	"testing"
)

func TestClampFixesOutOfRangeValues(t *testing.T) {
	cs := ConstraintSet{
		Budget:      BudgetRange{Min: 800, Max: 200},
		Macros:      MacroTargets{ProteinG: -5, CarbsG: 9000, Tolerance: 3},
		MaxPrepMins: -10,
	}
	cs.Clamp()

	if cs.Budget.Min != 200 || cs.Budget.Max != 800 {
		t.Errorf("swapped budget = %+v", cs.Budget)
	}
	if cs.Macros.ProteinG != 0 {
		t.Errorf("negative protein = %f, want 0", cs.Macros.ProteinG)
	}
	if cs.Macros.CarbsG != maxMacroGrams {
		t.Errorf("carbs = %f, want clamped to %d", cs.Macros.CarbsG, maxMacroGrams)
	}
	if cs.Macros.Tolerance != maxToleranceVal {
		t.Errorf("tolerance = %f, want clamped to %f", cs.Macros.Tolerance, maxToleranceVal)
	}
	if cs.MaxPrepMins != 0 {
		t.Errorf("negative prep mins = %d, want 0", cs.MaxPrepMins)
	}
}

func TestValidateRejectsUnknownDiet(t *testing.T) {
	cs := ConstraintSet{Diet: DietType("carnivore")}
	if err := cs.Validate(); !errors.Is(err, ErrInvalidConstraints) {
		t.Fatalf("Validate() = %v, want ErrInvalidConstraints", err)
	}
	cs.Diet = DietJain
	if err := cs.Validate(); err != nil {
		t.Fatalf("Validate() = %v for valid diet", err)
	}
}

func TestActiveCount(t *testing.T) {
	tests := []struct {
		name string
		cs   ConstraintSet
		want int
	}{
		{"zero value", ConstraintSet{}, 0},
		{"diet only", ConstraintSet{Diet: DietVegan}, 1},
		{
			"all groups",
			ConstraintSet{
				Diet:        DietVegan,
				Allergens:   []AllergenCategory{AllergenNuts},
				Cuisines:    []string{"goan"},
				Budget:      BudgetRange{Max: 100},
				Macros:      MacroTargets{ProteinG: 20},
				MaxPrepMins: 30,
			},
			6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cs.ActiveCount(); got != tt.want {
				t.Errorf("ActiveCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseGlycemicIndex(t *testing.T) {
	tests := []struct {
		in   string
		want GlycemicIndex
	}{
		{"Low", GILow},
		{"  medium ", GIMedium},
		{"med", GIMedium},
		{"HIGH", GIHigh},
		{"sometimes", GIUnknown},
		{"", GIUnknown},
	}
	for _, tt := range tests {
		if got := ParseGlycemicIndex(tt.in); got != tt.want {
			t.Errorf("ParseGlycemicIndex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequestNormalize(t *testing.T) {
	req := RetrievalRequest{
		Category: "  Breakfast ",
		FreeText: "  tired all day  ",
		Constraints: ConstraintSet{
			MaxPrepMins: -1,
		},
	}
	req.Normalize()

	if req.Category != "breakfast" {
		t.Errorf("Category = %q", req.Category)
	}
	if req.FreeText != "tired all day" {
		t.Errorf("FreeText = %q", req.FreeText)
	}
	if req.Constraints.MaxPrepMins != 0 {
		t.Errorf("MaxPrepMins = %d, want clamped 0", req.Constraints.MaxPrepMins)
	}
}
