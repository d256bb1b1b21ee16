package filterpipe

import "github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"

// allergenKeywords maps each allergen category to the ingredient keywords
// that identify it. Matching is case-insensitive on word boundaries.
// Maintained as data so nutritionists can extend it without touching logic.
var allergenKeywords = map[domain.AllergenCategory][]string{
	domain.AllergenGluten: {
		"wheat", "atta", "maida", "semolina", "rava", "sooji",
		"barley", "rye", "seitan", "couscous", "dalia",
	},
	domain.AllergenDairy: {
		"milk", "paneer", "ghee", "butter", "curd", "yogurt", "yoghurt",
		"dahi", "cheese", "cream", "khoya", "buttermilk", "lassi",
	},
	domain.AllergenNuts: {
		"peanut", "peanuts", "groundnut", "almond", "almonds", "cashew",
		"cashews", "walnut", "walnuts", "pistachio", "hazelnut",
	},
	domain.AllergenSoy: {
		"soy", "soya", "soybean", "tofu", "edamame", "tempeh",
	},
	domain.AllergenShellfish: {
		"prawn", "prawns", "shrimp", "crab", "lobster", "clam",
		"mussel", "oyster", "squid",
	},
	domain.AllergenEgg: {
		"egg", "eggs", "omelette", "omelet", "mayonnaise",
	},
}

// dietAccepts maps a requested diet to the candidate diet tags it accepts.
// A candidate without a diet tag never passes an active diet constraint.
var dietAccepts = map[domain.DietType]map[domain.DietType]bool{
	domain.DietVegan: {
		domain.DietVegan: true,
	},
	domain.DietJain: {
		domain.DietJain: true,
	},
	domain.DietVegetarian: {
		domain.DietVegan:      true,
		domain.DietVegetarian: true,
		domain.DietJain:       true,
	},
	domain.DietEggetarian: {
		domain.DietVegan:      true,
		domain.DietVegetarian: true,
		domain.DietJain:       true,
		domain.DietEggetarian: true,
	},
	domain.DietNonVegetarian: {
		domain.DietVegan:         true,
		domain.DietVegetarian:    true,
		domain.DietJain:          true,
		domain.DietEggetarian:    true,
		domain.DietNonVegetarian: true,
	},
}
