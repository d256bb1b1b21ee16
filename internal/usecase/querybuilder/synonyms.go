package querybuilder

// synonyms maps a recognized query term to its expansion variants. Kept as
// data so the vocabulary can grow without touching builder logic. At most
// two variants per term are ever used; the original query is always kept.
var synonyms = map[string][]string{
	"breakfast":   {"morning meal", "nashta"},
	"lunch":       {"midday meal"},
	"dinner":      {"evening meal"},
	"snack":       {"light bite"},
	"meal":        {"dish"},
	"recipes":     {"preparations"},
	"substitutes": {"swaps", "alternatives"},
	"guidance":    {"advice"},
	"supplements": {"micronutrients"},
	"balanced":    {"wholesome"},
}

// maxVariantsPerQuery bounds synonym expansion per base query.
const maxVariantsPerQuery = 2
