package querybuilder

import (
	"strings"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

// Per-query word bounds. Queries shorter than minQueryWords are padded with
// the domain qualifier; longer ones are cut at maxQueryWords.
const (
	minQueryWords = 4
	maxQueryWords = 8
)

// topK tiers by active-constraint count: tighter downstream filtering needs
// a larger candidate pool to leave enough survivors.
const (
	topKLoose  = 12 // ≤2 active constraints
	topKMedium = 22 // 3–4
	topKTight  = 32 // 5+
)

// StageQueries is one stage's ordered query set.
type StageQueries struct {
	Stage   string
	Queries []domain.Query
}

// Builder expands a structured request into per-stage query strings.
// Output is deterministic for identical inputs: stable ordering keeps tests
// reproducible and embedding-cache hit rates high.
type Builder struct{}

// New creates a query builder.
func New() *Builder { return &Builder{} }

// TopKFor returns the per-query candidate bound for a constraint set.
func TopKFor(c *domain.ConstraintSet) int {
	switch n := c.ActiveCount(); {
	case n >= 5:
		return topKTight
	case n >= 3:
		return topKMedium
	default:
		return topKLoose
	}
}

// Build produces the full stage/query plan for a request. Strict dietary
// modes (jain, vegan) are never baked into query text; the post-retrieval
// filter enforces them instead.
func (b *Builder) Build(req *domain.RetrievalRequest) []StageQueries {
	topK := TopKFor(&req.Constraints)
	region := primaryRegion(req.Constraints.Cuisines)
	category := req.Category
	if category == "" {
		category = "meal"
	}

	plan := []StageQueries{
		{Stage: domain.StageMealTemplates, Queries: b.mealTemplateQueries(req, region, category, topK)},
		{Stage: domain.StageSymptomGuidance, Queries: b.guidanceQueries(domain.StageSymptomGuidance,
			"pcos symptom management diet guidance", req.FreeText, topK)},
		{Stage: domain.StageLabGuidance, Queries: b.guidanceQueries(domain.StageLabGuidance,
			"diet guidance for lab report markers", req.FreeText, topK)},
		{Stage: domain.StageIngredientSubstitute, Queries: b.substituteQueries(region, topK)},
		{Stage: domain.StageSupplements, Queries: b.supplementQueries(topK)},
	}
	return plan
}

// mealTemplateQueries builds the meal-template stage. The diet word is
// included only for broadly represented diets; see Build.
func (b *Builder) mealTemplateQueries(req *domain.RetrievalRequest, region, category string, topK int) []domain.Query {
	diet := ""
	switch req.Constraints.Diet {
	case domain.DietVegetarian, domain.DietNonVegetarian, domain.DietEggetarian:
		diet = string(req.Constraints.Diet)
	}

	bases := []string{
		joinWords(region, diet, category, "meal ideas"),
		joinWords("traditional", region, category, "recipes"),
		joinWords("balanced", region, category, "meal plan"),
	}
	return b.expand(domain.StageMealTemplates, bases, topK)
}

func (b *Builder) guidanceQueries(stage, base, freeText string, topK int) []domain.Query {
	bases := []string{base}
	if ft := clampWords(strings.ToLower(freeText), maxQueryWords); ft != "" {
		bases = append(bases, padWords(ft, base))
	}
	return b.expand(stage, bases, topK)
}

func (b *Builder) substituteQueries(region string, topK int) []domain.Query {
	bases := []string{
		joinWords("healthy ingredient substitutes", region, "cooking"),
		"low glycemic ingredient swaps",
	}
	return b.expand(domain.StageIngredientSubstitute, bases, topK)
}

func (b *Builder) supplementQueries(topK int) []domain.Query {
	bases := []string{
		"evidence based supplements hormonal balance",
	}
	return b.expand(domain.StageSupplements, bases, topK)
}

// expand applies the synonym table: for each base query, up to
// maxVariantsPerQuery variants are appended after the original. Duplicates
// across bases are dropped, keeping first occurrence.
func (b *Builder) expand(stage string, bases []string, topK int) []domain.Query {
	seen := make(map[string]struct{}, len(bases)*(1+maxVariantsPerQuery))
	out := make([]domain.Query, 0, len(bases)*(1+maxVariantsPerQuery))

	add := func(text string) {
		text = strings.Join(strings.Fields(text), " ")
		if text == "" {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		out = append(out, domain.Query{Text: text, Stage: stage, TopK: topK})
	}

	for _, base := range bases {
		add(base)

		variants := 0
		for _, word := range strings.Fields(base) {
			if variants >= maxVariantsPerQuery {
				break
			}
			subs, ok := synonyms[word]
			if !ok {
				continue
			}
			for _, sub := range subs {
				if variants >= maxVariantsPerQuery {
					break
				}
				add(strings.Replace(base, word, sub, 1))
				variants++
			}
		}
	}
	return out
}

// primaryRegion picks the first cuisine tag, falling back to a generic
// qualifier so every query stays independently meaningful.
func primaryRegion(cuisines []string) string {
	for _, c := range cuisines {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			return c
		}
	}
	return "indian"
}

func joinWords(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return clampWords(strings.Join(kept, " "), maxQueryWords)
}

// padWords prefixes words of the domain qualifier until text reaches
// minQueryWords. A one-word free-text query like "acne" embeds poorly
// on its own; "pcos symptom management acne" carries enough context.
func padWords(text, qualifier string) string {
	words := strings.Fields(text)
	if len(words) >= minQueryWords {
		return text
	}
	qwords := strings.Fields(qualifier)
	need := minQueryWords - len(words)
	if need > len(qwords) {
		need = len(qwords)
	}
	padded := make([]string, 0, need+len(words))
	padded = append(padded, qwords[:need]...)
	padded = append(padded, words...)
	return strings.Join(padded, " ")
}

// clampWords cuts text to at most n words.
func clampWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
