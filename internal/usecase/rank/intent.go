package rank

import (
	"strings"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

// Intent is the dominant nutritional goal inferred from a request. It
// selects which ranking weight profile applies.
type Intent string

// Recognized intents.
const (
	IntentGeneral     Intent = "general"
	IntentHighProtein Intent = "high_protein"
	IntentBloodSugar  Intent = "blood_sugar"
	IntentBudget      Intent = "budget"
	IntentQuick       Intent = "quick"
)

var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentHighProtein, []string{"protein", "muscle", "satiety", "satiating"}},
	{IntentBloodSugar, []string{"sugar", "glycemic", "insulin", "diabetic", "diabetes", "glucose"}},
	{IntentBudget, []string{"budget", "cheap", "affordable", "inexpensive", "economical"}},
	{IntentQuick, []string{"quick", "fast", "easy", "instant", "minutes"}},
}

// DetectIntent infers the intent from free text first, then from the
// structured constraints. Text wins because it is the more explicit
// signal. Falls back to general.
func DetectIntent(freeText string, cs domain.ConstraintSet) Intent {
	text := strings.ToLower(freeText)
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.intent
			}
		}
	}

	switch {
	case cs.LowCarb:
		return IntentBloodSugar
	case cs.Macros.ProteinG > 0:
		return IntentHighProtein
	case !cs.Budget.IsZero():
		return IntentBudget
	case cs.MaxPrepMins > 0:
		return IntentQuick
	}
	return IntentGeneral
}
