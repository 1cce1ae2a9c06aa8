package foreign

import (
	"strings"

	"github.com/aiawk/aiawk/internal/runtime"
)

// Simulated is an offline provider that answers from keyword
// heuristics. It is the default when no API key is configured, so
// programs using ai_* functions stay runnable (and demoable) without
// network access. Responses are plausible, not accurate.
type Simulated struct{}

// NewSimulated creates a simulated provider.
func NewSimulated() *Simulated {
	return &Simulated{}
}

var simPositiveWords = []string{"love", "amazing", "great", "perfect", "excited", "beautiful"}
var simNegativeWords = []string{"hate", "terrible", "awful", "bad", "frustrated", "stressful"}

var simCategories = []struct {
	category string
	words    []string
}{
	{"science", []string{"discover", "species", "ocean", "earthquake"}},
	{"business", []string{"stock", "market", "economic", "budget", "layoffs"}},
	{"sports", []string{"championship", "basketball", "wins"}},
	{"technology", []string{"ai", "technology", "tech", "healthcare"}},
	{"politics", []string{"political", "leaders", "climate", "policies"}},
	{"entertainment", []string{"celebrity", "chef", "restaurant"}},
}

var simTranslations = []struct{ en, es string }{
	{"i love this", "me encanta esto"},
	{"hello", "hola"},
	{"good morning", "buenos días"},
	{"thank you", "gracias"},
	{"laptop", "portátil"},
	{"headphones", "auriculares"},
	{"phone", "teléfono"},
}

var simNameRegex = runtime.MustCompile(`[A-Z][a-z]+ [A-Z][a-z]+`)

// Prompt answers based on keywords in the prompt text.
func (s *Simulated) Prompt(system, user string) (string, error) {
	lower := strings.ToLower(user)

	switch {
	case strings.Contains(lower, "sentiment"):
		text := afterMarker(lower, "text:")
		if containsAny(text, simPositiveWords) {
			return "positive", nil
		}
		if containsAny(text, simNegativeWords) {
			return "negative", nil
		}
		return "neutral", nil

	case strings.Contains(lower, "classify") && strings.Contains(lower, "categories"):
		text := afterMarker(lower, "text:")
		for _, c := range simCategories {
			if containsAny(text, c.words) {
				return c.category, nil
			}
		}
		return "general", nil

	case strings.Contains(lower, "translate") && strings.Contains(lower, "spanish"):
		text := afterMarker(lower, ":")
		for _, tr := range simTranslations {
			if strings.Contains(text, tr.en) {
				return strings.ReplaceAll(text, tr.en, tr.es), nil
			}
		}
		return "traducción simulada", nil

	case strings.Contains(lower, "extract") && strings.Contains(lower, "person"):
		text := afterMarker(user, "Text:")
		locs := simNameRegex.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			return "none", nil
		}
		names := make([]string, len(locs))
		for i, loc := range locs {
			names[i] = text[loc[0]:loc[1]]
		}
		return strings.Join(names, ", "), nil

	case strings.Contains(lower, "summarize"):
		return "Brief summary of the content", nil

	case strings.Contains(lower, "math") || strings.Contains(lower, "problem"):
		if strings.Contains(lower, "15") && strings.Contains(lower, "7") {
			return "8", nil
		}
		return "42", nil

	case strings.Contains(lower, "true or false") || strings.Contains(lower, "fact"):
		if strings.Contains(lower, "pacific ocean") && strings.Contains(lower, "largest") {
			return "true", nil
		}
		if strings.Contains(lower, "cats") && strings.Contains(lower, "fly") {
			return "false", nil
		}
		return "uncertain", nil

	default:
		snippet := user
		if len(snippet) > 50 {
			snippet = snippet[:50]
		}
		return "AI-generated response: " + snippet + "...", nil
	}
}

func afterMarker(s, marker string) string {
	if i := strings.LastIndex(s, marker); i >= 0 {
		return strings.TrimSpace(s[i+len(marker):])
	}
	return s
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
