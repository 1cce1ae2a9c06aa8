package foreign

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aiawk/aiawk/internal/cache"
)

// systemPrompt is sent with every templated call. Short answers keep
// results usable as field values.
const systemPrompt = "You are a text-processing assistant. Answer concisely with only the requested value, no explanation."

// Func is a foreign function: string arguments in, string result out.
type Func func(args []string) (string, error)

// Registry resolves foreign function names. The evaluator consults it
// for any call-position name that is neither a user function nor a
// built-in; a miss there is the caller's undefined-function error.
type Registry struct {
	provider Provider
	store    cache.Store
	extra    map[string]Func
}

// NewRegistry creates a registry backed by the given provider and
// response store. A nil store disables caching.
func NewRegistry(provider Provider, store cache.Store) *Registry {
	return &Registry{
		provider: provider,
		store:    store,
		extra:    make(map[string]Func),
	}
}

// Register adds a custom foreign function. Custom functions shadow the
// built-in ai_* set and share the same response cache.
func (r *Registry) Register(name string, fn Func) {
	r.extra[name] = fn
}

// Resolve returns the foreign function bound to name. The returned
// Func consults the response cache before doing any work, so identical
// calls across records (or runs, with a persistent store) cost one
// provider round trip.
func (r *Registry) Resolve(name string) (Func, bool) {
	fn, ok := r.lookup(name)
	if !ok {
		return nil, false
	}
	return func(args []string) (string, error) {
		key := cache.Key(name, args)
		if r.store != nil {
			if v, hit, err := r.store.Get(key); err == nil && hit {
				return v, nil
			}
		}
		result, err := fn(args)
		if err != nil {
			return "", err
		}
		if r.store != nil {
			if err := r.store.Put(key, result); err != nil {
				return result, nil // a failed cache write is not a call failure
			}
		}
		return result, nil
	}, true
}

func (r *Registry) lookup(name string) (Func, bool) {
	if fn, ok := r.extra[name]; ok {
		return fn, true
	}
	if r.provider == nil {
		return nil, false
	}

	switch name {
	case "ai_call":
		return r.templated(1, 1, func(args []string) string {
			return args[0]
		}, nil), true

	case "ai_sentiment":
		return r.templated(1, 1, func(args []string) string {
			return "Analyze the sentiment of this text and respond with just one word: positive, negative, or neutral. Text: " + args[0]
		}, strings.ToLower), true

	case "ai_extract":
		return r.templated(2, 2, func(args []string) string {
			return fmt.Sprintf("Extract %s from this text. If not found, return 'none'. Text: %s", args[1], args[0])
		}, nil), true

	case "ai_classify":
		return r.templated(2, 2, func(args []string) string {
			return fmt.Sprintf("Classify this text into one of these categories: %s. Respond with just the category name. Text: %s", args[1], args[0])
		}, strings.ToLower), true

	case "ai_translate":
		return r.templated(1, 2, func(args []string) string {
			lang := "Spanish"
			if len(args) > 1 && args[1] != "" {
				lang = args[1]
			}
			return fmt.Sprintf("Translate this text to %s. Respond with just the translation: %s", lang, args[0])
		}, nil), true

	case "ai_summarize":
		return r.templated(1, 2, func(args []string) string {
			maxWords := 20
			if len(args) > 1 {
				if n, err := strconv.Atoi(strings.TrimSpace(args[1])); err == nil && n > 0 {
					maxWords = n
				}
			}
			return fmt.Sprintf("Summarize this text in %d words or less: %s", maxWords, args[0])
		}, nil), true

	case "ai_generate":
		return r.templated(1, -1, func(args []string) string {
			if len(args) == 1 {
				return "Generate text based on this template: " + args[0]
			}
			return fmt.Sprintf("Generate text based on this template: %s with arguments: %s",
				args[0], strings.Join(args[1:], ", "))
		}, nil), true

	case "ai_entity":
		return r.templated(1, 2, func(args []string) string {
			entityType := "person"
			if len(args) > 1 && args[1] != "" {
				entityType = args[1]
			}
			return fmt.Sprintf("Extract all %s entities from this text. List them separated by commas. Text: %s", entityType, args[0])
		}, nil), true

	case "ai_math_word_problem":
		return r.templated(1, 1, func(args []string) string {
			return "Solve this math problem and give just the numerical answer: " + args[0]
		}, nil), true

	case "ai_fact_check":
		return r.templated(1, 1, func(args []string) string {
			return "Is this statement likely true or false based on general knowledge? Respond with 'true', 'false', or 'uncertain': " + args[0]
		}, normalizeFactCheck), true
	}

	return nil, false
}

// templated builds a Func that formats a prompt and sends it through
// the provider. maxArgs < 0 means variadic.
func (r *Registry) templated(minArgs, maxArgs int, build func(args []string) string, post func(string) string) Func {
	return func(args []string) (string, error) {
		if len(args) < minArgs {
			return "", fmt.Errorf("expected at least %d argument(s), got %d", minArgs, len(args))
		}
		if maxArgs >= 0 && len(args) > maxArgs {
			return "", fmt.Errorf("expected at most %d argument(s), got %d", maxArgs, len(args))
		}
		result, err := r.provider.Prompt(systemPrompt, build(args))
		if err != nil {
			return "", err
		}
		result = strings.TrimSpace(result)
		if post != nil {
			result = post(result)
		}
		return result, nil
	}
}

func normalizeFactCheck(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "true"):
		return "true"
	case strings.Contains(lower, "false"):
		return "false"
	default:
		return "uncertain"
	}
}
