// Package foreign resolves ai_* function names to prompt-template
// calls executed through a model provider. The evaluator treats these
// like built-ins with string arguments and a string result; a provider
// failure degrades to an empty result rather than aborting the run.
package foreign

// Provider is the interface for model providers.
type Provider interface {
	// Prompt sends a prompt to the model and returns the response.
	Prompt(system, user string) (string, error)
}
